package kafka_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Pranav452/delivery/internal/service/orders"
	"github.com/Pranav452/delivery/internal/transport/kafka"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		want    orders.Event
		wantErr error
	}{
		{
			name:  "snake case",
			value: `{"order_id":"  order-1  ","status":"  Created  ","created_at":"2025-01-02T03:04:05Z"}`,
			want:  orders.Event{OrderID: "order-1", Status: "created", CreatedAt: ts},
		},
		{
			name:  "camel case id",
			value: `{"orderId":"order-2","status":"DELIVERED"}`,
			want:  orders.Event{OrderID: "order-2", Status: "delivered"},
		},
		{
			name:  "snake case wins",
			value: `{"order_id":"a","orderId":"b","status":"picked"}`,
			want:  orders.Event{OrderID: "a", Status: "picked"},
		},
		{
			name:  "numeric id",
			value: `{"order_id":42,"status":"created"}`,
			want:  orders.Event{OrderID: "42", Status: "created"},
		},
		{
			name:  "numeric camel case id",
			value: `{"orderId":1700000000123,"status":"picked"}`,
			want:  orders.Event{OrderID: "1700000000123", Status: "picked"},
		},
		{
			name:  "null id falls back to camel case",
			value: `{"order_id":null,"orderId":"o-9","status":"picked"}`,
			want:  orders.Event{OrderID: "o-9", Status: "picked"},
		},
		{
			name:    "missing id",
			value:   `{"order_id":"   ","status":"created"}`,
			want:    orders.Event{Status: "created"},
			wantErr: kafka.ErrMissingOrderID,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := kafka.Decode([]byte(tc.value))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDecode_BadJSON(t *testing.T) {
	t.Parallel()

	_, err := kafka.Decode([]byte("{"))
	require.ErrorContains(t, err, "decode order message")

	_, err = kafka.Decode([]byte(`{"order_id":true,"status":"created"}`))
	require.ErrorContains(t, err, "decode order message")
}

func TestPermanent_WrapsAndUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("unsupported status")
	err := kafka.Permanent(cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, "permanent: unsupported status", err.Error())

	var perm kafka.PermanentError
	require.ErrorAs(t, fmt.Errorf("handle: %w", err), &perm)
	require.True(t, kafka.IsPermanent(fmt.Errorf("handle: %w", err)))
	require.False(t, kafka.IsPermanent(cause))
	require.Equal(t, "permanent error", kafka.PermanentError{}.Error())
}
