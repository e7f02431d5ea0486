package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"

	"github.com/Pranav452/delivery/internal/service/orders"
	"github.com/Pranav452/delivery/internal/testutil/testlog"
)

type fakeSession struct {
	ctx context.Context

	mu     sync.Mutex
	marked int
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(*sarama.ConsumerMessage, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked++
}

func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) Commit()                                  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "" }
func (s *fakeSession) GenerationID() int32                      { return 0 }

func (s *fakeSession) MarkedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marked
}

type fakeClaim struct {
	ch chan *sarama.ConsumerMessage
}

func (c fakeClaim) Topic() string              { return "t" }
func (c fakeClaim) Partition() int32           { return 0 }
func (c fakeClaim) InitialOffset() int64       { return 0 }
func (c fakeClaim) HighWaterMarkOffset() int64 { return 0 }
func (c fakeClaim) Messages() <-chan *sarama.ConsumerMessage {
	return c.ch
}

func claimOf(values ...[]byte) fakeClaim {
	ch := make(chan *sarama.ConsumerMessage, len(values))
	for i, v := range values {
		ch <- &sarama.ConsumerMessage{Value: v, Offset: int64(i)}
	}
	close(ch)
	return fakeClaim{ch: ch}
}

func encode(t *testing.T, m OrderMessage) []byte {
	t.Helper()
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return b
}

func TestConsumeClaim_BadJSON_Skips(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, orders.Event) error {
			t.Fatal("handler must not be called")
			return nil
		},
	}
	h := &groupHandler{c: c}
	sess := &fakeSession{ctx: context.Background()}

	err := h.ConsumeClaim(sess, claimOf([]byte("not-json")))
	require.NoError(t, err)
	require.Equal(t, 1, sess.MarkedCount())
	require.True(t, rec.Has("kafka message dropped"))
}

func TestConsumeClaim_EmptyOrderID_Skips(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	calls := 0
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, orders.Event) error {
			calls++
			return nil
		},
	}
	h := &groupHandler{c: c}
	sess := &fakeSession{ctx: context.Background()}

	err := h.ConsumeClaim(sess, claimOf(encode(t, OrderMessage{OrderID: "   ", Status: "created"})))
	require.NoError(t, err)
	require.Equal(t, 1, sess.MarkedCount())
	require.Equal(t, 0, calls)
	require.True(t, rec.Has("kafka message dropped"))
}

func TestConsumeClaim_PermanentError_SkipsAndMarks(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, orders.Event) error {
			return Permanent(errors.New("unsupported"))
		},
	}
	h := &groupHandler{c: c}
	sess := &fakeSession{ctx: context.Background()}

	dto := OrderMessage{OrderID: "o1", Status: "created", CreatedAt: time.Now().UTC()}
	err := h.ConsumeClaim(sess, claimOf(encode(t, dto), encode(t, dto)))
	require.NoError(t, err)
	require.Equal(t, 2, sess.MarkedCount())
	require.True(t, rec.Has("kafka handle failed, skipping message"))
}

func TestConsumeClaim_TransientError_StopsWithoutMarking(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	sentinel := errors.New("connection refused")
	calls := 0
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, orders.Event) error {
			calls++
			return sentinel
		},
	}
	h := &groupHandler{c: c}
	sess := &fakeSession{ctx: context.Background()}

	dto := OrderMessage{OrderID: "o1", Status: "created"}
	err := h.ConsumeClaim(sess, claimOf(encode(t, dto), encode(t, dto)))
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, 1, calls)
	require.Zero(t, sess.MarkedCount())
	require.True(t, rec.Has("kafka handle failed, will retry"))
}

func TestConsumeClaim_Success_Marks(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	var got []orders.Event
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(_ context.Context, ev orders.Event) error {
			got = append(got, ev)
			return nil
		},
	}
	h := &groupHandler{c: c}
	sess := &fakeSession{ctx: context.Background()}

	err := h.ConsumeClaim(sess, claimOf(
		encode(t, OrderMessage{OrderID: " o1 ", Status: "created"}),
		encode(t, OrderMessage{OrderID: "o1", Status: "delivered"}),
		[]byte(`{"orderId":"o2","status":" Cancelled "}`),
		[]byte(`{"order_id":77,"status":"created"}`),
	))
	require.NoError(t, err)
	require.Equal(t, 4, sess.MarkedCount())
	require.Len(t, got, 4)
	require.Equal(t, "77", got[3].OrderID)
	require.Equal(t, "o1", got[0].OrderID)
	require.Equal(t, "delivered", got[1].Status)
	require.Equal(t, orders.Event{OrderID: "o2", Status: "cancelled"}, got[2])
}
