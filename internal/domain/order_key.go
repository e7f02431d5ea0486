package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errOrderKeyType = errors.New("order id must be a string or a number")

// OrderKey is an order id as clients send it: a JSON string or a JSON number. A number keeps
// its literal decimal text, so 42 and "42" name the same order. null decodes to "".
type OrderKey string

// UnmarshalJSON implements json.Unmarshaler.
func (k *OrderKey) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*k = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*k = OrderKey(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errOrderKeyType
	}
	*k = OrderKey(n.String())
	return nil
}

// String returns the id text.
func (k OrderKey) String() string { return string(k) }
