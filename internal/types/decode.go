package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MissingFieldError reports a required key that was absent or null.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field `%s`", e.Field)
}

var null = []byte("null")

// requireKeys fails unless data is a JSON object holding every key with a
// non-null value.
func requireKeys(data []byte, keys ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("expected a JSON object, got null")
	}
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), null) {
			return &MissingFieldError{Field: k}
		}
	}
	return nil
}
