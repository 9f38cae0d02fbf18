package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// ID identifies a sale or stock log entry. Documents written by older
// clients carry numeric IDs (epoch milliseconds, sometimes with a
// fractional part); they decode to their literal decimal text and are
// written back as strings.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch v.(type) {
	case string, json.Number:
	default:
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(s)
	return nil
}
