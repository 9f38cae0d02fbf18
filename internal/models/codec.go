package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrCorruptData is returned when a stored or remote document cannot be
// decoded or fails schema validation.
var ErrCorruptData = errors.New("models: corrupt data")

var validate = validator.New()

// ValidationError describes the first schema violation found in a document.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("models: validation failed for %s: %s", e.Field, e.Message)
}

// structError converts the first validator failure into a ValidationError.
func structError(name string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return ValidationError{Field: verrs[0].Namespace(), Message: "failed " + verrs[0].Tag()}
	}
	return ValidationError{Field: name, Message: err.Error()}
}

// Validate checks a single product against the schema.
func (p Product) Validate() error {
	if err := structError("product", p); err != nil {
		return err
	}
	if p.Price.IsNegative() {
		return ValidationError{Field: "Product.Price", Message: "must not be negative"}
	}
	return nil
}

// Validate checks the snapshot against the schema and the cross-record
// invariants (unique IDs, unique usernames, non-negative money).
func (s *Snapshot) Validate() error {
	if err := structError("snapshot", s); err != nil {
		return err
	}

	productIDs := make(map[int]bool, len(s.Products))
	for i, p := range s.Products {
		if productIDs[p.ID] {
			return ValidationError{Field: fmt.Sprintf("products[%d].id", i), Message: fmt.Sprintf("duplicate id %d", p.ID)}
		}
		productIDs[p.ID] = true
		if p.Price.IsNegative() {
			return ValidationError{Field: fmt.Sprintf("products[%d].price", i), Message: "must not be negative"}
		}
	}

	userIDs := make(map[int]bool, len(s.Users))
	usernames := make(map[string]bool, len(s.Users))
	for i, u := range s.Users {
		if userIDs[u.ID] {
			return ValidationError{Field: fmt.Sprintf("users[%d].id", i), Message: fmt.Sprintf("duplicate id %d", u.ID)}
		}
		if usernames[u.Username] {
			return ValidationError{Field: fmt.Sprintf("users[%d].username", i), Message: fmt.Sprintf("duplicate username %q", u.Username)}
		}
		userIDs[u.ID] = true
		usernames[u.Username] = true
		if u.PasswordHash == "" && u.Password == "" {
			return ValidationError{Field: fmt.Sprintf("users[%d]", i), Message: "missing credential"}
		}
	}

	for i, sale := range s.Sales {
		for j, item := range sale.Items {
			if item.Price.IsNegative() {
				return ValidationError{Field: fmt.Sprintf("sales[%d].items[%d].price", i, j), Message: "must not be negative"}
			}
		}
	}

	return nil
}

// EncodeSnapshot serializes the whole snapshot to JSON.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	s.normalize()
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses and validates a JSON snapshot. Any failure is
// reported as ErrCorruptData.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptData, err)
	}
	return &s, nil
}

// EncodeSyncConfig serializes the remote sync configuration.
func EncodeSyncConfig(c *RemoteSyncConfig) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync config: %w", err)
	}
	return data, nil
}

// DecodeSyncConfig parses a stored remote sync configuration.
func DecodeSyncConfig(data []byte) (*RemoteSyncConfig, error) {
	var c RemoteSyncConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	switch c.Provider {
	case "", ProviderGist, ProviderSheets:
	default:
		return nil, fmt.Errorf("%w: unknown sync provider %q", ErrCorruptData, c.Provider)
	}
	return &c, nil
}
