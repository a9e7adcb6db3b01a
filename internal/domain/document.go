package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// IDField is the JSON key under which a document's identifier is exposed.
const IDField = "_id"

// Document is a schemaless record stored in a named collection.
type Document struct {
	ID     string
	Fields map[string]any
}

// MarshalJSON flattens the document so the id sits next to its fields.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		out[k] = v
	}
	out[IDField] = d.ID
	return json.Marshal(out)
}

// SetFields assigns every given field on the document, leaving other keys
// untouched. It reports whether any stored value actually changed.
func (d *Document) SetFields(fields map[string]any) (bool, error) {
	if d.Fields == nil {
		d.Fields = make(map[string]any, len(fields))
	}
	changed := false
	for k, v := range fields {
		old, ok := d.Fields[k]
		if !ok {
			changed = true
		} else {
			same, err := sameJSON(old, v)
			if err != nil {
				return false, fmt.Errorf("compare field %q: %w", k, err)
			}
			if !same {
				changed = true
			}
		}
		d.Fields[k] = v
	}
	return changed, nil
}

func sameJSON(a, b any) (bool, error) {
	ab, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}

// UpdateResult reports the outcome of a field update.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// CollectionRepository is a document store bound to a single collection.
// Delete of a missing document is not an error.
type CollectionRepository interface {
	Insert(ctx context.Context, fields map[string]any) (*Document, error)
	List(ctx context.Context) ([]Document, error)
	GetByID(ctx context.Context, id string) (*Document, error)
	SetFields(ctx context.Context, id string, fields map[string]any) (UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh opaque document identifier.
func NewID() string {
	return uuid.NewString()
}

// ParseID validates an identifier and returns its canonical form.
func ParseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return u.String(), nil
}

// EncodeFields serializes document fields for storage.
func EncodeFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	return json.Marshal(fields)
}

// DecodeFields parses a stored document body. Numbers are kept as
// json.Number so they round-trip exactly.
func DecodeFields(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
