package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var ErrInvalidRecordData = errors.New("record data is not a JSON object")

// Field is a single named value inside a Record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered mapping from field name to field value. Field names are
// unique within one record and insertion order is preserved, giving deterministic
// field ordering in transformed output.
// A Record is not safe for concurrent mutation, but read-only use from multiple
// goroutines is fine.
type Record struct {
	fields []Field
	index  map[string]int
}

func NewRecord() *Record {
	return &Record{index: make(map[string]int)}
}

// NewRecordFromJSON creates a Record from a JSON object, preserving the field
// order of the document.
// Scalar JSON values are converted to Go types (string, float64, bool, nil);
// nested objects and arrays are kept as raw JSON strings.
func NewRecordFromJSON(data []byte) (*Record, error) {
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return nil, ErrInvalidRecordData
	}
	r := NewRecord()
	parsed.ForEach(func(key, value gjson.Result) bool {
		r.Set(key.String(), jsonValue(value))
		return true
	})
	return r, nil
}

// Set adds a new field or replaces the value of an existing one. Replacing keeps
// the field's original position.
func (r *Record) Set(name string, value any) {
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = value
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: value})
}

func (r *Record) Get(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

func (r *Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

func (r *Record) Len() int {
	return len(r.fields)
}

// Fields returns the record's fields in insertion order. The returned slice is
// shared with the record and must not be modified.
func (r *Record) Fields() []Field {
	return r.fields
}

func (r *Record) FieldNames() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// JSON serializes the record to a JSON object with fields in insertion order.
func (r *Record) JSON() ([]byte, error) {
	out := []byte("{}")
	var err error
	for _, f := range r.fields {
		if raw, ok := f.Value.(RawJSON); ok {
			out, err = sjson.SetRawBytes(out, jsonPathEscape(f.Name), []byte(raw))
		} else {
			out, err = sjson.SetBytes(out, jsonPathEscape(f.Name), f.Value)
		}
		if err != nil {
			return nil, fmt.Errorf("could not serialize field %s: %w", f.Name, err)
		}
	}
	return out, nil
}

func (r *Record) String() string {
	data, err := r.JSON()
	if err != nil {
		return fmt.Sprintf("invalid record (%v)", err)
	}
	return string(data)
}

// RawJSON holds an unparsed nested JSON value (object or array) of a record field.
type RawJSON string

func jsonValue(value gjson.Result) any {
	if value.IsObject() || value.IsArray() {
		return RawJSON(value.Raw)
	}
	return value.Value()
}

// jsonPathEscape escapes characters with path semantics in gjson/sjson syntax,
// so that field names like "user.name" address a flat key and not a nested one.
func jsonPathEscape(field string) string {
	var sb strings.Builder
	for _, r := range field {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
