package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFromJSON(t *testing.T) {
	record, err := NewRecordFromJSON([]byte(
		`{"name": "Jane", "age": 47, "active": true, "score": null, "tags": ["a", "b"], "address": {"city": "Berlin"}}`))
	require.NoError(t, err)
	assert.Equal(t, 6, record.Len())

	// Document field order is preserved
	assert.Equal(t, []string{"name", "age", "active", "score", "tags", "address"}, record.FieldNames())

	name, ok := record.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Jane", name)
	age, _ := record.Get("age")
	assert.Equal(t, 47.0, age)
	active, _ := record.Get("active")
	assert.Equal(t, true, active)
	score, ok := record.Get("score")
	assert.True(t, ok)
	assert.Nil(t, score)

	// Nested values stay raw
	tags, _ := record.Get("tags")
	assert.Equal(t, RawJSON(`["a", "b"]`), tags)

	_, ok = record.Get("missing")
	assert.False(t, ok)

	// Only JSON objects qualify as records
	_, err = NewRecordFromJSON([]byte(`["not", "an", "object"]`))
	assert.ErrorIs(t, err, ErrInvalidRecordData)
	_, err = NewRecordFromJSON([]byte(`"scalar"`))
	assert.ErrorIs(t, err, ErrInvalidRecordData)
}

func TestRecordSet(t *testing.T) {
	record := NewRecord()
	record.Set("a", 1)
	record.Set("b", 2)
	record.Set("a", 10)

	// Replacing keeps the original position
	assert.Equal(t, []string{"a", "b"}, record.FieldNames())
	v, _ := record.Get("a")
	assert.Equal(t, 10, v)
	assert.True(t, record.Has("b"))
	assert.Equal(t, 2, record.Len())
}

func TestRecordJSON(t *testing.T) {
	record, err := NewRecordFromJSON([]byte(
		`{"name": "Jane", "age": 47, "address": {"city":"Berlin"}, "note": null}`))
	require.NoError(t, err)
	data, err := record.JSON()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Jane","age":47,"address":{"city":"Berlin"},"note":null}`, string(data))

	// Field names with path characters serialize as flat keys
	record = NewRecord()
	record.Set("user.name", "jane")
	data, err = record.JSON()
	require.NoError(t, err)
	assert.Equal(t, `{"user.name":"jane"}`, string(data))
	roundTrip, err := NewRecordFromJSON(data)
	require.NoError(t, err)
	v, ok := roundTrip.Get("user.name")
	assert.True(t, ok)
	assert.Equal(t, "jane", v)
}

func TestRecordMeta(t *testing.T) {
	meta, err := NewRecordMetaFromJSON([]byte(`
{
  "email": {
    "ner": {
      "labels": [
        {"label": "email_address", "score": 0.9, "start": 0, "end": 16},
        {"label": "generic_key", "score": 0.4}
      ]
    }
  },
  "note": {}
}`))
	require.NoError(t, err)

	fm := meta.Field("email")
	require.NotNil(t, fm)
	require.Len(t, fm.Labels, 2)
	assert.Equal(t, Label{Name: "email_address", Score: 0.9}, fm.Labels[0])

	label, ok := fm.FirstLabel(nil)
	assert.True(t, ok)
	assert.Equal(t, "email_address", label.Name)

	minScore := ScoreMax
	_, ok = fm.FirstLabel(&minScore)
	assert.False(t, ok)

	// Fields without labels and unknown fields are nil safe
	fm = meta.Field("note")
	require.NotNil(t, fm)
	_, ok = fm.FirstLabel(nil)
	assert.False(t, ok)
	assert.Nil(t, meta.Field("missing"))
	_, ok = meta.Field("missing").FirstLabel(nil)
	assert.False(t, ok)

	var nilMeta RecordMeta
	assert.Nil(t, nilMeta.Field("x"))

	_, err = NewRecordMetaFromJSON([]byte(`[]`))
	assert.ErrorIs(t, err, ErrInvalidRecordData)
}
