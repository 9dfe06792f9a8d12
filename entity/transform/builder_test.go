package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veildata/veil/entity"
)

var customerSpec = []byte(`
{
  "namespace": "acme",
  "pipelineIdSuffix": "customerrecords",
  "description": "De-identification of customer records",
  "version": 1,
  "dataPaths": [
    {
      "input": "email",
      "transforms": [
        {
          "type": "redactWithChar",
          "masks": [{"maskUntil": "@"}]
        }
      ]
    },
    {
      "input": "ssn",
      "output": "ssn_hash",
      "transforms": [{"type": "secureHash", "secret": "spec-test-secret"}]
    },
    {
      "input": "age",
      "transforms": [
        {
          "type": "bucket",
          "bucketRange": {"low": 0, "high": 100, "width": 10}
        }
      ]
    },
    {
      "input": "card",
      "transforms": [
        {
          "type": "fpe",
          "secret": "2b7e151628aed2a6abf7158809cf4f3c",
          "radix": 10
        }
      ]
    },
    {
      "input": "phone",
      "transforms": [{"type": "format", "regex": "[^\\d]", "replacement": ""}]
    },
    {
      "input": "status",
      "transforms": [{"type": "redactWithString", "text": "[removed]"}]
    },
    {
      "input": "password",
      "transforms": [{"type": "drop"}]
    },
    {"input": "*"}
  ]
}`)

func TestNewPipelineFromSpec(t *testing.T) {
	spec, err := entity.NewSpec(customerSpec)
	require.NoError(t, err)
	assert.Equal(t, "acme-customerrecords", spec.Id())

	p, err := NewPipelineFromSpec(spec)
	require.NoError(t, err)
	assert.Equal(t, "acme-customerrecords", p.Id())

	record := mustRecord(t,
		`{"email": "jane.doe@acme.io", "ssn": "123-45-6789", "age": 47, "card": "4111111111111111", "phone": "(555) 867-5309", "status": "gold member", "password": "hunter2", "note": "vip"}`)
	out, err := p.Transform(record, nil)
	require.NoError(t, err)

	email, _ := out.Get("email")
	assert.Equal(t, "XXXX.XXX@acme.io", email)
	hash, ok := out.Get("ssn_hash")
	assert.True(t, ok)
	assert.Len(t, hash, 64)
	age, _ := out.Get("age")
	assert.Equal(t, 40.0, age)
	card, _ := out.Get("card")
	assert.Len(t, card, 16)
	assert.NotEqual(t, "4111111111111111", card)
	phone, _ := out.Get("phone")
	assert.Equal(t, "5558675309", phone)
	status, _ := out.Get("status")
	assert.Equal(t, "[removed]", status)
	assert.False(t, out.Has("password"))
	note, _ := out.Get("note")
	assert.Equal(t, "vip", note)
	tPrintf("transformed: %v\n", out)
}

func TestNewPipelineFromSpecNested(t *testing.T) {
	specData := []byte(`
{
  "namespace": "acme",
  "pipelineIdSuffix": "conditional",
  "description": "",
  "version": 1,
  "dataPaths": [
    {
      "input": "name",
      "transforms": [
        {
          "type": "conditional",
          "conditionField": "consent",
          "regex": "^no$",
          "trueTransform": {"type": "fakeValue", "seed": 42, "method": "name"}
        }
      ]
    },
    {"input": "*"}
  ]
}`)
	spec, err := entity.NewSpec(specData)
	require.NoError(t, err)
	p, err := NewPipelineFromSpec(spec)
	require.NoError(t, err)

	out, err := p.Transform(mustRecord(t, `{"name": "Jane Doe", "consent": "no"}`), nil)
	require.NoError(t, err)
	name, _ := out.Get("name")
	assert.NotEqual(t, "Jane Doe", name)

	out, err = p.Transform(mustRecord(t, `{"name": "Jane Doe", "consent": "yes"}`), nil)
	require.NoError(t, err)
	name, _ = out.Get("name")
	assert.Equal(t, "Jane Doe", name)
}

func TestNewPipelineFromSpecErrors(t *testing.T) {
	// Transformer parameter errors are caught when building the pipeline
	specData := []byte(`
{
  "namespace": "acme",
  "pipelineIdSuffix": "badparams",
  "description": "",
  "version": 1,
  "dataPaths": [
    {
      "input": "card",
      "transforms": [{"type": "fpe", "secret": "nothex!", "radix": 10}]
    }
  ]
}`)
	spec, err := entity.NewSpec(specData)
	require.NoError(t, err)
	_, err = NewPipelineFromSpec(spec)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
