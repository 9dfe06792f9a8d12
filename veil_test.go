package veil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pipelineSpec = []byte(`
{
  "namespace": "acme",
  "pipelineIdSuffix": "customerrecords",
  "description": "De-identification of customer records",
  "version": 1,
  "dataPaths": [
    {
      "input": "*",
      "transforms": [
        {
          "type": "redactWithLabel",
          "labels": ["email_address", "phone_number"],
          "minimumScore": 0.5
        }
      ]
    }
  ]
}`)

var reversibleSpec = []byte(`
{
  "namespace": "acme",
  "pipelineIdSuffix": "cards",
  "description": "",
  "version": 1,
  "dataPaths": [
    {
      "input": "card",
      "transforms": [
        {"type": "fpe", "secret": "2b7e151628aed2a6abf7158809cf4f3c", "radix": 10}
      ]
    },
    {"input": "*"}
  ]
}`)

func TestNewPipeline(t *testing.T) {
	pipeline, err := NewPipeline(pipelineSpec)
	assert.NoError(t, err)
	require.NotNil(t, pipeline)

	_, err = NewPipeline([]byte(`{"namespace": "broken"}`))
	assert.ErrorIs(t, err, ErrInvalidPipelineSpec)
	_, err = NewPipeline(nil)
	assert.ErrorIs(t, err, ErrInvalidPipelineSpec)
}

func TestValidatePipelineSpec(t *testing.T) {
	pipelineId, err := ValidatePipelineSpec(pipelineSpec)
	assert.NoError(t, err)
	assert.Equal(t, "acme-customerrecords", pipelineId)

	// Parameter errors are caught at validation, not at transform time
	_, err = ValidatePipelineSpec([]byte(`
{
  "namespace": "acme",
  "pipelineIdSuffix": "bad",
  "description": "",
  "version": 1,
  "dataPaths": [
    {"input": "card", "transforms": [{"type": "fpe", "secret": "nothex!", "radix": 10}]}
  ]
}`))
	assert.ErrorIs(t, err, ErrInvalidPipelineSpec)
}

func TestTransformJSON(t *testing.T) {
	pipeline, err := NewPipeline(pipelineSpec)
	require.NoError(t, err)

	// Plain record without metadata: entity-level transforms find no labels
	out, err := TransformJSON(pipeline, []byte(`{"email": "jane@acme.io"}`))
	assert.NoError(t, err)
	assert.Equal(t, `{"email":"jane@acme.io"}`, string(out))

	// Enveloped record from the labeling service
	out, err = TransformJSON(pipeline, []byte(`
{
  "data": {"email": "jane@acme.io", "note": "hello"},
  "metadata": {
    "record_id": "rec-0001",
    "fields": {
      "email": {"ner": {"labels": [{"label": "email_address", "score": 0.9}]}},
      "note": {"ner": {"labels": [{"label": "email_address", "score": 0.2}]}}
    }
  }
}`))
	assert.NoError(t, err)
	assert.Equal(t,
		`{"data":{"email":"EMAIL_ADDRESS","note":"hello"},"metadata":{"record_id":"rec-0001"}}`,
		string(out))

	_, err = TransformJSON(pipeline, []byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidRecordData)
}

func TestRestoreJSON(t *testing.T) {
	pipeline, err := NewPipeline(reversibleSpec)
	require.NoError(t, err)

	src := []byte(`{"card":"4111111111111111","note":"ok"}`)
	transformed, err := TransformJSON(pipeline, src)
	require.NoError(t, err)
	assert.NotEqual(t, string(src), string(transformed))

	restored, err := RestoreJSON(pipeline, transformed)
	assert.NoError(t, err)
	assert.Equal(t, string(src), string(restored))
}

func TestNewClientConfig(t *testing.T) {
	_, err := NewClient(nil)
	assert.ErrorIs(t, err, ErrConfigNotInitialized)

	config := NewConfig()
	assert.Equal(t, defaultEndpoint, config.API.Endpoint)
	assert.Equal(t, defaultTimeoutSec, config.API.TimeoutSec)
	assert.Equal(t, defaultPollIntervalSec, config.Ops.PollIntervalSec)

	// API key is required
	_, err = NewClient(config)
	assert.Error(t, err)

	config.API.APIKey = "test-key"
	client, err := NewClient(config)
	assert.NoError(t, err)
	assert.NotNil(t, client)
}
