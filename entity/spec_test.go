package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var specOk = []byte(`
{
  "namespace": "acme",
  "pipelineIdSuffix": "customerrecords",
  "description": "De-identification of customer records",
  "version": 1,
  "dataPaths": [
    {
      "input": "email",
      "transforms": [{"type": "redactWithChar", "char": "#"}]
    },
    {
      "input": "user_*",
      "output": "user",
      "transforms": [
        {"type": "secureHash", "secret": "s", "labels": ["email_address"], "minimumScore": 0.5}
      ]
    },
    {"input": "*"}
  ]
}`)

func TestSpecModel(t *testing.T) {
	spec, err := NewSpec(specOk)
	assert.NoError(t, err)
	require.NotNil(t, spec)
	assert.Equal(t, "acme-customerrecords", spec.Id())
	assert.Equal(t, 1, spec.Version)

	require.Len(t, spec.DataPaths, 3)
	dp := spec.DataPaths[1]
	assert.Equal(t, "user_*", dp.Input)
	assert.Equal(t, "user", dp.Output)
	require.Len(t, dp.Transforms, 1)
	ts := dp.Transforms[0]
	assert.Equal(t, "secureHash", ts.Type)
	assert.Equal(t, []string{"email_address"}, ts.Labels)
	require.NotNil(t, ts.MinimumScore)
	assert.Equal(t, 0.5, *ts.MinimumScore)

	err = spec.Validate()
	assert.NoError(t, err)

	// Round trip through the struct form keeps schema validity
	specBytes, err := json.Marshal(spec)
	assert.NoError(t, err)
	assert.NoError(t, validateRawJson(specBytes))
}

func TestSpecValidation(t *testing.T) {
	_, err := NewSpec(nil)
	assert.Error(t, err)

	// Missing required fields
	_, err = NewSpec([]byte(`{"namespace": "acme"}`))
	assert.Error(t, err)

	// Empty namespace
	_, err = NewSpec([]byte(`
{
  "namespace": "",
  "pipelineIdSuffix": "x",
  "description": "",
  "version": 1,
  "dataPaths": [{"input": "*"}]
}`))
	assert.Error(t, err)

	// No data paths
	_, err = NewSpec([]byte(`
{
  "namespace": "acme",
  "pipelineIdSuffix": "x",
  "description": "",
  "version": 1,
  "dataPaths": []
}`))
	assert.Error(t, err)

	// Unknown transform type is rejected by the schema enum
	_, err = NewSpec([]byte(`
{
  "namespace": "acme",
  "pipelineIdSuffix": "x",
  "description": "",
  "version": 1,
  "dataPaths": [
    {"input": "email", "transforms": [{"type": "rot13"}]}
  ]
}`))
	assert.Error(t, err)

	// Data path without input
	_, err = NewSpec([]byte(`
{
  "namespace": "acme",
  "pipelineIdSuffix": "x",
  "description": "",
  "version": 1,
  "dataPaths": [{"output": "y"}]
}`))
	assert.Error(t, err)
}

func TestSpecTransformParams(t *testing.T) {
	specData := []byte(`
{
  "namespace": "acme",
  "pipelineIdSuffix": "params",
  "description": "",
  "version": 1,
  "dataPaths": [
    {
      "input": "dob",
      "transforms": [
        {
          "type": "dateShift",
          "lowerRangeDays": -30,
          "upperRangeDays": 30,
          "secret": "s",
          "tweakField": "user_id",
          "dateFormat": "2006-01-02"
        }
      ]
    },
    {
      "input": "age",
      "transforms": [
        {
          "type": "bucket",
          "buckets": [
            {"min": 0, "max": 18, "label": "minor"},
            {"min": 18, "max": 120, "label": "adult"}
          ],
          "lowerOutlierLabel": "invalid"
        }
      ]
    },
    {
      "input": "email",
      "transforms": [
        {
          "type": "redactWithChar",
          "masks": [{"maskAfter": "@", "greedy": true}, {"startPos": 1, "endPos": -2}]
        }
      ]
    }
  ]
}`)
	spec, err := NewSpec(specData)
	require.NoError(t, err)

	ds := spec.DataPaths[0].Transforms[0]
	assert.Equal(t, -30, ds.LowerRangeDays)
	assert.Equal(t, 30, ds.UpperRangeDays)
	assert.Equal(t, "user_id", ds.TweakField)

	b := spec.DataPaths[1].Transforms[0]
	require.Len(t, b.Buckets, 2)
	assert.Equal(t, "minor", b.Buckets[0].Label)
	assert.Equal(t, "invalid", b.LowerOutlierLabel)
	assert.Nil(t, b.UpperOutlierLabel)

	masks := spec.DataPaths[2].Transforms[0].Masks
	require.Len(t, masks, 2)
	assert.Equal(t, "@", masks[0].MaskAfter)
	assert.True(t, masks[0].Greedy)
	require.NotNil(t, masks[1].StartPos)
	assert.Equal(t, 1, *masks[1].StartPos)
	require.NotNil(t, masks[1].EndPos)
	assert.Equal(t, -2, *masks[1].EndPos)
}
