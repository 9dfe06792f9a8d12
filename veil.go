// Package veil is a client library for the Veil data-privacy service,
// combining a remote REST API client (projects, record labeling, jobs) with a
// fully client-side record transformation pipeline (redaction, hashing,
// deterministic fake values, bucketing, date shifting and format-preserving
// encryption).
package veil

import (
	"errors"
	"fmt"

	"github.com/veildata/veil/entity"
	"github.com/veildata/veil/entity/transform"
)

// Error values returned by the Veil API. Many of these errors also carry
// additional details about the error; matching can still be done with
// 'if errors.Is(err, ErrInvalidPipelineSpec)' etc. due to error wrapping.
var (
	ErrConfigNotInitialized = errors.New("veil.Config needs to be created with NewConfig()")
	ErrInvalidPipelineSpec  = errors.New("pipeline specification is not valid")
	ErrInvalidRecordData    = errors.New("record data is not valid")
)

// NewPipeline validates the JSON pipeline spec and builds it into a live
// transform pipeline. The returned pipeline is immutable and safe for
// concurrent use.
func NewPipeline(specData []byte) (*transform.Pipeline, error) {
	spec, err := entity.NewSpec(specData)
	if err != nil {
		return nil, errWithDetails(ErrInvalidPipelineSpec, err)
	}
	pipeline, err := transform.NewPipelineFromSpec(spec)
	if err != nil {
		return nil, errWithDetails(ErrInvalidPipelineSpec, err)
	}
	return pipeline, nil
}

// ValidatePipelineSpec returns the pipeline ID of the provided spec, or an
// error if the spec is invalid. The full transformer configs are built as part
// of validation, so parameter errors (bad keys, empty bucket ranges, etc.) are
// caught here and not at transform time.
func ValidatePipelineSpec(specData []byte) (pipelineId string, err error) {
	spec, err := entity.NewSpec(specData)
	if err != nil {
		return "", errWithDetails(ErrInvalidPipelineSpec, err)
	}
	if _, err = transform.NewPipelineFromSpec(spec); err != nil {
		return "", errWithDetails(ErrInvalidPipelineSpec, err)
	}
	return spec.Id(), nil
}

// TransformJSON runs one record payload through the pipeline. The payload can
// be a plain JSON object or a labeling service envelope ({"data": ...,
// "metadata": {...}}); envelope payloads have their field metadata applied for
// entity-level transforms, and the output is wrapped in the same shape as the
// input.
func TransformJSON(pipeline *transform.Pipeline, payload []byte) ([]byte, error) {
	p, err := entity.NewPayload(payload)
	if err != nil {
		return nil, errWithDetails(ErrInvalidRecordData, err)
	}
	record, err := pipeline.Transform(p.Record, p.Meta)
	if err != nil {
		return nil, err
	}
	return p.WithRecord(record).JSON()
}

// RestoreJSON reverses a previously transformed record payload. Fails with
// transform.ErrNotReversible if the pipeline contains irreversible
// transformers on any matched path.
func RestoreJSON(pipeline *transform.Pipeline, payload []byte) ([]byte, error) {
	p, err := entity.NewPayload(payload)
	if err != nil {
		return nil, errWithDetails(ErrInvalidRecordData, err)
	}
	record, err := pipeline.Restore(p.Record)
	if err != nil {
		return nil, err
	}
	return p.WithRecord(record).JSON()
}

func errWithDetails(err error, errDetails error) error {
	return fmt.Errorf("%w, details: %v", err, errDetails)
}
