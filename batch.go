package veil

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/veildata/veil/entity"
	"github.com/veildata/veil/entity/transform"
	"github.com/veildata/veil/pkg/notify"
)

// BatchOptions control a streaming batch run over JSONL records.
type BatchOptions struct {
	// PreTransformHook, if set, is called with each parsed record before it
	// enters the pipeline. See entity.PreTransformHookFunc.
	PreTransformHook entity.PreTransformHookFunc

	// PostTransformHook, if set, is called with each transformed record before
	// it is written to the output.
	PostTransformHook entity.PostTransformHookFunc

	// ContinueOnError makes the run count a failing record and move on instead
	// of aborting the whole batch.
	ContinueOnError bool

	// NotifyChan, if set, receives operational events from the run: a WARN per
	// failing record and an INFO summary on completion, tagged with the
	// pipeline ID. Events are dropped rather than blocking when the channel is
	// full.
	NotifyChan entity.NotifyChan
}

// BatchMetrics holds the counters of one batch run.
type BatchMetrics struct {

	// Total number of records read from the input, regardless of the outcome
	// of downstream processing.
	RecordsProcessed int64

	// Total number of transformed records written to the output
	RecordsTransformed int64

	// Records skipped by a hook
	RecordsSkipped int64

	// Records that failed transformation (only counted with ContinueOnError,
	// otherwise the first failure aborts the run)
	RecordsFailed int64

	// Total amount of record data read from the input
	BytesProcessed int64

	// Total time spent processing all records
	ProcessingTimeMicros int64
}

// TransformStream reads one JSON record payload per line from r, runs each
// through the pipeline and writes the transformed payloads as JSONL to w.
// Both plain records and labeling service envelopes are accepted, per
// TransformJSON. The returned metrics are valid also when an error aborted the
// run. ctx cancellation stops the run between records.
func TransformStream(ctx context.Context, pipeline *transform.Pipeline, r io.Reader, w io.Writer, opts BatchOptions) (BatchMetrics, error) {
	return processStream(ctx, pipeline.Id(), r, w, opts, func(p *entity.Payload) (*entity.Record, error) {
		return pipeline.Transform(p.Record, p.Meta)
	})
}

// RestoreStream is the inverse batch run: it reverses the pipeline's
// reversible transformers on each input payload, per RestoreJSON.
func RestoreStream(ctx context.Context, pipeline *transform.Pipeline, r io.Reader, w io.Writer, opts BatchOptions) (BatchMetrics, error) {
	return processStream(ctx, pipeline.Id(), r, w, opts, func(p *entity.Payload) (*entity.Record, error) {
		return pipeline.Restore(p.Record)
	})
}

func processStream(ctx context.Context, pipelineId string, r io.Reader, w io.Writer, opts BatchOptions,
	process func(*entity.Payload) (*entity.Record, error)) (BatchMetrics, error) {

	var m BatchMetrics
	started := time.Now()
	defer func() {
		m.ProcessingTimeMicros = time.Since(started).Microseconds()
	}()
	notifier := notify.New(opts.NotifyChan, nil, 2, "batch", uuid.NewString()[:8], pipelineId)

	bw := bufio.NewWriter(w)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return m, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		m.RecordsProcessed++
		m.BytesProcessed += int64(len(line))

		output, err := processRecord(ctx, line, opts, &m, process)
		if err != nil {
			if errors.Is(err, errBatchAborted) || !opts.ContinueOnError {
				return m, fmt.Errorf("record %d: %w", m.RecordsProcessed, err)
			}
			notifier.Notify(entity.NotifyLevelWarn, "record %d failed: %v", m.RecordsProcessed, err)
			m.RecordsFailed++
			continue
		}
		if output == nil {
			continue
		}
		if _, err := bw.Write(output); err != nil {
			return m, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return m, err
		}
		m.RecordsTransformed++
	}
	if err := scanner.Err(); err != nil {
		return m, err
	}
	if err := bw.Flush(); err != nil {
		return m, err
	}
	notifier.Notify(entity.NotifyLevelInfo, "batch run completed: %d records processed, %d transformed, %d skipped, %d failed",
		m.RecordsProcessed, m.RecordsTransformed, m.RecordsSkipped, m.RecordsFailed)
	return m, nil
}

var errBatchAborted = errors.New("batch run aborted by hook")

// processRecord handles one payload line. A nil output with nil error means
// the record was skipped by a hook.
func processRecord(ctx context.Context, line []byte, opts BatchOptions, m *BatchMetrics,
	process func(*entity.Payload) (*entity.Record, error)) ([]byte, error) {

	p, err := entity.NewPayload(line)
	if err != nil {
		return nil, errWithDetails(ErrInvalidRecordData, err)
	}

	if opts.PreTransformHook != nil {
		switch opts.PreTransformHook(ctx, p.Record) {
		case entity.HookActionSkip:
			m.RecordsSkipped++
			return nil, nil
		case entity.HookActionAbort:
			return nil, errBatchAborted
		}
	}

	record, err := process(p)
	if err != nil {
		return nil, err
	}

	if opts.PostTransformHook != nil {
		switch opts.PostTransformHook(ctx, record) {
		case entity.HookActionSkip:
			m.RecordsSkipped++
			return nil, nil
		case entity.HookActionAbort:
			return nil, errBatchAborted
		}
	}
	return p.WithRecord(record).JSON()
}

// maxRecordSize bounds a single JSONL input line.
const maxRecordSize = 4 * 1024 * 1024
