package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// LabeledRecord is one record as returned by the labeling service: the source
// data plus the metadata envelope carrying entity labels per field. Both parts
// are kept raw for the caller to parse into the record model.
type LabeledRecord struct {
	Data     json.RawMessage `json:"data"`
	Metadata json.RawMessage `json:"metadata"`
}

// SubmitRecords sends a batch of JSON records to a project for entity
// labeling. The returned job tracks the asynchronous labeling run; poll it to
// completion before fetching the labeled records.
func (s *Session) SubmitRecords(ctx context.Context, projectId string, records []json.RawMessage) (*Job, error) {
	body := map[string]any{"records": records}
	var job Job
	path := "/projects/" + url.PathEscape(projectId) + "/records"
	if err := s.do(ctx, http.MethodPost, path, body, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// FetchLabeledRecords retrieves the labeled output of a completed labeling job.
func (s *Session) FetchLabeledRecords(ctx context.Context, projectId, jobId string) ([]LabeledRecord, error) {
	var out struct {
		Records []LabeledRecord `json:"records"`
	}
	path := "/projects/" + url.PathEscape(projectId) + "/records?job_id=" + url.QueryEscape(jobId)
	if err := s.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}
