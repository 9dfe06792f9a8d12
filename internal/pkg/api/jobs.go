package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/veildata/veil/entity"
)

type JobStatus string

const (
	JobCreated   JobStatus = "created"
	JobPending   JobStatus = "pending"
	JobActive    JobStatus = "active"
	JobCompleted JobStatus = "completed"
	JobError     JobStatus = "error"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the job has reached a final state.
func (js JobStatus) Terminal() bool {
	switch js {
	case JobCompleted, JobError, JobCancelled:
		return true
	}
	return false
}

// Job is a long-running run on the service side (labeling, model training).
type Job struct {
	Id           string    `json:"id"`
	ProjectId    string    `json:"project_id"`
	Status       JobStatus `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

func (s *Session) GetJob(ctx context.Context, jobId string) (*Job, error) {
	var job Job
	if err := s.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobId), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// PollJob polls the job status at the given interval until the job reaches a
// terminal state or ctx is done. A job ending in error or cancelled state is
// returned together with an error carrying the service's message.
func (s *Session) PollJob(ctx context.Context, jobId string, interval time.Duration) (*Job, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := s.GetJob(ctx, jobId)
		if err != nil {
			return nil, err
		}
		if job.Status.Terminal() {
			if job.Status != JobCompleted {
				return job, fmt.Errorf("job %s ended with status %s: %s", job.Id, job.Status, job.ErrorMessage)
			}
			return job, nil
		}
		s.notifier.Notify(entity.NotifyLevelInfo, "job %s status: %s", job.Id, job.Status)

		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}
