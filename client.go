package veil

import (
	"context"
	"encoding/json"
	"time"

	"github.com/veildata/veil/entity"
	"github.com/veildata/veil/internal/pkg/api"
)

// Client provides access to the remote service API: project management,
// record submission for entity labeling, and job polling. Create it with
// NewClient(). A Client is safe for concurrent use.
type Client struct {
	session      *api.Session
	pollInterval time.Duration
	notifyChan   entity.NotifyChan
}

// NewClient validates the provided config and creates a client connected to
// the configured API endpoint. No request is made until one of the client
// methods is called.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, ErrConfigNotInitialized
	}
	timeout := config.API.TimeoutSec
	if timeout == 0 {
		timeout = defaultTimeoutSec
	}
	pollInterval := config.Ops.PollIntervalSec
	if pollInterval == 0 {
		pollInterval = defaultPollIntervalSec
	}
	notifyChan := config.Ops.NotifyChan
	if notifyChan == nil {
		notifyChan = make(entity.NotifyChan, defaultNotifyChanSize)
	}
	session, err := api.NewSession(api.Config{
		Endpoint:   config.API.Endpoint,
		APIKey:     config.API.APIKey,
		Timeout:    time.Duration(timeout) * time.Second,
		Log:        config.Ops.Log,
		NotifyChan: notifyChan,
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		session:      session,
		pollInterval: time.Duration(pollInterval) * time.Second,
		notifyChan:   notifyChan,
	}, nil
}

// NotificationChannel returns the channel receiving the client's operational
// events, either the one provided in the config or the internally created one.
func (c *Client) NotificationChannel() entity.NotifyChan {
	return c.notifyChan
}

func (c *Client) CreateProject(ctx context.Context, name, description string) (*api.Project, error) {
	return c.session.CreateProject(ctx, name, description)
}

func (c *Client) GetProject(ctx context.Context, projectId string) (*api.Project, error) {
	return c.session.GetProject(ctx, projectId)
}

func (c *Client) ListProjects(ctx context.Context) ([]api.Project, error) {
	return c.session.ListProjects(ctx)
}

func (c *Client) DeleteProject(ctx context.Context, projectId string) error {
	return c.session.DeleteProject(ctx, projectId)
}

// SubmitRecords sends records to a project for entity labeling and returns
// the labeling job. Use WaitForJob to block until the job completes.
func (c *Client) SubmitRecords(ctx context.Context, projectId string, records []json.RawMessage) (*api.Job, error) {
	return c.session.SubmitRecords(ctx, projectId, records)
}

// FetchLabeledRecords retrieves the labeled records of a completed labeling
// job. Each returned record's metadata can be parsed with
// entity.NewRecordMetaFromJSON and fed to a pipeline transform.
func (c *Client) FetchLabeledRecords(ctx context.Context, projectId, jobId string) ([]api.LabeledRecord, error) {
	return c.session.FetchLabeledRecords(ctx, projectId, jobId)
}

func (c *Client) GetJob(ctx context.Context, jobId string) (*api.Job, error) {
	return c.session.GetJob(ctx, jobId)
}

// WaitForJob polls the job with the configured poll interval until it reaches
// a terminal state or ctx is done. Bound the wait with a context deadline.
func (c *Client) WaitForJob(ctx context.Context, jobId string) (*api.Job, error) {
	return c.session.PollJob(ctx, jobId, c.pollInterval)
}
