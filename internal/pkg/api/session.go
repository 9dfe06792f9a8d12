// Package api implements the authenticated HTTP session against the remote
// service REST API: projects, record submission for labeling, and job status
// polling. The transform pipeline never touches this package; callers fetch
// records and metadata here and feed them to the pipeline themselves.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teltech/logger"

	"github.com/veildata/veil/entity"
	"github.com/veildata/veil/pkg/notify"
)

var (
	ErrMissingAPIKey   = errors.New("no API key provided")
	ErrMissingEndpoint = errors.New("no API endpoint provided")
)

// Error is a failed API call, carrying the HTTP status and the service's
// error message.
type Error struct {
	Status    int
	Message   string
	RequestId string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error (status %d, request %s): %s", e.Status, e.RequestId, e.Message)
}

type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration

	// Log enables request/response logging via the log framework. Operational
	// events are sent to NotifyChan regardless.
	Log        bool
	NotifyChan entity.NotifyChan
}

// Session is an authenticated connection to the service API. It is stateless
// apart from its immutable config and safe for concurrent use.
type Session struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	notifier   *notify.Notifier
}

func NewSession(config Config) (*Session, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	var log *logger.Log
	if config.Log {
		log = logger.New()
	}
	instance := uuid.NewString()[:8]
	return &Session{
		endpoint:   strings.TrimSuffix(config.Endpoint, "/"),
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: config.Timeout},
		notifier:   notify.New(config.NotifyChan, log, 2, "session", instance, ""),
	}, nil
}

// do issues one API request. A non-nil body is sent as JSON; a non-nil out
// receives the decoded response body. Responses with status >= 400 are mapped
// to *Error with the service's message.
func (s *Session) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.endpoint+path, reqBody)
	if err != nil {
		return err
	}
	requestId := uuid.NewString()
	req.Header.Set("Authorization", s.apiKey)
	req.Header.Set("X-Request-Id", requestId)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	s.notifier.Notify(entity.NotifyLevelDebug, "api request %s %s (request: %s)", method, path, requestId)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode, RequestId: requestId}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &msg); err == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		s.notifier.Notify(entity.NotifyLevelWarn, "api request %s %s failed: %v", method, path, apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("could not decode API response for %s %s: %w", method, path, err)
		}
	}
	return nil
}
