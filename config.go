package veil

import "github.com/veildata/veil/entity"

const (
	defaultEndpoint        = "https://api.veildata.io/v1"
	defaultTimeoutSec      = 30
	defaultPollIntervalSec = 5
	defaultNotifyChanSize  = 128
)

// Config needs to be created with NewConfig() and filled in with config as
// applicable for the intended setup, and provided in the call to
// veil.NewClient(). See individual struct types for documentation.
type Config struct {
	API APIConfig
	Ops OpsConfig
}

// APIConfig holds the connection settings for the remote service.
type APIConfig struct {
	// Endpoint is the base URL of the service API. Defaults to the public
	// cloud endpoint.
	Endpoint string

	// APIKey authenticates all requests. Required for NewClient().
	APIKey string

	// TimeoutSec bounds each single HTTP request. If omitted it is set to
	// defaultTimeoutSec.
	TimeoutSec int
}

// OpsConfig provides options for observability and job polling.
type OpsConfig struct {
	// If set to true, request/response logging is enabled on the API session.
	Log bool

	// PollIntervalSec is the default interval between job status polls in
	// Client.WaitForJob. If omitted it is set to defaultPollIntervalSec.
	PollIntervalSec int

	// NotifyChan receives operational events from the client (API requests,
	// job polling progress). If not provided, NewClient creates one, which can
	// be retrieved with Client.NotificationChannel(). Events are dropped
	// rather than blocking when the channel is full, so it should be consumed
	// continuously.
	NotifyChan entity.NotifyChan
}

// NewConfig returns an initialized Config struct, required for veil.NewClient().
func NewConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:   defaultEndpoint,
			TimeoutSec: defaultTimeoutSec,
		},
		Ops: OpsConfig{
			PollIntervalSec: defaultPollIntervalSec,
		},
	}
}
