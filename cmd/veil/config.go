package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veildata/veil"
)

// cliConfig is the optional YAML config file for commands that talk to the
// remote API. Values from the file can be overridden with flags and the
// VEIL_API_KEY environment variable.
type cliConfig struct {
	Endpoint        string `yaml:"endpoint"`
	APIKey          string `yaml:"apiKey"`
	TimeoutSec      int    `yaml:"timeoutSec"`
	PollIntervalSec int    `yaml:"pollIntervalSec"`
	Log             bool   `yaml:"log"`
}

func loadClientConfig(path string) (*veil.Config, error) {
	var fileConfig cliConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, err
		}
	}

	config := veil.NewConfig()
	if fileConfig.Endpoint != "" {
		config.API.Endpoint = fileConfig.Endpoint
	}
	if fileConfig.APIKey != "" {
		config.API.APIKey = fileConfig.APIKey
	}
	if key := os.Getenv("VEIL_API_KEY"); key != "" {
		config.API.APIKey = key
	}
	if fileConfig.TimeoutSec > 0 {
		config.API.TimeoutSec = fileConfig.TimeoutSec
	}
	if fileConfig.PollIntervalSec > 0 {
		config.Ops.PollIntervalSec = fileConfig.PollIntervalSec
	}
	config.Ops.Log = fileConfig.Log
	return config, nil
}
