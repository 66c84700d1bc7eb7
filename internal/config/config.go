// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the stockhealth command configuration from
// defaults, an optional YAML file, a .env file and the environment, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Faris196/stockhealth/classify"
	"github.com/Faris196/stockhealth/internal/logging"
	"github.com/Faris196/stockhealth/retry"
	"github.com/Faris196/stockhealth/timeout"
)

// Environment variable names.
const (
	EnvAPIURL         = "STOCKHEALTH_API_URL"
	EnvAPIURLFallback = "API_URL"
	EnvMaxRetries     = "STOCKHEALTH_MAX_RETRIES"
	EnvBaseDelay      = "STOCKHEALTH_BASE_DELAY"
	EnvAttemptTimeout = "STOCKHEALTH_ATTEMPT_TIMEOUT"
	EnvMaxElapsed     = "STOCKHEALTH_MAX_ELAPSED"
	EnvRetryNetwork   = "STOCKHEALTH_RETRY_NETWORK"
	EnvLogLevel       = "STOCKHEALTH_LOG_LEVEL"
	EnvMetricsAddr    = "STOCKHEALTH_METRICS_ADDR"
)

// DefaultAPIURL is where the analysis service listens in development.
const DefaultAPIURL = "http://localhost:5000"

// Config is the complete command configuration.
type Config struct {
	APIURL  string        `yaml:"api_url"`
	Retry   RetryConfig   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// RetryConfig holds the retry behavior of analysis requests.
type RetryConfig struct {
	MaxRetries     int           `yaml:"max_retries"`
	BaseDelay      time.Duration `yaml:"base_delay"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	MaxElapsed     time.Duration `yaml:"max_elapsed"`
	RetryNetwork   bool          `yaml:"retry_network"`
	StatusCodes    []int         `yaml:"status_codes"`
}

// LoggingConfig holds the logging setup.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MonitorConfig holds the setup of the monitor command.
type MonitorConfig struct {
	MetricsAddr string        `yaml:"metrics_addr"`
	Interval    time.Duration `yaml:"interval"`
	Symbols     []string      `yaml:"symbols"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL: DefaultAPIURL,
		Retry: RetryConfig{
			MaxRetries:     retry.DefaultRetries,
			BaseDelay:      retry.DefaultBaseDelay,
			AttemptTimeout: timeout.DefaultAttemptTimeout,
			StatusCodes:    append([]int(nil), classify.DefaultStatusCodes...),
		},
		Logging: LoggingConfig{Level: "info"},
		Monitor: MonitorConfig{
			MetricsAddr: ":9090",
			Interval:    5 * time.Minute,
			Symbols:     []string{"RELIANCE.NS", "TCS.NS"},
		},
	}
}

// Load builds the configuration. It starts from Default, overlays the
// YAML file at path if path is not empty, loads a .env file from the
// working directory if there is one, and finally applies environment
// variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	_ = godotenv.Load()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.APIURL = v
	} else if v, ok := lookup(EnvAPIURLFallback); ok && v != "" {
		c.APIURL = v
	}

	if v, ok := lookup(EnvMaxRetries); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxRetries, err)
		}
		c.Retry.MaxRetries = n
	}

	if v, ok := lookup(EnvBaseDelay); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvBaseDelay, err)
		}
		c.Retry.BaseDelay = d
	}

	if v, ok := lookup(EnvAttemptTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAttemptTimeout, err)
		}
		c.Retry.AttemptTimeout = d
	}

	if v, ok := lookup(EnvMaxElapsed); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxElapsed, err)
		}
		c.Retry.MaxElapsed = d
	}

	if v, ok := lookup(EnvRetryNetwork); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRetryNetwork, err)
		}
		c.Retry.RetryNetwork = b
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}

	if v, ok := lookup(EnvMetricsAddr); ok && v != "" {
		c.Monitor.MetricsAddr = v
	}

	return nil
}

// Validate reports the first problem with c, if any.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an absolute URL", c.APIURL)
	}

	if err := c.RetryConfig().Validate(); err != nil {
		return err
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}

	if c.Monitor.Interval <= 0 {
		return errors.New("monitor interval must be positive")
	}

	return nil
}

// RetryConfig converts the retry section into a retry.Config.
func (c *Config) RetryConfig() retry.Config {
	kinds := []classify.Kind{classify.Timeout}
	if c.Retry.RetryNetwork {
		kinds = append(kinds, classify.Network)
	}

	return retry.Config{
		MaxRetries:           c.Retry.MaxRetries,
		BaseDelay:            c.Retry.BaseDelay,
		PerAttemptTimeout:    c.Retry.AttemptTimeout,
		MaxElapsed:           c.Retry.MaxElapsed,
		RetryableStatusCodes: append([]int(nil), c.Retry.StatusCodes...),
		RetryableKinds:       kinds,
	}
}
