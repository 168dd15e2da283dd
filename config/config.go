package config

import (
	"time"

	"github.com/kochabx/restclient/log"
)

// Transport backend names.
const (
	TransportNetHTTP = "nethttp"
	TransportResty   = "resty"
)

// Config holds everything needed to set up a client.
type Config struct {
	// Transport selects the backend performing transfers.
	Transport string `mapstructure:"transport" json:"transport" validate:"oneof=nethttp resty"`

	// Timeout bounds each transfer. Zero disables the timeout.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" validate:"gte=0"`

	UserAgent          string `mapstructure:"user_agent" json:"user_agent"`
	FollowRedirects    bool   `mapstructure:"follow_redirects" json:"follow_redirects"`
	MaxRedirects       int    `mapstructure:"max_redirects" json:"max_redirects" validate:"gte=0"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" json:"insecure_skip_verify"`

	// RateLimit caps transfers per second. Zero means unlimited.
	RateLimit float64 `mapstructure:"rate_limit" json:"rate_limit" validate:"gte=0"`
	Burst     int     `mapstructure:"burst" json:"burst" validate:"gte=0"`

	// Concurrency sizes the pool running asynchronous calls.
	Concurrency int `mapstructure:"concurrency" json:"concurrency" validate:"gte=1"`

	// RequestID adds an X-Request-Id header to every transfer.
	RequestID bool `mapstructure:"request_id" json:"request_id"`

	// Headers are sent with every request unless the call overrides them.
	Headers map[string]string `mapstructure:"headers" json:"headers"`

	Log     log.Config `mapstructure:"log" json:"log"`
	Metrics Metrics    `mapstructure:"metrics" json:"metrics"`
}

// Metrics controls prometheus instrumentation.
type Metrics struct {
	Enabled   bool   `mapstructure:"enabled" json:"enabled"`
	Namespace string `mapstructure:"namespace" json:"namespace"`
}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Transport:    TransportNetHTTP,
		MaxRedirects: 10,
		Concurrency:  8,
		Log: log.Config{
			Level:  "info",
			Format: "console",
		},
		Metrics: Metrics{
			Namespace: "restclient",
		},
	}
}
