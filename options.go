package restclient

import (
	"maps"
	"time"

	"github.com/kochabx/restclient/config"
	"github.com/kochabx/restclient/log"
	"github.com/kochabx/restclient/metrics"
	"github.com/kochabx/restclient/transport"
)

// options collects everything New needs.
type options struct {
	cfg       config.Config
	transport transport.Transport
	logger    *log.Logger
	metrics   *metrics.Collector
}

// Option configures a Client
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{cfg: *config.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg.UserAgent == "" {
		o.cfg.UserAgent = DefaultUserAgent
	}
	return o
}

// WithConfig replaces the whole configuration with a copy of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.cfg = *cfg
		o.cfg.Headers = maps.Clone(cfg.Headers)
	}
}

// WithTransport injects the transfer backend. Transport related settings
// (timeout, redirects, TLS) are then up to that backend.
func WithTransport(t transport.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records transfers on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithBackend selects a built-in transport by name, see config.Transport*.
func WithBackend(name string) Option {
	return func(o *options) {
		o.cfg.Transport = name
	}
}

// WithTimeout bounds each transfer.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.cfg.Timeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.cfg.UserAgent = ua
	}
}

// WithFollowRedirects follows up to max redirects. max <= 0 keeps the
// configured limit.
func WithFollowRedirects(max int) Option {
	return func(o *options) {
		o.cfg.FollowRedirects = true
		if max > 0 {
			o.cfg.MaxRedirects = max
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify() Option {
	return func(o *options) {
		o.cfg.InsecureSkipVerify = true
	}
}

// WithRateLimit allows rps transfers per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.cfg.RateLimit = rps
		o.cfg.Burst = burst
	}
}

// WithConcurrency sizes the pool running asynchronous calls.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.cfg.Concurrency = n
	}
}

// WithRequestID tags every transfer with a fresh X-Request-Id header.
func WithRequestID() Option {
	return func(o *options) {
		o.cfg.RequestID = true
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(name, value string) Option {
	return func(o *options) {
		if o.cfg.Headers == nil {
			o.cfg.Headers = make(map[string]string)
		}
		o.cfg.Headers[name] = value
	}
}
