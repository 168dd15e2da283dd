package transport

import (
	"context"
	"time"

	"github.com/kochabx/restclient/header"
	"github.com/kochabx/restclient/log"
)

// Transport performs exactly one HTTP request/response exchange.
//
// A non-nil error means the transfer itself failed (DNS, connect, TLS,
// timeout, ...). HTTP error statuses are not errors.
type Transport interface {
	Perform(ctx context.Context, req *Request) (*Result, error)
}

// Request describes a single transfer.
type Request struct {
	Method string
	URL    string
	Header header.Map
	Body   []byte
}

// Result is the raw outcome of a completed transfer.
type Result struct {
	StatusCode int
	Body       []byte
	Header     header.Map
}

// Options holds the settings shared by all backends.
type Options struct {
	// Timeout bounds the whole transfer. Zero means no timeout.
	Timeout time.Duration

	// UserAgent is sent when the request carries no User-Agent header.
	UserAgent string

	// FollowRedirects enables following 3xx responses, up to MaxRedirects.
	FollowRedirects bool
	MaxRedirects    int

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	Logger *log.Logger
}

// DefaultMaxRedirects is used when FollowRedirects is set without a limit.
const DefaultMaxRedirects = 10

// Normalize returns o with defaults filled in.
func (o Options) Normalize() Options {
	if o.FollowRedirects && o.MaxRedirects <= 0 {
		o.MaxRedirects = DefaultMaxRedirects
	}
	if o.Logger == nil {
		o.Logger = log.Nop()
	}
	return o
}
