// Package restclient is a small blocking HTTP client. Every call performs
// exactly one request/response exchange and returns a Response holding the
// status code, the body and the response headers.
//
// Transfer failures (DNS, connect, TLS, timeouts) never surface as Go errors:
// they are reported in Response.Code as a negative code from the errors
// package with a description in Response.Body. HTTP error statuses are
// ordinary responses.
package restclient

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/kochabx/restclient/config"
	"github.com/kochabx/restclient/errors"
	"github.com/kochabx/restclient/header"
	"github.com/kochabx/restclient/log"
	"github.com/kochabx/restclient/metrics"
	"github.com/kochabx/restclient/transport"
	"github.com/kochabx/restclient/transport/nethttp"
	"github.com/kochabx/restclient/transport/resty"
)

// Version of the library, also used in the default User-Agent.
const Version = "0.4.0"

// DefaultUserAgent is sent when no User-Agent is configured.
const DefaultUserAgent = "restclient-go/" + Version

// HeaderRequestID carries the per-transfer id when request ids are enabled.
const HeaderRequestID = "X-Request-Id"

// releaseTimeout bounds how long Disable waits for asynchronous calls.
const releaseTimeout = 5 * time.Second

// Response is the outcome of one transfer.
type Response struct {
	// Code is the HTTP status, or a negative errors.Code* value when the
	// transfer failed.
	Code int
	// Body is the response payload, or the failure description.
	Body string
	// Headers are the response headers; empty when the transfer failed.
	Headers header.Map
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.Code >= 200 && r.Code < 300
}

// Failed reports a transfer failure, as opposed to any HTTP status.
func (r Response) Failed() bool {
	return !errors.IsHTTPStatus(r.Code)
}

func failure(err *errors.Error) Response {
	return Response{Code: err.Code, Body: err.Describe()}
}

// Client owns an initialized transport. It is safe for concurrent use until
// Disable is called.
type Client struct {
	transport transport.Transport
	logger    *log.Logger
	metrics   *metrics.Collector
	limiter   *rate.Limiter
	pool      *ants.Pool
	headers   header.Map
	requestID bool
	disabled  atomic.Bool
	running   atomic.Int32
}

// New initializes a Client. Options are applied in order, so WithConfig
// should come before the options overriding single settings.
func New(opts ...Option) (*Client, error) {
	o := newOptions(opts)

	if err := config.NewValidator().Struct(&o.cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeFailedInit, "invalid client configuration")
	}

	logger := o.logger
	if logger == nil {
		logger = log.Nop()
	}

	tr := o.transport
	if tr == nil {
		var err error
		if tr, err = newTransport(o.cfg, logger); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(o.cfg.Concurrency)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeFailedInit, "failed to create worker pool")
	}

	c := &Client{
		transport: tr,
		logger:    logger,
		metrics:   o.metrics,
		pool:      pool,
		headers:   header.New(len(o.cfg.Headers) + 1),
		requestID: o.cfg.RequestID,
	}
	for name, value := range o.cfg.Headers {
		c.headers.Set(name, value)
	}
	if !c.headers.Has("User-Agent") {
		c.headers.Set("User-Agent", o.cfg.UserAgent)
	}
	if c.metrics == nil && o.cfg.Metrics.Enabled {
		c.metrics = metrics.New(o.cfg.Metrics.Namespace).WithGoCollectorRuntimeMetrics()
	}
	if o.cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(o.cfg.RateLimit), max(o.cfg.Burst, 1))
	}

	logger.Debug().
		Str("transport", o.cfg.Transport).
		Dur("timeout", o.cfg.Timeout).
		Bool("follow_redirects", o.cfg.FollowRedirects).
		Msg("client initialized")
	return c, nil
}

// newTransport builds the backend named by cfg.Transport.
func newTransport(cfg config.Config, logger *log.Logger) (transport.Transport, error) {
	opts := transport.Options{
		Timeout:            cfg.Timeout,
		UserAgent:          cfg.UserAgent,
		FollowRedirects:    cfg.FollowRedirects,
		MaxRedirects:       cfg.MaxRedirects,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		Logger:             logger,
	}
	switch cfg.Transport {
	case config.TransportNetHTTP, "":
		return nethttp.New(opts), nil
	case config.TransportResty:
		return resty.New(opts), nil
	}
	return nil, errors.New(errors.CodeFailedInit, "unknown transport %q", cfg.Transport)
}

// Metrics returns the collector in use, or nil.
func (c *Client) Metrics() *metrics.Collector {
	return c.metrics
}

// Disabled reports whether Disable has been called.
func (c *Client) Disabled() bool {
	return c.disabled.Load()
}

// Disable tears the client down: pending asynchronous calls get a short
// grace period and idle connections are closed. Later calls return a
// Response with errors.CodeDisabled. Calling Disable again is a no-op.
func (c *Client) Disable() {
	if !c.disabled.CompareAndSwap(false, true) {
		return
	}
	if err := c.pool.ReleaseTimeout(releaseTimeout); err != nil {
		c.logger.Warn().Err(err).Msg("asynchronous calls still running at disable")
	}
	if closer, ok := c.transport.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("failed to close transport")
		}
	}
	c.logger.Debug().Msg("client disabled")
}

// Do performs one transfer. contentType is sent only when non-empty.
// Cancelling ctx aborts the transfer with errors.CodeAbortedByCallback.
func (c *Client) Do(ctx context.Context, method, url, contentType, data string) Response {
	if c.disabled.Load() {
		return failure(errors.Transfer(errors.CodeDisabled, nil))
	}

	req := &transport.Request{
		Method: method,
		URL:    url,
		Header: c.headers.Clone(),
		Body:   []byte(data),
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	var requestID string
	if c.requestID {
		requestID = uuid.NewString()
		req.Header.Set(HeaderRequestID, requestID)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return failure(transport.Classify(ctx.Err()))
			}
			return failure(errors.Transfer(errors.CodeOperationTimedOut, err))
		}
	}

	var done func(int)
	if c.metrics != nil {
		done = c.metrics.Start(method)
	}
	begin := time.Now()

	resp := c.perform(ctx, req)

	if done != nil {
		done(resp.Code)
	}
	event := c.logger.Debug()
	if resp.Failed() {
		event = c.logger.Warn().Str("error", resp.Body)
	}
	event.Str("method", method).
		Str("url", url).
		Int("code", resp.Code).
		Dur("duration", time.Since(begin)).
		Str("request_id", requestID).
		Msg("transfer finished")

	return resp
}

func (c *Client) perform(ctx context.Context, req *transport.Request) Response {
	res, err := c.transport.Perform(ctx, req)
	if err != nil {
		return failure(transport.Classify(err))
	}
	return Response{
		Code:    res.StatusCode,
		Body:    string(res.Body),
		Headers: res.Header,
	}
}

// Get performs a GET request.
func (c *Client) Get(url string) Response {
	return c.Do(context.Background(), http.MethodGet, url, "", "")
}

// Post performs a POST request with data sent as contentType.
func (c *Client) Post(url, contentType, data string) Response {
	return c.Do(context.Background(), http.MethodPost, url, contentType, data)
}

// Put performs a PUT request with data sent as contentType.
func (c *Client) Put(url, contentType, data string) Response {
	return c.Do(context.Background(), http.MethodPut, url, contentType, data)
}

// Patch performs a PATCH request with data sent as contentType.
func (c *Client) Patch(url, contentType, data string) Response {
	return c.Do(context.Background(), http.MethodPatch, url, contentType, data)
}

// Del performs a DELETE request.
func (c *Client) Del(url string) Response {
	return c.Do(context.Background(), http.MethodDelete, url, "", "")
}

// Head performs a HEAD request. The body is always empty.
func (c *Client) Head(url string) Response {
	return c.Do(context.Background(), http.MethodHead, url, "", "")
}

// Options performs an OPTIONS request.
func (c *Client) Options(url string) Response {
	return c.Do(context.Background(), http.MethodOptions, url, "", "")
}
