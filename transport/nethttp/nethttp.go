package nethttp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/kochabx/restclient/header"
	"github.com/kochabx/restclient/transport"
)

var _ transport.Transport = (*Transport)(nil)

const (
	// Buffer pool constants
	defaultBufferSize = 4096
	maxBufferSize     = 1024 * 1024 // 1MB
)

// Transport performs transfers with a net/http client.
type Transport struct {
	client     *http.Client
	opts       transport.Options
	bufferPool sync.Pool
}

// Option configures the Transport
type Option func(*Transport)

// WithClient replaces the underlying http.Client. Redirect, timeout and TLS
// settings from transport.Options are not applied to a custom client.
func WithClient(client *http.Client) Option {
	return func(t *Transport) {
		t.client = client
	}
}

// New creates a Transport configured by opts.
func New(opts transport.Options, options ...Option) *Transport {
	opts = opts.Normalize()
	t := &Transport{
		opts: opts,
		bufferPool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}

	for _, o := range options {
		o(t)
	}

	if t.client == nil {
		t.client = newClient(opts)
	}
	return t
}

func newClient(opts transport.Options) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := &http.Client{
		Transport: base,
		Timeout:   opts.Timeout,
	}
	client.CheckRedirect = redirectPolicy(opts)
	return client
}

// redirectPolicy stops at the first response unless redirects are enabled.
func redirectPolicy(opts transport.Options) func(*http.Request, []*http.Request) error {
	if !opts.FollowRedirects {
		return func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) > opts.MaxRedirects {
			return fmt.Errorf("after %d redirects: %w", opts.MaxRedirects, transport.ErrTooManyRedirects)
		}
		return nil
	}
}

// Perform sends req and reads the whole response.
func (t *Transport) Perform(ctx context.Context, req *transport.Request) (*transport.Result, error) {
	if err := transport.ValidateURL(req.URL); err != nil {
		return nil, err
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, transport.Classify(err)
	}
	for name, value := range req.Header.All() {
		httpReq.Header.Set(name, value)
	}
	if httpReq.Header.Get("User-Agent") == "" && t.opts.UserAgent != "" {
		httpReq.Header.Set("User-Agent", t.opts.UserAgent)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, transport.Classify(err)
	}
	defer resp.Body.Close()

	data, err := t.readBody(resp.Body)
	if err != nil {
		return nil, transport.Classify(err)
	}

	return &transport.Result{
		StatusCode: resp.StatusCode,
		Body:       data,
		Header:     header.FromHTTP(resp.Header),
	}, nil
}

// readBody drains r through a pooled buffer and returns a private copy.
func (t *Transport) readBody(r io.Reader) ([]byte, error) {
	buf := t.getBuffer()
	defer t.putBuffer(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// Close releases idle connections.
func (t *Transport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// getBuffer retrieves a buffer from the pool
func (t *Transport) getBuffer() *bytes.Buffer {
	buf := t.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool, with size check to prevent memory leaks
func (t *Transport) putBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= maxBufferSize {
		t.bufferPool.Put(buf)
	}
}
