package resty

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/kochabx/restclient/header"
	"github.com/kochabx/restclient/transport"
)

var _ transport.Transport = (*Transport)(nil)

// noContentType marks requests whose body must go out without a Content-Type.
type noContentType struct{}

// Transport adapts resty.Client to transport.Transport.
type Transport struct {
	client *resty.Client
	opts   transport.Options
}

// New creates a resty-backed Transport configured by opts.
func New(opts transport.Options) *Transport {
	opts = opts.Normalize()
	return &Transport{client: newRestyClient(opts), opts: opts}
}

// newRestyClient creates a resty.Client honoring opts.
func newRestyClient(opts transport.Options) *resty.Client {
	c := resty.New()
	// 每次调用相互独立，不保存 cookie
	c.SetCookieJar(nil)
	c.SetTimeout(opts.Timeout)
	c.SetLogger(opts.Logger)
	if opts.InsecureSkipVerify {
		c.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	if opts.UserAgent != "" {
		c.SetHeader("User-Agent", opts.UserAgent)
	}
	// resty detects a media type for bodies sent without one; drop it again.
	c.SetPreRequestHook(func(_ *resty.Client, r *http.Request) error {
		if r.Context().Value(noContentType{}) != nil {
			r.Header.Del("Content-Type")
		}
		return nil
	})

	if opts.FollowRedirects {
		max := opts.MaxRedirects
		c.SetRedirectPolicy(resty.RedirectPolicyFunc(func(_ *http.Request, via []*http.Request) error {
			if len(via) > max {
				return fmt.Errorf("after %d redirects: %w", max, transport.ErrTooManyRedirects)
			}
			return nil
		}))
	} else {
		c.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	}
	return c
}

// Perform sends req through resty and returns the full response.
func (t *Transport) Perform(ctx context.Context, req *transport.Request) (*transport.Result, error) {
	if err := transport.ValidateURL(req.URL); err != nil {
		return nil, err
	}

	if len(req.Body) > 0 && !req.Header.Has("Content-Type") {
		ctx = context.WithValue(ctx, noContentType{}, true)
	}

	r := t.client.R().SetContext(ctx)
	for name, value := range req.Header.All() {
		r.SetHeader(name, value)
	}
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, transport.Classify(err)
	}

	return &transport.Result{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Header:     header.FromHTTP(resp.Header()),
	}, nil
}

// Close releases idle connections.
func (t *Transport) Close() error {
	t.client.GetClient().CloseIdleConnections()
	return nil
}
