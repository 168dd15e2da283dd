package nethttp

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/restclient/errors"
	"github.com/kochabx/restclient/header"
	"github.com/kochabx/restclient/restclienttest"
	"github.com/kochabx/restclient/transport"
)

func perform(t *testing.T, tr *Transport, method, url string, h header.Map, body string) (*transport.Result, error) {
	t.Helper()
	return tr.Perform(context.Background(), &transport.Request{
		Method: method,
		URL:    url,
		Header: h,
		Body:   []byte(body),
	})
}

func TestPerformGET(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	tr := New(transport.Options{})
	defer tr.Close()

	res, err := perform(t, tr, http.MethodGet, srv.URLFor("/ok"), header.Map{}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", string(res.Body))
	assert.Equal(t, "text/plain", res.Header.Value("content-type"))
}

func TestPerformPOSTEcho(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	tr := New(transport.Options{})
	var h header.Map
	h.Set("Content-Type", "application/json")

	res, err := perform(t, tr, http.MethodPost, srv.URLFor("/echo?status=201"), h, `{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, `{"a":1}`, string(res.Body))
	assert.Equal(t, "application/json", res.Header.Value(restclienttest.HeaderEchoContentType))
	assert.Equal(t, http.MethodPost, res.Header.Value(restclienttest.HeaderEchoMethod))
}

func TestPerformHTTPErrorIsNotTransferError(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	res, err := perform(t, New(transport.Options{}), http.MethodDelete, srv.URLFor("/status/503"), header.Map{}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, "Service Unavailable", string(res.Body))
}

func TestPerformUserAgent(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	tr := New(transport.Options{UserAgent: "restclient-go/test"})
	res, err := perform(t, tr, http.MethodGet, srv.URLFor("/headers"), header.Map{}, "")
	require.NoError(t, err)
	assert.Contains(t, string(res.Body), "restclient-go/test")

	var h header.Map
	h.Set("user-agent", "custom/1.0")
	res, err = perform(t, tr, http.MethodGet, srv.URLFor("/headers"), h, "")
	require.NoError(t, err)
	assert.Contains(t, string(res.Body), "custom/1.0")
	assert.NotContains(t, string(res.Body), "restclient-go/test")
}

func TestPerformRedirectPolicy(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	res, err := perform(t, New(transport.Options{}), http.MethodGet, srv.URLFor("/redirect/1"), header.Map{}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/redirect/0", res.Header.Value("Location"))

	follow := New(transport.Options{FollowRedirects: true, MaxRedirects: 5})
	res, err = perform(t, follow, http.MethodGet, srv.URLFor("/redirect/1"), header.Map{}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", string(res.Body))

	limited := New(transport.Options{FollowRedirects: true, MaxRedirects: 1})
	_, err = perform(t, limited, http.MethodGet, srv.URLFor("/redirect/3"), header.Map{}, "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeTooManyRedirects, errors.Code(err))
}

func TestPerformTransferFailures(t *testing.T) {
	srv := restclienttest.NewServer()
	closedURL := srv.URL
	srv.Close()

	tr := New(transport.Options{})
	_, err := perform(t, tr, http.MethodGet, closedURL, header.Map{}, "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeCouldntConnect, errors.Code(err))

	_, err = perform(t, tr, http.MethodGet, "", header.Map{}, "")
	assert.Equal(t, errors.CodeURLMalformat, errors.Code(err))

	_, err = perform(t, tr, http.MethodGet, "ftp://example.com", header.Map{}, "")
	assert.Equal(t, errors.CodeUnsupportedProtocol, errors.Code(err))
}

func TestPerformHangup(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	_, err := perform(t, New(transport.Options{}), http.MethodGet, srv.URLFor("/hangup"), header.Map{}, "")
	require.Error(t, err)
	assert.False(t, errors.IsHTTPStatus(errors.Code(err)))
}

func TestPerformTimeout(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	tr := New(transport.Options{Timeout: 50 * time.Millisecond})
	_, err := perform(t, tr, http.MethodGet, srv.URLFor("/slow?delay=2s"), header.Map{}, "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeOperationTimedOut, errors.Code(err))
}

func TestPerformCanceled(t *testing.T) {
	srv := restclienttest.NewServer()
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(transport.Options{}).Perform(ctx, &transport.Request{Method: http.MethodGet, URL: srv.URLFor("/ok")})
	require.Error(t, err)
	assert.Equal(t, errors.CodeAbortedByCallback, errors.Code(err))
}

func TestPerformTLS(t *testing.T) {
	srv := restclienttest.NewTLSServer()
	defer srv.Close()

	_, err := perform(t, New(transport.Options{}), http.MethodGet, srv.URLFor("/ok"), header.Map{}, "")
	require.Error(t, err)
	assert.Equal(t, errors.CodePeerFailedVerification, errors.Code(err))

	res, err := perform(t, New(transport.Options{InsecureSkipVerify: true}), http.MethodGet, srv.URLFor("/ok"), header.Map{}, "")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(res.Body))
}

func TestWithClient(t *testing.T) {
	srv := restclienttest.NewTLSServer()
	defer srv.Close()

	tr := New(transport.Options{}, WithClient(srv.Client()))
	res, err := perform(t, tr, http.MethodGet, srv.URLFor("/ok"), header.Map{}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
