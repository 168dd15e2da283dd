package restclient

import (
	"sync"

	"github.com/kochabx/restclient/errors"
)

// The package-level functions below operate on one owned default Client.
// Init and Disable are meant to bracket the request-issuing phase of a
// program; the request functions themselves may run concurrently.

type state int

const (
	stateNew state = iota
	stateReady
	stateDisabled
)

var std struct {
	mu     sync.RWMutex
	client *Client
	state  state
}

// Init initializes the default client and returns 0 on success. A non-zero
// result is the negated errors code of the failure. Calling Init on an
// initialized client is a no-op; calling it after Disable starts over.
func Init(opts ...Option) int {
	std.mu.Lock()
	defer std.mu.Unlock()

	if std.state == stateReady {
		return 0
	}
	c, err := New(opts...)
	if err != nil {
		return -errors.Code(err)
	}
	std.client = c
	std.state = stateReady
	return 0
}

// Disable tears the default client down. Request functions called
// afterwards return errors.CodeDisabled until Init is called again.
func Disable() {
	std.mu.Lock()
	c := std.client
	std.client = nil
	if std.state == stateReady {
		std.state = stateDisabled
	}
	std.mu.Unlock()

	if c != nil {
		c.Disable()
	}
}

// Initialized reports whether the default client is ready for requests.
func Initialized() bool {
	std.mu.RLock()
	defer std.mu.RUnlock()
	return std.state == stateReady
}

// Default returns the default client, or nil outside Init/Disable.
func Default() *Client {
	std.mu.RLock()
	defer std.mu.RUnlock()
	return std.client
}

// with runs fn on the default client, reporting lifecycle misuse otherwise.
func with(fn func(*Client) Response) Response {
	std.mu.RLock()
	c, st := std.client, std.state
	std.mu.RUnlock()

	switch st {
	case stateNew:
		return failure(errors.Transfer(errors.CodeNotInitialized, nil))
	case stateDisabled:
		return failure(errors.Transfer(errors.CodeDisabled, nil))
	}
	return fn(c)
}

// Get performs a GET request with the default client.
func Get(url string) Response {
	return with(func(c *Client) Response { return c.Get(url) })
}

// Post performs a POST request with the default client.
func Post(url, contentType, data string) Response {
	return with(func(c *Client) Response { return c.Post(url, contentType, data) })
}

// Put performs a PUT request with the default client.
func Put(url, contentType, data string) Response {
	return with(func(c *Client) Response { return c.Put(url, contentType, data) })
}

// Patch performs a PATCH request with the default client.
func Patch(url, contentType, data string) Response {
	return with(func(c *Client) Response { return c.Patch(url, contentType, data) })
}

// Del performs a DELETE request with the default client.
func Del(url string) Response {
	return with(func(c *Client) Response { return c.Del(url) })
}

// Head performs a HEAD request with the default client.
func Head(url string) Response {
	return with(func(c *Client) Response { return c.Head(url) })
}

// Options performs an OPTIONS request with the default client.
func Options(url string) Response {
	return with(func(c *Client) Response { return c.Options(url) })
}
