package restclient

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"github.com/kochabx/restclient/errors"
)

// Go runs Do on the client's worker pool and delivers the Response on the
// returned channel, which receives exactly one value. Go blocks only while
// every worker is busy.
func (c *Client) Go(ctx context.Context, method, url, contentType, data string) <-chan Response {
	ch := make(chan Response, 1)
	if c.disabled.Load() {
		ch <- failure(errors.Transfer(errors.CodeDisabled, nil))
		return ch
	}

	c.running.Add(1)
	err := c.pool.Submit(func() {
		defer c.running.Add(-1)
		ch <- c.Do(ctx, method, url, contentType, data)
	})
	if err != nil {
		c.running.Add(-1)
	}
	switch {
	case err == nil:
	case errors.Is(err, ants.ErrPoolClosed):
		ch <- failure(errors.Transfer(errors.CodeDisabled, err))
	default:
		ch <- failure(errors.Transfer(errors.CodeFailedInit, err))
	}
	return ch
}

// Running returns the number of asynchronous calls submitted and not yet
// finished, including those waiting for a free worker.
func (c *Client) Running() int {
	return int(c.running.Load())
}
