package realtime

import "sync"

// Client represents one connected websocket session.
//
// Send is intentionally never closed by the hub so concurrent publishers
// cannot panic on a closed channel; done signals shutdown instead.
type Client struct {
	ID     string
	UserID uint
	Send   chan Event

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient constructs a Client with a bounded send queue.
func NewClient(id string, userID uint, sendQueueSize int) *Client {
	if sendQueueSize <= 0 {
		sendQueueSize = 64
	}
	return &Client{
		ID:     id,
		UserID: userID,
		Send:   make(chan Event, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// Done returns a channel that is closed when the client is shutting down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close signals the client goroutines to stop (idempotent). It does NOT
// close Send to keep publishing safe under concurrency.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
