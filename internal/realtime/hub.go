package realtime

import "sync"

// Hub is a transport-independent publish/subscribe fan-out. Topics are
// created on first subscribe and dropped when their last member leaves.
//
// Delivery is at-most-once and fire-and-forget: a subscriber with a full
// queue or one that is shutting down simply misses the event.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[string]*Client
}

// NewHub constructs a Hub instance.
func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[string]*Client),
	}
}

// Subscribe adds a client to a topic.
func (h *Hub) Subscribe(topic string, c *Client) {
	if c == nil || c.ID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.topics[topic]
	if !ok {
		members = make(map[string]*Client)
		h.topics[topic] = members
	}
	members[c.ID] = c
}

// Unsubscribe removes a client from a topic.
func (h *Hub) Unsubscribe(topic string, c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(topic, c.ID)
}

// Drop removes a client from every topic and signals its shutdown.
// Membership removal happens before Close so publishers holding the
// pointer stop reaching the client first.
func (h *Hub) Drop(c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	for topic := range h.topics {
		h.removeLocked(topic, c.ID)
	}
	h.mu.Unlock()

	c.Close()
}

func (h *Hub) removeLocked(topic, clientID string) {
	members, ok := h.topics[topic]
	if !ok {
		return
	}
	delete(members, clientID)
	if len(members) == 0 {
		delete(h.topics, topic)
	}
}

// Publish fans an event out to all subscribers of a topic. Non-blocking:
// a full member queue drops the event rather than stalling the rest.
func (h *Hub) Publish(topic string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, m := range h.topics[topic] {
		select {
		case <-m.Done():
			continue
		default:
		}

		select {
		case m.Send <- ev:
		default:
			// Drop rather than block the whole topic.
		}
	}
}
