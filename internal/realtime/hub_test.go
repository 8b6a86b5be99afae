package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishDeliversToTopicMembers(t *testing.T) {
	hub := NewHub()
	alice := NewClient("conn-1", 1, 4)
	bob := NewClient("conn-2", 2, 4)

	hub.Subscribe(TopicLeaderboard, alice)
	hub.Subscribe(TopicLeaderboard, bob)
	hub.Subscribe(UserTopic(1), alice)

	hub.Publish(TopicLeaderboard, Event{Type: EventLeaderboardUpdate})

	assert.Len(t, alice.Send, 1)
	assert.Len(t, bob.Send, 1)

	// User topics are private to the subscribed session.
	hub.Publish(UserTopic(1), Event{Type: EventUserProgress})
	assert.Len(t, alice.Send, 2)
	assert.Len(t, bob.Send, 1)

	// Nobody listens here; must not panic or block.
	hub.Publish(UserTopic(42), Event{Type: EventUserProgress})
}

func TestHub_PublishDropsOnFullQueue(t *testing.T) {
	hub := NewHub()
	slow := NewClient("conn-1", 1, 2)
	hub.Subscribe(TopicLeaderboard, slow)

	for i := 0; i < 5; i++ {
		hub.Publish(TopicLeaderboard, Event{Type: EventLeaderboardUpdate})
	}

	// Queue capacity 2: the overflow is dropped, the publisher never stalls.
	assert.Len(t, slow.Send, 2)
}

func TestHub_PublishSkipsClosedClients(t *testing.T) {
	hub := NewHub()
	c := NewClient("conn-1", 1, 4)
	hub.Subscribe(TopicLeaderboard, c)

	c.Close()
	hub.Publish(TopicLeaderboard, Event{Type: EventLeaderboardUpdate})

	assert.Len(t, c.Send, 0)
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	c := NewClient("conn-1", 1, 4)
	hub.Subscribe(TopicLeaderboard, c)
	hub.Unsubscribe(TopicLeaderboard, c)

	hub.Publish(TopicLeaderboard, Event{Type: EventLeaderboardUpdate})
	assert.Len(t, c.Send, 0)
}

func TestHub_DropRemovesFromAllTopicsAndCloses(t *testing.T) {
	hub := NewHub()
	c := NewClient("conn-1", 1, 4)
	hub.Subscribe(TopicLeaderboard, c)
	hub.Subscribe(UserTopic(1), c)

	hub.Drop(c)

	select {
	case <-c.Done():
	default:
		t.Fatal("expected client to be closed after drop")
	}

	hub.Publish(TopicLeaderboard, Event{Type: EventLeaderboardUpdate})
	hub.Publish(UserTopic(1), Event{Type: EventUserProgress})
	assert.Len(t, c.Send, 0)

	// Dropping twice is safe.
	hub.Drop(c)
}

func TestClient_CloseIdempotent(t *testing.T) {
	c := NewClient("conn-1", 1, 4)
	c.Close()
	require.NotPanics(t, c.Close)

	// Send stays open so a racing publisher cannot panic.
	c.Send <- Event{Type: EventUserProgress}
}

func TestHub_ConcurrentPublishAndChurn(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c := NewClient(fmt.Sprintf("conn-%d", n), uint(n), 8)
			hub.Subscribe(TopicLeaderboard, c)
			for j := 0; j < 50; j++ {
				hub.Publish(TopicLeaderboard, Event{Type: EventLeaderboardUpdate})
			}
			hub.Drop(c)
		}(i)
	}
	wg.Wait()
}
