package favorites

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/chrisdamba/greengrocer/internal/models"
)

type recordingDestination struct {
	mu       sync.Mutex
	topics   []string
	messages [][]byte
}

func (r *recordingDestination) WriteMessage(topic string, msg []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingDestination) Close() error { return nil }

func TestOutputNotifier_WritesNotifications(t *testing.T) {
	dest := &recordingDestination{}
	n := NewOutputNotifier(dest, 4)

	n.Notify("Added to favorites", "Tomato has been added to your favorites")
	if err := n.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(dest.topics) != 1 || dest.topics[0] != models.TopicFavoritesNotifications {
		t.Fatalf("topics = %v, want [%s]", dest.topics, models.TopicFavoritesNotifications)
	}
	var event models.NotificationEvent
	if err := json.Unmarshal(dest.messages[0], &event); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.Title != "Added to favorites" || event.Description != "Tomato has been added to your favorites" {
		t.Fatalf("event = %+v", event)
	}
}

func TestOutputNotifier_NotifyAfterCloseIsDropped(t *testing.T) {
	dest := &recordingDestination{}
	n := NewOutputNotifier(dest, 1)
	_ = n.Close()
	_ = n.Close()

	n.Notify("Added to favorites", "late")
	if len(dest.topics) != 0 {
		t.Fatalf("topics = %v, want none", dest.topics)
	}
}

func TestOutputNotifier_WithStore(t *testing.T) {
	dest := &recordingDestination{}
	n := NewOutputNotifier(dest, 8)
	s := NewStore(context.Background(), nil, n)

	s.Toggle(context.Background(), tomato)
	s.Toggle(context.Background(), tomato)
	_ = n.Close()

	if len(dest.messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(dest.messages))
	}
}
