package favorites

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/output"
)

// Notifier receives the confirmation shown to the shopper after a change.
// Implementations must not block.
type Notifier interface {
	Notify(title, description string)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(title, description string)

func (f NotifierFunc) Notify(title, description string) { f(title, description) }

type NopNotifier struct{}

func (NopNotifier) Notify(string, string) {}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(title, description string) {
	log.Info().Str("title", title).Msg(description)
}

// OutputNotifier forwards notifications to an output destination from a
// background goroutine. When the buffer is full the notification is dropped.
type OutputNotifier struct {
	dest   output.Destination
	queue  chan models.NotificationEvent
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	now    func() time.Time
}

func NewOutputNotifier(dest output.Destination, buffer int) *OutputNotifier {
	if buffer <= 0 {
		buffer = 64
	}
	n := &OutputNotifier{
		dest:  dest,
		queue: make(chan models.NotificationEvent, buffer),
		done:  make(chan struct{}),
		now:   time.Now,
	}
	go n.run()
	return n
}

func (n *OutputNotifier) Notify(title, description string) {
	msg := models.NotificationEvent{
		Timestamp:   n.now().Unix(),
		EventType:   "FavoritesNotification",
		Title:       title,
		Description: description,
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}
	select {
	case n.queue <- msg:
	default:
		log.Warn().Str("title", title).Msg("Notification buffer full, dropping notification")
	}
}

func (n *OutputNotifier) run() {
	defer close(n.done)
	for msg := range n.queue {
		data, err := json.Marshal(msg)
		if err != nil {
			log.Error().Err(err).Msg("Error serializing notification")
			continue
		}
		if err := n.dest.WriteMessage(models.TopicFavoritesNotifications, data); err != nil {
			log.Warn().Err(err).Msg("Failed to write notification")
		}
	}
}

// Close drains queued notifications and stops the worker. It does not close
// the destination.
func (n *OutputNotifier) Close() error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()
	<-n.done
	return nil
}
