// Package favorites keeps the shopper's liked catalog items and mirrors them
// into durable key-value storage so they survive a restart.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/repositories"
)

const defaultPersistTimeout = 2 * time.Second

// Store is the favorites list for one browsing session. The in-memory list
// is authoritative; storage is a cache for the next session.
type Store struct {
	mu        sync.Mutex
	items     []models.Vegetable
	kv        repositories.KeyValueStore
	key       string
	notifier  Notifier
	timeout   time.Duration
	observers []observer
	nextObs   int

	pending     []change
	dispatching bool
}

type observer struct {
	id int
	fn func([]models.Vegetable)
}

// change is one mutation waiting to be announced.
type change struct {
	title       string
	description string
	items       []models.Vegetable
}

type Option func(*Store)

// WithKey overrides the storage key (default models.FavoritesKey).
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithPersistTimeout bounds each storage write.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewStore hydrates a store from kv. Missing or unreadable data starts an
// empty list; construction never fails.
func NewStore(ctx context.Context, kv repositories.KeyValueStore, notifier Notifier, opts ...Option) *Store {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	s := &Store{
		kv:        kv,
		key:       models.FavoritesKey,
		notifier:  notifier,
		timeout:   defaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []models.Vegetable {
	if s.kv == nil {
		return nil
	}
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Warn().Err(err).Str("key", s.key).Msg("Failed to read favorites, starting empty")
		}
		return nil
	}

	var stored []models.Vegetable
	if err := json.Unmarshal(data, &stored); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Failed to parse favorites, starting empty")
		return nil
	}

	// Stored data may have been written by hand; keep the first of any
	// duplicate ids.
	items := make([]models.Vegetable, 0, len(stored))
	seen := make(map[int]bool, len(stored))
	for _, item := range stored {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		items = append(items, item)
	}
	log.Debug().Int("count", len(items)).Msg("Loaded favorites")
	return items
}

// Add appends item unless an entry with the same ID exists. It reports
// whether the list changed.
func (s *Store) Add(ctx context.Context, item models.Vegetable) bool {
	s.mu.Lock()
	if s.indexOf(item.ID) >= 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items, item)
	s.publishLocked(addedChange(item), s.persistLocked(ctx))
	return true
}

// Remove deletes the entry with id. It reports whether an entry was removed.
func (s *Store) Remove(ctx context.Context, id int) bool {
	s.mu.Lock()
	removed, ok := s.removeLocked(id)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.publishLocked(removedChange(removed), s.persistLocked(ctx))
	return true
}

// Toggle removes item if it is a favorite and adds it otherwise. The check
// and the mutation happen under one lock. It returns the new membership.
func (s *Store) Toggle(ctx context.Context, item models.Vegetable) bool {
	s.mu.Lock()
	removed, wasMember := s.removeLocked(item.ID)
	c := removedChange(removed)
	if !wasMember {
		s.items = append(s.items, item)
		c = addedChange(item)
	}
	s.publishLocked(c, s.persistLocked(ctx))
	return !wasMember
}

// IsFavorite reports whether an entry with id exists.
func (s *Store) IsFavorite(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// List returns the favorites in insertion order.
func (s *Store) List() []models.Vegetable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subscribe registers fn to receive the list after every change. The
// returned func unregisters it.
func (s *Store) Subscribe(fn func([]models.Vegetable)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) indexOf(id int) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(id int) (models.Vegetable, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Vegetable{}, false
	}
	removed := s.items[i]
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return removed, true
}

func (s *Store) copyLocked() []models.Vegetable {
	out := make([]models.Vegetable, len(s.items))
	copy(out, s.items)
	return out
}

// persistLocked writes the whole list and returns a copy of it. Failures are
// logged and otherwise ignored.
func (s *Store) persistLocked(ctx context.Context) []models.Vegetable {
	snapshot := s.copyLocked()
	if s.kv == nil {
		return snapshot
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize favorites")
		return snapshot
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Failed to persist favorites")
	}
	return snapshot
}

// publishLocked queues c with the list it produced and releases s.mu. One
// goroutine at a time announces queued changes in mutation order; a caller
// that finds an announcement in progress, including a notifier calling back
// into the store, leaves its change to that goroutine.
func (s *Store) publishLocked(c change, items []models.Vegetable) {
	c.items = items
	s.pending = append(s.pending, c)
	if s.dispatching {
		s.mu.Unlock()
		return
	}

	s.dispatching = true
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		observers := append([]observer(nil), s.observers...)
		s.mu.Unlock()

		s.notifier.Notify(next.title, next.description)
		for _, o := range observers {
			out := make([]models.Vegetable, len(next.items))
			copy(out, next.items)
			o.fn(out)
		}

		s.mu.Lock()
	}
	s.pending = nil
	s.dispatching = false
	s.mu.Unlock()
}

func addedChange(item models.Vegetable) change {
	return change{
		title:       "Added to favorites",
		description: fmt.Sprintf("%s has been added to your favorites", item.Name),
	}
}

func removedChange(item models.Vegetable) change {
	return change{
		title:       "Removed from favorites",
		description: fmt.Sprintf("%s has been removed from your favorites", item.Name),
	}
}
