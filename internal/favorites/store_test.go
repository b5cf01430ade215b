package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/repositories/memory"
)

var (
	tomato = models.Vegetable{ID: 1, Name: "Tomato"}
	onion  = models.Vegetable{ID: 2, Name: "Onion"}
	carrot = models.Vegetable{ID: 3, Name: "Carrot"}
)

type notification struct {
	title, description string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (r *recordingNotifier) Notify(title, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notification{title, description})
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.sent...)
}

// countingStore counts writes and can be made to fail.
type countingStore struct {
	*memory.KeyValueStore
	mu      sync.Mutex
	sets    int
	failGet error
	failSet error
}

func newCountingStore() *countingStore {
	return &countingStore{KeyValueStore: memory.NewKeyValueStore()}
}

func (c *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if c.failGet != nil {
		return nil, c.failGet
	}
	return c.KeyValueStore.Get(ctx, key)
}

func (c *countingStore) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	if c.failSet != nil {
		return c.failSet
	}
	return c.KeyValueStore.Set(ctx, key, value)
}

func (c *countingStore) writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

func names(items []models.Vegetable) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func equalNames(t *testing.T, got []models.Vegetable, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Fatalf("favorites = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("favorites = %v, want %v", g, want)
		}
	}
}

func TestStore_AddKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, memory.NewKeyValueStore(), nil)

	s.Add(ctx, onion)
	s.Add(ctx, tomato)
	s.Add(ctx, carrot)

	equalNames(t, s.List(), "Onion", "Tomato", "Carrot")
}

func TestStore_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := newCountingStore()
	notifier := &recordingNotifier{}
	s := NewStore(ctx, kv, notifier)

	if !s.Add(ctx, tomato) {
		t.Fatal("first Add reported no change")
	}
	if s.Add(ctx, models.Vegetable{ID: 1, Name: "Tomato again"}) {
		t.Fatal("duplicate Add reported a change")
	}

	equalNames(t, s.List(), "Tomato")
	if got := len(notifier.all()); got != 1 {
		t.Fatalf("notifications = %d, want 1", got)
	}
	if got := kv.writes(); got != 1 {
		t.Fatalf("writes = %d, want 1", got)
	}
}

func TestStore_Notifications(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	s := NewStore(ctx, memory.NewKeyValueStore(), notifier)

	s.Add(ctx, tomato)
	s.Remove(ctx, tomato.ID)

	want := []notification{
		{"Added to favorites", "Tomato has been added to your favorites"},
		{"Removed from favorites", "Tomato has been removed from your favorites"},
	}
	got := notifier.all()
	if len(got) != len(want) {
		t.Fatalf("notifications = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notification %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	kv := newCountingStore()
	notifier := &recordingNotifier{}
	s := NewStore(ctx, kv, notifier)
	s.Add(ctx, tomato)

	if s.Remove(ctx, onion.ID) {
		t.Fatal("Remove of absent id reported a change")
	}
	equalNames(t, s.List(), "Tomato")
	if got := len(notifier.all()); got != 1 {
		t.Fatalf("notifications = %d, want 1", got)
	}
	if got := kv.writes(); got != 1 {
		t.Fatalf("writes = %d, want 1", got)
	}
}

func TestStore_ToggleTwiceRestoresMembership(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, memory.NewKeyValueStore(), nil)
	s.Add(ctx, onion)

	if !s.Toggle(ctx, tomato) {
		t.Fatal("Toggle of non-member returned false")
	}
	if !s.IsFavorite(tomato.ID) {
		t.Fatal("Tomato not a favorite after Toggle")
	}
	if s.Toggle(ctx, tomato) {
		t.Fatal("second Toggle returned true")
	}
	if s.IsFavorite(tomato.ID) {
		t.Fatal("Tomato still a favorite after second Toggle")
	}
	equalNames(t, s.List(), "Onion")
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore()
	s := NewStore(ctx, kv, nil)
	s.Add(ctx, tomato)
	s.Add(ctx, onion)

	data, err := kv.Get(ctx, models.FavoritesKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var stored []models.Vegetable
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("stored favorites are not a JSON array: %v", err)
	}
	equalNames(t, stored, "Tomato", "Onion")

	reloaded := NewStore(ctx, kv, nil)
	equalNames(t, reloaded.List(), "Tomato", "Onion")
	if !reloaded.IsFavorite(2) || reloaded.IsFavorite(3) {
		t.Fatal("reloaded membership is wrong")
	}
}

func TestStore_RemoveIsPersisted(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore()
	s := NewStore(ctx, kv, nil)
	s.Add(ctx, tomato)
	s.Add(ctx, onion)
	s.Remove(ctx, tomato.ID)

	equalNames(t, NewStore(ctx, kv, nil).List(), "Onion")
}

func TestStore_LoadFailuresStartEmpty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		kv   func() *countingStore
	}{
		{"missing key", newCountingStore},
		{"read error", func() *countingStore {
			kv := newCountingStore()
			kv.failGet = errors.New("disk on fire")
			return kv
		}},
		{"corrupt json", func() *countingStore {
			kv := newCountingStore()
			_ = kv.KeyValueStore.Set(ctx, models.FavoritesKey, []byte(`{"not":"a list"`))
			return kv
		}},
		{"wrong shape", func() *countingStore {
			kv := newCountingStore()
			_ = kv.KeyValueStore.Set(ctx, models.FavoritesKey, []byte(`{"id":1}`))
			return kv
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(ctx, tt.kv(), nil)
			if s.Len() != 0 {
				t.Fatalf("Len = %d, want 0", s.Len())
			}
			s.Add(ctx, tomato)
			equalNames(t, s.List(), "Tomato")
		})
	}
}

func TestStore_LoadDropsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore()
	_ = kv.Set(ctx, models.FavoritesKey, []byte(`[{"id":1,"name":"Tomato"},{"id":1,"name":"Tomato"},{"id":2,"name":"Onion"}]`))

	equalNames(t, NewStore(ctx, kv, nil).List(), "Tomato", "Onion")
}

func TestStore_WriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := newCountingStore()
	kv.failSet = errors.New("quota exceeded")
	notifier := &recordingNotifier{}
	s := NewStore(ctx, kv, notifier)

	if !s.Add(ctx, tomato) {
		t.Fatal("Add reported no change")
	}
	if !s.IsFavorite(tomato.ID) {
		t.Fatal("in-memory state lost after write failure")
	}
	if got := len(notifier.all()); got != 1 {
		t.Fatalf("notifications = %d, want 1", got)
	}
}

func TestStore_WithKey(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore()
	s := NewStore(ctx, kv, nil, WithKey("shopper-42"))
	s.Add(ctx, tomato)

	if _, err := kv.Get(ctx, "shopper-42"); err != nil {
		t.Fatalf("Get(shopper-42): %v", err)
	}
	if _, err := kv.Get(ctx, models.FavoritesKey); err == nil {
		t.Fatal("default key written despite WithKey")
	}
}

func TestStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, nil, nil)
	s.Add(ctx, tomato)

	list := s.List()
	list[0].Name = "Changed"
	equalNames(t, s.List(), "Tomato")
}

func TestStore_NotifierMayCallBack(t *testing.T) {
	ctx := context.Background()
	var s *Store
	var seen []bool
	notifier := NotifierFunc(func(title, description string) {
		seen = append(seen, s.IsFavorite(tomato.ID))
		if title == "Added to favorites" && s.Len() == 1 {
			s.Add(ctx, onion)
		}
	})
	s = NewStore(ctx, memory.NewKeyValueStore(), notifier)

	s.Toggle(ctx, tomato)
	equalNames(t, s.List(), "Tomato", "Onion")
	if len(seen) != 2 || !seen[0] {
		t.Fatalf("notifier saw %v", seen)
	}
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, nil, nil)

	var got [][]models.Vegetable
	unsubscribe := s.Subscribe(func(items []models.Vegetable) {
		got = append(got, items)
	})
	s.Add(ctx, tomato)
	s.Add(ctx, tomato)
	s.Toggle(ctx, onion)
	unsubscribe()
	s.Remove(ctx, tomato.ID)

	if len(got) != 2 {
		t.Fatalf("observer called %d times, want 2", len(got))
	}
	equalNames(t, got[1], "Tomato", "Onion")
}

func TestStore_ConcurrentToggles(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, memory.NewKeyValueStore(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle(ctx, tomato)
		}()
	}
	wg.Wait()

	// An even number of toggles leaves the item out.
	if s.IsFavorite(tomato.ID) {
		t.Fatal("Tomato is a favorite after 100 toggles")
	}
}

func TestStore_ConcurrentChangesAreAnnouncedInOrder(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	s := NewStore(ctx, memory.NewKeyValueStore(), notifier)

	var mu sync.Mutex
	var sizes []int
	s.Subscribe(func(items []models.Vegetable) {
		mu.Lock()
		defer mu.Unlock()
		sizes = append(sizes, len(items))
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle(ctx, tomato)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(sizes) != 50 {
		t.Fatalf("observer called %d times, want 50", len(sizes))
	}
	// Toggling one item alternates between one and zero entries.
	for i, size := range sizes {
		if want := (i + 1) % 2; size != want {
			t.Fatalf("snapshot %d has %d entries, want %d (sizes %v)", i, size, want, sizes)
		}
	}
	if last := sizes[len(sizes)-1]; last != s.Len() {
		t.Fatalf("last snapshot has %d entries, store has %d", last, s.Len())
	}

	for i, n := range notifier.all() {
		want := "Added to favorites"
		if i%2 == 1 {
			want = "Removed from favorites"
		}
		if n.title != want {
			t.Fatalf("notification %d = %q, want %q", i, n.title, want)
		}
	}
}

func TestStore_ObserversRunInSubscriptionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, nil, nil)

	var order []int
	for i := 0; i < 4; i++ {
		i := i
		s.Subscribe(func([]models.Vegetable) { order = append(order, i) })
	}
	s.Add(ctx, tomato)
	s.Add(ctx, onion)

	want := []int{0, 1, 2, 3, 0, 1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
