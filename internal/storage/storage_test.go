package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/repositories/file"
	"github.com/chrisdamba/greengrocer/internal/repositories/memory"
)

func roundTrip(t *testing.T, b *Backends) {
	t.Helper()
	ctx := context.Background()
	if err := b.KeyValue.Set(ctx, models.FavoritesKey, []byte(`[{"id":1,"name":"Tomato"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := b.KeyValue.Get(ctx, models.FavoritesKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[{"id":1,"name":"Tomato"}]` {
		t.Fatalf("Get = %s", got)
	}
}

func TestOpen_Memory(t *testing.T) {
	b, err := Open(context.Background(), models.StorageConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()
	if _, ok := b.KeyValue.(*memory.KeyValueStore); !ok {
		t.Fatalf("KeyValue = %T, want *memory.KeyValueStore", b.KeyValue)
	}
	roundTrip(t, b)
}

func TestOpen_File(t *testing.T) {
	dir := t.TempDir()
	b, err := Open(context.Background(), models.StorageConfig{Backend: "file", Dir: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()
	kv, ok := b.KeyValue.(*file.KeyValueStore)
	if !ok {
		t.Fatalf("KeyValue = %T, want *file.KeyValueStore", b.KeyValue)
	}
	if kv.Dir() != dir {
		t.Fatalf("Dir = %q, want %q", kv.Dir(), dir)
	}
	roundTrip(t, b)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	b, err := Open(context.Background(), models.StorageConfig{
		Backend:   "redis",
		RedisAddr: mr.Addr(),
		KeyPrefix: "test:",
		Timeout:   time.Second,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()
	roundTrip(t, b)

	if !mr.Exists("test:" + models.FavoritesKey) {
		t.Fatalf("key %q missing in redis, have %v", "test:"+models.FavoritesKey, mr.Keys())
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []models.StorageConfig{
		{Backend: "floppy"},
		{Backend: "s3"},
	}
	for _, cfg := range tests {
		if _, err := Open(context.Background(), cfg); err == nil {
			t.Errorf("Open(%+v) succeeded, want error", cfg)
		}
	}
}
