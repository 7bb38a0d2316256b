package tokenstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmeshcher/marketscout-client/internal/model"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	if _, ok := store.Load(); ok {
		t.Fatalf("expected no session before first Save")
	}

	pair := model.TokenPair{Access: "acc-1", Refresh: "ref-1"}
	if err := store.Save(pair); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Новый экземпляр поверх того же файла имитирует перезапуск процесса.
	reopened := NewFileStore(path)
	got, ok := reopened.Load()
	if !ok {
		t.Fatalf("expected session to survive reopen")
	}
	if got != pair {
		t.Fatalf("loaded pair = %+v, want %+v", got, pair)
	}
}

func TestFileStoreRejectsIncompletePair(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	err := store.Save(model.TokenPair{Access: "acc-only"})
	if !errors.Is(err, ErrIncompletePair) {
		t.Fatalf("expected ErrIncompletePair, got %v", err)
	}

	err = store.Save(model.TokenPair{Refresh: "ref-only"})
	if !errors.Is(err, ErrIncompletePair) {
		t.Fatalf("expected ErrIncompletePair, got %v", err)
	}

	if _, ok := store.Load(); ok {
		t.Fatalf("half-empty pair must never be persisted")
	}
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear without file must not fail: %v", err)
	}

	if err := store.Save(model.TokenPair{Access: "a", Refresh: "r"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Fatalf("expected no session after Clear")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("session file must be removed, stat err = %v", err)
	}
}

func TestFileStoreIgnoresCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewFileStore(path)
	if _, ok := store.Load(); ok {
		t.Fatalf("corrupted session file must be treated as absent")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Load(); ok {
		t.Fatalf("expected empty store")
	}

	pair := model.TokenPair{Access: "a", Refresh: "r"}
	if err := store.Save(pair); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, ok := store.Load()
	if !ok || got != pair {
		t.Fatalf("Load = %+v, %v; want %+v, true", got, ok, pair)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Fatalf("expected empty store after Clear")
	}
}
