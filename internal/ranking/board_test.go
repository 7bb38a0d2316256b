package ranking

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/mmeshcher/marketscout-client/internal/api"
	"github.com/mmeshcher/marketscout-client/internal/model"
)

type stubBoardAPI struct {
	entries []model.LeaderboardEntry
	err     error
	calls   int
}

func (s *stubBoardAPI) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	s.calls++
	return s.entries, s.err
}

func TestBoardFetch_OK(t *testing.T) {
	stub := &stubBoardAPI{
		entries: []model.LeaderboardEntry{{ID: 1, Score: 9.2}},
	}
	b := NewBoard(stub, zap.NewNop())

	if err := b.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if !b.Loaded() || !b.Connected() {
		t.Fatalf("expected loaded connected board")
	}

	entries := b.Entries()
	if len(entries) != 1 || entries[0].Score != 9.2 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestBoardFetch_UnreachableFallsBackToSamples(t *testing.T) {
	stub := &stubBoardAPI{
		err: fmt.Errorf("%w: connection refused", api.ErrUnreachable),
	}
	b := NewBoard(stub, zap.NewNop())

	if err := b.Fetch(context.Background()); err != nil {
		t.Fatalf("unreachable backend must not surface an error: %v", err)
	}
	if b.Connected() {
		t.Fatalf("board must report disconnected state on fallback")
	}
	if stub.calls != fetchRetries+1 {
		t.Fatalf("calls = %d, want %d (retries before fallback)", stub.calls, fetchRetries+1)
	}

	want := SampleEntries()
	got := b.Entries()
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("expected sample entries, got %+v", got)
	}
}

func TestBoardFetch_ServerErrorIsNotMasked(t *testing.T) {
	stub := &stubBoardAPI{
		err: &api.Error{Status: http.StatusInternalServerError, Message: "redis down"},
	}
	b := NewBoard(stub, zap.NewNop())

	err := b.Fetch(context.Background())
	if err == nil {
		t.Fatalf("server error must be surfaced, not replaced with sample data")
	}
	if stub.calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on HTTP errors)", stub.calls)
	}
	if b.Loaded() {
		t.Fatalf("board must not report loaded data after a server error")
	}
}
