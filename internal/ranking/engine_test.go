package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/marketscout-client/internal/model"
)

func TestBuild_JoinCorrectness(t *testing.T) {
	markets := []model.Market{
		{ID: 1, Name: "Russo's Italian Market"},
		{ID: 2, Name: "Atlantic Seafood Co."},
		{ID: 3, Name: "Green Valley Organic"},
	}
	entries := []model.LeaderboardEntry{
		{ID: 3, Score: 8.4},
		{ID: 1, Score: 9.2},
		{ID: 99, Score: 7.7}, // оценка без рынка в каталоге
	}

	joined := Build(markets, entries)
	require.Len(t, joined, len(markets))

	require.NotNil(t, joined[0].Score)
	assert.Equal(t, 9.2, *joined[0].Score)

	// Рынок без записи в таблице лидеров никогда не получает оценку.
	assert.Nil(t, joined[1].Score)

	require.NotNil(t, joined[2].Score)
	assert.Equal(t, 8.4, *joined[2].Score)
}

func TestRank_SortsDescending(t *testing.T) {
	markets := []model.Market{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B"},
		{ID: 3, Name: "C"},
		{ID: 4, Name: "D"},
	}
	entries := []model.LeaderboardEntry{
		{ID: 1, Score: 8.1},
		{ID: 2, Score: 9.5},
		{ID: 4, Score: 8.9},
	}

	ranked := Rank(markets, entries)
	require.Len(t, ranked, 3)

	assert.Equal(t, int64(2), ranked[0].ID)
	assert.Equal(t, int64(4), ranked[1].ID)
	assert.Equal(t, int64(1), ranked[2].ID)
}

func TestRank_TiesPreserveCatalogOrder(t *testing.T) {
	markets := []model.Market{
		{ID: 10, Name: "first in catalog"},
		{ID: 20, Name: "second in catalog"},
		{ID: 30, Name: "third in catalog"},
	}
	entries := []model.LeaderboardEntry{
		{ID: 30, Score: 8.5},
		{ID: 10, Score: 8.5},
		{ID: 20, Score: 8.5},
	}

	ranked := Rank(markets, entries)
	require.Len(t, ranked, 3)

	// При равных оценках порядок каталога — явная, проверяемая политика.
	assert.Equal(t, int64(10), ranked[0].ID)
	assert.Equal(t, int64(20), ranked[1].ID)
	assert.Equal(t, int64(30), ranked[2].ID)
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{score: 9.23, want: "9.2"},
		{score: 8.0, want: "8.0"},
		{score: 10, want: "10.0"},
		{score: 8.99, want: "9.0"},
	}

	for _, tt := range tests {
		got := FormatScore(tt.score)
		if got != tt.want {
			t.Fatalf("FormatScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestEngine_LoadingAndEmptyAreDistinct(t *testing.T) {
	e := NewEngine()
	e.SetMarkets([]model.Market{{ID: 1, Name: "A"}})

	if e.State() != BoardLoading {
		t.Fatalf("state before first entries fetch must be loading")
	}

	e.SetEntries(nil)
	if e.State() != BoardEmpty {
		t.Fatalf("empty leaderboard must render as empty, not loading")
	}

	e.SetEntries([]model.LeaderboardEntry{{ID: 1, Score: 9.0}})
	if e.State() != BoardReady {
		t.Fatalf("expected ready state with scored markets")
	}
}

func TestEngine_MemoizesUntilInputsChange(t *testing.T) {
	e := NewEngine()
	e.SetMarkets([]model.Market{{ID: 1}, {ID: 2}})
	e.SetEntries([]model.LeaderboardEntry{{ID: 1, Score: 9.0}})

	e.Ranked()
	e.Ranked()
	e.Ranked()
	if e.recomputeCount != 1 {
		t.Fatalf("recomputes = %d, want 1 while inputs unchanged", e.recomputeCount)
	}

	e.SetEntries([]model.LeaderboardEntry{{ID: 2, Score: 8.0}})
	ranked := e.Ranked()
	if e.recomputeCount != 2 {
		t.Fatalf("recomputes = %d, want 2 after entries change", e.recomputeCount)
	}
	if len(ranked) != 1 || ranked[0].ID != 2 {
		t.Fatalf("unexpected ranking after update: %+v", ranked)
	}

	e.SetMarkets([]model.Market{{ID: 2}})
	e.Ranked()
	if e.recomputeCount != 3 {
		t.Fatalf("recomputes = %d, want 3 after markets change", e.recomputeCount)
	}
}
