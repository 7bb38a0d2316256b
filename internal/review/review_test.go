package review

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/mmeshcher/marketscout-client/internal/api"
)

type stubAPI struct {
	err   error
	calls int

	lastMarketID int64
	lastReview   string
	lastRating   int
}

func (s *stubAPI) PostReview(ctx context.Context, marketID int64, review string, rating int) error {
	s.calls++
	s.lastMarketID = marketID
	s.lastReview = review
	s.lastRating = rating
	return s.err
}

func TestSubmit_GateBlocksNetworkCall(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		text    string
		allowed bool
	}{
		{
			name:    "zero rating",
			rating:  0,
			text:    "plenty of characters here",
			allowed: false,
		},
		{
			name:    "nine characters",
			rating:  4,
			text:    "too short",
			allowed: false,
		},
		{
			name:    "exactly ten characters",
			rating:  1,
			text:    "just right",
			allowed: true,
		},
		{
			name:    "rating out of range",
			rating:  6,
			text:    "long enough review",
			allowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAPI{}
			s := NewSubmitter(stub, zap.NewNop())

			res := s.Submit(context.Background(), 1, tt.text, tt.rating)
			if res.OK != tt.allowed {
				t.Fatalf("Submit OK = %v, want %v", res.OK, tt.allowed)
			}

			wantCalls := 0
			if tt.allowed {
				wantCalls = 1
			}
			if stub.calls != wantCalls {
				t.Fatalf("network calls = %d, want %d", stub.calls, wantCalls)
			}
		})
	}
}

func TestSubmit_SuccessRequestsBoardRefresh(t *testing.T) {
	stub := &stubAPI{}
	s := NewSubmitter(stub, zap.NewNop())

	res := s.Submit(context.Background(), 7, "fantastic cheese counter", 5)
	if !res.OK || !res.RefreshBoard || res.Mock {
		t.Fatalf("unexpected result: %+v", res)
	}
	if stub.lastMarketID != 7 || stub.lastRating != 5 {
		t.Fatalf("unexpected request: marketID=%d rating=%d", stub.lastMarketID, stub.lastRating)
	}

	msg, ok, present := s.Notice().Current()
	if !present || !ok || msg != "Review posted successfully!" {
		t.Fatalf("unexpected notice: %q %v %v", msg, ok, present)
	}
}

func TestSubmit_UnreachableSimulatesSuccess(t *testing.T) {
	stub := &stubAPI{err: fmt.Errorf("%w: connection refused", api.ErrUnreachable)}
	s := NewSubmitter(stub, zap.NewNop())

	res := s.Submit(context.Background(), 7, "fantastic cheese counter", 5)
	if !res.OK || !res.Mock {
		t.Fatalf("expected mock success, got %+v", res)
	}
	if res.RefreshBoard {
		t.Fatalf("demo-mode submission must not trigger a board refetch")
	}
}

func TestSubmit_ServerMessageVerbatim(t *testing.T) {
	stub := &stubAPI{
		err: &api.Error{Status: http.StatusForbidden, Message: "email not verified"},
	}
	s := NewSubmitter(stub, zap.NewNop())

	res := s.Submit(context.Background(), 7, "fantastic cheese counter", 5)
	if res.OK {
		t.Fatalf("expected failure")
	}
	if res.Message != "email not verified" {
		t.Fatalf("message = %q, want server message verbatim", res.Message)
	}

	msg, ok, present := s.Notice().Current()
	if !present || ok || msg != "email not verified" {
		t.Fatalf("unexpected notice: %q %v %v", msg, ok, present)
	}
}
