package recorder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/edgex-Tech/edgex-sdk-go/quote"
)

type fakeQuoteSource struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func newFakeQuoteSource() *fakeQuoteSource {
	return &fakeQuoteSource{
		calls: make(map[string]int),
		fail:  make(map[string]bool),
	}
}

func (f *fakeQuoteSource) Get24HourQuote(ctx context.Context, contractID string) ([]quote.Ticker, error) {
	f.mu.Lock()
	f.calls[contractID]++
	fail := f.fail[contractID]
	f.mu.Unlock()

	if fail {
		return nil, errors.New("quote unavailable")
	}
	return []quote.Ticker{{ContractID: contractID, LastPrice: "3000"}}, nil
}

func (f *fakeQuoteSource) callCount(contractID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[contractID]
}

func TestPollerSnapshotsAllContracts(t *testing.T) {
	source := newFakeQuoteSource()

	var mu sync.Mutex
	var got []TickerSnapshot
	handler := SnapshotHandlerFunc(func(s TickerSnapshot) error {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
		return nil
	})

	p := NewPoller(PollConfig{
		ContractIDs: []string{"10000001", "10000002"},
		Interval:    time.Hour, // only the immediate startup poll runs
		Concurrency: 2,
		Timeout:     time.Second,
	}, source, handler, nil)

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("only %d snapshots before deadline", n)
		case <-time.After(10 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	seen := map[string]bool{}
	for _, s := range got {
		seen[s.Ticker.ContractID] = true
		if s.ReceivedAt.IsZero() {
			t.Error("ReceivedAt not set")
		}
	}
	if !seen["10000001"] || !seen["10000002"] {
		t.Errorf("snapshots = %v", seen)
	}
}

func TestPollerContinuesPastFailures(t *testing.T) {
	source := newFakeQuoteSource()
	source.fail["10000001"] = true

	var mu sync.Mutex
	var got []string
	handler := SnapshotHandlerFunc(func(s TickerSnapshot) error {
		mu.Lock()
		got = append(got, s.Ticker.ContractID)
		mu.Unlock()
		return nil
	})

	p := NewPoller(PollConfig{
		ContractIDs: []string{"10000001", "10000002"},
		Interval:    time.Hour,
		Concurrency: 2,
		Timeout:     time.Second,
	}, source, handler, nil)

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for source.callCount("10000002") == 0 {
		select {
		case <-deadline:
			t.Fatal("healthy contract never polled")
		case <-time.After(10 * time.Millisecond):
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, id := range got {
		if id == "10000001" {
			t.Error("failed contract should not produce snapshots")
		}
	}
}
