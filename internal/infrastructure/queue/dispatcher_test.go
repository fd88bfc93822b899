package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pinglayer/pinglayer-api/internal/core/ports"
)

type recordingService struct {
	mu     sync.Mutex
	clicks []ports.ClickInput
	done   chan struct{}
	want   int
}

func newRecordingService(want int) *recordingService {
	return &recordingService{done: make(chan struct{}), want: want}
}

func (s *recordingService) Process(_ context.Context, click ports.ClickInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicks = append(s.clicks, click)
	if len(s.clicks) == s.want {
		close(s.done)
	}
	return nil
}

func (s *recordingService) wait(t *testing.T) []ports.ClickInput {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for clicks")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.ClickInput(nil), s.clicks...)
}

func TestDispatcher_DeliversAllClicks(t *testing.T) {
	svc := newRecordingService(6)
	d := NewDispatcher(3, svc, zerolog.Nop())

	d.Start(context.Background())
	defer d.Stop()

	codes := []string{"aaaa1111", "bbbb2222", "cccc3333"}
	for i := 0; i < 6; i++ {
		d.Enqueue(ports.ClickInput{ShortCode: codes[i%len(codes)], IPAddress: "10.0.0.1"})
	}

	clicks := svc.wait(t)
	if len(clicks) != 6 {
		t.Fatalf("expected 6 clicks, got %d", len(clicks))
	}
}

func TestDispatcher_PerCodeOrdering(t *testing.T) {
	const n = 20
	svc := newRecordingService(n)
	d := NewDispatcher(4, svc, zerolog.Nop())

	d.Start(context.Background())
	defer d.Stop()

	for i := 0; i < n; i++ {
		d.Enqueue(ports.ClickInput{ShortCode: "abcd1234", UserAgent: string(rune('a' + i))})
	}

	clicks := svc.wait(t)
	for i, click := range clicks {
		if click.UserAgent != string(rune('a'+i)) {
			t.Fatalf("click %d out of order: got %q", i, click.UserAgent)
		}
	}
}

func TestDispatcher_StopDrainsQueuedClicks(t *testing.T) {
	const n = 50
	svc := newRecordingService(n)
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < n; i++ {
		d.Enqueue(ports.ClickInput{ShortCode: "abcd1234"})
	}

	// Stop must not return until every queued click has been processed.
	d.Stop()

	svc.mu.Lock()
	got := len(svc.clicks)
	svc.mu.Unlock()
	if got != n {
		t.Fatalf("expected %d clicks processed after Stop, got %d", n, got)
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(4, newRecordingService(0), zerolog.Nop())
	first := d.shardIndex("abcd1234")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("abcd1234"); got != first {
			t.Fatalf("shard index changed: %d vs %d", got, first)
		}
	}
}
