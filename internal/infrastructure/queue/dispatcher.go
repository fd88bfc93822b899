package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pinglayer/pinglayer-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes click events to a fixed set of workers using consistent
// hashing on the short code, guaranteeing per-link ordering so counter
// updates for one link never race each other.
type Dispatcher struct {
	workers  []chan ports.ClickInput
	service  ports.ClickService
	log      zerolog.Logger
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ClickService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ClickInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ClickInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Stop closes the
// channels; ctx bounds the processing of individual clicks.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes the worker channels and waits until every queued click has
// been processed. Callers must not Enqueue after Stop. During shutdown the
// HTTP server drains first, so clicks from late redirects still land here.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		for _, ch := range d.workers {
			close(ch)
		}
		d.wg.Wait()
	})
}

// Enqueue sends a click to the worker responsible for its short code.
// Non-blocking up to channelBuffer capacity; the redirect handler never
// waits on analytics.
func (d *Dispatcher) Enqueue(click ports.ClickInput) {
	d.workers[d.shardIndex(click.ShortCode)] <- click
}

// shardIndex maps a short code deterministically to a worker index.
func (d *Dispatcher) shardIndex(shortCode string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(shortCode))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ClickInput) {
	defer d.wg.Done()
	for click := range ch {
		if err := d.service.Process(ctx, click); err != nil {
			d.log.Error().Err(err).
				Str("short_code", click.ShortCode).
				Int("worker_id", id).
				Msg("click processing failed")
		}
	}
}
