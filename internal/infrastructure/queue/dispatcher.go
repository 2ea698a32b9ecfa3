package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/propdata/property-api/internal/api/metrics"
	"github.com/propdata/property-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes data-load listings to a fixed set of workers using
// consistent hashing on the listing ID, so repeated submissions of the same
// listing are applied in order.
type Dispatcher struct {
	workers []chan ports.PropertyInput
	service ports.IndexService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.IndexService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.PropertyInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.PropertyInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a listing to the worker responsible for its listing ID.
// Blocks once the worker's channel buffer is full.
func (d *Dispatcher) Enqueue(in ports.PropertyInput) {
	i := d.shardIndex(in.ListingID)
	d.workers[i] <- in
	metrics.IndexQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// EnqueueBatch enqueues multiple listings preserving per-listing ordering.
func (d *Dispatcher) EnqueueBatch(listings []ports.PropertyInput) {
	for _, l := range listings {
		d.Enqueue(l)
	}
}

func (d *Dispatcher) shardIndex(listingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(listingID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.PropertyInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Index(ctx, in); err != nil {
				d.log.Error().Err(err).
					Str("listing_id", in.ListingID).
					Int("worker_id", id).
					Msg("listing indexing failed")
			}
			metrics.IndexQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
