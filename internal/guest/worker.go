package guest

import (
	"context"
	"log"
	"sync"
	"time"
)

// Worker recomputes guest stats off the booking write path. A failed or
// dropped recompute is parked and retried on a ticker, so the booking
// mutation that triggered it is never rolled back or delayed; the stats are
// eventually consistent.
type Worker struct {
	service    Service
	queue      chan string
	retryEvery time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewWorker(service Service, buffer int, retryEvery time.Duration) *Worker {
	if buffer < 1 {
		buffer = 64
	}
	if retryEvery <= 0 {
		retryEvery = 30 * time.Second
	}
	return &Worker{
		service:    service,
		queue:      make(chan string, buffer),
		retryEvery: retryEvery,
		pending:    map[string]struct{}{},
	}
}

// Enqueue requests a recompute for the guest. Never blocks: when the queue
// is full the guest is parked for the next retry tick instead.
func (w *Worker) Enqueue(guestID string) {
	if guestID == "" {
		return
	}
	select {
	case w.queue <- guestID:
	default:
		w.park(guestID)
	}
}

func (w *Worker) park(guestID string) {
	w.mu.Lock()
	w.pending[guestID] = struct{}{}
	w.mu.Unlock()
}

// takePending drains the parked set.
func (w *Worker) takePending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	ids := make([]string, 0, len(w.pending))
	for id := range w.pending {
		ids = append(ids, id)
	}
	w.pending = map[string]struct{}{}
	return ids
}

// Run processes the queue until ctx is cancelled. Recompute failures are
// logged and parked for retry, never propagated.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.retryEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case guestID := <-w.queue:
			w.recompute(ctx, guestID)
		case <-ticker.C:
			for _, guestID := range w.takePending() {
				w.recompute(ctx, guestID)
			}
		}
	}
}

func (w *Worker) recompute(ctx context.Context, guestID string) {
	if _, err := w.service.Recompute(ctx, guestID); err != nil {
		if ctx.Err() != nil {
			// Shutting down: keep the work parked; it will be recomputed
			// from store state on the next run.
			return
		}
		log.Printf("guest stats recompute for %s failed, will retry: %v", guestID, err)
		w.park(guestID)
	}
}
