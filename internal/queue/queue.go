// Package queue implements the in-memory catalog event queue and the worker
// manager that applies events to the store.
package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/product-option-service/internal/model"
	"github.com/fairyhunter13/product-option-service/internal/obs"
)

// Queue is an unbounded event backlog drained by a background broker into a
// buffered output channel. Enqueue never blocks on workers.
type Queue struct {
	mu           sync.Mutex
	backlog      []model.Event
	notify       chan struct{}
	out          chan model.Event
	shuttingDown atomic.Bool

	enqueued  atomic.Uint64
	processed atomic.Uint64
}

// New creates a Queue with a buffered output channel.
func New(outBuffer int) *Queue {
	if outBuffer <= 0 {
		outBuffer = 64
	}
	return &Queue{
		notify: make(chan struct{}, 1),
		out:    make(chan model.Event, outBuffer),
	}
}

// Start runs the broker loop until ctx is done.
func (q *Queue) Start(ctx context.Context, highWatermark int) {
	go q.broker(ctx, highWatermark)
}

func (q *Queue) broker(ctx context.Context, highWatermark int) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	var lastWarn time.Time
	for {
		q.flushOnce()
		sz := q.BacklogSize()
		obs.QueueBacklog.Set(float64(sz))
		if highWatermark > 0 && sz > highWatermark && time.Since(lastWarn) >= time.Second {
			obs.Logger.Warn("queue backlog exceeds high watermark", "backlog_size", sz, "high_watermark", highWatermark)
			lastWarn = time.Now()
		}
		// out is full: wait for a worker to take one, then refill
		if ev, ok := q.pop(); ok {
			select {
			case <-ctx.Done():
				return
			case q.out <- ev:
			}
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-q.notify:
		case <-ticker.C:
		}
	}
}

// flushOnce moves as many backlog events as fit into the output buffer,
// preserving enqueue order.
func (q *Queue) flushOnce() {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for n < len(q.backlog) && len(q.out) < cap(q.out) {
		q.out <- q.backlog[n]
		n++
	}
	if n > 0 {
		q.backlog = append(q.backlog[:0], q.backlog[n:]...)
	}
}

// pop removes the oldest backlog event. Only the broker sends on out, so a
// popped event still leaves out in enqueue order.
func (q *Queue) pop() (model.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.backlog) == 0 {
		return model.Event{}, false
	}
	ev := q.backlog[0]
	q.backlog = q.backlog[1:]
	return ev, true
}

// Enqueue appends ev to the backlog and wakes the broker. It returns false
// once intake is closed.
func (q *Queue) Enqueue(ev model.Event) bool {
	if q.shuttingDown.Load() {
		return false
	}
	q.enqueued.Add(1)
	q.mu.Lock()
	q.backlog = append(q.backlog, ev)
	q.mu.Unlock()
	obs.EventsEnqueued.WithLabelValues(string(ev.Type)).Inc()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Out exposes the output channel of events.
func (q *Queue) Out() <-chan model.Event { return q.out }

// BacklogSize returns the number of enqueued-but-not-yet-output events.
func (q *Queue) BacklogSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// QueueDepth returns backlog plus buffered output items.
func (q *Queue) QueueDepth() int {
	q.mu.Lock()
	bl := len(q.backlog)
	q.mu.Unlock()
	return bl + len(q.out)
}

// MarkProcessed increases the processed counter.
func (q *Queue) MarkProcessed() { q.processed.Add(1) }

// Metrics returns counters and sizes for observability.
func (q *Queue) Metrics() (enq, proc uint64, backlog, depth int) {
	enq = q.enqueued.Load()
	proc = q.processed.Load()
	backlog = q.BacklogSize()
	depth = q.QueueDepth()
	return enq, proc, backlog, depth
}

// CloseIntake disallows future enqueues.
func (q *Queue) CloseIntake() { q.shuttingDown.Store(true) }

// IsShuttingDown reports if intake has been closed.
func (q *Queue) IsShuttingDown() bool { return q.shuttingDown.Load() }
