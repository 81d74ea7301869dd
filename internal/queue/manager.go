package queue

import (
	"context"
	"sync"
	"time"

	"github.com/fairyhunter13/product-option-service/internal/config"
	"github.com/fairyhunter13/product-option-service/internal/model"
	"github.com/fairyhunter13/product-option-service/internal/obs"
)

// Applier applies a catalog event and reports whether it changed state.
type Applier interface {
	Apply(ev model.Event) bool
}

// Manager runs the workers that apply queued catalog events and scales them
// with the backlog.
type Manager struct {
	cfg    config.Config
	q      *Queue
	st     Applier
	seq    Sequencer
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	workerCancels []context.CancelFunc
}

// NewManager constructs a Manager applying events from q to st.
func NewManager(cfg config.Config, q *Queue, st Applier) *Manager {
	return &Manager{cfg: cfg, q: q, st: st}
}

// Start begins processing and autoscaling in the background.
func (m *Manager) Start(parent context.Context) {
	m.ctx, m.cancel = context.WithCancel(parent)
	m.q.Start(m.ctx, m.cfg.QueueHighWatermark)
	m.addWorkers(m.cfg.InitialWorkerCount)
	go m.scaler()
}

// Stop cancels background routines and stops workers.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Lock()
	for _, c := range m.workerCancels {
		c()
	}
	m.workerCancels = nil
	m.mu.Unlock()
	obs.WorkerCount.Set(0)
}

// scaler adds a worker while the backlog outgrows the pool and removes one
// after ScaleDownIdleTicks consecutive idle ticks.
func (m *Manager) scaler() {
	t := time.NewTicker(m.cfg.ScaleInterval)
	defer t.Stop()
	idleTicks := 0
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-t.C:
			backlog := m.q.BacklogSize()
			wc := m.WorkerCount()
			if backlog > wc*m.cfg.ScaleUpBacklogPerWorker && wc < m.cfg.WorkerMax {
				m.addWorkers(1)
				idleTicks = 0
				continue
			}
			if backlog != 0 {
				idleTicks = 0
				continue
			}
			idleTicks++
			if idleTicks >= m.cfg.ScaleDownIdleTicks && wc > m.cfg.WorkerMin {
				m.removeWorkers(1)
				idleTicks = 0
			}
		}
	}
}

func (m *Manager) addWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		wctx, cancel := context.WithCancel(m.ctx)
		m.workerCancels = append(m.workerCancels, cancel)
		go m.worker(wctx)
	}
	obs.WorkerCount.Set(float64(len(m.workerCancels)))
	obs.Logger.Info("workers scaled", "worker_count", len(m.workerCancels))
}

func (m *Manager) removeWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.workerCancels) {
		n = len(m.workerCancels)
	}
	for i := 0; i < n; i++ {
		c := m.workerCancels[len(m.workerCancels)-1]
		m.workerCancels = m.workerCancels[:len(m.workerCancels)-1]
		c()
	}
	obs.WorkerCount.Set(float64(len(m.workerCancels)))
	obs.Logger.Info("workers scaled", "worker_count", len(m.workerCancels))
}

func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-m.q.Out():
			m.apply(ev)
		}
	}
}

func (m *Manager) apply(ev model.Event) {
	defer m.q.MarkProcessed()
	if m.st.Apply(ev) {
		obs.EventsApplied.WithLabelValues("applied").Inc()
		obs.Logger.Debug("event_applied", "product_id", ev.ProductID, "type", ev.Type, "sequence", ev.Sequence)
		return
	}
	obs.EventsApplied.WithLabelValues("stale").Inc()
	obs.Logger.Info("event_stale", "product_id", ev.ProductID, "type", ev.Type, "sequence", ev.Sequence)
}

// Submit stamps ev with the next sequence number and enqueues it. It
// returns the stamped event, or false once intake is closed.
func (m *Manager) Submit(ev model.Event) (model.Event, bool) {
	ev.Sequence = m.seq.Next()
	return ev, m.q.Enqueue(ev)
}

// BacklogSize returns pending items in the queue.
func (m *Manager) BacklogSize() int { return m.q.BacklogSize() }

// QueueDepth returns backlog plus buffered output items.
func (m *Manager) QueueDepth() int { return m.q.QueueDepth() }

// WorkerCount returns the current number of workers.
func (m *Manager) WorkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workerCancels)
}

// IsShuttingDown reports whether new enqueues are rejected.
func (m *Manager) IsShuttingDown() bool { return m.q.IsShuttingDown() }

// CloseIntake disallows future enqueues.
func (m *Manager) CloseIntake() { m.q.CloseIntake() }

// QueueMetrics exposes the underlying queue metrics.
func (m *Manager) QueueMetrics() (enq, proc uint64, backlog, depth int) {
	return m.q.Metrics()
}

// DrainUntil blocks until the queue is fully drained or ctx is done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		enq, proc, backlog, depth := m.q.Metrics()
		if backlog == 0 && depth == 0 && enq == proc {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
