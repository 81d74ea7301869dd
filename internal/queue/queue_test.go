package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fairyhunter13/product-option-service/internal/config"
	"github.com/fairyhunter13/product-option-service/internal/model"
	"github.com/fairyhunter13/product-option-service/internal/store"
)

func selectionEvent(i int) model.Event {
	return model.Event{
		ProductID: "x",
		Type:      model.EventSelectionUpserted,
		Selection: &model.Selection{ID: fmt.Sprintf("s%d", i), OptionIDs: []string{"o"}},
	}
}

func TestQueueNonBlockingEnqueue(t *testing.T) {
	q := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, 0)
	for i := 0; i < 1000; i++ {
		if ok := q.Enqueue(selectionEvent(i)); !ok {
			t.Fatalf("enqueue failed at %d", i)
		}
	}
	if q.BacklogSize() == 0 {
		t.Fatalf("expected backlog > 0")
	}
}

func TestQueuePreservesOrder(t *testing.T) {
	q := New(4)
	for i := 0; i < 10; i++ {
		q.Enqueue(selectionEvent(i))
	}
	for i := 0; i < 10; i++ {
		if len(q.out) == 0 {
			q.flushOnce()
		}
		ev := <-q.Out()
		if want := fmt.Sprintf("s%d", i); ev.Selection.ID != want {
			t.Fatalf("expected %s, got %s", want, ev.Selection.ID)
		}
	}
}

func TestQueueBrokerRefillsWhileBacklogged(t *testing.T) {
	q := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, 0)
	const n = 5000
	for i := 0; i < n; i++ {
		q.Enqueue(selectionEvent(i))
	}
	// a small buffer must not cap delivery at one buffer per broker tick
	deadline := time.After(2 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case ev := <-q.Out():
			if want := fmt.Sprintf("s%d", i); ev.Selection.ID != want {
				t.Fatalf("expected %s, got %s", want, ev.Selection.ID)
			}
		case <-deadline:
			t.Fatalf("received %d of %d events before deadline", i, n)
		}
	}
	if bl := q.BacklogSize(); bl != 0 {
		t.Fatalf("expected empty backlog, got %d", bl)
	}
}

func TestQueueShutdownIntake(t *testing.T) {
	q := New(1)
	q.CloseIntake()
	if !q.IsShuttingDown() {
		t.Fatalf("expected shutting down true")
	}
	if ok := q.Enqueue(selectionEvent(0)); ok {
		t.Fatalf("expected enqueue false when shutting down")
	}
}

func TestManagerDrain(t *testing.T) {
	cfg := config.Load()
	st := store.New()
	q := New(16)
	mgr := NewManager(cfg, q, st)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)
	defer mgr.Stop()
	for i := 0; i < 100; i++ {
		if _, ok := mgr.Submit(selectionEvent(i)); !ok {
			t.Fatalf("submit failed at %d", i)
		}
	}
	ctxDrain, cancelDrain := context.WithCancel(context.Background())
	defer cancelDrain()
	if ok := mgr.DrainUntil(ctxDrain); !ok {
		t.Fatalf("expected drain true")
	}
	c, ok := st.Get("x")
	if !ok || len(c.Selections) != 100 {
		t.Fatalf("expected 100 selections, got %d", len(c.Selections))
	}
}

func TestManagerSubmitStampsSequence(t *testing.T) {
	mgr := NewManager(config.Load(), New(4), store.New())
	a, _ := mgr.Submit(selectionEvent(0))
	b, _ := mgr.Submit(selectionEvent(1))
	if a.Sequence == 0 || b.Sequence <= a.Sequence {
		t.Fatalf("expected increasing sequences, got %d then %d", a.Sequence, b.Sequence)
	}
}
