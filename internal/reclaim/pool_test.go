package reclaim

import "testing"

type widget struct{ n int }

func TestAdvanceAndReclaimWithNoActiveReadersReclaimsImmediately(t *testing.T) {
	Epoch.Store(0)
	ring := NewRetireRing(4)
	pool := NewPool(func() *widget { return &widget{} })

	w := &widget{n: 7}
	ring.Enqueue(w)

	reclaimed := AdvanceAndReclaim(ring, pool, nil)
	if reclaimed != 1 {
		t.Fatalf("reclaimed = %d, want 1", reclaimed)
	}
	if ring.Len() != 0 {
		t.Fatalf("ring should be drained, Len() = %d", ring.Len())
	}
	if got := pool.Get(); got != w {
		t.Fatalf("pool.Get() did not return the reclaimed widget")
	}
}

func TestAdvanceAndReclaimHoldsBackForActiveReader(t *testing.T) {
	Epoch.Store(0)
	ring := NewRetireRing(4)
	pool := NewPool(func() *widget { return &widget{} })

	var reader ReaderEpoch
	reader.Enter() // snapshots epoch 0, before the retirement below

	ring.Enqueue(&widget{n: 1})

	reclaimed := AdvanceAndReclaim(ring, pool, &reader)
	if reclaimed != 0 {
		t.Fatalf("reclaimed = %d, want 0 while a reader predates the retirement", reclaimed)
	}
	if ring.Len() != 1 {
		t.Fatalf("retired object should remain queued, Len() = %d", ring.Len())
	}

	reader.Exit()
	reclaimed = AdvanceAndReclaim(ring, pool, &reader)
	if reclaimed != 1 {
		t.Fatalf("reclaimed = %d, want 1 once the reader exits", reclaimed)
	}
}

func TestPoolPutAnyPanicsOnWrongType(t *testing.T) {
	pool := NewPool(func() *widget { return &widget{} })
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a mistyped PutAny")
		}
	}()
	pool.PutAny("not a widget")
}
