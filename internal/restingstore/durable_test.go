package restingstore

import (
	"testing"

	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
)

func newTestDurableStore(t *testing.T) *DurableStore {
	t.Helper()
	dir := t.TempDir()
	s, err := OpenDurableStore(dir)
	if err != nil {
		t.Fatalf("OpenDurableStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDurableStoreAddGetRoundTrip(t *testing.T) {
	s := newTestDurableStore(t)
	s.Add(Record{ID: 1, Side: domain.Buy, Price: 100, Quantity: 5})

	rec, ok := s.Get(1)
	if !ok {
		t.Fatalf("Get(1) should find the record just added")
	}
	if rec.Side != domain.Buy || rec.Price != 100 || rec.Quantity != 5 {
		t.Fatalf("Get(1) = %+v, want Side=Buy Price=100 Quantity=5", rec)
	}
}

func TestDurableStoreAddIgnoresZeroID(t *testing.T) {
	s := newTestDurableStore(t)
	s.Add(Record{ID: 0, Side: domain.Buy, Price: 100, Quantity: 5})
	if _, ok := s.Get(0); ok {
		t.Fatalf("Get(0) should not find anything, zero-id adds are no-ops")
	}
}

func TestDurableStoreAddIsIdempotentOnDuplicateID(t *testing.T) {
	s := newTestDurableStore(t)
	s.Add(Record{ID: 1, Side: domain.Buy, Price: 100, Quantity: 5})
	s.Add(Record{ID: 1, Side: domain.Sell, Price: 999, Quantity: 1})

	rec, _ := s.Get(1)
	if rec.Price != 100 || rec.Quantity != 5 {
		t.Fatalf("duplicate Add must not overwrite the existing record, got %+v", rec)
	}
}

func TestDurableStoreUpdateQuantity(t *testing.T) {
	s := newTestDurableStore(t)
	s.Add(Record{ID: 1, Side: domain.Buy, Price: 100, Quantity: 5})
	s.UpdateQuantity(1, 2)

	rec, ok := s.Get(1)
	if !ok || rec.Quantity != 2 {
		t.Fatalf("UpdateQuantity(1, 2) then Get(1) = %+v, %v", rec, ok)
	}
}

func TestDurableStoreUpdateQuantityNonPositiveRemoves(t *testing.T) {
	s := newTestDurableStore(t)
	s.Add(Record{ID: 1, Side: domain.Buy, Price: 100, Quantity: 5})
	s.UpdateQuantity(1, 0)

	if _, ok := s.Get(1); ok {
		t.Fatalf("UpdateQuantity to zero should remove the record")
	}
}

func TestDurableStoreRemoveReturnsRecordAndDeletes(t *testing.T) {
	s := newTestDurableStore(t)
	s.Add(Record{ID: 1, Side: domain.Sell, Price: 50, Quantity: 3})

	rec, ok := s.Remove(1)
	if !ok || rec.Price != 50 {
		t.Fatalf("Remove(1) = %+v, %v", rec, ok)
	}
	if _, ok := s.Get(1); ok {
		t.Fatalf("record should be gone after Remove")
	}
}

func TestDurableStoreRemoveUnknownReturnsFalse(t *testing.T) {
	s := newTestDurableStore(t)
	if _, ok := s.Remove(42); ok {
		t.Fatalf("Remove of an unknown id should report false")
	}
}

func TestDurableStoreMarkSentAndAckedTransitionState(t *testing.T) {
	s := newTestDurableStore(t)
	s.Add(Record{ID: 1, Side: domain.Buy, Price: 100, Quantity: 5})

	seen := map[uint64]Record{}
	if err := s.ScanByState(StateNew, func(id uint64, rec Record) error {
		seen[id] = rec
		return nil
	}); err != nil {
		t.Fatalf("ScanByState(New): %v", err)
	}
	if _, ok := seen[1]; !ok {
		t.Fatalf("freshly added record should be in state NEW")
	}

	if err := s.MarkSent(1); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}

	seen = map[uint64]Record{}
	s.ScanByState(StateNew, func(id uint64, rec Record) error { seen[id] = rec; return nil })
	if _, ok := seen[1]; ok {
		t.Fatalf("record should no longer be NEW after MarkSent")
	}

	seen = map[uint64]Record{}
	s.ScanByState(StateSent, func(id uint64, rec Record) error { seen[id] = rec; return nil })
	if _, ok := seen[1]; !ok {
		t.Fatalf("record should be SENT after MarkSent")
	}

	if err := s.MarkAcked(1); err != nil {
		t.Fatalf("MarkAcked: %v", err)
	}
	seen = map[uint64]Record{}
	s.ScanByState(StateAcked, func(id uint64, rec Record) error { seen[id] = rec; return nil })
	if _, ok := seen[1]; !ok {
		t.Fatalf("record should be ACKED after MarkAcked")
	}
}

func TestDurableStoreScanByStateOnlyReturnsMatchingState(t *testing.T) {
	s := newTestDurableStore(t)
	s.Add(Record{ID: 1, Side: domain.Buy, Price: 100, Quantity: 1})
	s.Add(Record{ID: 2, Side: domain.Sell, Price: 200, Quantity: 2})
	s.MarkSent(2)

	var newIDs, sentIDs []uint64
	s.ScanByState(StateNew, func(id uint64, rec Record) error { newIDs = append(newIDs, id); return nil })
	s.ScanByState(StateSent, func(id uint64, rec Record) error { sentIDs = append(sentIDs, id); return nil })

	if len(newIDs) != 1 || newIDs[0] != 1 {
		t.Fatalf("newIDs = %v, want [1]", newIDs)
	}
	if len(sentIDs) != 1 || sentIDs[0] != 2 {
		t.Fatalf("sentIDs = %v, want [2]", sentIDs)
	}
}

func TestDurableStoreOutboxStateString(t *testing.T) {
	cases := map[OutboxState]string{StateNew: "NEW", StateSent: "SENT", StateAcked: "ACKED"}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
