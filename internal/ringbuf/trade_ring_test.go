package ringbuf

import (
	"testing"

	"github.com/JunYoungMoon/quantum-exchange/internal/mmapregion"
)

func TestTradeRingOfferAssignsIncreasingIDsStartingAtOne(t *testing.T) {
	ring := NewTradeRing(newTestRegion(t))

	t1, ok := ring.OfferTrade(3, 1, 5000, 1, 7)
	if !ok {
		t.Fatalf("offer 1 failed")
	}
	if t1.TradeID != 1 {
		t.Fatalf("first trade id = %d, want 1 (next_trade_id inits to 1)", t1.TradeID)
	}

	t2, ok := ring.OfferTrade(4, 2, 5100, 2, 7)
	if !ok {
		t.Fatalf("offer 2 failed")
	}
	if t2.TradeID != 2 {
		t.Fatalf("second trade id = %d, want 2", t2.TradeID)
	}
	if ring.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", ring.Size())
	}
}

func TestTradeRingFullReturnsFalseWithoutAdvancing(t *testing.T) {
	region := newTestRegion(t)
	ring := NewTradeRing(region)

	var n uint64
	for {
		if _, ok := ring.OfferTrade(1, 2, 100, 1, 1); !ok {
			break
		}
		n++
	}
	if n != mmapregion.NTrade-1 {
		t.Fatalf("accepted %d trades before full, want %d", n, mmapregion.NTrade-1)
	}

	nextIDBefore := region.Header.NextTradeID()
	if _, ok := ring.OfferTrade(1, 2, 100, 1, 1); ok {
		t.Fatalf("offer on full trade ring should fail")
	}
	if region.Header.NextTradeID() != nextIDBefore {
		t.Fatalf("next_trade_id must not advance on a rejected offer")
	}
}
