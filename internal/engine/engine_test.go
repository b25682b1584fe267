package engine

import (
	"path/filepath"
	"testing"

	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
	"github.com/JunYoungMoon/quantum-exchange/internal/mmapregion"
	"github.com/JunYoungMoon/quantum-exchange/internal/orderbook"
	"github.com/JunYoungMoon/quantum-exchange/internal/restingstore"
	"github.com/JunYoungMoon/quantum-exchange/internal/ringbuf"
	"github.com/JunYoungMoon/quantum-exchange/internal/telemetry"
)

func newTestEngine(t *testing.T) (*Engine, *mmapregion.Region, *orderbook.Registry, uint32) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "region.dat")
	region, err := mmapregion.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { region.Close() })

	registry := orderbook.NewRegistry(10)
	fp := domain.SymbolFingerprint("BTC-USD")
	if _, err := registry.Register("BTC-USD", fp); err != nil {
		t.Fatalf("Register: %v", err)
	}

	store := restingstore.NewMemoryStore()
	eng := New(region, registry, store, nil, telemetry.NoopLogger{}, telemetry.NoopMetrics{}, []uint32{fp})
	return eng, region, registry, fp
}

func TestEngineStepProcessesOneOrderEndToEnd(t *testing.T) {
	eng, region, registry, fp := newTestEngine(t)
	book, _ := registry.Lookup(fp)
	book.ProcessOrder(domain.Order{ID: 1, SymbolFP: fp, Side: domain.Sell, Type: domain.Limit, Price: 100, Quantity: 5, Timestamp: 1})

	ring := ringbuf.NewOrderRing(region)
	ring.Offer(domain.Order{ID: 2, SymbolFP: fp, Side: domain.Buy, Type: domain.Limit, Price: 100, Quantity: 5, Timestamp: 2})

	if !eng.step() {
		t.Fatalf("step() should have processed the offered order")
	}

	trades := ringbuf.NewTradeRing(region)
	if trades.Size() != 1 {
		t.Fatalf("trade ring size = %d, want 1", trades.Size())
	}

	md := ringbuf.DecodeMarketData(region.MarketDataSlot(0))
	if md.LastPrice != 100 || md.LastQty != 5 {
		t.Fatalf("market data = %+v, want LastPrice 100 LastQty 5", md)
	}
}

// S6 — Unknown-symbol fingerprint at engine.
func TestEngineDropsUnknownSymbolFingerprint(t *testing.T) {
	eng, region, _, _ := newTestEngine(t)

	ring := ringbuf.NewOrderRing(region)
	ring.Offer(domain.Order{ID: 1, SymbolFP: 0xFFFFFFFF, Side: domain.Buy, Type: domain.Limit, Price: 100, Quantity: 1, Timestamp: 1})

	headBefore := region.Header.OrderRingHead()
	if !eng.step() {
		t.Fatalf("step() should report it processed (dropped) a slot")
	}
	if region.Header.OrderRingHead() != headBefore+1 {
		t.Fatalf("head must advance by one even when the symbol is unknown")
	}

	trades := ringbuf.NewTradeRing(region)
	if trades.Size() != 0 {
		t.Fatalf("no trade should be emitted for an unknown-symbol order")
	}
}

func TestEngineStepReturnsFalseOnEmptyRing(t *testing.T) {
	eng, _, _, _ := newTestEngine(t)
	if eng.step() {
		t.Fatalf("step() on an empty ring should return false")
	}
}
