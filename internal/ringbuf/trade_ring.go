package ringbuf

import (
	"time"

	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
	"github.com/JunYoungMoon/quantum-exchange/internal/mmapregion"
)

// TradeRing is the §4.3 single-producer ring: only the engine writes it.
type TradeRing struct {
	region *mmapregion.Region
}

// NewTradeRing wraps region's trade-ring section.
func NewTradeRing(region *mmapregion.Region) *TradeRing {
	return &TradeRing{region: region}
}

// OfferTrade atomically claims the next trade id, timestamps the record
// with monotonic nanoseconds, writes it at tail, and publishes tail. It
// returns (0, false) without advancing if the ring is full — a fatal drop
// condition the caller must surface as an error counter (§4.3, §7).
func (r *TradeRing) OfferTrade(buyID, sellID uint64, price, qty int64, symbolFP uint32) (domain.Trade, bool) {
	h := r.region.Header
	tail := h.TradeRingTail()
	head := h.TradeRingHead()
	next := (tail + 1) % mmapregion.NTrade

	if next == head {
		return domain.Trade{}, false
	}

	tradeID := h.IncrementTradeID()
	trade := domain.Trade{
		TradeID:   tradeID,
		BuyID:     buyID,
		SellID:    sellID,
		Price:     price,
		Quantity:  qty,
		Timestamp: time.Now().UnixNano(),
		SymbolFP:  symbolFP,
	}

	EncodeTrade(r.region.TradeSlot(tail), trade)
	h.SetTradeRingTail(next)
	return trade, true
}

// Size, IsEmpty and IsFull mirror OrderRing's derivation (§4.3).
func (r *TradeRing) Size() uint64 {
	h := r.region.Header
	tail := h.TradeRingTail()
	head := h.TradeRingHead()
	if tail >= head {
		return tail - head
	}
	return mmapregion.NTrade - head + tail
}

func (r *TradeRing) IsEmpty() bool { return r.Size() == 0 }
func (r *TradeRing) IsFull() bool  { return r.Size() == mmapregion.NTrade-1 }
