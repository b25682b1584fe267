package ringbuf

import (
	"testing"

	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
	"github.com/JunYoungMoon/quantum-exchange/internal/mmapregion"
)

func TestOrderCodecRoundTrip(t *testing.T) {
	want := domain.Order{
		ID:        123,
		SymbolFP:  0xDEADBEEF,
		Side:      domain.Sell,
		Type:      domain.Limit,
		Price:     5000,
		Quantity:  10,
		Timestamp: 1700000000000,
	}
	buf := make([]byte, mmapregion.OrderSlotSize)
	EncodeOrder(buf, want)
	got := DecodeOrder(buf)
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestOrderCodecZeroSlotIsInvalid(t *testing.T) {
	buf := make([]byte, mmapregion.OrderSlotSize)
	o := DecodeOrder(buf)
	if o.ID != 0 {
		t.Fatalf("zeroed slot decoded nonzero id %d", o.ID)
	}
	if o.Valid() {
		t.Fatalf("zeroed slot decoded as valid, want invalid (id=0)")
	}
}

func TestTradeCodecRoundTrip(t *testing.T) {
	want := domain.Trade{
		TradeID:  7,
		BuyID:    3,
		SellID:   1,
		Price:    5000,
		Quantity: 1,
		SymbolFP: 42,
	}
	buf := make([]byte, mmapregion.TradeSlotSize)
	EncodeTrade(buf, want)
	got := DecodeTrade(buf)
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}
