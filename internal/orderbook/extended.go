package orderbook

import "github.com/JunYoungMoon/quantum-exchange/internal/domain"

// ExtraType selects one of the additive, in-process-only order types
// carried over from the teacher's own order book (SPEC_FULL.md
// "Supplemented features"). These never appear in the §6.1 wire format;
// they are reached only through ProcessExtended, never through the order
// ring's ProcessOrder path.
type ExtraType uint8

const (
	// ExtraNone runs the plain §4.5 LIMIT/MARKET algorithm.
	ExtraNone ExtraType = iota
	// ExtraIOC fills what it can immediately and drops any remainder
	// instead of resting it.
	ExtraIOC
	// ExtraFOK rejects the whole order up front unless the opposite side
	// currently holds enough liquidity to fill it completely.
	ExtraFOK
	// ExtraPostOnly rejects the order if it would cross the book at all,
	// instead of matching.
	ExtraPostOnly
)

// Rejected is returned by ProcessExtended when an ExtraFOK or ExtraPostOnly
// order cannot be admitted under its own rule.
type Rejected struct {
	Reason string
}

// ProcessExtended runs the matching algorithm with one of the additive
// order-type behaviors layered on top of the spec's LIMIT/MARKET rules.
// It never touches the order ring or the mapped region; those only ever
// carry plain LIMIT/MARKET orders (§6.1).
func (b *OrderBook) ProcessExtended(o domain.Order, extra ExtraType) (Result, *Rejected) {
	switch extra {
	case ExtraFOK:
		limit := o.Price
		if o.Type == domain.Market {
			limit = extremeFor(o.Side)
		}
		if avail := b.CheckLiquidity(o.Side, limit, o.Quantity); avail < o.Quantity {
			return Result{}, &Rejected{Reason: "fill-or-kill: insufficient liquidity"}
		}
		res := b.ProcessOrder(o)
		return res, nil

	case ExtraPostOnly:
		if b.wouldCross(o) {
			return Result{}, &Rejected{Reason: "post-only: would cross the book"}
		}
		limitOnly := o
		limitOnly.Type = domain.Limit
		return b.ProcessOrder(limitOnly), nil

	case ExtraIOC:
		res, remaining := b.matchOnly(o)
		res.Remainder = remaining
		b.refreshBestPrices()
		return res, nil

	default:
		return b.ProcessOrder(o), nil
	}
}

func extremeFor(side domain.Side) int64 {
	if side == domain.Buy {
		return noAsk
	}
	return 0
}

func (b *OrderBook) wouldCross(o domain.Order) bool {
	if o.Side == domain.Buy {
		return b.bestAsk != noAsk && b.bestAsk <= o.Price
	}
	return b.bestBid > 0 && b.bestBid >= o.Price
}
