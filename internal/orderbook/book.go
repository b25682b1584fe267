// Package orderbook implements the per-symbol price-time order book: two
// sorted price trees, their FIFO price levels, and the matching algorithm
// described in spec §4.4-§4.5. It is not safe for concurrent calls against
// the same book — the single-writer contract is enforced by its caller,
// internal/engine.
package orderbook

import (
	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
	"github.com/JunYoungMoon/quantum-exchange/internal/reclaim"
)

// retireRingSize bounds how many filled-away RestingOrders can await
// reclamation at once; it must be a power of two (reclaim.RetireRing).
const retireRingSize = 4096

// Fill is one match step emitted by ProcessOrder: the incoming order
// traded qty at price against a resting order on the opposite side.
// RestingRemaining is the resting order's quantity after this fill (0 if
// it was fully consumed and removed from the book) — the caller uses it
// to decide whether to notify the resting-order store with an update or a
// removal (§4.7).
type Fill struct {
	RestingID        uint64
	Price            int64
	Quantity         int64
	RestingRemaining int64
}

// LevelTouch names a price level that changed during ProcessOrder, so the
// caller can refresh the mapped-region snapshot for just that level.
type LevelTouch struct {
	Side       domain.Side
	Price      int64
	TotalQty   int64
	OrderCount int
	Removed    bool
}

// Result is everything ProcessOrder produced for one incoming order.
type Result struct {
	Fills     []Fill
	Touched   []LevelTouch
	Resting   *RestingOrder // non-nil if a remainder now rests in the book
	Remainder int64
}

// OrderBook is single-writer and deterministic: one symbol's bids, asks,
// and cached best prices (§3, §4.4).
type OrderBook struct {
	SymbolFP uint32

	bids *rbTree
	asks *rbTree

	bestBid int64 // 0 when empty
	bestAsk int64 // noAsk sentinel when empty

	// trackMarketRemainder and lastMarketRemainder are the open-question
	// variant (§9): when enabled, a MARKET order's unmatched remainder is
	// recorded in lastMarketRemainder keyed to its last execution price
	// (0 if it filled nothing); the remainder is still dropped. It
	// never participates in matching; it exists only for operational
	// visibility.
	trackMarketRemainder bool
	lastMarketRemainder  map[domain.Side]RemainderNote

	// pool and retired implement the §9 supplement's epoch-based
	// reclamation of retired resting orders: a RestingOrder fully consumed
	// by a fill is retired rather than freed immediately, so a concurrent
	// snapshot reader started before the fill can keep walking it safely.
	pool    *reclaim.Pool[RestingOrder]
	retired *reclaim.RetireRing
}

// RemainderNote is the optional visibility record for a dropped MARKET
// remainder (§9, open question — off by default per spec's stated default
// behavior "market remainder is dropped").
type RemainderNote struct {
	Price    int64
	Quantity int64
}

const noAsk = int64(1)<<62 - 1 // +∞ sentinel for an empty ask side

// New creates an empty order book for one symbol.
func New(symbolFP uint32) *OrderBook {
	return &OrderBook{
		SymbolFP:            symbolFP,
		bids:                newRBTree(),
		asks:                newRBTree(),
		bestAsk:             noAsk,
		lastMarketRemainder: make(map[domain.Side]RemainderNote),
		pool:                reclaim.NewPool(func() *RestingOrder { return &RestingOrder{} }),
		retired:             reclaim.NewRetireRing(retireRingSize),
	}
}

// retire stamps o with the current global epoch and hands it to the
// retire ring instead of letting it become immediately eligible for GC,
// so a reader that began walking the book before this fill can still
// safely dereference it (§9 supplement). A full retire ring is not an
// error: o is simply left for the garbage collector, same as before this
// feature existed.
func (b *OrderBook) retire(o *RestingOrder) {
	o.retireEpoch = reclaim.Epoch.Load()
	b.retired.Enqueue(o)
}

// Reclaim advances the epoch and returns every retired RestingOrder no
// longer visible to any of readers to the book's pool, returning how many
// were reclaimed. Callers (internal/engine, on a periodic tick) pass the
// reclaim.Reader(s) tracking in-flight snapshot reads of this book.
func (b *OrderBook) Reclaim(readers ...*reclaim.Reader) int {
	epochs := make([]*reclaim.ReaderEpoch, len(readers))
	for i, r := range readers {
		epochs[i] = r.Epoch()
	}
	return reclaim.AdvanceAndReclaim(b.retired, b.pool, epochs...)
}

// SnapshotActiveIter walks every resting order on side under the cover of
// a reclaim.Reader, so fn can safely observe orders concurrently being
// filled out from under it by the single writer (§9 supplement). fn
// returning false stops the walk early.
func (b *OrderBook) SnapshotActiveIter(side domain.Side, reader *reclaim.Reader, fn func(*RestingOrder) bool) {
	reader.Begin()
	defer reader.End()

	walk := b.BidsWalk
	if side == domain.Sell {
		walk = b.AsksWalk
	}
	walk(func(lvl *PriceLevel) bool {
		for o := lvl.Head(); o != nil; o = o.Next() {
			if !fn(o) {
				return false
			}
		}
		return true
	})
}

// TrackMarketRemainder toggles the §9 open-question variant behavior.
func (b *OrderBook) TrackMarketRemainder(enabled bool) { b.trackMarketRemainder = enabled }

// BestBid and BestAsk expose the cached top-of-book (0 / noAsk sentinel
// when the respective side is empty).
func (b *OrderBook) BestBid() int64 { return b.bestBid }
func (b *OrderBook) BestAsk() int64 {
	if b.bestAsk == noAsk {
		return 0
	}
	return b.bestAsk
}

// ProcessOrder is the §4.5 entry point. It is not re-entrant on the same
// book under the single-writer contract (§4.5).
func (b *OrderBook) ProcessOrder(o domain.Order) Result {
	res, remaining := b.matchOnly(o)

	if remaining > 0 && o.Type == domain.Limit {
		ro := fillRestingOrder(b.pool.Get(), o, remaining)
		b.enqueue(o.Side, o.Price, ro, &res)
		res.Resting = ro
	} else if remaining > 0 && o.Type == domain.Market {
		if b.trackMarketRemainder {
			b.lastMarketRemainder[o.Side] = b.remainderNote(res.Fills, remaining)
		}
	}
	res.Remainder = remaining

	b.refreshBestPrices()
	return res
}

// matchOnly runs the §4.5 matching loop without resting any remainder and
// without refreshing the cached best prices; callers refresh them. Shared
// by ProcessOrder and the additive ExtraIOC behavior (SPEC_FULL.md).
func (b *OrderBook) matchOnly(o domain.Order) (Result, int64) {
	var res Result
	remaining := o.Quantity

	if o.Side == domain.Buy {
		remaining = b.matchBuy(o, remaining, &res)
	} else {
		remaining = b.matchSell(o, remaining, &res)
	}
	return res, remaining
}

func (b *OrderBook) remainderNote(fills []Fill, qty int64) RemainderNote {
	price := int64(0)
	if n := len(fills); n > 0 {
		price = fills[n-1].Price
	}
	return RemainderNote{Price: price, Quantity: qty}
}

func (b *OrderBook) bestAskOrLast() int64 {
	if b.bestAsk == noAsk {
		return 0
	}
	return b.bestAsk
}

// matchBuy sweeps the ask side; crossing condition best_ask <= order.price
// for LIMIT, unconditional for MARKET (§4.5).
func (b *OrderBook) matchBuy(o domain.Order, remaining int64, res *Result) int64 {
	for remaining > 0 {
		lvl := b.asks.BestMin()
		if lvl == nil {
			break
		}
		if o.Type != domain.Market && lvl.Price > o.Price {
			break
		}
		remaining = b.sweepLevel(domain.Sell, lvl, remaining, res)
	}
	return remaining
}

// matchSell sweeps the bid side; crossing condition best_bid >= order.price
// for LIMIT, unconditional for MARKET (§4.5).
func (b *OrderBook) matchSell(o domain.Order, remaining int64, res *Result) int64 {
	for remaining > 0 {
		lvl := b.bids.BestMax()
		if lvl == nil {
			break
		}
		if o.Type != domain.Market && lvl.Price < o.Price {
			break
		}
		remaining = b.sweepLevel(domain.Buy, lvl, remaining, res)
	}
	return remaining
}

// sweepLevel consumes the FIFO at lvl in arrival order until either the
// incoming remainder or the level is exhausted (§4.5 step 1).
func (b *OrderBook) sweepLevel(restingSide domain.Side, lvl *PriceLevel, remaining int64, res *Result) int64 {
	for remaining > 0 && !lvl.Empty() {
		head := lvl.Head()
		headID := head.ID
		qty := min64(remaining, head.Quantity)
		remaining -= qty

		removed := lvl.FillHead(qty)
		restingRemaining := int64(0)
		if removed == nil {
			restingRemaining = lvl.Head().Quantity
		} else {
			b.retire(removed)
		}
		res.Fills = append(res.Fills, Fill{RestingID: headID, Price: lvl.Price, Quantity: qty, RestingRemaining: restingRemaining})
		res.Touched = append(res.Touched, touchOf(restingSide, lvl, false))
	}

	if lvl.Empty() {
		b.deleteLevel(restingSide, lvl.Price)
		res.Touched = append(res.Touched, touchOf(restingSide, lvl, true))
	}
	return remaining
}

func touchOf(side domain.Side, lvl *PriceLevel, removed bool) LevelTouch {
	return LevelTouch{Side: side, Price: lvl.Price, TotalQty: lvl.TotalQty, OrderCount: lvl.OrderCount, Removed: removed}
}

func (b *OrderBook) enqueue(side domain.Side, price int64, ro *RestingOrder, res *Result) {
	tree := b.treeFor(side)
	lvl := tree.GetOrCreate(price)
	lvl.Enqueue(ro)
	res.Touched = append(res.Touched, touchOf(side, lvl, false))
}

func (b *OrderBook) deleteLevel(side domain.Side, price int64) {
	b.treeFor(side).Delete(price)
}

func (b *OrderBook) treeFor(side domain.Side) *rbTree {
	if side == domain.Buy {
		return b.bids
	}
	return b.asks
}

func (b *OrderBook) refreshBestPrices() {
	if lvl := b.bids.BestMax(); lvl != nil {
		b.bestBid = lvl.Price
	} else {
		b.bestBid = 0
	}
	if lvl := b.asks.BestMin(); lvl != nil {
		b.bestAsk = lvl.Price
	} else {
		b.bestAsk = noAsk
	}
}

// BidsWalk visits bid levels best-first (descending price).
func (b *OrderBook) BidsWalk(fn func(*PriceLevel) bool) { b.bids.WalkDesc(fn) }

// AsksWalk visits ask levels best-first (ascending price).
func (b *OrderBook) AsksWalk(fn func(*PriceLevel) bool) { b.asks.WalkAsc(fn) }

// FindLevel looks up the level at price on side, or nil.
func (b *OrderBook) FindLevel(side domain.Side, price int64) *PriceLevel {
	return b.treeFor(side).Find(price)
}

// RemoveResting is the defensive-consistency path (§4.4): unlink a
// specific resting order from its level by price, used only outside the
// hot matching loop (e.g. reconciling against the resting-order store).
func (b *OrderBook) RemoveResting(side domain.Side, price int64, o *RestingOrder) bool {
	lvl := b.FindLevel(side, price)
	if lvl == nil {
		return false
	}
	ok := lvl.Remove(o)
	if ok {
		o.Status = domain.Inactive
		b.retire(o)
		if lvl.Empty() {
			b.deleteLevel(side, price)
		}
	}
	return ok
}

// CheckLiquidity sums resting opposite-side quantity a hypothetical order
// on side could reach: asks priced at or below limitPrice for a Buy, bids
// priced at or above it for a Sell. It stops summing once the total
// reaches desired, so the result may exceed desired. Used by the FOK
// pre-check additive order type (SPEC_FULL.md supplemented features).
func (b *OrderBook) CheckLiquidity(side domain.Side, limitPrice, desired int64) int64 {
	available := int64(0)
	if side == domain.Buy {
		b.asks.WalkAsc(func(lvl *PriceLevel) bool {
			if lvl.Price > limitPrice {
				return false
			}
			available += lvl.TotalQty
			return available < desired
		})
	} else {
		b.bids.WalkDesc(func(lvl *PriceLevel) bool {
			if lvl.Price < limitPrice {
				return false
			}
			available += lvl.TotalQty
			return available < desired
		})
	}
	return available
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
