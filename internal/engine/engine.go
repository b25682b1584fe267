// Package engine runs the §4.6 matching-engine loop: the single consumer
// thread that polls the order ring, dispatches to the per-symbol book
// registry, and republishes the resulting trades, market data, and
// price-level snapshots into the mapped region. Wiring style (context
// cancellation, a background ticker-driven loop) is grounded on the
// teacher's cmd/server/main.go.
package engine

import (
	"context"
	"time"

	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
	"github.com/JunYoungMoon/quantum-exchange/internal/mmapregion"
	"github.com/JunYoungMoon/quantum-exchange/internal/orderbook"
	"github.com/JunYoungMoon/quantum-exchange/internal/restingstore"
	"github.com/JunYoungMoon/quantum-exchange/internal/ringbuf"
	"github.com/JunYoungMoon/quantum-exchange/internal/telemetry"
)

// IdleSleep is how long the loop parks when the order ring is empty
// (§4.6 step 1's "sleep 1 ms or park" suggestion).
const IdleSleep = time.Millisecond

// TradeRingRetryBackoff is the initial backoff between trade-ring offer
// retries when the ring is full (§7's "bounded backoff").
const TradeRingRetryBackoff = time.Millisecond

// TradeRingMaxRetries bounds the backoff loop before the engine halts
// (§7: "if persistent, status is set to idle and the engine halts").
const TradeRingMaxRetries = 10

// ReclaimInterval is how often the engine sweeps every registered book's
// retired resting orders for epoch-based reclamation (§9 supplement).
const ReclaimInterval = 500 * time.Millisecond

// TradeBroadcaster is notified after a trade is committed to the trade
// ring. Publish is called synchronously from the engine loop, which waits
// for it to return.
type TradeBroadcaster interface {
	Publish(trade domain.Trade)
}

// Engine owns the per-symbol book registry and drives the matching loop.
type Engine struct {
	region    *mmapregion.Region
	orders    *ringbuf.OrderRing
	trades    *ringbuf.TradeRing
	registry  *orderbook.Registry
	symbolIdx map[uint32]int
	store     restingstore.Store
	broadcast TradeBroadcaster
	logger    telemetry.Logger
	metrics   telemetry.Metrics

	lastReclaim time.Time
}

// New builds an Engine. symbolOrder fixes the stable symbol->index
// assignment used to address the mapped market-data and price-level
// arrays; it must list every fingerprint the registry will ever resolve.
func New(
	region *mmapregion.Region,
	registry *orderbook.Registry,
	store restingstore.Store,
	broadcast TradeBroadcaster,
	logger telemetry.Logger,
	metrics telemetry.Metrics,
	symbolOrder []uint32,
) *Engine {
	idx := make(map[uint32]int, len(symbolOrder))
	for i, fp := range symbolOrder {
		idx[fp] = i
	}
	return &Engine{
		region:    region,
		orders:    ringbuf.NewOrderRing(region),
		trades:    ringbuf.NewTradeRing(region),
		registry:  registry,
		symbolIdx: idx,
		store:     store,
		broadcast: broadcast,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run drives the loop until ctx is cancelled, then finishes the
// in-flight process_order call, flushes the region, marks status idle,
// and returns (§4.8, §5's "Cancellation / timeout").
func (e *Engine) Run(ctx context.Context) {
	e.region.MarkActive()
	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return
		default:
		}

		if !e.step() {
			time.Sleep(IdleSleep)
		}
		e.maybeReclaim()
	}
}

// maybeReclaim sweeps every registered book's retired resting orders back
// to its pool once ReclaimInterval has elapsed (§9 supplement). No
// external reader is registered in this deployment, so a sweep reclaims
// everything retired since the previous one.
func (e *Engine) maybeReclaim() {
	now := time.Now()
	if now.Sub(e.lastReclaim) < ReclaimInterval {
		return
	}
	e.lastReclaim = now
	e.registry.ForEach(func(_ uint32, book *orderbook.OrderBook) {
		book.Reclaim()
	})
}

// step runs one loop iteration (§4.6). It returns false if the ring was
// empty, so Run knows to yield.
func (e *Engine) step() bool {
	start := time.Now()

	order, ok, discarded := e.orders.PollValid()
	if discarded > 0 {
		e.metrics.IncDiscardedSlots(discarded)
		e.logger.Warn("discarded invalid order-ring slots", telemetry.F("count", discarded))
	}
	if !ok {
		return false
	}

	book, found := e.registry.Lookup(order.SymbolFP)
	if !found {
		e.metrics.IncUnknownSymbol()
		e.logger.Warn("unknown symbol fingerprint", telemetry.F("symbol_fp", order.SymbolFP))
		return true
	}

	res := book.ProcessOrder(order)
	e.commitResult(order, book, res)

	e.metrics.ObserveIterationLatency(time.Since(start).Seconds())
	return true
}

// commitResult publishes a ProcessOrder result: trades to the trade ring,
// market-data refresh, price-level snapshots for every touched level, and
// resting-order store notifications (§4.6 steps 3-5, §4.7).
func (e *Engine) commitResult(order domain.Order, book *orderbook.OrderBook, res orderbook.Result) {
	var lastPrice, lastQty int64
	var volumeDelta int64

	for _, fill := range res.Fills {
		buyID, sellID := rolesFor(order, fill.RestingID)
		trade, ok := e.offerTradeWithBackoff(buyID, sellID, fill.Price, fill.Quantity, order.SymbolFP)
		if !ok {
			continue
		}
		lastPrice = trade.Price
		lastQty = trade.Quantity
		volumeDelta += trade.Quantity

		if fill.RestingRemaining <= 0 {
			e.store.Remove(fill.RestingID)
		} else {
			e.store.UpdateQuantity(fill.RestingID, fill.RestingRemaining)
		}
		if e.broadcast != nil {
			e.broadcast.Publish(trade)
		}
	}

	if res.Resting != nil {
		e.store.Add(restingstore.Record{
			ID:       res.Resting.ID,
			Side:     res.Resting.Side,
			Price:    res.Resting.Price,
			Quantity: res.Resting.Quantity,
		})
	}

	e.writeMarketData(order.SymbolFP, book, lastPrice, lastQty, volumeDelta)
	e.writePriceLevels(order.SymbolFP, res.Touched)

	e.region.Header.SetLastUpdateTS(uint64(time.Now().UnixNano()))
}

// rolesFor assigns buy_id/sell_id for one fill: the incoming order keeps
// its own side, the fill's RestingID belongs to the opposite side (§4.5).
func rolesFor(order domain.Order, restingID uint64) (buyID, sellID uint64) {
	if order.Side == domain.Buy {
		return order.ID, restingID
	}
	return restingID, order.ID
}

// offerTradeWithBackoff offers one trade to the trade ring with bounded
// backoff on full (§4.3, §7, §5).
func (e *Engine) offerTradeWithBackoff(buyID, sellID uint64, price, qty int64, symbolFP uint32) (domain.Trade, bool) {
	backoff := TradeRingRetryBackoff
	for attempt := 0; attempt < TradeRingMaxRetries; attempt++ {
		if trade, ok := e.trades.OfferTrade(buyID, sellID, price, qty, symbolFP); ok {
			return trade, true
		}
		e.metrics.IncTradeRingFull()
		e.logger.Error("trade ring full, retrying", telemetry.F("attempt", attempt))
		time.Sleep(backoff)
		backoff *= 2
	}
	e.region.Header.SetStatus(mmapregion.StatusIdle)
	e.logger.Fatal("trade ring persistently full, halting")
	return domain.Trade{}, false
}

func (e *Engine) writeMarketData(symbolFP uint32, book *orderbook.OrderBook, lastPrice, lastQty, volumeDelta int64) {
	idx, ok := e.symbolIdx[symbolFP]
	if !ok {
		return
	}
	slot := e.region.MarketDataSlot(idx)
	md := ringbuf.DecodeMarketData(slot)
	md.SymbolFP = symbolFP
	if lastQty > 0 {
		md.LastPrice = lastPrice
		md.LastQty = lastQty
		md.Volume24h += volumeDelta
	}
	md.BestBid = book.BestBid()
	md.BestAsk = book.BestAsk()
	md.UpdateTime = time.Now().UnixNano()
	ringbuf.EncodeMarketData(slot, md)
}

func (e *Engine) writePriceLevels(symbolFP uint32, touched []orderbook.LevelTouch) {
	idx, ok := e.symbolIdx[symbolFP]
	if !ok {
		return
	}
	for _, t := range touched {
		sideOffset := 0
		if t.Side == domain.Sell {
			sideOffset = 1
		}
		slot := e.region.PriceLevelSlot(idx, sideOffset, t.Price)
		snap := domain.PriceLevelSnapshot{Price: t.Price, TotalQty: t.TotalQty, OrderCount: int64(t.OrderCount)}
		if t.Removed {
			snap = domain.PriceLevelSnapshot{}
		}
		ringbuf.EncodePriceLevelSnapshot(slot, snap)
	}
}

func (e *Engine) shutdown() {
	e.logger.Info("engine shutting down")
	e.region.Header.SetStatus(mmapregion.StatusIdle)
	if err := e.region.Flush(); err != nil {
		e.logger.Error("flush on shutdown failed", telemetry.F("err", err.Error()))
	}
}
