package domain

// MarketData is the per-symbol derived view the engine refreshes after
// every processed order and every emitted trade (§3).
type MarketData struct {
	SymbolFP   uint32
	LastPrice  int64
	LastQty    int64
	Volume24h  int64
	BestBid    int64
	BestAsk    int64
	UpdateTime int64
}

// PriceLevelSnapshot is the lossy, dense projection of one price level
// written into the mapped region's price-levels array (§6.1). Collisions
// across prices that hash to the same MAX_LEVELS slot are accepted; it is
// not the authoritative depth source.
type PriceLevelSnapshot struct {
	Price      int64
	TotalQty   int64
	OrderCount int64
}
