package domain

// Trade is emitted on a fill (§3). TradeID is assigned monotonically by
// the trade ring at the moment the fill is committed.
type Trade struct {
	TradeID   uint64
	BuyID     uint64
	SellID    uint64
	Price     int64
	Quantity  int64
	Timestamp int64
	SymbolFP  uint32
}
