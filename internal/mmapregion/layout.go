// Package mmapregion maps the shared region file described in spec §6.1:
// a fixed 64-byte header followed by the order ring, trade ring,
// per-symbol market-data array, and per-symbol price-level snapshot array.
// It is grounded on jotacomputing-go-api's queue/orderqueue.go, which maps
// a near-identical header+ring shape with github.com/edsrzf/mmap-go.
package mmapregion

// Capacity constants from §6.1.
const (
	NOrder     = 1 << 20 // 1,048,576 order-ring slots
	NTrade     = 1 << 20 // 1,048,576 trade-ring slots
	MaxSymbols = 1000
	MaxLevels  = 10000

	HeaderSize      = 64
	OrderSlotSize   = 52
	TradeSlotSize   = 44
	MarketDataSize  = 52
	PriceLevelSize  = 24
	SidesPerSymbol  = 2
)

// Byte offsets of each header field (§6.1 table).
const (
	offOrderRingHead = 0
	offOrderRingTail = 8
	offTradeRingHead = 16
	offTradeRingTail = 24
	offNextTradeID   = 32
	offLastUpdateTS  = 40
	offVersion       = 48
	offStatus        = 56
)

// Region status values (§4.1, §4.8).
const (
	StatusIdle   uint64 = 0
	StatusActive uint64 = 1
)

// SchemaVersion is written into the header on first create. A region with
// version==0 is treated as uninitialized and reset (§4.1).
const SchemaVersion uint64 = 1

// Section byte offsets within the mapped file, computed from the fixed
// capacities above (§6).
var (
	OrderRingOffset      = int64(HeaderSize)
	TradeRingOffset      = OrderRingOffset + int64(NOrder)*OrderSlotSize
	MarketDataOffset     = TradeRingOffset + int64(NTrade)*TradeSlotSize
	PriceLevelsOffset    = MarketDataOffset + int64(MaxSymbols)*MarketDataSize
	TotalSize            = PriceLevelsOffset + int64(MaxSymbols)*SidesPerSymbol*MaxLevels*PriceLevelSize
)

// PriceLevelIndex computes the flat record index into the price-levels
// array for symbol index s, side (0=bid,1=ask) and price:
// `s * 2 * MAX_LEVELS + side * MAX_LEVELS + (price mod MAX_LEVELS)`.
// Collisions from the price-mod-MAX_LEVELS reduction are accepted as a
// lossy snapshot (§9 open question, resolved as-is).
func PriceLevelIndex(symbolIndex int, sideOffset int, price int64) int64 {
	slot := price % MaxLevels
	if slot < 0 {
		slot += MaxLevels
	}
	return int64(symbolIndex)*SidesPerSymbol*MaxLevels + int64(sideOffset)*MaxLevels + slot
}
