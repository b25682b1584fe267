package mmapregion

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// unsafePointer returns a pointer to raw[off], used to overlay the fixed
// little-endian header/slot layouts onto mapped memory without a copy
// (same technique as jotacomputing-go-api's queue.QueueHeader overlay).
func unsafePointer(raw []byte, off int) unsafe.Pointer {
	return unsafe.Pointer(&raw[off])
}

// Region is the shared mapped file described in spec §6: header, order
// ring, trade ring, market-data array, and price-level snapshot array,
// all in one contiguous mmap-ed region.
type Region struct {
	file *os.File
	m    mmap.MMap

	Header *Header

	orderRing   []byte
	tradeRing   []byte
	marketData  []byte
	priceLevels []byte
}

// Open maps path read-write, creating it if it does not yet exist and
// truncating or extending it to TotalSize whenever its size differs. If
// the header's version is 0 the region is treated as
// uninitialized and zeroed before the header is (re-)populated; otherwise
// the existing header is adopted as-is (§4.1).
func Open(path string) (*Region, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mmapregion: open %s: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("mmapregion: stat %s: %w", path, err)
	}
	if stat.Size() != TotalSize {
		if err := file.Truncate(TotalSize); err != nil {
			file.Close()
			return nil, fmt.Errorf("mmapregion: truncate %s to %d: %w", path, TotalSize, err)
		}
	}

	m, err := mmap.Map(file, mmap.RDWR, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("mmapregion: mmap %s: %w", path, err)
	}

	r := &Region{
		file:        file,
		m:           m,
		Header:      newHeader(m),
		orderRing:   m[OrderRingOffset:TradeRingOffset],
		tradeRing:   m[TradeRingOffset:MarketDataOffset],
		marketData:  m[MarketDataOffset:PriceLevelsOffset],
		priceLevels: m[PriceLevelsOffset:TotalSize],
	}

	if r.Header.Version() == 0 {
		r.reset()
	}

	return r, nil
}

// MarkActive sets status=1, called once the engine loop is about to start
// consuming the order ring (§4.1, §4.8). Submitters that only open the
// region to admit orders must not call this.
func (r *Region) MarkActive() { r.Header.SetStatus(StatusActive) }

// reset zeroes the region and populates a fresh header (§4.1's "first
// open" path).
func (r *Region) reset() {
	for i := range r.m {
		r.m[i] = 0
	}
	r.Header.SetOrderRingHead(0)
	r.Header.SetOrderRingTail(0)
	r.Header.SetTradeRingHead(0)
	r.Header.SetTradeRingTail(0)
	// next_trade_id is initialized to 1 (§6.1); IncrementTradeID returns
	// the pre-increment value, so storing 1 here makes the first assigned
	// id equal to 1.
	seedNextTradeID(r.Header, 1)
	r.Header.SetLastUpdateTS(0)
	r.Header.SetVersion(SchemaVersion)
	r.Header.SetStatus(StatusIdle)
}

// seedNextTradeID sets next_trade_id during reset, when the region has no
// concurrent readers yet. Callers elsewhere only ever increment the field
// through IncrementTradeID, never set it directly.
func seedNextTradeID(h *Header, v uint64) {
	*h.word(offNextTradeID) = v
}

// OrderSlot returns the byte window for order-ring slot index i.
func (r *Region) OrderSlot(i uint64) []byte {
	idx := i % NOrder
	start := idx * OrderSlotSize
	return r.orderRing[start : start+OrderSlotSize]
}

// TradeSlot returns the byte window for trade-ring slot index i.
func (r *Region) TradeSlot(i uint64) []byte {
	idx := i % NTrade
	start := idx * TradeSlotSize
	return r.tradeRing[start : start+TradeSlotSize]
}

// MarketDataSlot returns the byte window for the market-data record at
// symbolIndex.
func (r *Region) MarketDataSlot(symbolIndex int) []byte {
	start := int64(symbolIndex) * MarketDataSize
	return r.marketData[start : start+MarketDataSize]
}

// PriceLevelSlot returns the byte window for the price-level snapshot
// record addressed by (symbolIndex, sideOffset, price) per §6.1.
func (r *Region) PriceLevelSlot(symbolIndex int, sideOffset int, price int64) []byte {
	idx := PriceLevelIndex(symbolIndex, sideOffset, price)
	start := idx * PriceLevelSize
	return r.priceLevels[start : start+PriceLevelSize]
}

// Flush forces the mapped pages to disk.
func (r *Region) Flush() error {
	return r.m.Flush()
}

// Close marks the region idle, flushes, unmaps, and closes the backing
// file. This is the engine's clean-shutdown path (§4.8).
func (r *Region) Close() error {
	r.Header.SetStatus(StatusIdle)
	if err := r.m.Flush(); err != nil {
		_ = r.m.Unmap()
		_ = r.file.Close()
		return fmt.Errorf("mmapregion: flush: %w", err)
	}
	if err := r.m.Unmap(); err != nil {
		_ = r.file.Close()
		return fmt.Errorf("mmapregion: unmap: %w", err)
	}
	return r.file.Close()
}
