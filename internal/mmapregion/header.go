package mmapregion

import "sync/atomic"

// Header is a view over the first HeaderSize bytes of the mapped region.
// Every field is a naturally-aligned uint64 accessed only through
// sync/atomic, since submitters and the engine process share this memory
// concurrently (§4.1, §5).
type Header struct {
	raw []byte
}

func newHeader(raw []byte) *Header {
	return &Header{raw: raw[:HeaderSize:HeaderSize]}
}

func (h *Header) word(off int) *uint64 {
	return (*uint64)(unsafePointer(h.raw, off))
}

func (h *Header) OrderRingHead() uint64        { return atomic.LoadUint64(h.word(offOrderRingHead)) }
func (h *Header) SetOrderRingHead(v uint64)     { atomic.StoreUint64(h.word(offOrderRingHead), v) }
func (h *Header) OrderRingTail() uint64        { return atomic.LoadUint64(h.word(offOrderRingTail)) }
func (h *Header) SetOrderRingTail(v uint64)     { atomic.StoreUint64(h.word(offOrderRingTail), v) }

func (h *Header) TradeRingHead() uint64    { return atomic.LoadUint64(h.word(offTradeRingHead)) }
func (h *Header) SetTradeRingHead(v uint64) { atomic.StoreUint64(h.word(offTradeRingHead), v) }
func (h *Header) TradeRingTail() uint64    { return atomic.LoadUint64(h.word(offTradeRingTail)) }
func (h *Header) SetTradeRingTail(v uint64) { atomic.StoreUint64(h.word(offTradeRingTail), v) }

func (h *Header) NextTradeID() uint64 { return atomic.LoadUint64(h.word(offNextTradeID)) }

// IncrementTradeID atomically claims the next trade id, per offer_trade's
// "atomically increments the header's next_trade_id" (§4.3).
func (h *Header) IncrementTradeID() uint64 {
	return atomic.AddUint64(h.word(offNextTradeID), 1) - 1
}

func (h *Header) LastUpdateTS() uint64    { return atomic.LoadUint64(h.word(offLastUpdateTS)) }
func (h *Header) SetLastUpdateTS(v uint64) { atomic.StoreUint64(h.word(offLastUpdateTS), v) }

func (h *Header) Version() uint64    { return atomic.LoadUint64(h.word(offVersion)) }
func (h *Header) SetVersion(v uint64) { atomic.StoreUint64(h.word(offVersion), v) }

func (h *Header) Status() uint64    { return atomic.LoadUint64(h.word(offStatus)) }
func (h *Header) SetStatus(v uint64) { atomic.StoreUint64(h.word(offStatus), v) }
