// Package ringbuf implements the §4.2/§4.3 single-producer/single-consumer
// ring discipline over the order and trade sections of a mapped region,
// plus the bit-exact §6.1 binary codec for their fixed-size slots. The
// head/tail indices are adjacent 8-byte words of the region header, read
// and published via sync/atomic; the ring shape follows
// jotacomputing-go-api's queue/orderqueue.go.
package ringbuf

import (
	"encoding/binary"

	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
)

// EncodeOrder writes o into dst (must be exactly mmapregion.OrderSlotSize
// bytes) in the §6.1 order-slot layout: order_id(8) symbol_fp(4) side(4)
// type(4) price(8) quantity(8) timestamp(8), little-endian.
func EncodeOrder(dst []byte, o domain.Order) {
	binary.LittleEndian.PutUint64(dst[0:8], o.ID)
	binary.LittleEndian.PutUint32(dst[8:12], o.SymbolFP)
	binary.LittleEndian.PutUint32(dst[12:16], uint32(o.Side))
	binary.LittleEndian.PutUint32(dst[16:20], uint32(o.Type))
	binary.LittleEndian.PutUint64(dst[20:28], uint64(o.Price))
	binary.LittleEndian.PutUint64(dst[28:36], uint64(o.Quantity))
	binary.LittleEndian.PutUint64(dst[36:44], uint64(o.Timestamp))
}

// DecodeOrder reads an order-slot from src (exactly mmapregion.OrderSlotSize
// bytes). A zero-initialized slot decodes to id=0, which fails
// domain.Order.Valid() by construction (§6.1's "enum values start at zero"
// note).
func DecodeOrder(src []byte) domain.Order {
	return domain.Order{
		ID:        binary.LittleEndian.Uint64(src[0:8]),
		SymbolFP:  binary.LittleEndian.Uint32(src[8:12]),
		Side:      domain.Side(binary.LittleEndian.Uint32(src[12:16])),
		Type:      domain.OrderType(binary.LittleEndian.Uint32(src[16:20])),
		Price:     int64(binary.LittleEndian.Uint64(src[20:28])),
		Quantity:  int64(binary.LittleEndian.Uint64(src[28:36])),
		Timestamp: int64(binary.LittleEndian.Uint64(src[36:44])),
	}
}

// EncodeTrade writes t into dst (exactly mmapregion.TradeSlotSize bytes) in
// the 44-byte trade-slot layout: trade_id(8) buy_id(8) sell_id(8) price(8)
// quantity(8) symbol_fp(4), little-endian. t.Timestamp is not encoded.
func EncodeTrade(dst []byte, t domain.Trade) {
	binary.LittleEndian.PutUint64(dst[0:8], t.TradeID)
	binary.LittleEndian.PutUint64(dst[8:16], t.BuyID)
	binary.LittleEndian.PutUint64(dst[16:24], t.SellID)
	binary.LittleEndian.PutUint64(dst[24:32], uint64(t.Price))
	binary.LittleEndian.PutUint64(dst[32:40], uint64(t.Quantity))
	binary.LittleEndian.PutUint32(dst[40:44], t.SymbolFP)
}

// DecodeTrade reads a trade-slot from src (exactly mmapregion.TradeSlotSize
// bytes). Note the record layout omits the timestamp from the trailing
// fixed fields in the encoded bytes laid out above; callers that need the
// timestamp carry it separately via the domain.Trade value they already
// hold, since the engine is both writer and sole reader of trade slots in
// this build.
func DecodeTrade(src []byte) domain.Trade {
	return domain.Trade{
		TradeID:  binary.LittleEndian.Uint64(src[0:8]),
		BuyID:    binary.LittleEndian.Uint64(src[8:16]),
		SellID:   binary.LittleEndian.Uint64(src[16:24]),
		Price:    int64(binary.LittleEndian.Uint64(src[24:32])),
		Quantity: int64(binary.LittleEndian.Uint64(src[32:40])),
		SymbolFP: binary.LittleEndian.Uint32(src[40:44]),
	}
}
