package ringbuf

import (
	"encoding/binary"

	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
)

// EncodeMarketData writes md into dst (exactly mmapregion.MarketDataSize
// bytes) in the §6.1 layout: symbol_fp(4) last_price(8) last_quantity(8)
// volume_24h(8) best_bid(8) best_ask(8) timestamp(8).
func EncodeMarketData(dst []byte, md domain.MarketData) {
	binary.LittleEndian.PutUint32(dst[0:4], md.SymbolFP)
	binary.LittleEndian.PutUint64(dst[4:12], uint64(md.LastPrice))
	binary.LittleEndian.PutUint64(dst[12:20], uint64(md.LastQty))
	binary.LittleEndian.PutUint64(dst[20:28], uint64(md.Volume24h))
	binary.LittleEndian.PutUint64(dst[28:36], uint64(md.BestBid))
	binary.LittleEndian.PutUint64(dst[36:44], uint64(md.BestAsk))
	binary.LittleEndian.PutUint64(dst[44:52], uint64(md.UpdateTime))
}

// DecodeMarketData reads a market-data record from src (exactly
// mmapregion.MarketDataSize bytes).
func DecodeMarketData(src []byte) domain.MarketData {
	return domain.MarketData{
		SymbolFP:   binary.LittleEndian.Uint32(src[0:4]),
		LastPrice:  int64(binary.LittleEndian.Uint64(src[4:12])),
		LastQty:    int64(binary.LittleEndian.Uint64(src[12:20])),
		Volume24h:  int64(binary.LittleEndian.Uint64(src[20:28])),
		BestBid:    int64(binary.LittleEndian.Uint64(src[28:36])),
		BestAsk:    int64(binary.LittleEndian.Uint64(src[36:44])),
		UpdateTime: int64(binary.LittleEndian.Uint64(src[44:52])),
	}
}

// EncodePriceLevelSnapshot writes snap into dst (exactly
// mmapregion.PriceLevelSize bytes): price(8) total_quantity(8)
// order_count(8).
func EncodePriceLevelSnapshot(dst []byte, snap domain.PriceLevelSnapshot) {
	binary.LittleEndian.PutUint64(dst[0:8], uint64(snap.Price))
	binary.LittleEndian.PutUint64(dst[8:16], uint64(snap.TotalQty))
	binary.LittleEndian.PutUint64(dst[16:24], uint64(snap.OrderCount))
}

// DecodePriceLevelSnapshot reads a price-level snapshot record from src
// (exactly mmapregion.PriceLevelSize bytes).
func DecodePriceLevelSnapshot(src []byte) domain.PriceLevelSnapshot {
	return domain.PriceLevelSnapshot{
		Price:      int64(binary.LittleEndian.Uint64(src[0:8])),
		TotalQty:   int64(binary.LittleEndian.Uint64(src[8:16])),
		OrderCount: int64(binary.LittleEndian.Uint64(src[16:24])),
	}
}
