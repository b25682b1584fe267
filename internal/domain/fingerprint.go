package domain

import "github.com/cespare/xxhash/v2"

// SymbolFingerprint hashes a symbol string (e.g. "BTC-USD") down to the
// 32-bit identifier carried in mapped records (§3, §6.1). Collisions are
// rejected at registration time, not here.
func SymbolFingerprint(symbol string) uint32 {
	return uint32(xxhash.Sum64String(symbol))
}
