// Package restingstore implements the §4.7 resting-order side store: an
// observer index the engine updates as it fills and rests orders, never
// consulted for matching decisions. The engine calls it synchronously from
// its loop; the calls are not made asynchronous.
package restingstore

import "github.com/JunYoungMoon/quantum-exchange/internal/domain"

// Record is the side store's view of one resting order.
type Record struct {
	ID       uint64
	Side     domain.Side
	Price    int64
	Quantity int64
}

// Store is the §4.7 contract: add/update_quantity/remove.
type Store interface {
	// Add fails silently if rec.ID == 0 and is idempotent on a duplicate id.
	Add(rec Record)
	// UpdateQuantity sets the stored quantity for id; a new quantity <= 0
	// is equivalent to Remove.
	UpdateQuantity(id uint64, newQuantity int64)
	// Remove deletes id's record and returns it, or ok=false if unknown.
	Remove(id uint64) (Record, bool)
	// Get looks up id without mutating the store.
	Get(id uint64) (Record, bool)
}
