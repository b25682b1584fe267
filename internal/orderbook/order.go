package orderbook

import "github.com/JunYoungMoon/quantum-exchange/internal/domain"

// RestingOrder is the unfilled remainder of a LIMIT order resting in a
// book's FIFO at one price (§3). It shares identity with the Order it was
// derived from; Quantity decreases on each fill and it is unlinked once it
// reaches zero. The next/prev links make the FIFO an intrusive doubly
// linked list so PriceLevel never needs a second index.
type RestingOrder struct {
	ID        uint64
	Side      domain.Side
	Type      domain.OrderType
	Timestamp int64
	Price     int64
	Quantity  int64
	Status    domain.OrderStatus

	next *RestingOrder
	prev *RestingOrder

	// retireEpoch is stamped when the order leaves the book, so a reader
	// that entered before removal can keep walking it until reclamation
	// decides no such reader remains (see internal/engine epoch reclaim).
	retireEpoch uint64
}

// fillRestingOrder (re)initializes dst in place, letting a pooled
// *RestingOrder be reused without a fresh allocation (§9 supplement:
// epoch-based reclamation).
func fillRestingOrder(dst *RestingOrder, o domain.Order, remaining int64) *RestingOrder {
	dst.ID = o.ID
	dst.Side = o.Side
	dst.Type = o.Type
	dst.Timestamp = o.Timestamp
	dst.Price = o.Price
	dst.Quantity = remaining
	dst.Status = domain.Active
	dst.next = nil
	dst.prev = nil
	dst.retireEpoch = 0
	return dst
}

// Next and Prev expose the FIFO links read-only for snapshot iteration.
func (r *RestingOrder) Next() *RestingOrder { return r.next }
func (r *RestingOrder) Prev() *RestingOrder { return r.prev }

// RetireEpoch reports the epoch this order was retired at.
func (r *RestingOrder) RetireEpoch() uint64 { return r.retireEpoch }

func (r *RestingOrder) setLinks(prev, next *RestingOrder) {
	r.prev = prev
	r.next = next
}
