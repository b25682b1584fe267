package ringbuf

import (
	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
	"github.com/JunYoungMoon/quantum-exchange/internal/mmapregion"
)

// OrderRing is the §4.2 single-producer/single-consumer queue: submitters
// offer, the engine polls. Both sides share one mapped header's
// order_ring_head/order_ring_tail words as the publish points. Header's
// accessors already go through sync/atomic, giving the required
// release-before-publish / acquire-before-read ordering (§4.2).
type OrderRing struct {
	region *mmapregion.Region
}

// NewOrderRing wraps region's order-ring section.
func NewOrderRing(region *mmapregion.Region) *OrderRing {
	return &OrderRing{region: region}
}

// Offer serializes o into the tail slot and publishes the new tail.
// Returns false if the ring is full ((tail+1) mod N == head).
func (r *OrderRing) Offer(o domain.Order) bool {
	h := r.region.Header
	tail := h.OrderRingTail()
	head := h.OrderRingHead()
	next := (tail + 1) % mmapregion.NOrder

	if next == head {
		return false
	}

	EncodeOrder(r.region.OrderSlot(tail), o)
	h.SetOrderRingTail(next)
	return true
}

// Poll deserializes the head slot and advances head, or reports ok=false
// if the ring is empty.
func (r *OrderRing) Poll() (order domain.Order, ok bool) {
	h := r.region.Header
	head := h.OrderRingHead()
	tail := h.OrderRingTail()
	if head == tail {
		return domain.Order{}, false
	}

	order = DecodeOrder(r.region.OrderSlot(head))
	h.SetOrderRingHead((head + 1) % mmapregion.NOrder)
	return order, true
}

// Size, IsEmpty and IsFull are derived from (head, tail, N) per §4.2.
func (r *OrderRing) Size() uint64 {
	h := r.region.Header
	tail := h.OrderRingTail()
	head := h.OrderRingHead()
	if tail >= head {
		return tail - head
	}
	return mmapregion.NOrder - head + tail
}

func (r *OrderRing) IsEmpty() bool { return r.Size() == 0 }
func (r *OrderRing) IsFull() bool  { return r.Size() == mmapregion.NOrder-1 }
