package orderbook

import "github.com/JunYoungMoon/quantum-exchange/internal/domain"

// PriceLevel is the aggregate at one price on one side (§3): a FIFO of
// resting orders plus cached totals that must always equal the sum and
// count of that FIFO (invariant B1). The FIFO is an intrusive doubly
// linked list: append and pop-first are O(1), and removing a given order
// from mid-list is an O(n) walk, with no second index.
type PriceLevel struct {
	Price      int64
	TotalQty   int64
	OrderCount int

	head *RestingOrder
	tail *RestingOrder
}

// Head returns the earliest-appended resting order, or nil if empty.
func (p *PriceLevel) Head() *RestingOrder { return p.head }

// Empty reports whether the level's FIFO holds no resting orders.
func (p *PriceLevel) Empty() bool { return p.head == nil }

// Enqueue appends a resting order to the tail of the FIFO, preserving
// price-time priority (§4.4, the §4.5 tie-break rule).
func (p *PriceLevel) Enqueue(o *RestingOrder) {
	if p.tail == nil {
		o.setLinks(nil, nil)
		p.head, p.tail = o, o
	} else {
		o.setLinks(p.tail, nil)
		p.tail.next = o
		p.tail = o
	}
	p.TotalQty += o.Quantity
	p.OrderCount++
}

// FillHead consumes qty from the head resting order. If the head is fully
// consumed it is unlinked and returned (status set to Inactive) so the
// caller can notify the resting-order store and recycle it; otherwise nil
// is returned and the head stays at the front of the FIFO.
func (p *PriceLevel) FillHead(qty int64) (removed *RestingOrder) {
	o := p.head
	o.Quantity -= qty
	p.TotalQty -= qty
	if o.Quantity == 0 {
		p.popHead()
		o.Status = domain.Inactive
		return o
	}
	return nil
}

func (p *PriceLevel) popHead() {
	o := p.head
	if o == nil {
		return
	}
	next := o.next
	p.head = next
	if next != nil {
		next.prev = nil
	} else {
		p.tail = nil
	}
	o.setLinks(nil, nil)
	p.OrderCount--
}

// Remove unlinks an arbitrary resting order from the FIFO. This is the
// O(n) defensive-consistency path (§4.4); the hot matching path never
// calls it.
func (p *PriceLevel) Remove(o *RestingOrder) bool {
	for n := p.head; n != nil; n = n.next {
		if n != o {
			continue
		}
		prev, next := n.prev, n.next
		if prev != nil {
			prev.next = next
		} else {
			p.head = next
		}
		if next != nil {
			next.prev = prev
		} else {
			p.tail = prev
		}
		n.setLinks(nil, nil)
		p.TotalQty -= n.Quantity
		p.OrderCount--
		return true
	}
	return false
}
