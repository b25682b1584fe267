package reclaim

import "sync/atomic"

// RetireRing is a lock-free SPSC ring of retired objects awaiting
// reclamation, adapted from the teacher's infra/memory.RetireRing. Slots
// hold values of type any; internal/orderbook retires *RestingOrder
// values into it.
type RetireRing struct {
	head  uint64
	_pad1 [56]byte
	tail  uint64
	_pad2 [56]byte
	buf   []any
	mask  uint64
}

// NewRetireRing builds a ring of the given size, which must be a power of
// two.
func NewRetireRing(size uint64) *RetireRing {
	if size == 0 || size&(size-1) != 0 {
		panic("reclaim: RetireRing size must be a power of two")
	}
	return &RetireRing{buf: make([]any, size), mask: size - 1}
}

// Enqueue retires v. Returns false if the ring is full, in which case the
// caller should drop v on the floor rather than block the matching loop.
func (r *RetireRing) Enqueue(v any) bool {
	h := r.head
	t := atomic.LoadUint64(&r.tail)
	if h-t == uint64(len(r.buf)) {
		return false
	}
	r.buf[h&r.mask] = v
	r.head = h + 1
	return true
}

// Dequeue pops the oldest retired object, or nil if empty.
func (r *RetireRing) Dequeue() any {
	t := r.tail
	h := atomic.LoadUint64(&r.head)
	if t == h {
		return nil
	}
	v := r.buf[t&r.mask]
	r.buf[t&r.mask] = nil
	r.tail = t + 1
	return v
}

// Len reports the number of objects currently retired and unreclaimed.
func (r *RetireRing) Len() int {
	return int(atomic.LoadUint64(&r.head) - r.tail)
}
