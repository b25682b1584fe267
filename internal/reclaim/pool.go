package reclaim

import "sync"

// Pool is a generic sync.Pool wrapper, adapted from the teacher's
// infra/memory.Pool[T]. PutAny lets it participate in epoch-gated
// reclamation without leaking type information into the ring.
type Pool[T any] struct {
	p *sync.Pool
}

// NewPool builds a Pool whose elements are constructed by ctor on a miss.
func NewPool[T any](ctor func() *T) *Pool[T] {
	return &Pool[T]{p: &sync.Pool{New: func() any { return ctor() }}}
}

// Get returns a pooled *T, constructing one if the pool is empty.
func (p *Pool[T]) Get() *T {
	return p.p.Get().(*T)
}

// Put returns v to the pool for reuse.
func (p *Pool[T]) Put(v *T) {
	p.p.Put(v)
}

// PutAny is the type-erased adapter AdvanceAndReclaim uses; it panics if
// v is not a *T, which would indicate a RetireRing wired to the wrong
// pool.
func (p *Pool[T]) PutAny(v any) {
	obj, ok := v.(*T)
	if !ok {
		panic("reclaim.Pool: PutAny received the wrong type")
	}
	p.Put(obj)
}

// ReclaimablePool is the only capability AdvanceAndReclaim needs from a
// pool; Pool[T] satisfies it via PutAny.
type ReclaimablePool interface {
	PutAny(any)
}

// AdvanceAndReclaim advances the global epoch, then drains ring into pool
// only if none of readers is active (nil readers are ignored). If any
// reader is active, whatever epoch it entered at, nothing is reclaimed:
// the first dequeued object is requeued at the back of the ring and the
// sweep stops (§9 supplement). Objects do not carry their retire epoch
// here, so reclamation is not decided per object.
func AdvanceAndReclaim(ring *RetireRing, pool ReclaimablePool, readers ...*ReaderEpoch) int {
	Epoch.Add(1)
	min := minReaderEpoch(readers)

	reclaimed := 0
	for {
		obj := ring.Dequeue()
		if obj == nil {
			return reclaimed
		}
		if min == inactive {
			pool.PutAny(obj)
			reclaimed++
			continue
		}
		_ = ring.Enqueue(obj)
		return reclaimed
	}
}
