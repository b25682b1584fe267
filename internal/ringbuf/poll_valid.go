package ringbuf

import "github.com/JunYoungMoon/quantum-exchange/internal/domain"

// MaxConsecutiveDiscards bounds how many invalid slots PollValid will skip
// in one call before giving up, per §4.2/§7's "bound the number of
// consecutive discards (implementation suggestion: 100) to avoid
// unbounded recursion on pathological corruption".
const MaxConsecutiveDiscards = 100

// PollValid polls the ring, silently discarding and advancing past slots
// that fail domain.Order.Valid() (§3, §7), up to MaxConsecutiveDiscards in
// a row. discarded reports how many slots were skipped this call so the
// caller can feed its discard counter (§7).
func (r *OrderRing) PollValid() (order domain.Order, ok bool, discarded int) {
	for discarded < MaxConsecutiveDiscards {
		o, polled := r.Poll()
		if !polled {
			return domain.Order{}, false, discarded
		}
		if o.Valid() {
			return o, true, discarded
		}
		discarded++
	}
	return domain.Order{}, false, discarded
}
