// Package admission implements the §6.2 submitter-facing contract: assign
// an id, stamp a timestamp, resolve the symbol fingerprint, validate, and
// offer to the order ring. Grounded on the teacher's infra/sequence
// package for monotonic id generation.
package admission

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
	"github.com/JunYoungMoon/quantum-exchange/internal/orderbook"
	"github.com/JunYoungMoon/quantum-exchange/internal/ringbuf"
)

// sequencer hands out strictly increasing order ids, starting at 1.
type sequencer struct {
	next atomic.Uint64
}

func newSequencer() *sequencer {
	s := &sequencer{}
	s.next.Store(0)
	return s
}

func (s *sequencer) Next() uint64 { return s.next.Add(1) }

// FailureKind classifies why admission rejected a submission (§7).
type FailureKind uint8

const (
	// FailureNone indicates admission succeeded.
	FailureNone FailureKind = iota
	// FailureUnknownSymbol means the symbol string is not registered.
	FailureUnknownSymbol
	// FailureInvalidFields means quantity<=0 or a non-positive LIMIT price.
	FailureInvalidFields
	// FailureRingFull means the order ring had no room; the caller may retry.
	FailureRingFull
)

// Failure is the typed admission rejection named in §6.2.
type Failure struct {
	Kind FailureKind
	Msg  string
}

func (f *Failure) Error() string { return f.Msg }

func newFailure(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// SymbolResolver maps a symbol string to its registered fingerprint.
type SymbolResolver interface {
	ResolveSymbol(symbol string) (fingerprint uint32, registered bool)
}

// Admitter is the thin layer every submitter goes through (§6.2). Multiple
// submitter goroutines may share one Admitter; Submit serializes offers to
// the order ring under a single mutex, matching §5's "simplest safe
// design" for a logically single-producer ring fed by many callers.
type Admitter struct {
	mu       sync.Mutex
	ring     *ringbuf.OrderRing
	symbols  SymbolResolver
	sequence *sequencer
	now      func() int64
}

// New creates an Admitter over ring, resolving symbols via symbols.
func New(ring *ringbuf.OrderRing, symbols SymbolResolver) *Admitter {
	return &Admitter{
		ring:     ring,
		symbols:  symbols,
		sequence: newSequencer(),
		now:      func() int64 { return time.Now().UnixNano() },
	}
}

// Submit runs the full §6.2 admission sequence for one order and offers it
// to the order ring. The returned domain.Order carries the id and
// timestamp actually admitted, useful for correlating a later fill.
func (a *Admitter) Submit(symbol string, side domain.Side, typ domain.OrderType, price, quantity int64) (domain.Order, *Failure) {
	if quantity <= 0 {
		return domain.Order{}, newFailure(FailureInvalidFields, "quantity must be positive, got %d", quantity)
	}
	if typ == domain.Limit && price <= 0 {
		return domain.Order{}, newFailure(FailureInvalidFields, "LIMIT order requires a positive price, got %d", price)
	}

	fp, ok := a.symbols.ResolveSymbol(symbol)
	if !ok {
		return domain.Order{}, newFailure(FailureUnknownSymbol, "symbol %q is not registered", symbol)
	}

	o := domain.Order{
		ID:        a.sequence.Next(),
		SymbolFP:  fp,
		Side:      side,
		Type:      typ,
		Price:     price,
		Quantity:  quantity,
		Timestamp: a.now(),
	}

	a.mu.Lock()
	accepted := a.ring.Offer(o)
	a.mu.Unlock()

	if !accepted {
		return domain.Order{}, newFailure(FailureRingFull, "order ring is full")
	}
	return o, nil
}

// registryResolver adapts *orderbook.Registry to SymbolResolver by
// fingerprinting the symbol and checking it is already known, rather than
// registering on demand — admission never creates new books.
type registryResolver struct {
	registry *orderbook.Registry
}

// NewRegistryResolver adapts registry as a SymbolResolver.
func NewRegistryResolver(registry *orderbook.Registry) SymbolResolver {
	return &registryResolver{registry: registry}
}

func (r *registryResolver) ResolveSymbol(symbol string) (uint32, bool) {
	fp := domain.SymbolFingerprint(symbol)
	if _, ok := r.registry.Lookup(fp); !ok {
		return 0, false
	}
	return fp, true
}
