package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the engine-facing counters/histogram surface named in §4.6's
// "engine statistics" and §7's error counters: discarded slots, unknown
// symbols, ring-full events, and per-iteration latency.
type Metrics interface {
	IncDiscardedSlots(n int)
	IncUnknownSymbol()
	IncTradeRingFull()
	IncOrderRingFull()
	ObserveIterationLatency(seconds float64)
}

// promMetrics is the prometheus/client_golang-backed implementation
// registered against a *prometheus.Registry and served over /metrics by
// cmd/engine.
type promMetrics struct {
	discardedSlots   prometheus.Counter
	unknownSymbol    prometheus.Counter
	tradeRingFull    prometheus.Counter
	orderRingFull    prometheus.Counter
	iterationLatency prometheus.Histogram
}

// NewPromMetrics registers the engine's metric set against reg.
func NewPromMetrics(reg prometheus.Registerer) Metrics {
	m := &promMetrics{
		discardedSlots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matching_engine",
			Name:      "discarded_slots_total",
			Help:      "Order-ring slots discarded for failing the validity predicate.",
		}),
		unknownSymbol: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matching_engine",
			Name:      "unknown_symbol_total",
			Help:      "Orders dropped for an unresolvable symbol fingerprint.",
		}),
		tradeRingFull: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matching_engine",
			Name:      "trade_ring_full_total",
			Help:      "Trade-ring offer attempts rejected because the ring was full.",
		}),
		orderRingFull: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matching_engine",
			Name:      "order_ring_full_total",
			Help:      "Order submissions rejected because the order ring was full.",
		}),
		iterationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "matching_engine",
			Name:      "loop_iteration_seconds",
			Help:      "Processing latency of one matching-engine loop iteration.",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12),
		}),
	}
	reg.MustRegister(m.discardedSlots, m.unknownSymbol, m.tradeRingFull, m.orderRingFull, m.iterationLatency)
	return m
}

func (m *promMetrics) IncDiscardedSlots(n int)    { m.discardedSlots.Add(float64(n)) }
func (m *promMetrics) IncUnknownSymbol()          { m.unknownSymbol.Inc() }
func (m *promMetrics) IncTradeRingFull()          { m.tradeRingFull.Inc() }
func (m *promMetrics) IncOrderRingFull()          { m.orderRingFull.Inc() }
func (m *promMetrics) ObserveIterationLatency(s float64) { m.iterationLatency.Observe(s) }

// NoopMetrics discards everything; useful for tests that don't care about
// observability wiring.
type NoopMetrics struct{}

func (NoopMetrics) IncDiscardedSlots(int)          {}
func (NoopMetrics) IncUnknownSymbol()              {}
func (NoopMetrics) IncTradeRingFull()              {}
func (NoopMetrics) IncOrderRingFull()              {}
func (NoopMetrics) ObserveIterationLatency(float64) {}
