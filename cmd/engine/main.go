// Command engine wires the matching core together: config, telemetry,
// the mapped region, the per-symbol book registry, the engine loop, the
// resting-order store, and the Kafka trade broadcaster. Wiring style
// (context cancellation, background goroutines, signal-driven shutdown)
// is grounded on the teacher's cmd/server/main.go.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JunYoungMoon/quantum-exchange/internal/admission"
	"github.com/JunYoungMoon/quantum-exchange/internal/broadcaster"
	"github.com/JunYoungMoon/quantum-exchange/internal/config"
	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
	"github.com/JunYoungMoon/quantum-exchange/internal/engine"
	"github.com/JunYoungMoon/quantum-exchange/internal/mmapregion"
	"github.com/JunYoungMoon/quantum-exchange/internal/orderbook"
	"github.com/JunYoungMoon/quantum-exchange/internal/restingstore"
	"github.com/JunYoungMoon/quantum-exchange/internal/ringbuf"
	"github.com/JunYoungMoon/quantum-exchange/internal/telemetry"
)

func main() {
	logger, err := telemetry.NewZapLogger()
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load(".env")
	if err != nil {
		logger.Fatal("config load failed", telemetry.F("err", err.Error()))
		os.Exit(1)
	}

	region, err := mmapregion.Open(cfg.RegionPath)
	if err != nil {
		logger.Fatal("region open failed", telemetry.F("err", err.Error()))
		os.Exit(1)
	}
	defer region.Close()

	registry := orderbook.NewRegistry(mmapregion.MaxSymbols)
	symbolOrder := make([]uint32, 0, mmapregion.MaxSymbols)
	allSymbols := append(append([]string{}, orderbook.DefaultSymbols...), cfg.AdditionalSymbols...)
	for _, sym := range allSymbols {
		fp := domain.SymbolFingerprint(sym)
		if _, regErr := registry.Register(sym, fp); regErr != nil {
			logger.Fatal("symbol registration failed", telemetry.F("symbol", sym), telemetry.F("err", regErr.Error()))
			os.Exit(1)
		}
		symbolOrder = append(symbolOrder, fp)
	}

	var store restingstore.Store
	var durableStore *restingstore.DurableStore
	if cfg.DurableResting {
		durableStore, err = restingstore.OpenDurableStore(cfg.RestingStoreDir)
		if err != nil {
			logger.Fatal("durable resting store open failed", telemetry.F("err", err.Error()))
			os.Exit(1)
		}
		defer durableStore.Close()
		store = durableStore
	} else {
		store = restingstore.NewMemoryStore()
	}

	var bc *broadcaster.Broadcaster
	if cfg.KafkaEnabled {
		bc, err = broadcaster.New(cfg.KafkaBrokers, cfg.KafkaTopic, durableStore, logger)
		if err != nil {
			logger.Error("broadcaster init failed, continuing without it", telemetry.F("err", err.Error()))
			bc = nil
		}
	}

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewPromMetrics(reg)

	var tradeBroadcaster engine.TradeBroadcaster
	if bc != nil {
		tradeBroadcaster = bc
	}
	eng := engine.New(region, registry, store, tradeBroadcaster, logger, metrics, symbolOrder)

	ring := ringbuf.NewOrderRing(region)
	admitter := admission.New(ring, admission.NewRegistryResolver(registry))
	_ = admitter // admitter is exposed to submitters via whatever transport wraps this binary

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if bc != nil {
		bc.Start(ctx)
		defer bc.Close()
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		if serveErr := srv.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("metrics server exited", telemetry.F("err", serveErr.Error()))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	logger.Info("matching engine starting", telemetry.F("region", cfg.RegionPath))

	done := make(chan struct{})
	go func() {
		eng.Run(ctx)
		close(done)
	}()

	// Block until a shutdown signal fires ctx; then give the in-flight
	// process_order call a hard deadline to finish (§5's "Cancellation /
	// timeout").
	<-ctx.Done()
	select {
	case <-done:
		logger.Info("engine shut down cleanly")
	case <-time.After(5 * time.Second):
		logger.Error("engine shutdown exceeded hard deadline")
	}
}
