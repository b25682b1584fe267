// Package broadcaster publishes committed trades to Kafka via sarama, and
// sweeps the durable resting-order outbox for anything left in the NEW or
// SENT state. Grounded on the teacher's jobs/broadcaster
// package: a sync producer, a ticking replay loop, and NEW -> SENT ->
// ACKED transitions recorded in the durable side store.
package broadcaster

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
	"github.com/JunYoungMoon/quantum-exchange/internal/restingstore"
	"github.com/JunYoungMoon/quantum-exchange/internal/telemetry"
)

// tradeEvent is the wire shape published to Kafka for one committed trade.
type tradeEvent struct {
	TradeID   uint64 `json:"trade_id"`
	BuyID     uint64 `json:"buy_id"`
	SellID    uint64 `json:"sell_id"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Timestamp int64  `json:"timestamp"`
	SymbolFP  uint32 `json:"symbol_fp"`
}

// Broadcaster publishes trades and replays the durable outbox (§4.7
// supplement). The engine calls Publish synchronously from its loop;
// Publish waits for the sync producer's send to succeed or fail and never
// returns an error to the engine.
type Broadcaster struct {
	producer sarama.SyncProducer
	topic    string
	store    *restingstore.DurableStore
	logger   telemetry.Logger
}

// New dials brokers and returns a ready Broadcaster. store may be nil if
// no durable outbox replay is configured.
func New(brokers []string, topic string, store *restingstore.DurableStore, logger telemetry.Logger) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Broadcaster{producer: producer, topic: topic, store: store, logger: logger}, nil
}

// Publish sends one trade to Kafka. Failures are logged, not returned,
// since the engine treats broadcasting as best-effort.
func (b *Broadcaster) Publish(trade domain.Trade) {
	payload, err := json.Marshal(tradeEvent{
		TradeID:   trade.TradeID,
		BuyID:     trade.BuyID,
		SellID:    trade.SellID,
		Price:     trade.Price,
		Quantity:  trade.Quantity,
		Timestamp: trade.Timestamp,
		SymbolFP:  trade.SymbolFP,
	})
	if err != nil {
		b.logger.Error("broadcaster: failed to marshal trade", telemetry.F("trade_id", trade.TradeID))
		return
	}

	msg := &sarama.ProducerMessage{Topic: b.topic, Value: sarama.ByteEncoder(payload)}
	if _, _, err := b.producer.SendMessage(msg); err != nil {
		b.logger.Error("broadcaster: publish failed", telemetry.F("trade_id", trade.TradeID), telemetry.F("err", err.Error()))
	}
}

// Start runs the periodic outbox replay loop until ctx is cancelled.
func (b *Broadcaster) Start(ctx context.Context) {
	if b.store == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.replayOnce()
			}
		}
	}()
}

// replayOnce republishes every resting-order record left SENT by an
// earlier failed publish, then every record still in the NEW outbox
// state, marking each SENT then ACKED on success.
func (b *Broadcaster) replayOnce() {
	for _, state := range []restingstore.OutboxState{restingstore.StateSent, restingstore.StateNew} {
		_ = b.store.ScanByState(state, func(id uint64, rec restingstore.Record) error {
			if err := b.store.MarkSent(id); err != nil {
				return nil
			}
			payload, err := json.Marshal(tradeEvent{BuyID: id, Price: rec.Price, Quantity: rec.Quantity})
			if err != nil {
				return nil
			}
			msg := &sarama.ProducerMessage{Topic: b.topic, Value: sarama.ByteEncoder(payload)}
			if _, _, err := b.producer.SendMessage(msg); err != nil {
				return nil // leave as SENT, retried next tick
			}
			_ = b.store.MarkAcked(id)
			return nil
		})
	}
}

// Close closes the underlying Kafka producer.
func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
