package restingstore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/JunYoungMoon/quantum-exchange/internal/domain"
)

// OutboxState tracks a resting order's exit-outbox lifecycle — the
// SPEC_FULL.md-supplemented durability layer for §4.7's resting-order
// store, adapted from the teacher's infra/wal/exit package. New
// (resting, not yet broadcast) moves to Sent once the broadcaster has
// published its trade, then Acked once delivery is confirmed.
type OutboxState uint8

const (
	StateNew OutboxState = iota
	StateSent
	StateAcked
)

func (s OutboxState) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSent:
		return "SENT"
	case StateAcked:
		return "ACKED"
	default:
		return "UNKNOWN"
	}
}

// entry is the on-disk record: [state:1][side:1][quantity:8][price:8].
type entry struct {
	state    OutboxState
	side     byte
	quantity int64
	price    int64
}

const entrySize = 1 + 1 + 8 + 8

func encodeEntry(e entry) []byte {
	buf := make([]byte, entrySize)
	buf[0] = byte(e.state)
	buf[1] = e.side
	binary.BigEndian.PutUint64(buf[2:10], uint64(e.quantity))
	binary.BigEndian.PutUint64(buf[10:18], uint64(e.price))
	return buf
}

func decodeEntry(b []byte) (entry, error) {
	if len(b) != entrySize {
		return entry{}, errors.New("restingstore: invalid durable record length")
	}
	return entry{
		state:    OutboxState(b[0]),
		side:     b[1],
		quantity: int64(binary.BigEndian.Uint64(b[2:10])),
		price:    int64(binary.BigEndian.Uint64(b[10:18])),
	}, nil
}

// DurableStore is a cockroachdb/pebble-backed Store: every resting order
// and its outbox state survive an engine restart. Add/UpdateQuantity/Remove
// are synchronous local pebble writes with pebble.Sync on the caller's
// goroutine; the engine loop waits for each one to complete. They are not
// network calls.
type DurableStore struct {
	db *pebble.DB
}

// OpenDurableStore opens (or creates) a pebble database at dir.
func OpenDurableStore(dir string) (*DurableStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("restingstore: open pebble at %s: %w", dir, err)
	}
	return &DurableStore{db: db}, nil
}

// Close closes the underlying database.
func (s *DurableStore) Close() error { return s.db.Close() }

func keyFor(id uint64) []byte {
	return []byte(fmt.Sprintf("resting/%020d", id))
}

func parseKey(b []byte) (uint64, error) {
	var id uint64
	_, err := fmt.Sscanf(string(bytes.TrimPrefix(b, []byte("resting/"))), "%d", &id)
	return id, err
}

func (s *DurableStore) Add(rec Record) {
	if rec.ID == 0 {
		return
	}
	key := keyFor(rec.ID)
	if _, closer, err := s.db.Get(key); err == nil {
		closer.Close()
		return // idempotent on duplicate id
	}
	e := entry{state: StateNew, side: byte(rec.Side), quantity: rec.Quantity, price: rec.Price}
	_ = s.db.Set(key, encodeEntry(e), pebble.Sync)
}

func (s *DurableStore) UpdateQuantity(id uint64, newQuantity int64) {
	if newQuantity <= 0 {
		s.Remove(id)
		return
	}
	key := keyFor(id)
	val, closer, err := s.db.Get(key)
	if err != nil {
		return
	}
	e, decErr := decodeEntry(val)
	closer.Close()
	if decErr != nil {
		return
	}
	e.quantity = newQuantity
	_ = s.db.Set(key, encodeEntry(e), pebble.Sync)
}

func (s *DurableStore) Remove(id uint64) (Record, bool) {
	rec, ok := s.Get(id)
	if !ok {
		return Record{}, false
	}
	_ = s.db.Delete(keyFor(id), pebble.Sync)
	return rec, true
}

func (s *DurableStore) Get(id uint64) (Record, bool) {
	val, closer, err := s.db.Get(keyFor(id))
	if err != nil {
		return Record{}, false
	}
	defer closer.Close()
	e, err := decodeEntry(val)
	if err != nil {
		return Record{}, false
	}
	return Record{ID: id, Side: sideFromByte(e.side), Price: e.price, Quantity: e.quantity}, true
}

// MarkSent transitions id from NEW to SENT once the broadcaster has
// published its trade (SPEC_FULL.md supplement on §4.7).
func (s *DurableStore) MarkSent(id uint64) error {
	return s.transition(id, StateSent)
}

// MarkAcked transitions id to ACKED once delivery is confirmed.
func (s *DurableStore) MarkAcked(id uint64) error {
	return s.transition(id, StateAcked)
}

func (s *DurableStore) transition(id uint64, to OutboxState) error {
	key := keyFor(id)
	val, closer, err := s.db.Get(key)
	if err != nil {
		return err
	}
	e, decErr := decodeEntry(val)
	closer.Close()
	if decErr != nil {
		return decErr
	}
	e.state = to
	return s.db.Set(key, encodeEntry(e), pebble.Sync)
}

// ScanByState iterates every resting-order record currently in state,
// used by a broadcaster sweeping for undelivered trades after a restart.
func (s *DurableStore) ScanByState(state OutboxState, fn func(id uint64, rec Record) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("resting/"),
		UpperBound: []byte("resting/~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		e, decErr := decodeEntry(iter.Value())
		if decErr != nil {
			return decErr
		}
		if e.state != state {
			continue
		}
		id, keyErr := parseKey(iter.Key())
		if keyErr != nil {
			return keyErr
		}
		rec := Record{ID: id, Side: sideFromByte(e.side), Price: e.price, Quantity: e.quantity}
		if err := fn(id, rec); err != nil {
			return err
		}
	}
	return iter.Error()
}

func sideFromByte(b byte) domain.Side {
	return domain.Side(b)
}
