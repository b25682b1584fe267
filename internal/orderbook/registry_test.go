package orderbook

import "testing"

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry(10)
	book, err := r.Register("BTC-USD", 111)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, ok := r.Lookup(111)
	if !ok || got != book {
		t.Fatalf("Lookup(111) = %v, %v, want the registered book", got, ok)
	}
	if _, ok := r.Lookup(999); ok {
		t.Fatalf("Lookup of an unregistered fingerprint should report false")
	}
}

func TestRegistryRegisterSameSymbolTwiceIsIdempotent(t *testing.T) {
	r := NewRegistry(10)
	b1, err := r.Register("BTC-USD", 111)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	b2, err := r.Register("BTC-USD", 111)
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if b1 != b2 {
		t.Fatalf("registering the same symbol twice should return the same book")
	}
}

func TestRegistryFingerprintCollisionIsFatal(t *testing.T) {
	r := NewRegistry(10)
	if _, err := r.Register("BTC-USD", 111); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := r.Register("ETH-USD", 111); err == nil {
		t.Fatalf("expected a collision error when two symbols hash to the same fingerprint")
	}
}

func TestRegistryRejectsOverCapacity(t *testing.T) {
	r := NewRegistry(1)
	if _, err := r.Register("BTC-USD", 1); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := r.Register("ETH-USD", 2); err == nil {
		t.Fatalf("expected capacity error on the second distinct symbol")
	}
}
