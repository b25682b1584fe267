package domain

import "testing"

func TestSymbolFingerprintIsStable(t *testing.T) {
	a := SymbolFingerprint("BTC-USD")
	b := SymbolFingerprint("BTC-USD")
	if a != b {
		t.Fatalf("fingerprint must be stable across calls: %d != %d", a, b)
	}
}

func TestSymbolFingerprintDiffersByName(t *testing.T) {
	a := SymbolFingerprint("BTC-USD")
	b := SymbolFingerprint("ETH-USD")
	if a == b {
		t.Fatalf("distinct symbols should not collide in this test's fixture names")
	}
}
