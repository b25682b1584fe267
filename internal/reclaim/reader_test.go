package reclaim

import "testing"

func TestNewReaderStartsInactive(t *testing.T) {
	r := NewReader()
	if got := r.Epoch().value(); got != inactive {
		t.Fatalf("NewReader() epoch = %d, want inactive", got)
	}
}

func TestReaderBeginEndTracksGlobalEpoch(t *testing.T) {
	Epoch.Store(9)
	r := NewReader()
	r.Begin()
	if got := r.Epoch().value(); got != 9 {
		t.Fatalf("Begin() epoch = %d, want 9", got)
	}
	r.End()
	if got := r.Epoch().value(); got != inactive {
		t.Fatalf("End() epoch = %d, want inactive", got)
	}
}
