package reclaim

import "testing"

func TestReaderEpochEnterExitTracksGlobalEpoch(t *testing.T) {
	Epoch.Store(0)
	var r ReaderEpoch
	r.Exit()
	if got := r.value(); got != inactive {
		t.Fatalf("fresh ReaderEpoch.value() = %d, want inactive", got)
	}

	Epoch.Store(5)
	r.Enter()
	if got := r.value(); got != 5 {
		t.Fatalf("Enter() did not snapshot the global epoch: got %d, want 5", got)
	}

	r.Exit()
	if got := r.value(); got != inactive {
		t.Fatalf("Exit() did not mark the reader inactive: got %d", got)
	}
}

func TestMinReaderEpochIgnoresNilAndInactive(t *testing.T) {
	var active ReaderEpoch
	active.epoch.Store(3)
	var inactiveReader ReaderEpoch
	inactiveReader.Exit()

	min := minReaderEpoch([]*ReaderEpoch{nil, &active, &inactiveReader})
	if min != 3 {
		t.Fatalf("minReaderEpoch = %d, want 3", min)
	}
}

func TestMinReaderEpochAllInactiveReturnsInactive(t *testing.T) {
	var a, b ReaderEpoch
	a.Exit()
	b.Exit()
	if got := minReaderEpoch([]*ReaderEpoch{&a, &b}); got != inactive {
		t.Fatalf("minReaderEpoch = %d, want inactive", got)
	}
}
