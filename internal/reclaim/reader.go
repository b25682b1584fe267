package reclaim

// Reader is a thin adapter over ReaderEpoch, grounded on the teacher's
// snapshot.Reader: its only job is marking when a consistent read of book
// or region state begins and ends, leaving epoching and reclamation
// itself to AdvanceAndReclaim.
type Reader struct {
	epoch ReaderEpoch
}

// NewReader builds an inactive Reader.
func NewReader() *Reader {
	r := &Reader{}
	r.epoch.Exit()
	return r
}

// Begin marks the start of a consistent snapshot read (e.g. iterating
// OrderBook.SnapshotActiveIter or reading a mapped-region price-level
// array).
func (r *Reader) Begin() {
	r.epoch.Enter()
}

// End marks the end of the snapshot read.
func (r *Reader) End() {
	r.epoch.Exit()
}

// Epoch exposes the underlying ReaderEpoch for AdvanceAndReclaim.
func (r *Reader) Epoch() *ReaderEpoch {
	return &r.epoch
}
