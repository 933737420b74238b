package trace

import "io"

// SliceSource serves records from an in-memory slice. It satisfies the
// pipeline's instruction-source interface and is mainly useful in tests and
// synthetic workloads.
type SliceSource struct {
	recs []Record
	pos  int

	// Err, when non-nil, is returned after the slice is exhausted instead
	// of io.EOF. This lets tests model a trace that ends with a read error.
	Err error
}

// NewSliceSource creates a source that yields recs in order.
func NewSliceSource(recs []Record) *SliceSource {
	return &SliceSource{recs: recs}
}

// Next returns the next record, io.EOF when the slice is exhausted, or the
// configured error in place of io.EOF.
func (s *SliceSource) Next() (Record, error) {
	if s.pos >= len(s.recs) {
		if s.Err != nil {
			return Record{}, s.Err
		}
		return Record{}, io.EOF
	}

	rec := s.recs[s.pos]
	s.pos++
	return rec, nil
}
