package trace

import (
	"fmt"
	"io"
)

// Writer encodes trace records onto a byte stream.
type Writer struct {
	w     io.Writer
	count uint64
}

// NewWriter creates a Writer encoding records onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Count returns the number of records written so far.
func (tw *Writer) Count() uint64 {
	return tw.count
}

// Write appends one record to the stream.
func (tw *Writer) Write(rec Record) error {
	if rec.Op >= NumOpKinds {
		return fmt.Errorf("record %d: %w (%d)", tw.count+1, ErrUnknownOp, rec.Op)
	}

	buf := rec.marshal()
	if _, err := tw.w.Write(buf[:]); err != nil {
		return fmt.Errorf("record %d: %w", tw.count+1, err)
	}

	tw.count++
	return nil
}

// WriteAll appends every record in recs to the stream.
func (tw *Writer) WriteAll(recs []Record) error {
	for _, rec := range recs {
		if err := tw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
