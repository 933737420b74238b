package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrShortRecord reports a trace that ends in the middle of a record.
var ErrShortRecord = errors.New("trace ends mid-record")

// ErrUnknownOp reports a record whose operation byte is not a valid OpKind.
var ErrUnknownOp = errors.New("unknown operation kind")

// Reader decodes trace records from a byte stream.
//
// Next distinguishes three outcomes: a valid record, clean end-of-stream
// (io.EOF), and a malformed or truncated record (any other error). Once an
// error other than io.EOF has been returned, the reader is poisoned and
// every later call returns the same error.
type Reader struct {
	r     *bufio.Reader
	count uint64
	err   error
}

// NewReader creates a Reader decoding records from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Count returns the number of records successfully decoded so far.
func (tr *Reader) Count() uint64 {
	return tr.count
}

// Next decodes and returns the next record. It returns io.EOF at a clean
// end-of-stream, ErrShortRecord if the stream ends inside a record, and
// ErrUnknownOp if the record carries an invalid operation byte.
func (tr *Reader) Next() (Record, error) {
	if tr.err != nil {
		return Record{}, tr.err
	}

	var buf [RecordSize]byte
	_, err := io.ReadFull(tr.r, buf[:])
	switch {
	case err == io.EOF:
		return Record{}, io.EOF
	case err == io.ErrUnexpectedEOF:
		tr.err = fmt.Errorf("record %d: %w", tr.count+1, ErrShortRecord)
		return Record{}, tr.err
	case err != nil:
		tr.err = fmt.Errorf("record %d: %w", tr.count+1, err)
		return Record{}, tr.err
	}

	var rec Record
	rec.unmarshal(buf)
	if rec.Op >= NumOpKinds {
		tr.err = fmt.Errorf("record %d: %w (%d)", tr.count+1, ErrUnknownOp, rec.Op)
		return Record{}, tr.err
	}

	tr.count++
	return rec, nil
}
