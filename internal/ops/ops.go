// Package ops implements the operation algebra of the computational
// graph: the uniform Operation contract, the Map/Reduce/Join
// operations, source readers, and the safe-groupby protocol that ties
// Reduce and Join together. Sort lives in the sibling extsort package
// since it is large enough to be its own component.
package ops

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fdrose/compgraph/internal/rowmodel"
)

// Row is re-exported for the convenience of operator implementations.
type Row = rowmodel.Row

// RowIterator is a single-pass, lazy sequence of rows. Next returns
// the next row; ok is false once the stream is exhausted. Close
// releases any transitive resource (open file handles, spill files,
// buffers) the iterator holds, and must be safe to call more than
// once and safe to call before exhaustion (cancellation).
type RowIterator interface {
	Next() (Row, bool, error)
	Close() error
}

// Sources is the named-source supplier table passed to Run: each
// value is a zero-argument callable returning a fresh RowIterator,
// re-callable across repeated Run invocations.
type Sources map[string]func() RowIterator

// Operation is the uniform contract every graph node satisfies:
// consume 0..N input streams plus the named sources, produce one
// lazy output stream. Arity is operation-specific (Source: 0,
// Map/Reduce/Sort: 1, Join: 2, second being the right side).
type Operation interface {
	Run(inputs []RowIterator, sources Sources) RowIterator
}

// --- slice iterator, used by tests and by materialized join groups ---

// SliceIterator adapts an in-memory slice of rows to RowIterator.
type SliceIterator struct {
	rows []Row
	pos  int
}

// NewSliceIterator returns a RowIterator over rows, in order.
func NewSliceIterator(rows []Row) *SliceIterator {
	return &SliceIterator{rows: rows}
}

func (s *SliceIterator) Next() (Row, bool, error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return row, true, nil
}

func (s *SliceIterator) Close() error { return nil }

// Drain collects an iterator's remaining rows into a slice. Used by
// join strategies that must materialize a group for repeated
// iteration.
func Drain(it RowIterator) ([]Row, error) {
	var out []Row
	for {
		row, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, row)
	}
}

// --- Source operations ---

// IteratorSource looks up Name in the sources table passed to Run; the
// supplier is invoked anew on every Run.
type IteratorSource struct {
	Name string
}

func (s *IteratorSource) Run(_ []RowIterator, sources Sources) RowIterator {
	supplier, ok := sources[s.Name]
	if !ok {
		return errIterator{fmt.Errorf("%w: %q", ErrMissingSource, s.Name)}
	}
	return supplier()
}

// FileSource reads Path line by line, yielding Parser(line) for each
// one. The file handle is scoped to the lifetime of the returned
// iterator: it closes when the stream is exhausted, errors, or Close
// is called.
type FileSource struct {
	Path   string
	Parser func(line string) (Row, error)
}

func (s *FileSource) Run(_ []RowIterator, _ Sources) RowIterator {
	f, err := os.Open(s.Path)
	if err != nil {
		return errIterator{fmt.Errorf("%w: %v", ErrSourceIO, err)}
	}
	return &fileIterator{f: f, scanner: bufio.NewScanner(f), parser: s.Parser}
}

type fileIterator struct {
	f       *os.File
	scanner *bufio.Scanner
	parser  func(string) (Row, error)
	closed  bool
}

func (it *fileIterator) Next() (Row, bool, error) {
	if it.closed {
		return nil, false, nil
	}
	if !it.scanner.Scan() {
		if err := it.scanner.Err(); err != nil {
			_ = it.Close()
			return nil, false, fmt.Errorf("%w: %v", ErrSourceIO, err)
		}
		return nil, false, it.Close()
	}
	row, err := it.parser(it.scanner.Text())
	if err != nil {
		_ = it.Close()
		return nil, false, fmt.Errorf("%w: %v", ErrSourceParse, err)
	}
	return row, true, nil
}

func (it *fileIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.f.Close()
}

// errIterator is a RowIterator that immediately fails with err; it
// lets Source operations report setup errors (missing source, I/O
// failure) through the ordinary Next() protocol instead of panicking
// during graph construction.
type errIterator struct{ err error }

func (e errIterator) Next() (Row, bool, error) { return nil, false, e.err }
func (e errIterator) Close() error             { return nil }

// --- Map ---

// Mapper consumes one row and yields 0..N rows.
type Mapper interface {
	Process(row Row) ([]Row, error)
}

// Map applies Mapper to every input row and concatenates the
// sub-streams it yields, in input order. It introduces no ordering,
// grouping, or materialization.
type Map struct {
	Mapper Mapper
}

func (m *Map) Run(inputs []RowIterator, _ Sources) RowIterator {
	return &mapIterator{in: inputs[0], mapper: m.Mapper}
}

type mapIterator struct {
	in     RowIterator
	mapper Mapper
	buf    []Row
}

func (it *mapIterator) Next() (Row, bool, error) {
	for len(it.buf) == 0 {
		row, ok, err := it.in.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		out, err := it.mapper.Process(row)
		if err != nil {
			return nil, false, err
		}
		it.buf = out
	}
	row := it.buf[0]
	it.buf = it.buf[1:]
	return row, true, nil
}

func (it *mapIterator) Close() error { return it.in.Close() }
