package extsort

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/fdrose/compgraph/internal/ops"
	"github.com/fdrose/compgraph/internal/rowmodel"
)

func init() {
	// Concrete value types that appear inside a Row's map[string]any,
	// so gob can round-trip them through a spill file.
	gob.Register(int(0))
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register("")
	gob.Register(false)
	gob.Register([2]float64{})
	gob.Register([]float64{})
	gob.Register([]any{})
}

// run is one sorted run produced by the external sort, either held
// entirely in memory (the input fit within one chunk) or backed by a
// spilled temp file. Both forms are exposed as a single RowIterator.
type run struct {
	rows []rowmodel.Row
	path string
	it   ops.RowIterator
}

func newMemoryRun(rows []rowmodel.Row) *run {
	return &run{rows: rows}
}

func newFileRun(path string) *run {
	return &run{path: path}
}

func (r *run) asIterator() ops.RowIterator {
	if r.it != nil {
		return r.it
	}
	if r.path == "" {
		r.it = ops.NewSliceIterator(r.rows)
		return r.it
	}
	r.it = &fileRunIterator{path: r.path}
	return r.it
}

// spillToFile writes rows to path as a sequential gob stream, one Row
// per record, deterministic for the sort's stability contract.
func spillToFile(path string, rows []rowmodel.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := gob.NewEncoder(f)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

type fileRunIterator struct {
	path    string
	f       *os.File
	dec     *gob.Decoder
	opened  bool
	closed  bool
}

func (fr *fileRunIterator) open() error {
	if fr.opened {
		return nil
	}
	f, err := os.Open(fr.path)
	if err != nil {
		return err
	}
	fr.f = f
	fr.dec = gob.NewDecoder(f)
	fr.opened = true
	return nil
}

func (fr *fileRunIterator) Next() (ops.Row, bool, error) {
	if fr.closed {
		return nil, false, nil
	}
	if err := fr.open(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ops.ErrSpillIO, err)
	}
	var row rowmodel.Row
	if err := fr.dec.Decode(&row); err != nil {
		if err == io.EOF {
			return nil, false, fr.Close()
		}
		_ = fr.Close()
		return nil, false, fmt.Errorf("%w: %v", ops.ErrSpillIO, err)
	}
	return row, true, nil
}

func (fr *fileRunIterator) Close() error {
	if fr.closed || fr.f == nil {
		fr.closed = true
		return nil
	}
	fr.closed = true
	return fr.f.Close()
}
