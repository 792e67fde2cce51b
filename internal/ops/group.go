package ops

import (
	"fmt"

	"github.com/fdrose/compgraph/internal/rowmodel"
)

// safeGroupBy implements the sorted-group iteration protocol shared by
// Reduce and Join (spec §4.9): given a stream and a key tuple, it
// yields (key, group) pairs where group is a lazy iterator over the
// current maximal run of equal-key rows, raising ErrUnsortedInput on
// any strictly-decreasing key transition. An empty key tuple yields
// the single pair (empty KeyTuple, wholeStream).
type safeGroupBy struct {
	in      RowIterator
	keys    []string
	lookRow Row
	haveRow bool
	prevKey rowmodel.KeyTuple
	havePrv bool
	empty   bool
	done    bool
	current *memberIterator
}

func newSafeGroupBy(in RowIterator, keys []string) *safeGroupBy {
	return &safeGroupBy{in: in, keys: keys}
}

func (g *safeGroupBy) fill() (bool, error) {
	if g.haveRow {
		return true, nil
	}
	row, ok, err := g.in.Next()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	g.lookRow, g.haveRow = row, true
	return true, nil
}

// next returns the next (key, group) pair. ok is false once the
// underlying stream is exhausted.
func (g *safeGroupBy) next() (rowmodel.KeyTuple, RowIterator, bool, error) {
	if len(g.keys) == 0 {
		if g.done {
			return nil, nil, false, nil
		}
		g.done = true
		return rowmodel.KeyTuple{}, g.in, true, nil
	}

	if g.current != nil {
		if err := g.current.drainRest(); err != nil {
			return nil, nil, false, err
		}
		g.current = nil
	}

	ok, err := g.fill()
	if err != nil {
		return nil, nil, false, err
	}
	if !ok {
		return nil, nil, false, nil
	}

	key := rowmodel.Key(g.lookRow, g.keys)
	if g.havePrv {
		less, cerr := key.Less(g.prevKey)
		if cerr != nil {
			return nil, nil, false, cerr
		}
		if less {
			return nil, nil, false, fmt.Errorf("%w: key %v follows %v", ErrUnsortedInput, key, g.prevKey)
		}
	}
	g.prevKey, g.havePrv = key, true

	member := &memberIterator{parent: g, key: key}
	g.current = member
	return key, member, true, nil
}

func (g *safeGroupBy) Close() error {
	return g.in.Close()
}

// memberIterator is the lazy iterator over one group's rows.
type memberIterator struct {
	parent *safeGroupBy
	key    rowmodel.KeyTuple
	done   bool
}

func (m *memberIterator) Next() (Row, bool, error) {
	if m.done {
		return nil, false, nil
	}
	ok, err := m.parent.fill()
	if err != nil {
		m.done = true
		return nil, false, err
	}
	if !ok {
		m.done = true
		return nil, false, nil
	}
	rowKey := rowmodel.Key(m.parent.lookRow, m.parent.keys)
	eq, eerr := rowKey.Equal(m.key)
	if eerr != nil {
		m.done = true
		return nil, false, eerr
	}
	if !eq {
		m.done = true
		return nil, false, nil
	}
	row := m.parent.lookRow
	m.parent.haveRow = false
	return row, true, nil
}

func (m *memberIterator) drainRest() error {
	for {
		_, ok, err := m.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

func (m *memberIterator) Close() error { return nil }
