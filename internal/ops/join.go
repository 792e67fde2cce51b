package ops

import "github.com/fdrose/compgraph/internal/rowmodel"

// Joiner implements one join strategy's behavior for a single pair of
// matched, left-only, or right-only groups (spec §4.6). An empty
// RowIterator represents the "absent" side of an unmatched group.
type Joiner interface {
	Join(keys []string, left, right RowIterator) ([]Row, error)
}

// Join performs a sorted-merge join over two streams that must both
// be sorted ascending by Keys. It advances both sides through the
// safe-groupby protocol and delegates each step to Joiner.
type Join struct {
	Joiner Joiner
	Keys   []string
}

func (j *Join) Run(inputs []RowIterator, _ Sources) RowIterator {
	return &joinIterator{
		left:   newSafeGroupBy(inputs[0], j.Keys),
		right:  newSafeGroupBy(inputs[1], j.Keys),
		joiner: j.Joiner,
		keys:   j.Keys,
	}
}

type joinIterator struct {
	left, right        *safeGroupBy
	joiner             Joiner
	keys               []string
	buf                []Row
	leftKey, rightKey  rowmodel.KeyTuple
	leftGrp, rightGrp  RowIterator
	leftOK, rightOK    bool
	started            bool
	done               bool
}

func (it *joinIterator) advanceLeft() error {
	k, g, ok, err := it.left.next()
	if err != nil {
		return err
	}
	it.leftKey, it.leftGrp, it.leftOK = k, g, ok
	return nil
}

func (it *joinIterator) advanceRight() error {
	k, g, ok, err := it.right.next()
	if err != nil {
		return err
	}
	it.rightKey, it.rightGrp, it.rightOK = k, g, ok
	return nil
}

func empty() RowIterator { return NewSliceIterator(nil) }

func (it *joinIterator) Next() (Row, bool, error) {
	for len(it.buf) == 0 {
		if it.done {
			return nil, false, nil
		}
		if !it.started {
			it.started = true
			if err := it.advanceLeft(); err != nil {
				return nil, false, err
			}
			if err := it.advanceRight(); err != nil {
				return nil, false, err
			}
		}

		switch {
		case it.leftOK && it.rightOK:
			eq, err := it.leftKey.Equal(it.rightKey)
			if err != nil {
				return nil, false, err
			}
			if eq {
				rows, err := it.joiner.Join(it.keys, it.leftGrp, it.rightGrp)
				if err != nil {
					return nil, false, err
				}
				it.buf = rows
				if err := it.advanceLeft(); err != nil {
					return nil, false, err
				}
				if err := it.advanceRight(); err != nil {
					return nil, false, err
				}
				continue
			}
			less, err := it.leftKey.Less(it.rightKey)
			if err != nil {
				return nil, false, err
			}
			if less {
				rows, err := it.joiner.Join(it.keys, it.leftGrp, empty())
				if err != nil {
					return nil, false, err
				}
				it.buf = rows
				if err := it.advanceLeft(); err != nil {
					return nil, false, err
				}
			} else {
				rows, err := it.joiner.Join(it.keys, empty(), it.rightGrp)
				if err != nil {
					return nil, false, err
				}
				it.buf = rows
				if err := it.advanceRight(); err != nil {
					return nil, false, err
				}
			}

		case it.leftOK:
			rows, err := it.joiner.Join(it.keys, it.leftGrp, empty())
			if err != nil {
				return nil, false, err
			}
			it.buf = rows
			if err := it.advanceLeft(); err != nil {
				return nil, false, err
			}

		case it.rightOK:
			rows, err := it.joiner.Join(it.keys, empty(), it.rightGrp)
			if err != nil {
				return nil, false, err
			}
			it.buf = rows
			if err := it.advanceRight(); err != nil {
				return nil, false, err
			}

		default:
			it.done = true
		}
	}
	row := it.buf[0]
	it.buf = it.buf[1:]
	return row, true, nil
}

func (it *joinIterator) Close() error {
	err1 := it.left.Close()
	err2 := it.right.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Combine is the shared cross-product primitive behind every join
// strategy (spec §4.6): for each (leftRow, rightRow) pair it produces
// a new row that starts as a copy of rightRow, then merges leftRow's
// fields in. A field present in leftRow but absent from the new row
// is added; a join-key field is left untouched (both sides agree by
// definition); any other name collision is resolved by removing the
// existing binding and inserting key+suffixLeft for leftRow's value
// and key+suffixRight for the value that was in the new row.
func Combine(keys []string, left RowIterator, right []Row, suffixLeft, suffixRight string) ([]Row, error) {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	var out []Row
	for {
		leftRow, ok, err := left.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		for _, rightRow := range right {
			newRow := rightRow.Clone()
			for k, v := range leftRow {
				existing, present := newRow[k]
				switch {
				case !present:
					newRow[k] = v
				case isKey[k]:
					// join keys agree on both sides; keep the shared value.
				default:
					delete(newRow, k)
					newRow[k+suffixLeft] = v
					newRow[k+suffixRight] = existing
				}
			}
			out = append(out, newRow)
		}
	}
	return out, nil
}
