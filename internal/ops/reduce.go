package ops

// Reducer consumes one group's rows (all sharing the same key tuple)
// and produces the group's output rows. It may read the group
// iterator at most once; the engine never buffers whole groups on its
// own behalf, so bounded memory within a group is the Reducer's
// responsibility.
type Reducer interface {
	Reduce(keys []string, group RowIterator) ([]Row, error)
}

// Reduce groups its input into maximal runs of rows sharing the same
// key-tuple value (via the safe-groupby protocol) and invokes Reducer
// once per group, emitting its output rows in order. Groups are
// processed in input order; outputs between groups are concatenated.
// An empty key tuple treats the entire stream as a single group.
type Reduce struct {
	Reducer Reducer
	Keys    []string
}

func (r *Reduce) Run(inputs []RowIterator, _ Sources) RowIterator {
	return &reduceIterator{
		groups:  newSafeGroupBy(inputs[0], r.Keys),
		reducer: r.Reducer,
		keys:    r.Keys,
	}
}

type reduceIterator struct {
	groups  *safeGroupBy
	reducer Reducer
	keys    []string
	buf     []Row
}

func (it *reduceIterator) Next() (Row, bool, error) {
	for len(it.buf) == 0 {
		_, group, ok, err := it.groups.next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		out, err := it.reducer.Reduce(it.keys, group)
		if err != nil {
			return nil, false, err
		}
		it.buf = out
	}
	row := it.buf[0]
	it.buf = it.buf[1:]
	return row, true, nil
}

func (it *reduceIterator) Close() error { return it.groups.Close() }
