package operations

import (
	"container/heap"

	"github.com/fdrose/compgraph/internal/ops"
)

func commonKey(keys []string, row Row) Row {
	out := make(Row, len(keys))
	for _, k := range keys {
		out[k] = row[k]
	}
	return out
}

// FirstReducer yields only the first row of the group. Used to test
// the universal invariant that reducing with an identity reducer
// yields one row per distinct key.
type FirstReducer struct{}

func (FirstReducer) Reduce(_ []string, group ops.RowIterator) ([]Row, error) {
	row, ok, err := group.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return []Row{row}, nil
}

// CountRows counts every row of the group (typically used with an
// empty key tuple) into Column.
type CountRows struct {
	Column string
}

func (r CountRows) Reduce(_ []string, group ops.RowIterator) ([]Row, error) {
	var n int
	for {
		_, ok, err := group.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		n++
	}
	return []Row{{r.Column: n}}, nil
}

// Count counts the rows in each group into Column, alongside the
// group's key columns.
type Count struct {
	Column string
}

func (r Count) Reduce(keys []string, group ops.RowIterator) ([]Row, error) {
	row, ok, err := group.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	out := commonKey(keys, row)
	n := 1
	for {
		_, ok, err := group.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		n++
	}
	out[r.Column] = n
	return []Row{out}, nil
}

// Sum aggregates Column by summing it across the group.
type Sum struct {
	Column string
}

func (r Sum) Reduce(keys []string, group ops.RowIterator) ([]Row, error) {
	row, ok, err := group.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	out := commonKey(keys, row)
	total, err := toFloat(row[r.Column])
	if err != nil {
		return nil, err
	}
	for {
		next, ok, err := group.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		v, err := toFloat(next[r.Column])
		if err != nil {
			return nil, err
		}
		total += v
	}
	out[r.Column] = total
	return []Row{out}, nil
}

// Mean aggregates Column by averaging it across the group.
type Mean struct {
	Column string
}

func (r Mean) Reduce(keys []string, group ops.RowIterator) ([]Row, error) {
	row, ok, err := group.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	out := commonKey(keys, row)
	total, err := toFloat(row[r.Column])
	if err != nil {
		return nil, err
	}
	n := 1.0
	for {
		next, ok, err := group.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		v, err := toFloat(next[r.Column])
		if err != nil {
			return nil, err
		}
		total += v
		n++
	}
	out[r.Column] = total / n
	return []Row{out}, nil
}

// TermFrequency computes, for each distinct value of WordsColumn in
// the group, its frequency (count / group size) into ResultColumn.
type TermFrequency struct {
	WordsColumn  string
	ResultColumn string
}

func (r TermFrequency) Reduce(keys []string, group ops.RowIterator) ([]Row, error) {
	counts := make(map[string]float64)
	var common Row
	var total float64
	for {
		row, ok, err := group.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if common == nil {
			common = commonKey(keys, row)
		}
		word, _ := row[r.WordsColumn].(string)
		counts[word]++
		total++
	}
	if common == nil {
		return nil, nil
	}
	out := make([]Row, 0, len(counts))
	for word, n := range counts {
		row := common.Clone()
		row[r.WordsColumn] = word
		row[r.ResultColumn] = n / total
		out = append(out, row)
	}
	return out, nil
}

// TermFrequencyFromCounts is TermFrequency for rows that already
// carry a per-word count in CountColumn, rather than one row per
// occurrence.
type TermFrequencyFromCounts struct {
	WordsColumn  string
	CountColumn  string
	ResultColumn string
}

func (r TermFrequencyFromCounts) Reduce(keys []string, group ops.RowIterator) ([]Row, error) {
	counts := make(map[string]float64)
	var common Row
	var total float64
	for {
		row, ok, err := group.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if common == nil {
			common = commonKey(keys, row)
		}
		word, _ := row[r.WordsColumn].(string)
		c, err := toFloat(row[r.CountColumn])
		if err != nil {
			return nil, err
		}
		counts[word] += c
		total += c
	}
	if common == nil {
		return nil, nil
	}
	out := make([]Row, 0, len(counts))
	for word, n := range counts {
		row := common.Clone()
		row[r.WordsColumn] = word
		row[r.ResultColumn] = n / total
		out = append(out, row)
	}
	return out, nil
}

// TopN yields the N rows of the group with the largest Column value.
type TopN struct {
	Column string
	N      int
}

type topNHeapItem struct {
	row Row
	val float64
}

type topNHeap []topNHeapItem

func (h topNHeap) Len() int            { return len(h) }
func (h topNHeap) Less(i, j int) bool  { return h[i].val < h[j].val }
func (h topNHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *topNHeap) Push(x any)         { *h = append(*h, x.(topNHeapItem)) }
func (h *topNHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (r TopN) Reduce(_ []string, group ops.RowIterator) ([]Row, error) {
	h := &topNHeap{}
	heap.Init(h)
	for {
		row, ok, err := group.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		v, err := toFloat(row[r.Column])
		if err != nil {
			return nil, err
		}
		heap.Push(h, topNHeapItem{row: row, val: v})
		if h.Len() > r.N {
			heap.Pop(h)
		}
	}
	out := make([]Row, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(topNHeapItem).row
	}
	return out, nil
}
