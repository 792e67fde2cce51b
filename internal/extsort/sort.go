// Package extsort implements the external-sort operation: a
// bounded-memory, stable, ascending sort by key tuple that spills to
// disk when the input exceeds a configured in-memory row budget, and
// merges the resulting sorted runs with a k-way min-heap merge.
package extsort

import (
	"container/heap"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/fdrose/compgraph/internal/clog"
	"github.com/fdrose/compgraph/internal/config"
	"github.com/fdrose/compgraph/internal/ops"
	"github.com/fdrose/compgraph/internal/rowmodel"
)

// Sort is the engine's Sort operation: its output is rows in stable
// ascending lexicographic order of Keys. Chunk and TmpDir default to
// config.SortChunk() / config.TmpDir() when zero.
type Sort struct {
	Keys   []string
	Chunk  int
	TmpDir string
}

func (s *Sort) chunkSize() int {
	if s.Chunk > 0 {
		return s.Chunk
	}
	return config.SortChunk()
}

func (s *Sort) tmpDir() string {
	if s.TmpDir != "" {
		return s.TmpDir
	}
	return config.TmpDir()
}

func (s *Sort) Run(inputs []ops.RowIterator, _ ops.Sources) ops.RowIterator {
	return &sortIterator{in: inputs[0], keys: s.Keys, chunk: s.chunkSize(), tmpDir: s.tmpDir()}
}

type sortIterator struct {
	in      ops.RowIterator
	keys    []string
	chunk   int
	tmpDir  string
	started bool
	err     error
	merged  ops.RowIterator
	runID   string
	spills  []string
}

func (it *sortIterator) ensureStarted() error {
	if it.started {
		return it.err
	}
	it.started = true
	it.runID = uuid.NewString()

	var runs []*run
	var buf []rowmodel.Row

	flush := func(final bool) error {
		if len(buf) == 0 {
			return nil
		}
		if err := stableSortByKey(buf, it.keys); err != nil {
			return err
		}
		if final && len(runs) == 0 {
			// Whole input fit in memory: no spill needed.
			runs = append(runs, newMemoryRun(buf))
			buf = nil
			return nil
		}
		path := filepath.Join(it.tmpDir, fmt.Sprintf("compgraph-sort-%s-%d.spill", it.runID, len(runs)))
		if err := spillToFile(path, buf); err != nil {
			return fmt.Errorf("%w: %v", ops.ErrSpillIO, err)
		}
		it.spills = append(it.spills, path)
		clog.Info("sort run spilled", clog.Fields{"path": path, "rows": len(buf)})
		runs = append(runs, newFileRun(path))
		buf = nil
		return nil
	}

	for {
		row, ok, err := it.in.Next()
		if err != nil {
			it.err = err
			return err
		}
		if !ok {
			break
		}
		buf = append(buf, row)
		if len(buf) >= it.chunk {
			if err := flush(false); err != nil {
				it.err = err
				return err
			}
		}
	}
	if err := flush(true); err != nil {
		it.err = err
		return err
	}

	if err := it.in.Close(); err != nil {
		it.err = fmt.Errorf("%w: %v", ops.ErrSpillIO, err)
		return it.err
	}

	if len(runs) == 1 {
		it.merged = runs[0].asIterator()
		return nil
	}
	m, err := newMergeIterator(runs, it.keys)
	if err != nil {
		it.err = err
		return err
	}
	it.merged = m
	return nil
}

func (it *sortIterator) Next() (ops.Row, bool, error) {
	if err := it.ensureStarted(); err != nil {
		_ = it.Close()
		return nil, false, err
	}
	row, ok, err := it.merged.Next()
	if err != nil || !ok {
		// The stream has terminated: remove spill files now rather than
		// waiting for an explicit Close.
		if cerr := it.Close(); err == nil {
			err = cerr
		}
	}
	return row, ok, err
}

func (it *sortIterator) Close() error {
	var closeErr error
	if it.merged != nil {
		closeErr = it.merged.Close()
	}
	if err := it.in.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	for _, path := range it.spills {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			clog.Alert("failed to remove spill file", clog.Fields{"path": path, "error": err.Error()})
		}
	}
	it.spills = nil
	return closeErr
}

func stableSortByKey(rows []rowmodel.Row, keys []string) error {
	var cmpErr error
	sort.SliceStable(rows, func(i, j int) bool {
		less, err := rowmodel.Key(rows[i], keys).Less(rowmodel.Key(rows[j], keys))
		if err != nil {
			// A type mismatch within a sort key is a caller error; record
			// the first one and report it once the sort returns.
			if cmpErr == nil {
				cmpErr = err
			}
			return false
		}
		return less
	})
	return cmpErr
}

// --- heap-based k-way merge ---

type heapItem struct {
	key    rowmodel.KeyTuple
	runIdx int
	row    rowmodel.Row
}

type mergeHeap struct {
	items []*heapItem
	err   error
}

func (h *mergeHeap) Len() int { return len(h.items) }

func (h *mergeHeap) Less(i, j int) bool {
	if h.err != nil {
		return false
	}
	a, b := h.items[i], h.items[j]
	less, err := a.key.Less(b.key)
	if err != nil {
		h.err = err
		return false
	}
	if less {
		return true
	}
	eq, err := a.key.Equal(b.key)
	if err != nil {
		h.err = err
		return false
	}
	if eq {
		return a.runIdx < b.runIdx
	}
	return false
}

func (h *mergeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *mergeHeap) Push(x any) { h.items = append(h.items, x.(*heapItem)) }

func (h *mergeHeap) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	h.items = h.items[:n-1]
	return item
}

type mergeIterator struct {
	runs []*run
	h    *mergeHeap
	keys []string
}

func newMergeIterator(runs []*run, keys []string) (*mergeIterator, error) {
	m := &mergeIterator{runs: runs, h: &mergeHeap{}, keys: keys}
	for idx, r := range runs {
		row, ok, err := r.asIterator().Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		heap.Push(m.h, &heapItem{key: rowmodel.Key(row, keys), runIdx: idx, row: row})
	}
	return m, nil
}

func (m *mergeIterator) Next() (ops.Row, bool, error) {
	if m.h.Len() == 0 {
		return nil, false, nil
	}
	top := heap.Pop(m.h).(*heapItem)
	if m.h.err != nil {
		return nil, false, m.h.err
	}
	row := top.row
	nextRow, ok, err := m.runs[top.runIdx].asIterator().Next()
	if err != nil {
		return nil, false, err
	}
	if ok {
		heap.Push(m.h, &heapItem{key: rowmodel.Key(nextRow, m.keys), runIdx: top.runIdx, row: nextRow})
	}
	if m.h.err != nil {
		return nil, false, m.h.err
	}
	return row, true, nil
}

func (m *mergeIterator) Close() error {
	var first error
	for _, r := range m.runs {
		if err := r.asIterator().Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
