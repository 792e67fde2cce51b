package extsort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdrose/compgraph/internal/ops"
	"github.com/fdrose/compgraph/internal/rowmodel"
)

func runRows(t *testing.T, s *Sort, rows []rowmodel.Row) []rowmodel.Row {
	t.Helper()
	in := ops.NewSliceIterator(rows)
	out := s.Run([]ops.RowIterator{in}, nil)
	got, err := ops.Drain(out)
	require.NoError(t, err)
	return got
}

func TestSortOrdersAscending(t *testing.T) {
	rows := []rowmodel.Row{
		{"k": int64(3)}, {"k": int64(1)}, {"k": int64(2)},
	}
	s := &Sort{Keys: []string{"k"}, Chunk: 100, TmpDir: t.TempDir()}
	got := runRows(t, s, rows)

	want := []int64{1, 2, 3}
	for i, row := range got {
		assert.Equal(t, want[i], row["k"])
	}
}

func TestSortSpillsAcrossChunkBoundary(t *testing.T) {
	const chunk = 10
	var rows []rowmodel.Row
	// Three and a half chunks' worth of rows, in descending order, so
	// sorting is actually exercised rather than a no-op pass-through.
	for i := chunk*3 + 5; i > 0; i-- {
		rows = append(rows, rowmodel.Row{"k": int64(i)})
	}
	s := &Sort{Keys: []string{"k"}, Chunk: chunk, TmpDir: t.TempDir()}
	got := runRows(t, s, rows)

	require.Len(t, got, len(rows))
	for i, row := range got {
		assert.Equal(t, int64(i+1), row["k"])
	}
}

func TestSortIsStableAmongEqualKeys(t *testing.T) {
	rows := []rowmodel.Row{
		{"k": int64(1), "tag": "first"},
		{"k": int64(1), "tag": "second"},
		{"k": int64(1), "tag": "third"},
	}
	s := &Sort{Keys: []string{"k"}, Chunk: 1, TmpDir: t.TempDir()}
	got := runRows(t, s, rows)

	want := []string{"first", "second", "third"}
	for i, row := range got {
		assert.Equal(t, want[i], row["tag"], "stability across spilled single-row runs")
	}
}

func TestSortSpillsRowsWithIntAndSliceAnyColumns(t *testing.T) {
	// Reducer output (Count, CountRows) carries plain `int`, and
	// file-sourced coordinate columns decode as `[]any`; both must
	// round-trip through a spilled gob run, not just the wire types
	// the engine's own Row values use internally.
	const chunk = 2
	rows := []rowmodel.Row{
		{"k": int64(3), "count": 30, "coords": []any{1.0, 2.0}},
		{"k": int64(1), "count": 10, "coords": []any{3.0, 4.0}},
		{"k": int64(2), "count": 20, "coords": []any{5.0, 6.0}},
	}
	s := &Sort{Keys: []string{"k"}, Chunk: chunk, TmpDir: t.TempDir()}
	got := runRows(t, s, rows)

	require.Len(t, got, len(rows))
	want := []int{10, 20, 30}
	for i, row := range got {
		assert.Equal(t, want[i], row["count"])
		assert.IsType(t, []any{}, row["coords"])
	}
}

func TestSortEmptyInput(t *testing.T) {
	s := &Sort{Keys: []string{"k"}, Chunk: 10, TmpDir: t.TempDir()}
	got := runRows(t, s, nil)
	assert.Len(t, got, 0)
}
