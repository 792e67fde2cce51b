package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdrose/compgraph/internal/graph"
	"github.com/fdrose/compgraph/internal/operations"
	"github.com/fdrose/compgraph/internal/ops"
)

func sliceSource(rows []ops.Row) func() ops.RowIterator {
	return func() ops.RowIterator { return ops.NewSliceIterator(rows) }
}

func TestGraphMapIdentityInvariant(t *testing.T) {
	rows := []ops.Row{{"a": 1}, {"a": 2}}
	g := graph.FromIter("in").Map(operations.DummyMapper{})

	out := g.Run(ops.Sources{"in": sliceSource(rows)})
	got, err := ops.Drain(out)
	require.NoError(t, err)
	require.Len(t, got, len(rows))
}

func TestGraphSortReduceWordCount(t *testing.T) {
	rows := []ops.Row{
		{"word": "b"}, {"word": "a"}, {"word": "b"}, {"word": "a"}, {"word": "a"},
	}
	g := graph.FromIter("in").
		Sort([]string{"word"}).
		Reduce(operations.Count{Column: "n"}, []string{"word"}).
		Sort([]string{"word"})

	out := g.Run(ops.Sources{"in": sliceSource(rows)})
	got, err := ops.Drain(out)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0]["word"])
	assert.Equal(t, 3, got[0]["n"])
	assert.Equal(t, "b", got[1]["word"])
	assert.Equal(t, 2, got[1]["n"])
}

func TestGraphJoinInner(t *testing.T) {
	left := graph.FromIter("left").Sort([]string{"id"})
	right := graph.FromIter("right").Sort([]string{"id"})
	g := left.Join(operations.InnerJoiner{}, right, []string{"id"})

	sources := ops.Sources{
		"left":  sliceSource([]ops.Row{{"id": 1, "name": "carlos"}, {"id": 2, "name": "maria"}}),
		"right": sliceSource([]ops.Row{{"id": 1, "dept": "it"}}),
	}
	out := g.Run(sources)
	got, err := ops.Drain(out)
	require.NoError(t, err)
	require.Len(t, got, 1, "id=2 has no match on the right")
	assert.Equal(t, "carlos", got[0]["name"])
	assert.Equal(t, "it", got[0]["dept"])
}

func TestGraphCopyForksIndependently(t *testing.T) {
	base := graph.FromIter("in").Sort([]string{"a"})
	left := base.Copy().Map(operations.DummyMapper{})
	right := base.Copy().Reduce(operations.Count{Column: "n"}, []string{"a"})

	freshSources := func() ops.Sources {
		return ops.Sources{"in": sliceSource([]ops.Row{{"a": 1}, {"a": 1}})}
	}

	leftOut, err := ops.Drain(left.Run(freshSources()))
	require.NoError(t, err)
	assert.Len(t, leftOut, 2)

	rightOut, err := ops.Drain(right.Run(freshSources()))
	require.NoError(t, err)
	require.Len(t, rightOut, 1)
	assert.Equal(t, 2, rightOut[0]["n"])
}

func TestGraphRunIsRepeatableWithFreshSources(t *testing.T) {
	g := graph.FromIter("in").Map(operations.DummyMapper{})
	rows := []ops.Row{{"a": 1}, {"a": 2}, {"a": 3}}

	for i := 0; i < 2; i++ {
		out := g.Run(ops.Sources{"in": sliceSource(rows)})
		got, err := ops.Drain(out)
		require.NoErrorf(t, err, "run %d", i)
		assert.Lenf(t, got, len(rows), "run %d", i)
	}
}

func TestGraphMissingSourceErrors(t *testing.T) {
	g := graph.FromIter("missing")
	out := g.Run(ops.Sources{})
	_, _, err := out.Next()
	assert.Error(t, err)
}
