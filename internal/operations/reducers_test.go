package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdrose/compgraph/internal/ops"
)

func group(rows []Row) ops.RowIterator { return ops.NewSliceIterator(rows) }

func TestCount(t *testing.T) {
	rows, err := (Count{Column: "n"}).Reduce([]string{"word"}, group([]Row{
		{"word": "a"}, {"word": "a"}, {"word": "a"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, rows[0]["n"])
	assert.Equal(t, "a", rows[0]["word"])
}

func TestSum(t *testing.T) {
	rows, err := (Sum{Column: "v"}).Reduce([]string{"k"}, group([]Row{
		{"k": "x", "v": 1.0}, {"k": "x", "v": 2.5}, {"k": "x", "v": 0.5},
	}))
	require.NoError(t, err)
	assert.Equal(t, 4.0, rows[0]["v"])
}

func TestMean(t *testing.T) {
	rows, err := (Mean{Column: "v"}).Reduce([]string{"k"}, group([]Row{
		{"k": "x", "v": 1.0}, {"k": "x", "v": 3.0},
	}))
	require.NoError(t, err)
	assert.Equal(t, 2.0, rows[0]["v"])
}

func TestTermFrequency(t *testing.T) {
	rows, err := (TermFrequency{WordsColumn: "word", ResultColumn: "tf"}).Reduce([]string{"doc"}, group([]Row{
		{"doc": 1, "word": "a"}, {"doc": 1, "word": "a"}, {"doc": 1, "word": "b"},
	}))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	freqs := map[string]float64{}
	for _, row := range rows {
		freqs[row["word"].(string)] = row["tf"].(float64)
	}
	assert.InDelta(t, 2.0/3.0, freqs["a"], 1e-9)
	assert.InDelta(t, 1.0/3.0, freqs["b"], 1e-9)
}

func TestTopN(t *testing.T) {
	rows, err := (TopN{Column: "score", N: 2}).Reduce(nil, group([]Row{
		{"id": 1, "score": 5.0},
		{"id": 2, "score": 9.0},
		{"id": 3, "score": 1.0},
		{"id": 4, "score": 7.0},
	}))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0]["id"])
	assert.Equal(t, 4, rows[1]["id"])
}

func TestTopNFewerRowsThanN(t *testing.T) {
	rows, err := (TopN{Column: "score", N: 5}).Reduce(nil, group([]Row{
		{"id": 1, "score": 1.0},
	}))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFirstReducerEmptyGroup(t *testing.T) {
	rows, err := (FirstReducer{}).Reduce(nil, group(nil))
	require.NoError(t, err)
	assert.Nil(t, rows)
}
