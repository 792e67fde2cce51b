package algorithms

import (
	"github.com/fdrose/compgraph/internal/graph"
	"github.com/fdrose/compgraph/internal/operations"
)

// WordCountGraph constructs a graph that counts words in textColumn
// across all rows of the named input stream, ordered by (count, word).
func WordCountGraph(inputStreamName, textColumn, countColumn string) *graph.Graph {
	return WordCountGraphFile(inputStreamName, "", nil, textColumn, countColumn)
}

// WordCountGraphFile is WordCountGraph reading from filename (via
// parser) instead of a named in-memory source.
func WordCountGraphFile(inputStreamName, filename string, parser Parser, textColumn, countColumn string) *graph.Graph {
	reader := Reader(inputStreamName, filename, parser)

	return reader.Copy().
		Map(operations.FilterPunctuation{Column: textColumn}).
		Map(operations.LowerCase{Column: textColumn}).
		Map(operations.Split{Column: textColumn}).
		Sort([]string{textColumn}).
		Reduce(operations.Count{Column: countColumn}, []string{textColumn}).
		Sort([]string{countColumn, textColumn})
}
