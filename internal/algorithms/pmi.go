package algorithms

import (
	"github.com/fdrose/compgraph/internal/graph"
	"github.com/fdrose/compgraph/internal/operations"
)

// PMIGraph constructs a graph computing pointwise mutual information
// between each word and the document it appears in, keeping the top
// 10 words per document. Only words longer than 4 runes and
// occurring at least twice within a document are considered.
func PMIGraph(inputStreamName, docColumn, textColumn, resultColumn string) *graph.Graph {
	return PMIGraphFile(inputStreamName, "", nil, docColumn, textColumn, resultColumn)
}

// PMIGraphFile is PMIGraph reading from filename.
func PMIGraphFile(inputStreamName, filename string, parser Parser, docColumn, textColumn, resultColumn string) *graph.Graph {
	reader := Reader(inputStreamName, filename, parser)

	split := reader.Copy().
		Map(operations.FilterPunctuation{Column: textColumn}).
		Map(operations.LowerCase{Column: textColumn}).
		Map(operations.Split{Column: textColumn})

	frequent := split.Copy().
		Sort([]string{docColumn, textColumn}).
		Reduce(operations.Count{Column: "count"}, []string{docColumn, textColumn}).
		Map(operations.LongerThanN{Column: textColumn, N: 4}).
		Map(operations.AtLeastNTimes{Column: "count", N: 2})

	docFreq := frequent.Copy().
		Sort([]string{docColumn}).
		Reduce(operations.TermFrequencyFromCounts{WordsColumn: textColumn, CountColumn: "count", ResultColumn: "doc_freq"}, []string{docColumn})

	wordFreq := frequent.Copy().
		Reduce(operations.TermFrequencyFromCounts{WordsColumn: textColumn, CountColumn: "count", ResultColumn: "word_freq"}, nil)

	pmi := docFreq.Copy().
		Sort([]string{textColumn}).
		Join(operations.InnerJoiner{}, wordFreq.Copy().Sort([]string{textColumn}), []string{textColumn}).
		Map(operations.LogTransform{Numerator: "doc_freq", Denominator: "word_freq", ResultColumn: resultColumn})

	return pmi.Copy().
		Sort([]string{docColumn}).
		Reduce(operations.TopN{Column: resultColumn, N: 10}, []string{docColumn}).
		Sort([]string{docColumn, resultColumn})
}
