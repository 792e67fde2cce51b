package algorithms

import (
	"github.com/fdrose/compgraph/internal/graph"
	"github.com/fdrose/compgraph/internal/operations"
)

// InvertedIndexGraph constructs a graph that computes TF-IDF for
// every word/document pair, keeping the top 3 documents per word.
func InvertedIndexGraph(inputStreamName, docColumn, textColumn, resultColumn string) *graph.Graph {
	return InvertedIndexGraphFile(inputStreamName, "", nil, docColumn, textColumn, resultColumn)
}

// InvertedIndexGraphFile is InvertedIndexGraph reading from filename.
func InvertedIndexGraphFile(inputStreamName, filename string, parser Parser, docColumn, textColumn, resultColumn string) *graph.Graph {
	reader := Reader(inputStreamName, filename, parser)

	splitGraph := reader.Copy().
		Map(operations.FilterPunctuation{Column: textColumn}).
		Map(operations.LowerCase{Column: textColumn}).
		Map(operations.Split{Column: textColumn})

	countGraph := reader.Copy().
		Reduce(operations.CountRows{Column: "doc_ctr"}, nil)

	idfGraph := splitGraph.Copy().
		Sort([]string{docColumn, textColumn}).
		Reduce(operations.FirstReducer{}, []string{docColumn, textColumn}).
		Sort([]string{textColumn}).
		Reduce(operations.Count{Column: "doc_text_ctr"}, []string{textColumn}).
		Join(operations.InnerJoiner{}, countGraph, nil).
		Map(operations.LogTransform{Numerator: "doc_ctr", Denominator: "doc_text_ctr", ResultColumn: "idf"})

	tfGraph := splitGraph.Copy().
		Sort([]string{docColumn}).
		Reduce(operations.TermFrequency{WordsColumn: textColumn, ResultColumn: "tf"}, []string{docColumn}).
		Sort([]string{textColumn})

	return idfGraph.Copy().
		Join(operations.InnerJoiner{}, tfGraph.Copy(), []string{textColumn}).
		Map(operations.Product{Columns: []string{"idf", "tf"}, ResultColumn: resultColumn}).
		Map(operations.Project{Columns: []string{docColumn, textColumn, resultColumn}}).
		Sort([]string{textColumn, docColumn}).
		Reduce(operations.TopN{Column: resultColumn, N: 3}, []string{textColumn})
}
