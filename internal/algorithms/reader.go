// Package algorithms provides the composed-graph library built on top
// of the engine: word count, inverted index (TF-IDF), PMI, and the
// Yandex-Maps average-speed pipeline, grounded on the reference
// compgraph.algorithms module. None of these graphs are part of the
// engine itself — they are ordinary clients of graph.Graph.
package algorithms

import (
	"encoding/json"
	"fmt"

	"github.com/fdrose/compgraph/internal/graph"
	"github.com/fdrose/compgraph/internal/ops"
)

// Parser turns one line of input into a Row.
type Parser func(line string) (ops.Row, error)

// JSONParser parses a line as a JSON object into a Row.
func JSONParser(line string) (ops.Row, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil, fmt.Errorf("algorithms: invalid JSON line: %w", err)
	}
	return ops.Row(raw), nil
}

// Reader returns a graph reading from inputStreamName (via the
// sources table passed to Run) if filename is empty, or from filename
// otherwise, using parser (JSONParser if nil).
func Reader(inputStreamName, filename string, parser Parser) *graph.Graph {
	if parser == nil {
		parser = JSONParser
	}
	if filename != "" {
		return graph.FromFile(filename, parser)
	}
	return graph.FromIter(inputStreamName)
}
