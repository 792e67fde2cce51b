// Package graph implements the immutable DAG composition model: graph
// nodes pairing an operation with its parent nodes, structural-sharing
// via Copy, and recursive bottom-up execution via Run.
package graph

import (
	"github.com/fdrose/compgraph/internal/extsort"
	"github.com/fdrose/compgraph/internal/ops"
)

// Graph is an immutable DAG node: an operation plus its ordered parent
// nodes. A node with zero parents is a source. Nodes are referentially
// shareable — two downstream graphs may reference the same parent node,
// and each Run call re-executes shared parents independently.
type Graph struct {
	operation ops.Operation
	parents   []*Graph
}

// FromIter constructs a graph which reads rows from the named kwarg
// passed to Run (a zero-argument supplier of a fresh RowIterator).
func FromIter(name string) *Graph {
	return &Graph{operation: &ops.IteratorSource{Name: name}}
}

// FromFile constructs a graph which reads and parses rows line by
// line from filename.
func FromFile(filename string, parser func(string) (ops.Row, error)) *Graph {
	return &Graph{operation: &ops.FileSource{Path: filename, Parser: parser}}
}

// Copy returns a shallow structural copy: same operation, same
// parents list. Because graphs are immutable, Copy is a cheap alias —
// it exists to express intent ("fork here") so a partially-built
// pipeline can feed multiple divergent downstream pipelines without
// either mutating the other.
func (g *Graph) Copy() *Graph {
	return &Graph{operation: g.operation, parents: g.parents}
}

// Map extends the graph with a map operation using mapper.
func (g *Graph) Map(mapper ops.Mapper) *Graph {
	return &Graph{operation: &ops.Map{Mapper: mapper}, parents: []*Graph{g}}
}

// Reduce extends the graph with a reduce operation grouping by keys.
func (g *Graph) Reduce(reducer ops.Reducer, keys []string) *Graph {
	return &Graph{operation: &ops.Reduce{Reducer: reducer, Keys: keys}, parents: []*Graph{g}}
}

// Sort extends the graph with an external-sort operation ordering by
// keys.
func (g *Graph) Sort(keys []string) *Graph {
	return &Graph{operation: &extsort.Sort{Keys: keys}, parents: []*Graph{g}}
}

// Join extends the graph with a join operation against other, using
// joiner's strategy and keys. g is the left side, other the right.
func (g *Graph) Join(joiner ops.Joiner, other *Graph, keys []string) *Graph {
	return &Graph{operation: &ops.Join{Joiner: joiner, Keys: keys}, parents: []*Graph{g, other}}
}

// Run executes the DAG: for each node, it first obtains each parent's
// output stream by recursively calling Run on the parent with the
// same sources, then invokes this node's operation with those
// streams. The result is the terminal stream. Calling Run twice on
// the same Graph with fresh sources produces two independent output
// streams — parents are never memoized across Run calls or across
// sibling consumers within one call.
func (g *Graph) Run(sources ops.Sources) ops.RowIterator {
	inputs := make([]ops.RowIterator, len(g.parents))
	for i, parent := range g.parents {
		inputs[i] = parent.Run(sources)
	}
	return g.operation.Run(inputs, sources)
}
