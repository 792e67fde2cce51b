package ops

import "errors"

// Sentinel error kinds. Call sites wrap these with fmt.Errorf("...: %w", ...)
// so errors.Is keeps working after context is attached.
var (
	// ErrMissingSource is returned when a source name absent from the
	// kwargs passed to Graph.Run is referenced by an IteratorSource.
	ErrMissingSource = errors.New("compgraph: missing named source")

	// ErrSourceIO is returned when a FileSource fails to open or read
	// its backing file.
	ErrSourceIO = errors.New("compgraph: source I/O error")

	// ErrSourceParse is returned when a FileSource's parser fails on a
	// line.
	ErrSourceParse = errors.New("compgraph: source parse error")

	// ErrUnsortedInput is returned by Reduce or Join when the input
	// stream violates the required ascending key-tuple order.
	ErrUnsortedInput = errors.New("compgraph: stream is not sorted by keys")

	// ErrArithmetic is returned by numeric mappers (division, log) on
	// domain errors such as division by zero.
	ErrArithmetic = errors.New("compgraph: arithmetic error")

	// ErrSpillIO is returned when the external sort fails to write or
	// read a spill file.
	ErrSpillIO = errors.New("compgraph: spill I/O error")
)
