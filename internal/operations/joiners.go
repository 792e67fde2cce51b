package operations

import "github.com/fdrose/compgraph/internal/ops"

// defaultSuffixLeft / defaultSuffixRight name the column a non-key
// collision is renamed to: "_1" labels the caller's logical left side,
// "_2" the right, regardless of which strategy is in play (spec
// §4.6's suffix-swap policy for Right).
const (
	defaultSuffixLeft  = "_1"
	defaultSuffixRight = "_2"
)

// InnerJoiner keeps only matched groups.
type InnerJoiner struct{}

func (InnerJoiner) Join(keys []string, left, right ops.RowIterator) ([]Row, error) {
	rightRows, err := ops.Drain(right)
	if err != nil {
		return nil, err
	}
	// Combine fully drains left even when rightRows is empty, so both
	// left-only and right-only groups correctly produce no rows.
	return ops.Combine(keys, left, rightRows, defaultSuffixLeft, defaultSuffixRight)
}

// OuterJoiner keeps matched groups combined, and passes unmatched
// groups from either side through unchanged.
type OuterJoiner struct{}

func (OuterJoiner) Join(keys []string, left, right ops.RowIterator) ([]Row, error) {
	leftRows, err := ops.Drain(left)
	if err != nil {
		return nil, err
	}
	rightRows, err := ops.Drain(right)
	if err != nil {
		return nil, err
	}
	switch {
	case len(leftRows) > 0 && len(rightRows) > 0:
		return ops.Combine(keys, ops.NewSliceIterator(leftRows), rightRows, defaultSuffixLeft, defaultSuffixRight)
	case len(leftRows) > 0:
		return leftRows, nil
	default:
		return rightRows, nil
	}
}

// LeftJoiner keeps matched groups combined and left-only groups passed
// through unchanged; right-only groups are dropped.
type LeftJoiner struct{}

func (LeftJoiner) Join(keys []string, left, right ops.RowIterator) ([]Row, error) {
	rightRows, err := ops.Drain(right)
	if err != nil {
		return nil, err
	}
	if len(rightRows) == 0 {
		return ops.Drain(left)
	}
	return ops.Combine(keys, left, rightRows, defaultSuffixLeft, defaultSuffixRight)
}

// RightJoiner keeps matched groups combined and right-only groups
// passed through unchanged; left-only groups are dropped. It
// materializes the left group and passes it to Combine as the
// materialized side, so Combine's roles are swapped; the suffixes are
// swapped with them so that "_1" still labels the left input.
type RightJoiner struct{}

func (RightJoiner) Join(keys []string, left, right ops.RowIterator) ([]Row, error) {
	leftRows, err := ops.Drain(left)
	if err != nil {
		return nil, err
	}
	if len(leftRows) == 0 {
		return ops.Drain(right)
	}
	return ops.Combine(keys, right, leftRows, defaultSuffixRight, defaultSuffixLeft)
}
