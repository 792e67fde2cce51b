// Package rowmodel defines the universal unit of flow for the graph
// engine: a heterogeneous key->value record, plus the key-tuple
// projection used by Sort, Reduce and Join.
package rowmodel

import "fmt"

// Row is an unordered mapping from column name to a dynamically-typed
// value. Values seen in practice: int64, float64, string, [2]float64
// (a coordinate pair), and RFC3339 timestamp strings.
type Row map[string]any

// Clone returns a shallow copy. Operations that must not let two
// downstream branches alias the same row copy rather than mutate.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Key projects the row onto the ordered column list, returning the
// comparable key tuple used for sorting, grouping and joining.
func Key(row Row, keys []string) KeyTuple {
	vals := make([]any, len(keys))
	for i, k := range keys {
		vals[i] = row[k]
	}
	return KeyTuple(vals)
}

// KeyTuple is the value of a Row projected onto an ordered sequence of
// column names, compared lexicographically by Less.
type KeyTuple []any

// Less reports whether kt sorts strictly before other, comparing
// element-wise left to right. Numeric values compare numerically
// regardless of whether they arrived as int64 or float64; a column
// that holds a number in one row and a string in another is a caller
// error and returns a non-nil error.
func (kt KeyTuple) Less(other KeyTuple) (bool, error) {
	n := len(kt)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		cmp, err := compareValues(kt[i], other[i])
		if err != nil {
			return false, err
		}
		if cmp != 0 {
			return cmp < 0, nil
		}
	}
	return len(kt) < len(other), nil
}

// Equal reports whether kt and other compare equal element-wise.
func (kt KeyTuple) Equal(other KeyTuple) (bool, error) {
	if len(kt) != len(other) {
		return false, nil
	}
	for i := range kt {
		cmp, err := compareValues(kt[i], other[i])
		if err != nil {
			return false, err
		}
		if cmp != 0 {
			return false, nil
		}
	}
	return true, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func compareValues(a, b any) (int, error) {
	if a == nil && b == nil {
		return 0, nil
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	as, asok := a.(string)
	bs, bsok := b.(string)
	if asok && bsok {
		switch {
		case as < bs:
			return -1, nil
		case as > bs:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, fmt.Errorf("rowmodel: cannot compare key values of differing or unsupported types (%T vs %T)", a, b)
}
