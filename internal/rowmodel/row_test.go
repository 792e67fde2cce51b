package rowmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyTupleLess(t *testing.T) {
	cases := []struct {
		name string
		a, b KeyTuple
		want bool
	}{
		{"numeric int vs float", KeyTuple{int64(1)}, KeyTuple{2.0}, true},
		{"equal numeric", KeyTuple{3.0}, KeyTuple{int64(3)}, false},
		{"string order", KeyTuple{"apple"}, KeyTuple{"banana"}, true},
		{"shorter prefix", KeyTuple{"a"}, KeyTuple{"a", "b"}, true},
		{"multi column", KeyTuple{int64(1), "b"}, KeyTuple{int64(1), "c"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.a.Less(tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestKeyTupleLessTypeMismatch(t *testing.T) {
	_, err := KeyTuple{"1"}.Less(KeyTuple{int64(1)})
	require.Error(t, err)
}

func TestKeyTupleEqual(t *testing.T) {
	eq, err := KeyTuple{int64(2), "x"}.Equal(KeyTuple{2.0, "x"})
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestRowClone(t *testing.T) {
	r := Row{"a": 1, "b": "x"}
	c := r.Clone()
	c["a"] = 2
	assert.Equal(t, 1, r["a"], "Clone must not alias the original row's backing map")
}

func TestKey(t *testing.T) {
	r := Row{"a": int64(1), "b": "y", "c": 3.5}
	kt := Key(r, []string{"b", "a"})
	want := KeyTuple{"y", int64(1)}
	eq, err := kt.Equal(want)
	require.NoError(t, err)
	assert.True(t, eq, "Key(%v) = %v, want %v", r, kt, want)
}
