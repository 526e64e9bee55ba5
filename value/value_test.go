package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualIntFloatAreDistinct(t *testing.T) {
	assert.False(t, Int(1).Equal(Float(1.0)))
	assert.True(t, Int(1).Equal(Int(1)))
	assert.True(t, Float(1.5).Equal(Float(1.5)))
}

func TestEqualObjectOrderIndependent(t *testing.T) {
	a := Object([]string{"a", "b"}, []Value{Int(1), Int(2)})
	b := Object([]string{"b", "a"}, []Value{Int(2), Int(1)})
	assert.True(t, a.Equal(b))
}

func TestHashMatchesEqual(t *testing.T) {
	a := Object([]string{"a", "b"}, []Value{Int(1), Int(2)})
	b := Object([]string{"b", "a"}, []Value{Int(2), Int(1)})
	require.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestDecodeClassifiesIntegerVsFloat(t *testing.T) {
	v, err := Decode([]byte(`{"a":1,"b":1.5,"c":[1,2,3]}`))
	require.NoError(t, err)

	a, _ := v.Get("a")
	assert.True(t, a.IsInt())
	assert.Equal(t, int64(1), a.Int())

	b, _ := v.Get("b")
	assert.True(t, b.IsFloat())

	c, _ := v.Get("c")
	require.True(t, c.IsArray())
	assert.Equal(t, 3, c.Len())
}

func TestEncodeRoundTrip(t *testing.T) {
	v, err := Decode([]byte(`{"a":{"b":[10,20,30]}}`))
	require.NoError(t, err)

	encoded, err := v.Encode()
	require.NoError(t, err)

	v2, err := Decode(encoded)
	require.NoError(t, err)
	assert.True(t, v.Equal(v2))
}

func TestWithSetPreservesKeyOrder(t *testing.T) {
	v := Object([]string{"a", "b"}, []Value{Int(1), Int(2)})
	updated, ok := v.WithSet("a", Int(99))
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, updated.Keys())
	a, _ := updated.Get("a")
	assert.Equal(t, int64(99), a.Int())
}

func TestWithInsertedAndRemovedIndex(t *testing.T) {
	arr := Array(Int(1), Int(2), Int(3))
	inserted, ok := arr.WithInserted(1, Int(99))
	require.True(t, ok)
	assert.Equal(t, []int64{1, 99, 2, 3}, ints(inserted))

	removed, ok := inserted.WithRemovedIndex(0)
	require.True(t, ok)
	assert.Equal(t, []int64{99, 2, 3}, ints(removed))
}

func ints(v Value) []int64 {
	out := make([]int64, v.Len())
	for i, e := range v.Array() {
		out[i] = e.Int()
	}
	return out
}
