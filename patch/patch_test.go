package patch

import (
	"testing"

	"github.com/objecthub/dynamicjson-go/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, s string) value.Value {
	t.Helper()
	v, err := value.Decode([]byte(s))
	require.NoError(t, err)
	return v
}

// S3 scenario: add, remove, replace, move, copy, test compose correctly.
func TestApplyAddRemoveReplace(t *testing.T) {
	doc := mustDecode(t, `{"a":{"b":[1,2,3]}}`)
	p := Patch{
		{Op: Add, Path: "/a/b/1", Value: value.Int(99)},
		{Op: Remove, Path: "/a/b/0"},
		{Op: Replace, Path: "/a/b/0", Value: value.String("x")},
	}
	out, err := Apply(doc, p)
	require.NoError(t, err)

	b, ok := out.Get("a")
	require.True(t, ok)
	bv, ok := b.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, bv.Len())
	v0, _ := bv.Index(0)
	assert.Equal(t, "x", v0.String())
}

func TestApplyAppendDash(t *testing.T) {
	doc := mustDecode(t, `{"items":[1,2]}`)
	out, err := Apply(doc, Patch{{Op: Add, Path: "/items/-", Value: value.Int(3)}})
	require.NoError(t, err)
	items, _ := out.Get("items")
	assert.Equal(t, 3, items.Len())
	last, _ := items.Index(2)
	assert.Equal(t, int64(3), last.Int())
}

func TestApplyMove(t *testing.T) {
	doc := mustDecode(t, `{"a":1,"b":{}}`)
	out, err := Apply(doc, Patch{{Op: Move, From: "/a", Path: "/b/a"}})
	require.NoError(t, err)
	_, hasA := out.Get("a")
	assert.False(t, hasA)
	b, _ := out.Get("b")
	ba, ok := b.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), ba.Int())
}

func TestApplyCopy(t *testing.T) {
	doc := mustDecode(t, `{"a":1}`)
	out, err := Apply(doc, Patch{{Op: Copy, From: "/a", Path: "/b"}})
	require.NoError(t, err)
	a, _ := out.Get("a")
	b, _ := out.Get("b")
	assert.Equal(t, int64(1), a.Int())
	assert.Equal(t, int64(1), b.Int())
}

func TestApplyTestPassAndFail(t *testing.T) {
	doc := mustDecode(t, `{"a":1}`)
	_, err := Apply(doc, Patch{{Op: Test, Path: "/a", Value: value.Int(1)}})
	require.NoError(t, err)

	_, err = Apply(doc, Patch{{Op: Test, Path: "/a", Value: value.Int(2)}})
	require.Error(t, err)
}

// law #4: a failing operation leaves the document exactly as it was.
func TestApplyIsTransactional(t *testing.T) {
	doc := mustDecode(t, `{"a":1}`)
	_, err := Apply(doc, Patch{
		{Op: Add, Path: "/b", Value: value.Int(2)},
		{Op: Remove, Path: "/nonexistent"},
	})
	require.Error(t, err)
	_, hasB := doc.Get("b")
	assert.False(t, hasB, "original document must be untouched on rollback")
}

func TestApplyMoveRejectsSelfSubtree(t *testing.T) {
	doc := mustDecode(t, `{"a":{"b":1}}`)
	_, err := Apply(doc, Patch{{Op: Move, From: "/a", Path: "/a/b"}})
	require.Error(t, err)
}

func TestDiffObjectAddRemoveReplace(t *testing.T) {
	a := mustDecode(t, `{"x":1,"y":2}`)
	b := mustDecode(t, `{"x":1,"z":3}`)
	p := Diff(a, b)
	out, err := Apply(a, p)
	require.NoError(t, err)
	assert.True(t, out.Equal(b))
}

func TestDiffArrayReorderAndInsert(t *testing.T) {
	a := mustDecode(t, `[1,2,3]`)
	b := mustDecode(t, `[1,4,2,3]`)
	p := Diff(a, b)
	out, err := Apply(a, p)
	require.NoError(t, err)
	assert.True(t, out.Equal(b))
}

func TestDiffNoOpWhenEqual(t *testing.T) {
	a := mustDecode(t, `{"a":[1,2,3]}`)
	p := Diff(a, a)
	assert.Len(t, p, 0)
}
