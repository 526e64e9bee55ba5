package ref

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

func TestPointerGetS1(t *testing.T) {
	doc := mustDecode(t, `{"a":{"b":[10,20,30]}}`)

	p := MustParsePointer("/a/b/1")
	v, ok := p.Get(doc)
	require.True(t, ok)
	assert.Equal(t, int64(20), v.Int())

	dash := MustParsePointer("/a/b/-")
	_, ok = dash.Get(doc)
	assert.False(t, ok)
}

func TestPointerSetAppendOnDash(t *testing.T) {
	doc := mustDecode(t, `{"a":{"b":[10,20,30]}}`)
	p := MustParsePointer("/a/b/-")
	out, err := p.Set(doc, value.Int(40))
	require.NoError(t, err)

	b, _ := ref2(out, "/a/b")
	assert.Equal(t, 4, b.Len())
	last, _ := b.Index(3)
	assert.Equal(t, int64(40), last.Int())
}

func ref2(root value.Value, ptr string) (value.Value, bool) {
	return MustParsePointer(ptr).Get(root)
}

func TestPointerSetAppendAtLength(t *testing.T) {
	doc := mustDecode(t, `[1,2,3]`)
	p := MustParsePointer("/3")
	out, err := p.Set(doc, value.Int(4))
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
}

func TestPointerEscapeRoundTrip(t *testing.T) {
	for _, s := range []string{"a/b", "a~b", "~", "/", "plain"} {
		assert.Equal(t, s, mustUnescape(t, Escape(s)))
	}
}

func mustUnescape(t *testing.T, s string) string {
	t.Helper()
	out, err := Unescape(s)
	require.NoError(t, err)
	return out
}

func TestPointerRoundTripGetSet(t *testing.T) {
	doc := mustDecode(t, `{"a":{"b":[10,20,30]}}`)
	p := MustParsePointer("/a/b/1")
	x, ok := p.Get(doc)
	require.True(t, ok)
	out, err := p.Set(doc, x)
	require.NoError(t, err)
	assert.True(t, doc.Equal(out))
}

func TestLocationPointerRoundTrip(t *testing.T) {
	doc := mustDecode(t, `{"a":{"b":[10,20,30]}}`)
	loc := Member(Member(Root(), "a"), "b")
	loc = Index(loc, 1)

	p, err := loc.ToPointer()
	require.NoError(t, err)
	assert.Equal(t, "/a/b/1", p.String())

	v1, ok1 := loc.Get(doc)
	v2, ok2 := p.Get(doc)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.True(t, v1.Equal(v2))
}

func TestLocationNegativeIndexNotSegmentable(t *testing.T) {
	loc := Index(Root(), -1)
	_, err := loc.ToPointer()
	assert.ErrorIs(t, err, ErrNotSegmentable)
}

func TestLocationCanonicalString(t *testing.T) {
	loc := Index(Member(Root(), "store"), 0)
	assert.Equal(t, "$['store'][0]", loc.String())
}

func TestLocateWithRootDisambiguates(t *testing.T) {
	doc := mustDecode(t, `{"0":"member-value"}`)
	p := MustParsePointer("/0")
	loc, ok := LocateWithRoot(p, doc)
	require.True(t, ok)
	name, isMember := loc.MemberName()
	require.True(t, isMember)
	assert.Equal(t, "0", name)
}
