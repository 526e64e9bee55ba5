package jsonpath

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

func evalStr(t *testing.T, query, doc string) []value.Value {
	t.Helper()
	p, err := ParsePath(query)
	require.NoError(t, err)
	nodes, err := Evaluate(p, mustDecode(t, doc))
	require.NoError(t, err)
	out := make([]value.Value, len(nodes))
	for i, n := range nodes {
		out[i] = n.Value
	}
	return out
}

const bookstore = `{
  "store": {
    "book": [
      {"category": "fiction", "title": "one", "price": 8.95},
      {"category": "fiction", "title": "two", "price": 12.99},
      {"category": "reference", "title": "three", "price": 8.99}
    ],
    "bicycle": {"color": "red", "price": 19.95}
  }
}`

func TestSingularMemberPath(t *testing.T) {
	got := evalStr(t, "$.store.bicycle.color", bookstore)
	require.Len(t, got, 1)
	assert.Equal(t, "red", got[0].String())
}

func TestWildcardOverArray(t *testing.T) {
	got := evalStr(t, "$.store.book[*].title", bookstore)
	require.Len(t, got, 3)
	assert.Equal(t, "one", got[0].String())
	assert.Equal(t, "three", got[2].String())
}

func TestIndexAndNegativeIndex(t *testing.T) {
	got := evalStr(t, "$.store.book[-1].title", bookstore)
	require.Len(t, got, 1)
	assert.Equal(t, "three", got[0].String())
}

func TestSliceSelector(t *testing.T) {
	got := evalStr(t, "$.store.book[0:2].title", bookstore)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].String())
	assert.Equal(t, "two", got[1].String())
}

func TestDescendantSegment(t *testing.T) {
	got := evalStr(t, "$..price", bookstore)
	assert.Len(t, got, 4)
}

// S2 scenario: $.store.book[?(@.price > 10)].price -> [12.99]
func TestFilterSelectorScenario(t *testing.T) {
	got := evalStr(t, "$.store.book[?@.price > 10].price", bookstore)
	require.Len(t, got, 1)
	assert.InDelta(t, 12.99, got[0].Float(), 1e-9)
}

func TestFilterExistenceTruthiness(t *testing.T) {
	got := evalStr(t, "$.store.book[?@.category]", bookstore)
	assert.Len(t, got, 3)
}

func TestFilterLogicalAndOr(t *testing.T) {
	got := evalStr(t, `$.store.book[?@.category == "fiction" && @.price < 10]`, bookstore)
	require.Len(t, got, 1)
	title, _ := got[0].Get("title")
	assert.Equal(t, "one", title.String())
}

func TestFunctionLength(t *testing.T) {
	got := evalStr(t, `$.store.book[?length(@.title) > 3]`, bookstore)
	assert.Len(t, got, 1)
}

func TestFunctionCount(t *testing.T) {
	got := evalStr(t, `$.store.book[?count(@.title) == 1]`, bookstore)
	assert.Len(t, got, 3)
}

func TestVariablePi(t *testing.T) {
	got := evalStr(t, `$.store.book[?length(@.title) < pi]`, bookstore)
	assert.Len(t, got, 2)
}

// law #3: a path of single member/index child segments is singular; one
// with a wildcard segment is not.
func TestSingularPathIsSingular(t *testing.T) {
	p, err := ParsePath("$.store.book[0].title")
	require.NoError(t, err)
	assert.True(t, p.IsSingular())

	p2, err := ParsePath("$.store.book[*].title")
	require.NoError(t, err)
	assert.False(t, p2.IsSingular())
}

func TestShorthandRewrite(t *testing.T) {
	got := evalStr(t, "store.bicycle.color", bookstore)
	require.Len(t, got, 1)
	assert.Equal(t, "red", got[0].String())
}

func TestStrictRejectsLeadingZero(t *testing.T) {
	_, err := ParsePath("$.store.book[01]")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestQuotedMemberName(t *testing.T) {
	got := evalStr(t, `$.store['bicycle']['color']`, bookstore)
	require.Len(t, got, 1)
	assert.Equal(t, "red", got[0].String())
}

func TestMultipleSelectorsInBrackets(t *testing.T) {
	got := evalStr(t, `$.store.book[0,2].title`, bookstore)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].String())
	assert.Equal(t, "three", got[1].String())
}
