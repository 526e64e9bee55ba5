package merge

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

// S4 scenario: RFC 7396 example — null removes, nested objects recurse,
// a non-object replaces wholesale.
func TestMergePatchRFCExample(t *testing.T) {
	target := mustDecode(t, `{"a":"b","c":{"d":"e","f":"g"}}`)
	patch := mustDecode(t, `{"a":"z","c":{"f":null}}`)
	got := MergePatch(target, patch)
	want := mustDecode(t, `{"a":"z","c":{"d":"e"}}`)
	assert.True(t, got.Equal(want))
}

func TestMergePatchReplacesNonObjectTarget(t *testing.T) {
	target := mustDecode(t, `["a","b"]`)
	patch := mustDecode(t, `{"x":1}`)
	got := MergePatch(target, patch)
	want := mustDecode(t, `{"x":1}`)
	assert.True(t, got.Equal(want))
}

func TestMergePatchNonObjectPatchReplaces(t *testing.T) {
	target := mustDecode(t, `{"a":1}`)
	patch := mustDecode(t, `"replacement"`)
	got := MergePatch(target, patch)
	assert.Equal(t, "replacement", got.String())
}

// law #5: symmetric merge fails on a scalar conflict.
func TestSymmetricConflict(t *testing.T) {
	a := mustDecode(t, `{"x":1}`)
	b := mustDecode(t, `{"x":2}`)
	_, ok := Symmetric(a, b)
	assert.False(t, ok)
}

// law #6: a successful symmetric merge result refines both inputs.
func TestSymmetricRefinesBothInputs(t *testing.T) {
	a := mustDecode(t, `{"x":1,"y":[1,2]}`)
	b := mustDecode(t, `{"x":1,"z":"hi"}`)
	m, ok := Symmetric(a, b)
	require.True(t, ok)
	assert.True(t, Refines(m, a))
	assert.True(t, Refines(m, b))
}

func TestSymmetricArrayLengthMismatchFails(t *testing.T) {
	a := mustDecode(t, `[1,2]`)
	b := mustDecode(t, `[1,2,3]`)
	_, ok := Symmetric(a, b)
	assert.False(t, ok)
}

// law #7: override merge never fails and conflicts favor the right side.
func TestOverrideConflictPrefersRight(t *testing.T) {
	a := mustDecode(t, `{"x":1}`)
	b := mustDecode(t, `{"x":2}`)
	got := Override(a, b)
	want := mustDecode(t, `{"x":2}`)
	assert.True(t, got.Equal(want))
}

func TestOverrideArrayAppendsRemainder(t *testing.T) {
	a := mustDecode(t, `[1,2,3]`)
	b := mustDecode(t, `[9,9]`)
	got := Override(a, b)
	want := mustDecode(t, `[9,9,3]`)
	assert.True(t, got.Equal(want))
}

func TestRefinementAllowsExtraKeys(t *testing.T) {
	a := mustDecode(t, `{"x":1,"y":2}`)
	b := mustDecode(t, `{"x":1}`)
	assert.True(t, Refines(a, b))
	assert.False(t, Refines(b, a))
}
