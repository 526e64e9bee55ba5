// Package merge implements RFC 7396 JSON Merge Patch plus two related
// whole-document combinators over value.Value: symmetric merge (union
// that fails on any real conflict) and override merge (right-biased
// union), along with the refinement relation the two combinators
// preserve. It follows the recursive, pure-function style used
// throughout the ref and patch packages rather than any off-the-shelf
// merge-patch library, since no available dependency exposes a
// symmetric/override/refinement trio: these are this module's own
// combinators over value.Value, not a stock RFC 7396 implementation
// grounded elsewhere.
package merge

import "github.com/objecthub/dynamicjson-go/value"

// MergePatch applies RFC 7396 §2 to target: if patch is an object,
// target is first coerced to an empty object when it isn't one, then
// each (k, v) of patch is folded in — v == null removes k, otherwise
// target[k] becomes MergePatch(target[k] (or null), v). A non-object
// patch simply replaces target wholesale.
func MergePatch(target, patch value.Value) value.Value {
	if patch.Kind() != value.KindObject {
		return patch
	}
	base := target
	if base.Kind() != value.KindObject {
		base = value.EmptyObject()
	}
	result := base
	for _, k := range patch.Keys() {
		v, _ := patch.Get(k)
		if v.Kind() == value.KindNull {
			result, _ = result.WithRemoved(k)
			continue
		}
		cur, ok := result.Get(k)
		if !ok {
			cur = value.Null()
		}
		merged := MergePatch(cur, v)
		result, _ = result.WithSet(k, merged)
	}
	return result
}

// Symmetric combines a and b, requiring every overlapping part to agree:
// equal-length arrays merge element-wise, objects merge by key union
// with shared keys recursively merged, and scalars merge only when
// equal. Any shape or value conflict reports ok=false. The result (when
// ok) refines both a and b.
func Symmetric(a, b value.Value) (value.Value, bool) {
	switch {
	case a.Kind() == value.KindArray && b.Kind() == value.KindArray:
		if a.Len() != b.Len() {
			return value.Value{}, false
		}
		out := make([]value.Value, a.Len())
		for i := 0; i < a.Len(); i++ {
			av, _ := a.Index(i)
			bv, _ := b.Index(i)
			m, ok := Symmetric(av, bv)
			if !ok {
				return value.Value{}, false
			}
			out[i] = m
		}
		return value.ArrayFromSlice(out), true
	case a.Kind() == value.KindObject && b.Kind() == value.KindObject:
		return symmetricObjects(a, b)
	default:
		if a.Equal(b) {
			return a, true
		}
		return value.Value{}, false
	}
}

func symmetricObjects(a, b value.Value) (value.Value, bool) {
	result := value.EmptyObject()
	seen := make(map[string]bool)
	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		seen[k] = true
		if bv, ok := b.Get(k); ok {
			m, ok := Symmetric(av, bv)
			if !ok {
				return value.Value{}, false
			}
			result, _ = result.WithSet(k, m)
			continue
		}
		result, _ = result.WithSet(k, av)
	}
	for _, k := range b.Keys() {
		if seen[k] {
			continue
		}
		bv, _ := b.Get(k)
		result, _ = result.WithSet(k, bv)
	}
	return result, true
}

// Override combines a and b like Symmetric, except any conflict resolves
// to b's value, and arrays of unequal length merge index-wise up to
// min(len) with the remainder of the longer array appended unchanged.
func Override(a, b value.Value) value.Value {
	switch {
	case a.Kind() == value.KindArray && b.Kind() == value.KindArray:
		return overrideArrays(a, b)
	case a.Kind() == value.KindObject && b.Kind() == value.KindObject:
		return overrideObjects(a, b)
	default:
		return b
	}
}

func overrideArrays(a, b value.Value) value.Value {
	n, m := a.Len(), b.Len()
	shorter := n
	if m < shorter {
		shorter = m
	}
	out := make([]value.Value, 0, maxInt(n, m))
	for i := 0; i < shorter; i++ {
		av, _ := a.Index(i)
		bv, _ := b.Index(i)
		out = append(out, Override(av, bv))
	}
	if n > shorter {
		for i := shorter; i < n; i++ {
			v, _ := a.Index(i)
			out = append(out, v)
		}
	}
	if m > shorter {
		for i := shorter; i < m; i++ {
			v, _ := b.Index(i)
			out = append(out, v)
		}
	}
	return value.ArrayFromSlice(out)
}

func overrideObjects(a, b value.Value) value.Value {
	result := value.EmptyObject()
	seen := make(map[string]bool)
	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		seen[k] = true
		if bv, ok := b.Get(k); ok {
			result, _ = result.WithSet(k, Override(av, bv))
			continue
		}
		result, _ = result.WithSet(k, av)
	}
	for _, k := range b.Keys() {
		if seen[k] {
			continue
		}
		bv, _ := b.Get(k)
		result, _ = result.WithSet(k, bv)
	}
	return result
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Refines reports whether a refines b: walking b, every
// array element or object member is present and equal-or-refined in a.
// a may carry extra object keys not present in b.
func Refines(a, b value.Value) bool {
	switch b.Kind() {
	case value.KindArray:
		if a.Kind() != value.KindArray || a.Len() != b.Len() {
			return false
		}
		for i := 0; i < b.Len(); i++ {
			av, _ := a.Index(i)
			bv, _ := b.Index(i)
			if !Refines(av, bv) {
				return false
			}
		}
		return true
	case value.KindObject:
		if a.Kind() != value.KindObject {
			return false
		}
		for _, k := range b.Keys() {
			bv, _ := b.Get(k)
			av, ok := a.Get(k)
			if !ok || !Refines(av, bv) {
				return false
			}
		}
		return true
	default:
		return a.Equal(b)
	}
}
