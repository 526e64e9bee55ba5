package patch

import (
	"github.com/objecthub/dynamicjson-go/ref"
	"github.com/objecthub/dynamicjson-go/value"
)

// Diff computes an RFC 6902 Patch that transforms a into b, recursing
// structurally into matching objects/arrays and falling back to replace
// for a type or leaf-value mismatch. Array differences are resolved with
// an LCS-based edit script (grounded on the corpus's
// agentflare-ai/go-jsonpatch diffArray, reworked over value.Value.Hash
// instead of a marshaled-JSON token string).
func Diff(a, b value.Value) Patch {
	return diffValue(ref.RootPointer(), a, b)
}

func diffValue(path ref.Pointer, a, b value.Value) Patch {
	if a.Equal(b) {
		return nil
	}
	if a.Kind() == value.KindObject && b.Kind() == value.KindObject {
		return diffObject(path, a, b)
	}
	if a.Kind() == value.KindArray && b.Kind() == value.KindArray {
		return diffArray(path, a, b)
	}
	return Patch{{Op: Replace, Path: path.String(), Value: b}}
}

func diffObject(path ref.Pointer, a, b value.Value) Patch {
	var out Patch
	for _, k := range a.Keys() {
		if _, ok := b.Get(k); !ok {
			out = append(out, Operation{Op: Remove, Path: path.Child(k).String()})
		}
	}
	for _, k := range b.Keys() {
		bv, _ := b.Get(k)
		if av, ok := a.Get(k); ok {
			out = append(out, diffValue(path.Child(k), av, bv)...)
			continue
		}
		out = append(out, Operation{Op: Add, Path: path.Child(k).String(), Value: bv})
	}
	return out
}

// diffArray produces an edit script using the longest-common-subsequence
// of hash-equal elements to decide which positions are kept, removing
// the rest (descending index order, so earlier removals never shift
// later indices) and adding the remainder (ascending index order).
func diffArray(path ref.Pointer, a, b value.Value) Patch {
	n, m := a.Len(), b.Len()
	av := make([]value.Value, n)
	bv := make([]value.Value, m)
	for i := 0; i < n; i++ {
		av[i], _ = a.Index(i)
	}
	for j := 0; j < m; j++ {
		bv[j], _ = b.Index(j)
	}

	posMap := make(map[uint64][]int, n)
	for i, v := range av {
		h := v.Hash()
		posMap[h] = append(posMap[h], i)
	}

	type pair struct{ ai, bj int }
	var pairs []pair
	var seq []int
	for j, v := range bv {
		h := v.Hash()
		q := posMap[h]
		// Find the first remaining candidate that is actually equal
		// (hashes may collide across distinct values).
		matched := -1
		for qi, ai := range q {
			if av[ai].Equal(v) {
				matched = qi
				break
			}
		}
		if matched < 0 {
			continue
		}
		ai := q[matched]
		posMap[h] = append(q[:matched], q[matched+1:]...)
		pairs = append(pairs, pair{ai: ai, bj: j})
		seq = append(seq, ai)
	}

	lisIdx := longestIncreasingSubsequence(seq)
	keepA := make([]bool, n)
	keepB := make([]bool, m)
	for _, pi := range lisIdx {
		keepA[pairs[pi].ai] = true
		keepB[pairs[pi].bj] = true
	}

	var out Patch
	for i := n - 1; i >= 0; i-- {
		if !keepA[i] {
			out = append(out, Operation{Op: Remove, Path: path.ChildIndex(i).String()})
		}
	}
	for j := 0; j < m; j++ {
		if !keepB[j] {
			out = append(out, Operation{Op: Add, Path: path.ChildIndex(j).String(), Value: bv[j]})
		}
	}
	return out
}

// longestIncreasingSubsequence returns the indices (into seq) of an LIS,
// using patience sorting with predecessor links, same technique as the
// grounding source.
func longestIncreasingSubsequence(seq []int) []int {
	if len(seq) == 0 {
		return nil
	}
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i := range prev {
		prev[i] = -1
	}
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}
	out := make([]int, len(tails))
	p := tails[len(tails)-1]
	for x := len(tails) - 1; x >= 0; x-- {
		out[x] = p
		p = prev[p]
	}
	return out
}
