package ref

import "github.com/objecthub/dynamicjson-go/value"

// Reference is the common {get, set, mutate} capability set over a root
// value.Value. Both Pointer and Location implement it.
type Reference interface {
	Get(root value.Value) (value.Value, bool)
	Set(root value.Value, newVal value.Value) (value.Value, error)
	Mutate(root value.Value, fn func(value.Value) (value.Value, error)) (value.Value, error)
}

// New disambiguates a reference literal: empty or starting with '/' is
// a Pointer; anything else is parsed as a singular JSONPath
// Location string (bracket or dot notation produced by Location.String,
// or a bare JSONPath). Callers needing full JSONPath query semantics
// should use the jsonpath package directly; this only recognizes the
// singular subset convertible to a Location.
func New(s string) (Reference, error) {
	if s == "" || s[0] == '/' {
		return ParsePointer(s)
	}
	return ParseLocationString(s)
}

// --- Pointer Get/Set/Mutate ---

// Get walks tokens left to right. A member token requires the current
// value be an object containing that key; otherwise it requires an array
// and a valid, in-bounds index token (the "-" token never resolves on
// Get). Any mismatch fails silently with (zero, false).
func (p Pointer) Get(root value.Value) (value.Value, bool) {
	cur := root
	for _, t := range p.tokens {
		switch cur.Kind() {
		case value.KindObject:
			v, ok := cur.Get(t.Raw)
			if !ok {
				return value.Value{}, false
			}
			cur = v
		case value.KindArray:
			if t.Dash || !t.HasInt {
				return value.Value{}, false
			}
			v, ok := cur.Index(t.IntVal)
			if !ok {
				return value.Value{}, false
			}
			cur = v
		default:
			return value.Value{}, false
		}
	}
	return cur, true
}

// Set returns a new Value with the pointer's slot replaced. It is a pure
// function: root is never mutated. The one special case is an
// array whose terminal token is the current length or "-": that appends
// rather than erroring.
func (p Pointer) Set(root value.Value, newVal value.Value) (value.Value, error) {
	if len(p.tokens) == 0 {
		return newVal, nil
	}
	return setAt(root, p.tokens, newVal)
}

func setAt(cur value.Value, tokens []Token, newVal value.Value) (value.Value, error) {
	t := tokens[0]
	if len(tokens) == 1 {
		return setLeaf(cur, t, newVal)
	}
	switch cur.Kind() {
	case value.KindObject:
		child, ok := cur.Get(t.Raw)
		if !ok {
			return value.Value{}, ErrErroneousMemberSelection
		}
		updated, err := setAt(child, tokens[1:], newVal)
		if err != nil {
			return value.Value{}, err
		}
		out, _ := cur.WithSet(t.Raw, updated)
		return out, nil
	case value.KindArray:
		idx, ok := resolvePointerIndex(cur, t)
		if !ok {
			return value.Value{}, ErrErroneousIndexSelection
		}
		child, ok := cur.Index(idx)
		if !ok {
			return value.Value{}, ErrErroneousIndexSelection
		}
		updated, err := setAt(child, tokens[1:], newVal)
		if err != nil {
			return value.Value{}, err
		}
		out, _ := cur.WithIndexSet(idx, updated)
		return out, nil
	default:
		return value.Value{}, ErrErroneousMemberSelection
	}
}

func setLeaf(cur value.Value, t Token, newVal value.Value) (value.Value, error) {
	switch cur.Kind() {
	case value.KindObject:
		out, _ := cur.WithSet(t.Raw, newVal)
		return out, nil
	case value.KindArray:
		if t.Dash || (t.HasInt && t.IntVal == cur.Len()) {
			out, _ := cur.WithInserted(cur.Len(), newVal)
			return out, nil
		}
		if !t.HasInt || t.IntVal < 0 || t.IntVal >= cur.Len() {
			return value.Value{}, ErrErroneousIndexSelection
		}
		out, _ := cur.WithIndexSet(t.IntVal, newVal)
		return out, nil
	default:
		return value.Value{}, ErrErroneousMemberSelection
	}
}

func resolvePointerIndex(cur value.Value, t Token) (int, bool) {
	if t.Dash {
		return cur.Len(), true
	}
	if !t.HasInt {
		return 0, false
	}
	return t.IntVal, true
}

// Mutate is the in-place-flavored variant: fn rewrites the
// referenced slot. A missing object member fails with
// ErrErroneousMemberSelection; MutateInsert can create it as null instead.
func (p Pointer) Mutate(root value.Value, fn func(value.Value) (value.Value, error)) (value.Value, error) {
	return p.MutateInsert(root, fn, false)
}

// MutateInsert is Mutate with explicit control over whether a missing
// object member is synthesized as null before recursing.
func (p Pointer) MutateInsert(root value.Value, fn func(value.Value) (value.Value, error), insert bool) (value.Value, error) {
	if len(p.tokens) == 0 {
		return fn(root)
	}
	return mutateAt(root, p.tokens, fn, insert)
}

func mutateAt(cur value.Value, tokens []Token, fn func(value.Value) (value.Value, error), insert bool) (value.Value, error) {
	t := tokens[0]
	rest := tokens[1:]
	switch cur.Kind() {
	case value.KindObject:
		child, ok := cur.Get(t.Raw)
		if !ok {
			if !insert {
				return value.Value{}, ErrErroneousMemberSelection
			}
			child = value.Null()
		}
		var updated value.Value
		var err error
		if len(rest) == 0 {
			updated, err = fn(child)
		} else {
			updated, err = mutateAt(child, rest, fn, insert)
		}
		if err != nil {
			return value.Value{}, err
		}
		out, _ := cur.WithSet(t.Raw, updated)
		return out, nil
	case value.KindArray:
		if len(rest) == 0 && (t.Dash || (t.HasInt && t.IntVal == cur.Len())) {
			updated, err := fn(value.Null())
			if err != nil {
				return value.Value{}, err
			}
			out, _ := cur.WithInserted(cur.Len(), updated)
			return out, nil
		}
		idx, ok := resolvePointerIndex(cur, t)
		if !ok || idx < 0 || idx >= cur.Len() {
			return value.Value{}, ErrErroneousIndexSelection
		}
		child, _ := cur.Index(idx)
		var updated value.Value
		var err error
		if len(rest) == 0 {
			updated, err = fn(child)
		} else {
			updated, err = mutateAt(child, rest, fn, insert)
		}
		if err != nil {
			return value.Value{}, err
		}
		out, _ := cur.WithIndexSet(idx, updated)
		return out, nil
	default:
		return value.Value{}, ErrErroneousMemberSelection
	}
}

// --- Location Get/Set/Mutate ---

// Get resolves l against root, honoring negative indices as
// relative-to-end.
func (l Location) Get(root value.Value) (value.Value, bool) {
	segs := l.Segments()
	cur := root
	for _, s := range segs {
		if s.IsIndex {
			if cur.Kind() != value.KindArray {
				return value.Value{}, false
			}
			idx := s.Idx
			if idx < 0 {
				idx += cur.Len()
			}
			v, ok := cur.Index(idx)
			if !ok {
				return value.Value{}, false
			}
			cur = v
		} else {
			if cur.Kind() != value.KindObject {
				return value.Value{}, false
			}
			v, ok := cur.Get(s.Name)
			if !ok {
				return value.Value{}, false
			}
			cur = v
		}
	}
	return cur, true
}

// Set returns root with the slot at l replaced; fails when l's parent
// path does not already exist.
func (l Location) Set(root value.Value, newVal value.Value) (value.Value, error) {
	segs := l.Segments()
	return setAtLoc(root, segs, newVal)
}

func setAtLoc(cur value.Value, segs []LocSegment, newVal value.Value) (value.Value, error) {
	if len(segs) == 0 {
		return newVal, nil
	}
	s := segs[0]
	if s.IsIndex {
		if cur.Kind() != value.KindArray {
			return value.Value{}, ErrErroneousIndexSelection
		}
		idx := s.Idx
		if idx < 0 {
			idx += cur.Len()
		}
		child, ok := cur.Index(idx)
		if !ok {
			return value.Value{}, ErrErroneousIndexSelection
		}
		updated, err := setAtLoc(child, segs[1:], newVal)
		if err != nil {
			return value.Value{}, err
		}
		out, _ := cur.WithIndexSet(idx, updated)
		return out, nil
	}
	if cur.Kind() != value.KindObject {
		return value.Value{}, ErrErroneousMemberSelection
	}
	child, ok := cur.Get(s.Name)
	if !ok {
		if len(segs) == 1 {
			out, _ := cur.WithSet(s.Name, newVal)
			return out, nil
		}
		return value.Value{}, ErrErroneousMemberSelection
	}
	updated, err := setAtLoc(child, segs[1:], newVal)
	if err != nil {
		return value.Value{}, err
	}
	out, _ := cur.WithSet(s.Name, updated)
	return out, nil
}

// Mutate rewrites the slot at l via fn. Negative Location indices resolve
// the same way as Get.
func (l Location) Mutate(root value.Value, fn func(value.Value) (value.Value, error)) (value.Value, error) {
	segs := l.Segments()
	return mutateAtLoc(root, segs, fn)
}

func mutateAtLoc(cur value.Value, segs []LocSegment, fn func(value.Value) (value.Value, error)) (value.Value, error) {
	if len(segs) == 0 {
		return fn(cur)
	}
	s := segs[0]
	if s.IsIndex {
		if cur.Kind() != value.KindArray {
			return value.Value{}, ErrErroneousIndexSelection
		}
		idx := s.Idx
		if idx < 0 {
			idx += cur.Len()
		}
		child, ok := cur.Index(idx)
		if !ok {
			return value.Value{}, ErrErroneousIndexSelection
		}
		updated, err := mutateAtLoc(child, segs[1:], fn)
		if err != nil {
			return value.Value{}, err
		}
		out, _ := cur.WithIndexSet(idx, updated)
		return out, nil
	}
	if cur.Kind() != value.KindObject {
		return value.Value{}, ErrErroneousMemberSelection
	}
	child, ok := cur.Get(s.Name)
	if !ok {
		return value.Value{}, ErrErroneousMemberSelection
	}
	updated, err := mutateAtLoc(child, segs[1:], fn)
	if err != nil {
		return value.Value{}, err
	}
	out, _ := cur.WithSet(s.Name, updated)
	return out, nil
}
