package ref

import "github.com/objecthub/dynamicjson-go/value"

// Select returns the prefix of p containing its first n tokens — the
// Segmentable Reference "select" primitive.
func (p Pointer) Select(n int) Pointer {
	if n > len(p.tokens) {
		n = len(p.tokens)
	}
	out := make([]Token, n)
	copy(out, p.tokens[:n])
	return Pointer{tokens: out}
}

// Deselect returns p's parent pointer and its last token — the
// Segmentable Reference "deselect" primitive.
func (p Pointer) Deselect() (Pointer, Token, bool) {
	if len(p.tokens) == 0 {
		return Pointer{}, Token{}, false
	}
	last := p.tokens[len(p.tokens)-1]
	return p.Select(len(p.tokens) - 1), last, true
}

// ToLocations enumerates every Location p could denote: a token that
// parses as both a valid member name and a valid array index
// yields two candidates at that position (index tried first, matching
// the canonical numeric-first resolution order); an unambiguous token
// (including the "-" append token, which only ever denotes a member
// named "-" here, since Location has no append concept) yields one.
func (p Pointer) ToLocations() []Location {
	candidates := []Location{Root()}
	for _, t := range p.tokens {
		var next []Location
		for _, c := range candidates {
			if t.HasInt {
				next = append(next, Index(c, t.IntVal))
			}
			next = append(next, Member(c, t.Raw))
		}
		candidates = next
	}
	return candidates
}

// LocateWithRoot converts p to the single Location it actually denotes in
// root, by dispatching each ambiguous token the same way Get does:
// object-typed containers take the member interpretation, array-typed
// containers take the index interpretation. Returns false if p does not
// resolve against root at all.
func LocateWithRoot(p Pointer, root value.Value) (Location, bool) {
	cur := root
	loc := Root()
	for _, t := range p.tokens {
		switch cur.Kind() {
		case value.KindObject:
			v, ok := cur.Get(t.Raw)
			if !ok {
				return Location{}, false
			}
			loc = Member(loc, t.Raw)
			cur = v
		case value.KindArray:
			if t.Dash || !t.HasInt {
				return Location{}, false
			}
			v, ok := cur.Index(t.IntVal)
			if !ok {
				return Location{}, false
			}
			loc = Index(loc, t.IntVal)
			cur = v
		default:
			return Location{}, false
		}
	}
	return loc, true
}
