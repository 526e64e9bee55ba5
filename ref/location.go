package ref

import "strings"

type locKind int

const (
	locRoot locKind = iota
	locMember
	locIndex
)

// Location is a reference built recursively as root | member(parent,
// name) | index(parent, i). Unlike Pointer it refers to
// exactly one value and may carry negative indices (relative-to-end).
// Location is a small immutable value; copying it is cheap and safe.
type Location struct {
	parent *Location
	kind   locKind
	name   string
	idx    int
}

// Root returns the location denoting the whole document.
func Root() Location { return Location{kind: locRoot} }

// Member returns the location of member `name` inside parent.
func Member(parent Location, name string) Location {
	p := parent
	return Location{parent: &p, kind: locMember, name: name}
}

// Index returns the location of element `i` inside parent. i may be
// negative, meaning "relative to the end" — resolved at Get/Set time.
func Index(parent Location, i int) Location {
	p := parent
	return Location{parent: &p, kind: locIndex, idx: i}
}

// IsRoot reports whether l denotes the document root.
func (l Location) IsRoot() bool { return l.kind == locRoot }

// Parent returns l's parent location and true, or the zero Location and
// false if l is root.
func (l Location) Parent() (Location, bool) {
	if l.kind == locRoot {
		return Location{}, false
	}
	return *l.parent, true
}

// MemberName returns l's member name and true if l is a member location.
func (l Location) MemberName() (string, bool) {
	if l.kind != locMember {
		return "", false
	}
	return l.name, true
}

// ArrayIndex returns l's index and true if l is an index location. The
// index may be negative.
func (l Location) ArrayIndex() (int, bool) {
	if l.kind != locIndex {
		return 0, false
	}
	return l.idx, true
}

// LocSegment is one step of a Location, in root-to-leaf order.
type LocSegment struct {
	IsIndex bool
	Name    string
	Idx     int
}

// Segments returns l's path from the root down, as an ordered slice.
func (l Location) Segments() []LocSegment {
	var rev []LocSegment
	cur := l
	for cur.kind != locRoot {
		if cur.kind == locMember {
			rev = append(rev, LocSegment{IsIndex: false, Name: cur.name})
		} else {
			rev = append(rev, LocSegment{IsIndex: true, Idx: cur.idx})
		}
		cur = *cur.parent
	}
	out := make([]LocSegment, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}

// FromSegments rebuilds a Location from an ordered root-to-leaf segment
// list.
func FromSegments(segs []LocSegment) Location {
	loc := Root()
	for _, s := range segs {
		if s.IsIndex {
			loc = Index(loc, s.Idx)
		} else {
			loc = Member(loc, s.Name)
		}
	}
	return loc
}

// Depth returns the number of segments between l and the root.
func (l Location) Depth() int {
	n := 0
	for cur := l; cur.kind != locRoot; cur = *cur.parent {
		n++
	}
	return n
}

// String renders the canonical JSONPath singular-query form of l: "$"
// for root, bracket notation for every segment thereafter, e.g.
// $['a'][0]['b'].
func (l Location) String() string {
	segs := l.Segments()
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range segs {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(itoa(s.Idx))
			b.WriteByte(']')
		} else {
			b.WriteString("['")
			b.WriteString(quoteSingle(s.Name))
			b.WriteString("']")
		}
	}
	return b.String()
}

func quoteSingle(s string) string {
	if !strings.ContainsAny(s, "'\\") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToPointer converts l to an RFC 6901 Pointer. It fails when
// any segment uses a negative index.
func (l Location) ToPointer() (Pointer, error) {
	segs := l.Segments()
	tokens := make([]Token, len(segs))
	for i, s := range segs {
		if s.IsIndex {
			if s.Idx < 0 {
				return Pointer{}, ErrNotSegmentable
			}
			tokens[i] = tokenFromRaw(itoa(s.Idx))
		} else {
			tokens[i] = tokenFromRaw(s.Name)
		}
	}
	return Pointer{tokens: tokens}, nil
}
