// Package ref implements JSON Pointer (RFC 6901) and JSON Location, a
// shared segment/resolution protocol, and a common Get/Set/Mutate
// capability set over both.
//
// This is hand-written rather than grounded on an off-the-shelf pointer
// library (e.g. github.com/kaptinlin/jsonpointer, imported elsewhere in
// this module for schema-to-schema pointer resolution) because Pointer
// and Location need more than token resolution here: they share one
// Get/Set/Mutate contract, convert losslessly into each other in the
// singular case, and both drive the patch engine's
// append-on-"-"/append-on-length behavior. A stock pointer library only
// offers the RFC 6901 get half of that contract.
package ref

import "strings"

// Token is one '/'-separated, unescaped JSON Pointer segment.
type Token struct {
	// Raw is the unescaped segment text — always a valid object member
	// name candidate.
	Raw string
	// IntVal is the parsed array index when Raw matches the RFC 6901
	// array-index grammar ("0" or a non-zero digit followed by digits).
	IntVal int
	// HasInt reports whether IntVal is meaningful.
	HasInt bool
	// Dash is true for the literal "-" token (end-of-array / append).
	Dash bool
}

// Pointer is an RFC 6901 reference: an ordered sequence of Tokens. The
// empty Pointer (no tokens) denotes the document root.
type Pointer struct {
	tokens []Token
}

// RootPointer returns the empty pointer.
func RootPointer() Pointer { return Pointer{} }

// Tokens returns the pointer's tokens in order.
func (p Pointer) Tokens() []Token { return p.tokens }

// IsRoot reports whether p has no tokens.
func (p Pointer) IsRoot() bool { return len(p.tokens) == 0 }

// ParsePointer parses an RFC 6901 string into a Pointer. The empty string
// denotes root; any other string must start with '/'.
func ParsePointer(s string) (Pointer, error) {
	if s == "" {
		return RootPointer(), nil
	}
	if s[0] != '/' {
		return Pointer{}, &ParseError{Input: s, Pos: 0, Kind: "expectedLeadingSlash"}
	}
	parts := strings.Split(s[1:], "/")
	tokens := make([]Token, len(parts))
	for i, part := range parts {
		raw, err := Unescape(part)
		if err != nil {
			return Pointer{}, &ParseError{Input: s, Pos: 0, Kind: "illegalEscape"}
		}
		tokens[i] = tokenFromRaw(raw)
	}
	return Pointer{tokens: tokens}, nil
}

// MustParsePointer panics on a malformed pointer; for tests and literals.
func MustParsePointer(s string) Pointer {
	p, err := ParsePointer(s)
	if err != nil {
		panic(err)
	}
	return p
}

func tokenFromRaw(raw string) Token {
	t := Token{Raw: raw}
	if raw == "-" {
		t.Dash = true
		return t
	}
	if isArrayIndexGrammar(raw) {
		n := 0
		for i := 0; i < len(raw); i++ {
			n = n*10 + int(raw[i]-'0')
		}
		t.IntVal = n
		t.HasInt = true
	}
	return t
}

func isArrayIndexGrammar(s string) bool {
	if s == "" {
		return false
	}
	if s == "0" {
		return true
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String renders p back to its RFC 6901 textual form.
func (p Pointer) String() string {
	var b strings.Builder
	for _, t := range p.tokens {
		b.WriteByte('/')
		b.WriteString(Escape(t.Raw))
	}
	return b.String()
}

// Escape applies the RFC 6901 escaping rules: '~' becomes "~0", '/'
// becomes "~1". Order matters — '~' must be escaped first or a literal
// '/' would be mis-encoded by a subsequent '~' substitution.
func Escape(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			b.WriteString("~0")
		case '/':
			b.WriteString("~1")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Unescape reverses Escape: "~1" decodes to '/', "~0" decodes to '~'. Any
// other character following '~' is a malformed escape.
func Unescape(s string) (string, error) {
	if !strings.Contains(s, "~") {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '~' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			return "", &ParseError{Input: s, Pos: i, Kind: "illegalEscape"}
		}
		switch s[i+1] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", &ParseError{Input: s, Pos: i, Kind: "illegalEscape"}
		}
		i++
	}
	return b.String(), nil
}

// Child returns a new Pointer with one more token appended, built from a
// member name.
func (p Pointer) Child(name string) Pointer {
	out := make([]Token, len(p.tokens)+1)
	copy(out, p.tokens)
	out[len(p.tokens)] = tokenFromRaw(name)
	return Pointer{tokens: out}
}

// ChildIndex returns a new Pointer with one more token appended, built
// from an array index.
func (p Pointer) ChildIndex(i int) Pointer {
	return p.Child(itoa(i))
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
