package jsonpath

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parser holds parse-time options.
type Parser struct {
	// Strict, when true (the default), rejects leading-zero integer
	// literals and leading/trailing whitespace around the whole query.
	Strict bool
}

// NewParser returns a Parser in strict (RFC 9535 conformant) mode.
func NewParser() *Parser { return &Parser{Strict: true} }

// ParsePath parses s as a JSONPath query. The package-level function
// tolerates a backwards-compatible shorthand: a leading bare member
// name or a leading "." is rewritten to "$." + name before parsing.
func ParsePath(s string) (*Path, error) {
	return NewParser().Parse(s)
}

// Parse parses s according to the RFC 9535 query grammar.
func (p *Parser) Parse(s string) (*Path, error) {
	orig := s
	if p.Strict {
		if len(s) > 0 && (s[0] == ' ' || s[len(s)-1] == ' ' || s[0] == '\t' || s[len(s)-1] == '\t') {
			return nil, perr(orig, 0, "superfluousSuffix")
		}
	}
	s = rewriteShorthand(s)

	ps := &pstate{s: s, orig: orig, strict: p.Strict}
	ps.skipWS()
	root, err := ps.parseRoot()
	if err != nil {
		return nil, err
	}
	path := &Path{Root: root}
	for {
		ps.skipWS()
		if ps.pos >= len(ps.s) {
			break
		}
		seg, ok, err := ps.parseSegment()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		path.Segments = append(path.Segments, seg)
	}
	ps.skipWS()
	if ps.pos != len(ps.s) {
		return nil, perr(orig, ps.pos, "superfluousSuffix")
	}
	return path, nil
}

// rewriteShorthand applies the backwards-compatible shorthand: a leading
// "." or a bare member name, with no "$"/"@" prefix, is rewritten to a
// proper root query.
func rewriteShorthand(s string) string {
	if s == "" {
		return "$"
	}
	if s[0] == '$' || s[0] == '@' {
		return s
	}
	if s[0] == '.' {
		return "$" + s
	}
	return "$." + s
}

type pstate struct {
	s      string
	orig   string
	pos    int
	strict bool
}

func (ps *pstate) skipWS() {
	for ps.pos < len(ps.s) {
		switch ps.s[ps.pos] {
		case ' ', '\t', '\n', '\r':
			ps.pos++
		default:
			return
		}
	}
}

func (ps *pstate) peek() (byte, bool) {
	if ps.pos >= len(ps.s) {
		return 0, false
	}
	return ps.s[ps.pos], true
}

func (ps *pstate) parseRoot() (RootKind, error) {
	b, ok := ps.peek()
	if !ok {
		return RootSelf, perr(ps.orig, ps.pos, "invalidQueryPrefix")
	}
	switch b {
	case '$':
		ps.pos++
		return RootSelf, nil
	case '@':
		ps.pos++
		return RootCurrent, nil
	default:
		return RootSelf, perr(ps.orig, ps.pos, "invalidQueryPrefix")
	}
}

// parseSegment parses one child or descendant segment starting at the
// current position; ok is false (no error) when there is no segment to
// parse (end of input or an unrecognized leading byte, left for the
// caller to treat as end-of-query).
func (ps *pstate) parseSegment() (Segment, bool, error) {
	b, ok := ps.peek()
	if !ok {
		return Segment{}, false, nil
	}
	switch b {
	case '[':
		sels, err := ps.parseBracketedSelection()
		if err != nil {
			return Segment{}, false, err
		}
		return Segment{Kind: SegChildren, Selectors: sels}, true, nil
	case '.':
		ps.pos++
		if b2, ok := ps.peek(); ok && b2 == '.' {
			ps.pos++
			return ps.parseDescendantBody()
		}
		return ps.parseDotMemberOrWildcard(SegChildren)
	default:
		return Segment{}, false, nil
	}
}

func (ps *pstate) parseDescendantBody() (Segment, bool, error) {
	b, ok := ps.peek()
	if !ok {
		return Segment{}, false, perr(ps.orig, ps.pos, "invalidSegment")
	}
	if b == '[' {
		sels, err := ps.parseBracketedSelection()
		if err != nil {
			return Segment{}, false, err
		}
		return Segment{Kind: SegDescendants, Selectors: sels}, true, nil
	}
	return ps.parseDotMemberOrWildcard(SegDescendants)
}

func (ps *pstate) parseDotMemberOrWildcard(kind SegmentKind) (Segment, bool, error) {
	b, ok := ps.peek()
	if !ok {
		return Segment{}, false, perr(ps.orig, ps.pos, "expectedMemberName")
	}
	if b == '*' {
		ps.pos++
		return Segment{Kind: kind, Selectors: []Selector{{Kind: SelWildcard}}}, true, nil
	}
	name, err := ps.parseShorthandName()
	if err != nil {
		return Segment{}, false, err
	}
	return Segment{Kind: kind, Selectors: []Selector{{Kind: SelMember, Name: name}}}, true, nil
}

func (ps *pstate) parseShorthandName() (string, error) {
	start := ps.pos
	r, sz := utf8.DecodeRuneInString(ps.s[ps.pos:])
	if !isNameFirst(r) {
		return "", perr(ps.orig, ps.pos, "expectedMemberName")
	}
	ps.pos += sz
	for ps.pos < len(ps.s) {
		r, sz := utf8.DecodeRuneInString(ps.s[ps.pos:])
		if !isNameChar(r) {
			break
		}
		ps.pos += sz
	}
	return ps.s[start:ps.pos], nil
}

func isNameFirst(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= 0x80
}

func isNameChar(r rune) bool {
	return isNameFirst(r) || r == '-' || (r >= '0' && r <= '9')
}

func (ps *pstate) parseBracketedSelection() ([]Selector, error) {
	ps.pos++ // consume '['
	var sels []Selector
	for {
		ps.skipWS()
		sel, err := ps.parseSelector()
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
		ps.skipWS()
		b, ok := ps.peek()
		if !ok {
			return nil, perr(ps.orig, ps.pos, "expectedCharacter")
		}
		if b == ',' {
			ps.pos++
			continue
		}
		if b == ']' {
			ps.pos++
			break
		}
		return nil, perr(ps.orig, ps.pos, "expectedCharacter")
	}
	return sels, nil
}

func (ps *pstate) parseSelector() (Selector, error) {
	b, ok := ps.peek()
	if !ok {
		return Selector{}, perr(ps.orig, ps.pos, "invalidSelector")
	}
	switch {
	case b == '*':
		ps.pos++
		return Selector{Kind: SelWildcard}, nil
	case b == '\'' || b == '"':
		name, err := ps.parseQuotedString(b)
		if err != nil {
			return Selector{}, err
		}
		return Selector{Kind: SelMember, Name: name}, nil
	case b == '?':
		ps.pos++
		ps.skipWS()
		expr, err := ps.parseExpr(0)
		if err != nil {
			return Selector{}, err
		}
		return Selector{Kind: SelFilter, Filter: expr}, nil
	case b == '-' || (b >= '0' && b <= '9'):
		return ps.parseIndexOrSlice()
	case b == ':':
		return ps.parseSliceFrom(nil)
	default:
		return Selector{}, perr(ps.orig, ps.pos, "invalidSelector")
	}
}

func (ps *pstate) parseIndexOrSlice() (Selector, error) {
	n, err := ps.parseInt()
	if err != nil {
		return Selector{}, err
	}
	ps.skipWS()
	if b, ok := ps.peek(); ok && b == ':' {
		v := n
		return ps.parseSliceFrom(&v)
	}
	return Selector{Kind: SelIndex, Idx: int(n)}, nil
}

func (ps *pstate) parseSliceFrom(start *int64) (Selector, error) {
	var startI, endI, stepI *int
	if start != nil {
		v := int(*start)
		startI = &v
	}
	// consume ':'
	if b, ok := ps.peek(); !ok || b != ':' {
		return Selector{}, perr(ps.orig, ps.pos, "invalidSelector")
	}
	ps.pos++
	ps.skipWS()
	if b, ok := ps.peek(); ok && (b == '-' || (b >= '0' && b <= '9')) {
		n, err := ps.parseInt()
		if err != nil {
			return Selector{}, err
		}
		v := int(n)
		endI = &v
		ps.skipWS()
	}
	if b, ok := ps.peek(); ok && b == ':' {
		ps.pos++
		ps.skipWS()
		if b2, ok := ps.peek(); ok && (b2 == '-' || (b2 >= '0' && b2 <= '9')) {
			n, err := ps.parseInt()
			if err != nil {
				return Selector{}, err
			}
			v := int(n)
			stepI = &v
		}
	}
	return Selector{Kind: SelSlice, Start: startI, End: endI, Step: stepI}, nil
}

func (ps *pstate) parseInt() (int64, error) {
	start := ps.pos
	neg := false
	if b, ok := ps.peek(); ok && b == '-' {
		neg = true
		ps.pos++
	}
	digitsStart := ps.pos
	for ps.pos < len(ps.s) && ps.s[ps.pos] >= '0' && ps.s[ps.pos] <= '9' {
		ps.pos++
	}
	if ps.pos == digitsStart {
		return 0, perr(ps.orig, start, "illegalIntegerLiteral")
	}
	digits := ps.s[digitsStart:ps.pos]
	if ps.strict && len(digits) > 1 && digits[0] == '0' {
		return 0, perr(ps.orig, start, "illegalIntegerLiteral")
	}
	if ps.strict && neg && digits == "0" {
		return 0, perr(ps.orig, start, "illegalIntegerLiteral")
	}
	n, err := strconv.ParseInt(ps.s[start:ps.pos], 10, 64)
	if err != nil {
		return 0, perr(ps.orig, start, "illegalIntegerLiteral")
	}
	return n, nil
}

func (ps *pstate) parseQuotedString(quote byte) (string, error) {
	start := ps.pos
	ps.pos++ // consume opening quote
	var b strings.Builder
	for {
		if ps.pos >= len(ps.s) {
			return "", perr(ps.orig, start, "expectedStringLiteral")
		}
		c := ps.s[ps.pos]
		if c == quote {
			ps.pos++
			return b.String(), nil
		}
		if c == '\\' {
			ps.pos++
			if ps.pos >= len(ps.s) {
				return "", perr(ps.orig, start, "expectedStringLiteral")
			}
			esc := ps.s[ps.pos]
			switch esc {
			case 'a':
				b.WriteByte(0x07)
			case 'b':
				b.WriteByte('\b')
			case 't':
				b.WriteByte('\t')
			case 'n':
				b.WriteByte('\n')
			case 'v':
				b.WriteByte(0x0b)
			case 'f':
				b.WriteByte('\f')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '\'':
				b.WriteByte('\'')
			case '"':
				b.WriteByte('"')
			case 'u':
				r, n, err := ps.parseUnicodeEscape()
				if err != nil {
					return "", err
				}
				b.WriteRune(r)
				ps.pos += n - 1 // -1: loop below does ps.pos++ once more
			default:
				return "", perr(ps.orig, ps.pos, "expectedStringLiteral")
			}
			ps.pos++
			continue
		}
		b.WriteByte(c)
		ps.pos++
	}
}

func (ps *pstate) parseUnicodeEscape() (rune, int, error) {
	if ps.pos+5 > len(ps.s) {
		return 0, 0, perr(ps.orig, ps.pos, "expectedStringLiteral")
	}
	hex := ps.s[ps.pos+1 : ps.pos+5]
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, perr(ps.orig, ps.pos, "expectedStringLiteral")
	}
	return rune(n), 5, nil
}
