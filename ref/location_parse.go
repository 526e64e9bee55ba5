package ref

import "strconv"

// ParseLocationString parses the singular-query subset of JSONPath
// into a Location: "$" or "@" alone denotes root, followed
// by any number of ['name'], ["name"], [N], or shorthand .name segments.
// Full JSONPath syntax (filters, wildcards, slices, functions) is handled
// by the jsonpath package; this only recovers the singular forms that
// convert losslessly to a Location.
func ParseLocationString(s string) (Location, error) {
	if s == "" {
		return Location{}, &ParseError{Input: s, Pos: 0, Kind: "expectedQueryPrefix"}
	}
	i := 0
	if s[0] == '$' || s[0] == '@' {
		i = 1
	} else {
		return Location{}, &ParseError{Input: s, Pos: 0, Kind: "invalidQueryPrefix"}
	}
	loc := Root()
	for i < len(s) {
		switch {
		case s[i] == '.':
			i++
			start := i
			for i < len(s) && s[i] != '.' && s[i] != '[' {
				i++
			}
			if i == start {
				return Location{}, &ParseError{Input: s, Pos: i, Kind: "expectedMemberName"}
			}
			loc = Member(loc, s[start:i])
		case s[i] == '[':
			end := indexByte(s, i, ']')
			if end < 0 {
				return Location{}, &ParseError{Input: s, Pos: i, Kind: "expectedCharacter"}
			}
			inner := s[i+1 : end]
			seg, err := parseBracketSegment(inner, s, i)
			if err != nil {
				return Location{}, err
			}
			if seg.IsIndex {
				loc = Index(loc, seg.Idx)
			} else {
				loc = Member(loc, seg.Name)
			}
			i = end + 1
		default:
			return Location{}, &ParseError{Input: s, Pos: i, Kind: "superfluousSuffix"}
		}
	}
	return loc, nil
}

func indexByte(s string, from int, b byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func parseBracketSegment(inner, full string, pos int) (LocSegment, error) {
	if len(inner) >= 2 && (inner[0] == '\'' || inner[0] == '"') && inner[len(inner)-1] == inner[0] {
		name, err := unquoteLocationName(inner[1 : len(inner)-1])
		if err != nil {
			return LocSegment{}, &ParseError{Input: full, Pos: pos, Kind: "expectedStringLiteral"}
		}
		return LocSegment{IsIndex: false, Name: name}, nil
	}
	n, err := strconv.Atoi(inner)
	if err != nil {
		return LocSegment{}, &ParseError{Input: full, Pos: pos, Kind: "illegalIntegerLiteral"}
	}
	return LocSegment{IsIndex: true, Idx: n}, nil
}

func unquoteLocationName(s string) (string, error) {
	var b []byte
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			b = append(b, s[i])
			continue
		}
		b = append(b, s[i])
	}
	return string(b), nil
}
