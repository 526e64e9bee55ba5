package jsonpath

import (
	"math"
	"regexp"

	"github.com/objecthub/dynamicjson-go/value"
)

// ArgType and FuncType classify function-extension arguments and
// results by the well-typedness rules RFC 9535 assigns function
// extensions: ValueType, LogicalType, and NodesType each accept and
// produce only their own kind.
type ArgType int

const (
	ArgValue ArgType = iota
	ArgLogical
	ArgNodes
)

type FuncType int

const (
	FuncValueType FuncType = iota
	FuncLogicalType
	FuncNodesType
)

// funcResult is the tagged result a built-in function extension
// produces: exactly one of its fields is meaningful, selected by Type.
type funcResult struct {
	Type    FuncType
	Value   value.Value
	Logical bool
	Nodes   []value.Value
	Nothing bool // ValueType "Nothing" result
}

// builtin describes one function extension's signature.
type builtin struct {
	Name    string
	ArgTypes []ArgType
	Result  FuncType
	Call    func(args []funcResult) funcResult
}

var builtins = map[string]builtin{}

func init() {
	register(builtin{Name: "length", ArgTypes: []ArgType{ArgValue}, Result: FuncValueType, Call: fnLength})
	register(builtin{Name: "count", ArgTypes: []ArgType{ArgNodes}, Result: FuncValueType, Call: fnCount})
	register(builtin{Name: "match", ArgTypes: []ArgType{ArgValue, ArgValue}, Result: FuncLogicalType, Call: fnMatch})
	register(builtin{Name: "search", ArgTypes: []ArgType{ArgValue, ArgValue}, Result: FuncLogicalType, Call: fnSearch})
	register(builtin{Name: "value", ArgTypes: []ArgType{ArgNodes}, Result: FuncValueType, Call: fnValue})
	register(builtin{Name: "values", ArgTypes: []ArgType{ArgNodes}, Result: FuncNodesType, Call: fnValues})
	register(builtin{Name: "contains", ArgTypes: []ArgType{ArgNodes, ArgValue}, Result: FuncLogicalType, Call: fnContains})
	register(builtin{Name: "subset", ArgTypes: []ArgType{ArgNodes, ArgNodes}, Result: FuncLogicalType, Call: fnSubset})
}

func register(b builtin) { builtins[b.Name] = b }

// fnLength implements length(): string length in Unicode scalar
// values, array/object member count, or Nothing for any other type
// (including numbers and booleans).
func fnLength(args []funcResult) funcResult {
	v := args[0].Value
	switch v.Kind() {
	case value.KindString:
		return funcResult{Type: FuncValueType, Value: value.Int(int64(len([]rune(v.String()))))}
	case value.KindArray, value.KindObject:
		return funcResult{Type: FuncValueType, Value: value.Int(int64(v.Len()))}
	default:
		return funcResult{Type: FuncValueType, Nothing: true}
	}
}

func fnCount(args []funcResult) funcResult {
	return funcResult{Type: FuncValueType, Value: value.Int(int64(len(args[0].Nodes)))}
}

func fnMatch(args []funcResult) funcResult {
	return funcResult{Type: FuncLogicalType, Logical: regexMatch(args[0].Value, args[1].Value, true)}
}

func fnSearch(args []funcResult) funcResult {
	return funcResult{Type: FuncLogicalType, Logical: regexMatch(args[0].Value, args[1].Value, false)}
}

func regexMatch(subject, pattern value.Value, anchored bool) bool {
	if subject.Kind() != value.KindString || pattern.Kind() != value.KindString {
		return false
	}
	pat := pattern.String()
	if anchored {
		pat = "^(?:" + pat + ")$"
	}
	re, err := regexp.Compile(translateIRegexp(pat))
	if err != nil {
		return false
	}
	return re.MatchString(subject.String())
}

// translateIRegexp hands an RFC 9485 I-Regexp pattern to Go's RE2
// unchanged; constructs RE2 does not support (lookaround,
// backreferences) fail to compile, and match/search treat a compile
// failure the same as a non-match rather than propagating an error.
func translateIRegexp(pat string) string { return pat }

func fnValue(args []funcResult) funcResult {
	nodes := args[0].Nodes
	if len(nodes) != 1 {
		return funcResult{Type: FuncValueType, Nothing: true}
	}
	return funcResult{Type: FuncValueType, Value: nodes[0]}
}

func fnValues(args []funcResult) funcResult {
	return funcResult{Type: FuncNodesType, Nodes: args[0].Nodes}
}

func fnContains(args []funcResult) funcResult {
	needle := args[1].Value
	for _, n := range args[0].Nodes {
		if n.Equal(needle) {
			return funcResult{Type: FuncLogicalType, Logical: true}
		}
	}
	return funcResult{Type: FuncLogicalType, Logical: false}
}

func fnSubset(args []funcResult) funcResult {
	sub, sup := args[0].Nodes, args[1].Nodes
	for _, s := range sub {
		found := false
		for _, t := range sup {
			if s.Equal(t) {
				found = true
				break
			}
		}
		if !found {
			return funcResult{Type: FuncLogicalType, Logical: false}
		}
	}
	return funcResult{Type: FuncLogicalType, Logical: true}
}

// variable resolves the one built-in constant filter expressions can
// reference by name: pi.
func variable(name string) (value.Value, bool) {
	if name == "pi" {
		return value.Float(math.Pi), true
	}
	return value.Value{}, false
}
