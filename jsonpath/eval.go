package jsonpath

import (
	"github.com/objecthub/dynamicjson-go/ref"
	"github.com/objecthub/dynamicjson-go/value"
)

// Node is one member of a Path Evaluator's result: a value
// paired with the Location it was found at, relative to the document
// root passed to Evaluate.
type Node struct {
	Value    value.Value
	Location ref.Location
}

// Evaluate runs p against root, returning its result list in document
// order. A path rooted at "@" is also evaluated against root, since at
// the top level "@" and "$" denote the same value.
func Evaluate(p *Path, root value.Value) ([]Node, error) {
	start := root
	if p.Root == RootCurrent {
		start = root
	}
	nodes := []Node{{Value: start, Location: ref.Root()}}
	for _, seg := range p.Segments {
		var next []Node
		for _, n := range nodes {
			out, err := evalSegment(seg, n, root)
			if err != nil {
				return nil, err
			}
			next = append(next, out...)
		}
		nodes = next
	}
	return nodes, nil
}

func evalSegment(seg Segment, n Node, root value.Value) ([]Node, error) {
	switch seg.Kind {
	case SegChildren:
		return evalSelectorsOn(seg.Selectors, n, root)
	case SegDescendants:
		var out []Node
		for _, d := range descendants(n) {
			sel, err := evalSelectorsOn(seg.Selectors, d, root)
			if err != nil {
				return nil, err
			}
			out = append(out, sel...)
		}
		return out, nil
	default:
		return nil, nil
	}
}

// descendants enumerates n and every value reachable from it, in
// pre-order.
func descendants(n Node) []Node {
	out := []Node{n}
	switch n.Value.Kind() {
	case value.KindArray:
		for i := 0; i < n.Value.Len(); i++ {
			child, _ := n.Value.Index(i)
			out = append(out, descendants(Node{Value: child, Location: ref.Index(n.Location, i)})...)
		}
	case value.KindObject:
		for _, k := range n.Value.Keys() {
			child, _ := n.Value.Get(k)
			out = append(out, descendants(Node{Value: child, Location: ref.Member(n.Location, k)})...)
		}
	}
	return out
}

func evalSelectorsOn(sels []Selector, n Node, root value.Value) ([]Node, error) {
	var out []Node
	for _, sel := range sels {
		nodes, err := evalSelector(sel, n, root)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func evalSelector(sel Selector, n Node, root value.Value) ([]Node, error) {
	switch sel.Kind {
	case SelWildcard:
		return wildcardChildren(n), nil
	case SelMember:
		if n.Value.Kind() != value.KindObject {
			return nil, nil
		}
		v, ok := n.Value.Get(sel.Name)
		if !ok {
			return nil, nil
		}
		return []Node{{Value: v, Location: ref.Member(n.Location, sel.Name)}}, nil
	case SelIndex:
		if n.Value.Kind() != value.KindArray {
			return nil, nil
		}
		idx := normalizeIndex(sel.Idx, n.Value.Len())
		v, ok := n.Value.Index(idx)
		if !ok {
			return nil, nil
		}
		return []Node{{Value: v, Location: ref.Index(n.Location, sel.Idx)}}, nil
	case SelSlice:
		return sliceChildren(sel, n), nil
	case SelFilter:
		return filterChildren(sel, n, root)
	default:
		return nil, nil
	}
}

func normalizeIndex(i, length int) int {
	if i < 0 {
		return length + i
	}
	return i
}

func wildcardChildren(n Node) []Node {
	var out []Node
	switch n.Value.Kind() {
	case value.KindArray:
		for i := 0; i < n.Value.Len(); i++ {
			v, _ := n.Value.Index(i)
			out = append(out, Node{Value: v, Location: ref.Index(n.Location, i)})
		}
	case value.KindObject:
		for _, k := range n.Value.Keys() {
			v, _ := n.Value.Get(k)
			out = append(out, Node{Value: v, Location: ref.Member(n.Location, k)})
		}
	}
	return out
}

// sliceChildren implements RFC 9535 §2.3.4's slice-selector normalization:
// default step 1, default bounds depend on step's sign, negative bounds
// are relative to length, and results are clamped to [0, length].
func sliceChildren(sel Selector, n Node) []Node {
	if n.Value.Kind() != value.KindArray {
		return nil
	}
	length := n.Value.Len()
	step := 1
	if sel.Step != nil {
		step = *sel.Step
	}
	if step == 0 {
		return nil
	}
	var lower, upper int
	if step > 0 {
		lower, upper = 0, length
		if sel.Start != nil {
			lower = boundsNormalize(*sel.Start, length)
		}
		if sel.End != nil {
			upper = boundsNormalize(*sel.End, length)
		}
	} else {
		lower, upper = length-1, -1
		if sel.Start != nil {
			lower = boundsNormalizeUpper(*sel.Start, length)
		}
		if sel.End != nil {
			upper = boundsNormalizeUpper(*sel.End, length)
		}
	}
	var out []Node
	if step > 0 {
		for i := lower; i < upper; i += step {
			v, ok := n.Value.Index(i)
			if ok {
				out = append(out, Node{Value: v, Location: ref.Index(n.Location, i)})
			}
		}
	} else {
		for i := lower; i > upper; i += step {
			v, ok := n.Value.Index(i)
			if ok {
				out = append(out, Node{Value: v, Location: ref.Index(n.Location, i)})
			}
		}
	}
	return out
}

func boundsNormalize(i, length int) int {
	if i < 0 {
		i += length
		if i < 0 {
			i = 0
		}
	} else if i > length {
		i = length
	}
	return i
}

func boundsNormalizeUpper(i, length int) int {
	if i < 0 {
		i += length
		if i < -1 {
			i = -1
		}
	} else if i > length-1 {
		i = length - 1
	}
	return i
}

func filterChildren(sel Selector, n Node, root value.Value) ([]Node, error) {
	var out []Node
	for _, child := range wildcardChildren(n) {
		ok, err := evalFilterTruthy(sel.Filter, child, root)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, child)
		}
	}
	return out, nil
}

// evalFilterTruthy applies RFC 9535 §2.3.5's truthiness rules: a
// node-query operand used directly as a boolean test is true iff it
// yields at least one node; a logical-typed expression's own value
// applies directly.
func evalFilterTruthy(e *Expression, current Node, root value.Value) (bool, error) {
	res, err := evalExpr(e, current, root)
	if err != nil {
		return false, err
	}
	switch res.Type {
	case FuncLogicalType:
		return res.Logical, nil
	case FuncNodesType:
		return len(res.Nodes) > 0, nil
	default:
		return !res.Nothing, nil
	}
}

func evalExpr(e *Expression, current Node, root value.Value) (funcResult, error) {
	switch e.Kind {
	case ExprNull:
		return funcResult{Type: FuncValueType, Value: value.Null()}, nil
	case ExprTrue:
		return funcResult{Type: FuncValueType, Value: value.Bool(true)}, nil
	case ExprFalse:
		return funcResult{Type: FuncValueType, Value: value.Bool(false)}, nil
	case ExprInt:
		return funcResult{Type: FuncValueType, Value: value.Int(e.IntVal)}, nil
	case ExprFloat:
		return funcResult{Type: FuncValueType, Value: value.Float(e.FloatVal)}, nil
	case ExprString:
		return funcResult{Type: FuncValueType, Value: value.String(e.StringVal)}, nil
	case ExprVariable:
		v, ok := variable(e.VarName)
		if !ok {
			return funcResult{Type: FuncValueType, Nothing: true}, nil
		}
		return funcResult{Type: FuncValueType, Value: v}, nil
	case ExprQuery:
		base := current.Value
		if e.Query.Root == RootSelf {
			base = root
		}
		nodes, err := Evaluate(&Path{Root: RootSelf, Segments: e.Query.Segments}, base)
		if err != nil {
			return funcResult{}, err
		}
		vals := make([]value.Value, len(nodes))
		for i, nd := range nodes {
			vals[i] = nd.Value
		}
		return funcResult{Type: FuncNodesType, Nodes: vals}, nil
	case ExprPrefix:
		return evalPrefix(e, current, root)
	case ExprBinary:
		return evalBinary(e, current, root)
	case ExprCall:
		return evalCall(e, current, root)
	default:
		return funcResult{Type: FuncValueType, Nothing: true}, nil
	}
}

func evalPrefix(e *Expression, current Node, root value.Value) (funcResult, error) {
	operand, err := evalExpr(e.Operand, current, root)
	if err != nil {
		return funcResult{}, err
	}
	switch e.PrefixOp {
	case "!":
		truthy := logicalTruthy(operand)
		return funcResult{Type: FuncLogicalType, Logical: !truthy}, nil
	case "-":
		if operand.Type != FuncValueType || operand.Nothing {
			return funcResult{Type: FuncValueType, Nothing: true}, nil
		}
		switch {
		case operand.Value.IsInt():
			return funcResult{Type: FuncValueType, Value: value.Int(-operand.Value.Int())}, nil
		case operand.Value.IsFloat():
			return funcResult{Type: FuncValueType, Value: value.Float(-operand.Value.Float())}, nil
		default:
			return funcResult{Type: FuncValueType, Nothing: true}, nil
		}
	default:
		return funcResult{Type: FuncValueType, Nothing: true}, nil
	}
}

func logicalTruthy(r funcResult) bool {
	switch r.Type {
	case FuncLogicalType:
		return r.Logical
	case FuncNodesType:
		return len(r.Nodes) > 0
	default:
		return !r.Nothing
	}
}

func evalBinary(e *Expression, current Node, root value.Value) (funcResult, error) {
	switch e.Op {
	case OpOr:
		l, err := evalExpr(e.Left, current, root)
		if err != nil {
			return funcResult{}, err
		}
		if logicalTruthy(l) {
			return funcResult{Type: FuncLogicalType, Logical: true}, nil
		}
		r, err := evalExpr(e.Right, current, root)
		if err != nil {
			return funcResult{}, err
		}
		return funcResult{Type: FuncLogicalType, Logical: logicalTruthy(r)}, nil
	case OpAnd:
		l, err := evalExpr(e.Left, current, root)
		if err != nil {
			return funcResult{}, err
		}
		if !logicalTruthy(l) {
			return funcResult{Type: FuncLogicalType, Logical: false}, nil
		}
		r, err := evalExpr(e.Right, current, root)
		if err != nil {
			return funcResult{}, err
		}
		return funcResult{Type: FuncLogicalType, Logical: logicalTruthy(r)}, nil
	}

	l, err := evalExpr(e.Left, current, root)
	if err != nil {
		return funcResult{}, err
	}
	r, err := evalExpr(e.Right, current, root)
	if err != nil {
		return funcResult{}, err
	}

	switch e.Op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return compareOp(e.Op, l, r), nil
	case OpAdd, OpSub, OpMul, OpDiv:
		return arithOp(e.Op, l, r), nil
	default:
		return funcResult{Type: FuncValueType, Nothing: true}, nil
	}
}

// singleValue reduces a funcResult to a single comparable value.Value,
// per RFC 9535 §2.3.5: a NodesType result compares as its one member if
// singular, else as "no value" (never equal to anything, including
// itself-as-Nothing, except the special case of comparing two Nothings).
func singleValue(r funcResult) (value.Value, bool) {
	switch r.Type {
	case FuncValueType:
		if r.Nothing {
			return value.Value{}, false
		}
		return r.Value, true
	case FuncNodesType:
		if len(r.Nodes) == 1 {
			return r.Nodes[0], true
		}
		return value.Value{}, false
	default:
		return value.Value{}, false
	}
}

func compareOp(op BinOp, l, r funcResult) funcResult {
	lv, lok := singleValue(l)
	rv, rok := singleValue(r)
	switch op {
	case OpEq:
		return funcResult{Type: FuncLogicalType, Logical: lok == rok && (!lok || lv.Equal(rv))}
	case OpNe:
		eq := lok == rok && (!lok || lv.Equal(rv))
		return funcResult{Type: FuncLogicalType, Logical: !eq}
	}
	if !lok || !rok {
		return funcResult{Type: FuncLogicalType, Logical: false}
	}
	c, ok := compareValues(lv, rv)
	if !ok {
		return funcResult{Type: FuncLogicalType, Logical: false}
	}
	switch op {
	case OpLt:
		return funcResult{Type: FuncLogicalType, Logical: c < 0}
	case OpLe:
		return funcResult{Type: FuncLogicalType, Logical: c <= 0}
	case OpGt:
		return funcResult{Type: FuncLogicalType, Logical: c > 0}
	case OpGe:
		return funcResult{Type: FuncLogicalType, Logical: c >= 0}
	default:
		return funcResult{Type: FuncLogicalType, Logical: false}
	}
}

// compareValues orders two values for <,<=,>,>=: numbers compare
// numerically, strings compare by Unicode code point; any other pairing
// (including mismatched types) is not orderable.
func compareValues(l, r value.Value) (int, bool) {
	if l.IsNumber() && r.IsNumber() {
		lf, rf := l.Float(), r.Float()
		switch {
		case lf < rf:
			return -1, true
		case lf > rf:
			return 1, true
		default:
			return 0, true
		}
	}
	if l.Kind() == value.KindString && r.Kind() == value.KindString {
		return stringCmp(l.String(), r.String()), true
	}
	return 0, false
}

func stringCmp(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func arithOp(op BinOp, l, r funcResult) funcResult {
	lv, lok := singleValue(l)
	rv, rok := singleValue(r)
	if !lok || !rok || !lv.IsNumber() || !rv.IsNumber() {
		return funcResult{Type: FuncValueType, Nothing: true}
	}
	if lv.IsInt() && rv.IsInt() && op != OpDiv {
		a, b := lv.Int(), rv.Int()
		switch op {
		case OpAdd:
			return funcResult{Type: FuncValueType, Value: value.Int(a + b)}
		case OpSub:
			return funcResult{Type: FuncValueType, Value: value.Int(a - b)}
		case OpMul:
			return funcResult{Type: FuncValueType, Value: value.Int(a * b)}
		}
	}
	a, b := lv.Float(), rv.Float()
	switch op {
	case OpAdd:
		return funcResult{Type: FuncValueType, Value: value.Float(a + b)}
	case OpSub:
		return funcResult{Type: FuncValueType, Value: value.Float(a - b)}
	case OpMul:
		return funcResult{Type: FuncValueType, Value: value.Float(a * b)}
	case OpDiv:
		if b == 0 {
			return funcResult{Type: FuncValueType, Nothing: true}
		}
		return funcResult{Type: FuncValueType, Value: value.Float(a / b)}
	default:
		return funcResult{Type: FuncValueType, Nothing: true}
	}
}

func evalCall(e *Expression, current Node, root value.Value) (funcResult, error) {
	fn, ok := builtins[e.CallName]
	if !ok {
		return funcResult{Type: FuncValueType, Nothing: true}, perr("", 0, "unknownFunction")
	}
	args := make([]funcResult, len(e.CallArgs))
	for i, argExpr := range e.CallArgs {
		r, err := evalExpr(argExpr, current, root)
		if err != nil {
			return funcResult{}, err
		}
		args[i] = coerceArg(fn.ArgTypes[i], r)
	}
	return fn.Call(args), nil
}

// coerceArg adapts a result to the declared ArgType of a function
// parameter: a NodesType argument bound to a ValueType
// parameter collapses via the "value" semantics (singleton or Nothing).
func coerceArg(t ArgType, r funcResult) funcResult {
	switch t {
	case ArgValue:
		if r.Type == FuncNodesType {
			if len(r.Nodes) == 1 {
				return funcResult{Type: FuncValueType, Value: r.Nodes[0]}
			}
			return funcResult{Type: FuncValueType, Nothing: true}
		}
		return r
	case ArgLogical:
		return funcResult{Type: FuncLogicalType, Logical: logicalTruthy(r)}
	default:
		return r
	}
}
