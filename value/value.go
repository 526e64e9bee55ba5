// Package value implements the tagged JSON value at the core of the
// dynamicjson module: every other package (ref, jsonpath, patch, merge,
// jsonschema) operates on a value.Value rather than on interface{}.
package value

import (
	"fmt"
	"math"
	"sort"
)

// Kind identifies the variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// String returns the schema-facing type name for k. "integer" and "number"
// are kept distinct here; callers that need the validation-keyword view
// where "number" subsumes "integer" do that check themselves (see
// jsonschema's type keyword).
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// object is the ordered map backing KindObject. Keys keep first-insertion
// order; re-setting an existing key overwrites its value in place.
type object struct {
	keys []string
	vals map[string]Value
}

func newObject(n int) *object {
	return &object{keys: make([]string, 0, n), vals: make(map[string]Value, n)}
}

func (o *object) set(k string, v Value) {
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

// Value is an immutable JSON value. The zero Value is the JSON null.
// Mutating operations elsewhere in the module always return a new Value;
// a Value's internal slices/maps must never be written to after
// construction.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *object
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a 64-bit integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float64. NaN and Inf are rejected by callers constructing
// values from external input (JSON has no such literals); the zero value
// here is well-defined for the rest of the JSON number range.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a UTF-8 string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps an ordered sequence of values. The slice is taken by
// reference; callers must not mutate items after passing it in.
func Array(items ...Value) Value {
	return Value{kind: KindArray, arr: items}
}

// ArrayFromSlice wraps an existing slice without copying it.
func ArrayFromSlice(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// ObjectBuilder accumulates key/value pairs in insertion order and produces
// an immutable object Value.
type ObjectBuilder struct {
	o *object
}

// NewObjectBuilder starts an empty object under construction.
func NewObjectBuilder() *ObjectBuilder {
	return &ObjectBuilder{o: newObject(8)}
}

// Set adds or overwrites a member, preserving first-insertion order.
func (b *ObjectBuilder) Set(key string, v Value) *ObjectBuilder {
	b.o.set(key, v)
	return b
}

// Build finalizes the object Value.
func (b *ObjectBuilder) Build() Value {
	return Value{kind: KindObject, obj: b.o}
}

// Object builds an object value from an ordered list of keys and values of
// equal length. Later duplicate keys overwrite earlier ones but the first
// occurrence's position is kept.
func Object(keys []string, vals []Value) Value {
	o := newObject(len(keys))
	for i, k := range keys {
		o.set(k, vals[i])
	}
	return Value{kind: KindObject, obj: o}
}

// EmptyObject returns an object with no members.
func EmptyObject() Value { return Object(nil, nil) }

// EmptyArray returns an array with no elements.
func EmptyArray() Value { return Array() }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// TypeName returns the schema-facing classification string.
func (v Value) TypeName() string { return v.kind.String() }

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsInt() bool    { return v.kind == KindInt }
func (v Value) IsFloat() bool  { return v.kind == KindFloat }
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsArray() bool  { return v.kind == KindArray }
func (v Value) IsObject() bool { return v.kind == KindObject }

// Bool returns the wrapped boolean; false if v is not a boolean.
func (v Value) Bool() bool { return v.b }

// Int returns the wrapped integer; zero if v is not an integer.
func (v Value) Int() int64 { return v.i }

// Float returns the wrapped float, or the exact value of an integer
// widened to float64 — convenient for numeric comparisons that don't care
// about the int/float distinction.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// String returns the wrapped string; empty if v is not a string.
func (v Value) String() string { return v.s }

// Array returns the backing slice. Do not mutate it.
func (v Value) Array() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Len returns the array length or object member count; zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj.keys)
	default:
		return 0
	}
}

// Keys returns the object's member names in insertion order. Nil if v is
// not an object.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	return v.obj.keys
}

// Get returns the member named k and whether it was present.
func (v Value) Get(k string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	val, ok := v.obj.vals[k]
	return val, ok
}

// Index returns the i'th array element and whether i is in bounds.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Equal implements structural equality: object equality is key-set based
// and order independent; integer(n) and float(n) are never equal
// regardless of numeric value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj.keys) != len(o.obj.keys) {
			return false
		}
		for k, val := range v.obj.vals {
			ov, ok := o.obj.vals[k]
			if !ok || !val.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Hash computes a canonical FNV-1a-based hash where object hashes are
// order independent (member hashes are combined with XOR), so that Equal
// values always Hash equally — used by uniqueItems and enum/const set
// membership tests that need a hash-assisted dedup pass.
func (v Value) Hash() uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211

	mix := func(h uint64, b byte) uint64 {
		h ^= uint64(b)
		h *= prime64
		return h
	}
	mixString := func(h uint64, s string) uint64 {
		for i := 0; i < len(s); i++ {
			h = mix(h, s[i])
		}
		return h
	}

	switch v.kind {
	case KindNull:
		return mix(offset64, 0)
	case KindBool:
		if v.b {
			return mix(offset64, 2)
		}
		return mix(offset64, 1)
	case KindInt:
		h := mix(offset64, 3)
		bits := uint64(v.i)
		for i := 0; i < 8; i++ {
			h = mix(h, byte(bits>>(8*i)))
		}
		return h
	case KindFloat:
		h := mix(offset64, 4)
		bits := math.Float64bits(v.f)
		for i := 0; i < 8; i++ {
			h = mix(h, byte(bits>>(8*i)))
		}
		return h
	case KindString:
		return mixString(mix(offset64, 5), v.s)
	case KindArray:
		h := mix(offset64, 6)
		for _, e := range v.arr {
			h ^= e.Hash()
			h *= prime64
		}
		return h
	case KindObject:
		h := mix(offset64, 7)
		var acc uint64
		for k, val := range v.obj.vals {
			pair := mixString(offset64, k)
			pair ^= val.Hash()
			acc ^= pair
		}
		h ^= acc
		return h
	}
	return offset64
}

// DeepCopy returns v itself. Values are never mutated in place, so the
// result may share v's substructure safely; no copy is made.
func (v Value) DeepCopy() Value { return v }

// GoString implements fmt.GoStringer with a compact debug rendering. It is
// not JSON: arrays and objects render only as their length (use Encode for
// JSON).
func (v Value) GoString() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindArray:
		return fmt.Sprintf("array[%d]", len(v.arr))
	case KindObject:
		return fmt.Sprintf("object[%d]", len(v.obj.keys))
	}
	return "?"
}

// SortedKeys returns the object's member names sorted lexicographically —
// used where a deterministic (but not necessarily insertion) order is
// required, e.g. diagnostic output.
func (v Value) SortedKeys() []string {
	ks := append([]string(nil), v.Keys()...)
	sort.Strings(ks)
	return ks
}

// WithSet returns a shallow-copied object with member k set to val,
// preserving the position of an existing key or appending a new one.
// This is the primitive that ref.Set and patch's add/replace build on.
func (v Value) WithSet(k string, val Value) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	o := newObject(len(v.obj.keys) + 1)
	o.keys = append(o.keys, v.obj.keys...)
	for key, vv := range v.obj.vals {
		o.vals[key] = vv
	}
	o.set(k, val)
	return Value{kind: KindObject, obj: o}, true
}

// WithRemoved returns a shallow-copied object with member k removed.
func (v Value) WithRemoved(k string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	if _, ok := v.obj.vals[k]; !ok {
		return v, false
	}
	o := newObject(len(v.obj.keys))
	for _, key := range v.obj.keys {
		if key == k {
			continue
		}
		o.keys = append(o.keys, key)
		o.vals[key] = v.obj.vals[key]
	}
	return Value{kind: KindObject, obj: o}, true
}

// WithIndexSet returns a shallow-copied array with index i set to val.
// i must be within [0, len).
func (v Value) WithIndexSet(i int, val Value) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	out[i] = val
	return Value{kind: KindArray, arr: out}, true
}

// WithInserted returns a shallow-copied array with val inserted at index i
// (0 <= i <= len), shifting subsequent elements right.
func (v Value) WithInserted(i int, val Value) (Value, bool) {
	if v.kind != KindArray || i < 0 || i > len(v.arr) {
		return Value{}, false
	}
	out := make([]Value, 0, len(v.arr)+1)
	out = append(out, v.arr[:i]...)
	out = append(out, val)
	out = append(out, v.arr[i:]...)
	return Value{kind: KindArray, arr: out}, true
}

// WithRemovedIndex returns a shallow-copied array with index i removed.
func (v Value) WithRemovedIndex(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	out := make([]Value, 0, len(v.arr)-1)
	out = append(out, v.arr[:i]...)
	out = append(out, v.arr[i+1:]...)
	return Value{kind: KindArray, arr: out}, true
}
