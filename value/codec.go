package value

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"

	"github.com/goccy/go-json"
)

// Decode parses raw JSON bytes into a Value. A number is classified as
// KindInt when its value is integral and fits the int64 range, whatever
// its spelling (so 1.0 and 1e2 both decode as KindInt), and as KindFloat
// otherwise.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("decode json: %w", err)
	}
	return FromAny(raw)
}

// FromAny converts a generic Go value — as produced by encoding/json or
// goccy/go-json with UseNumber — into a Value.
func FromAny(raw interface{}) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case json.Number:
		return numberFromString(string(x))
	case string:
		return String(x), nil
	case float64:
		return floatOrInt(x), nil
	case int64:
		return Int(x), nil
	case []interface{}:
		out := make([]Value, len(x))
		for i, e := range x {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			out[i] = v
		}
		return ArrayFromSlice(out), nil
	case map[string]interface{}:
		return Value{}, fmt.Errorf("unordered map[string]interface{} cannot be converted losslessly; use Decode instead")
	default:
		return Value{}, fmt.Errorf("unsupported Go type %T for value.FromAny", raw)
	}
}

// FromAnyUnordered is FromAny extended to accept map[string]interface{} by
// sorting its keys alphabetically before building the object. Go maps carry
// no member order, so any caller passing one has already discarded whatever
// order the JSON text once had; callers that need the original order should
// decode from bytes instead. Safe wherever member order cannot affect the
// result, e.g. schema keyword values compared via Value.Equal.
func FromAnyUnordered(raw interface{}) (Value, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return FromAny(raw)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]Value, len(keys))
	for i, k := range keys {
		v, err := FromAnyUnordered(m[k])
		if err != nil {
			return Value{}, err
		}
		vals[i] = v
	}
	return Object(keys, vals), nil
}

func floatOrInt(f float64) Value {
	if f == float64(int64(f)) {
		return Int(int64(f))
	}
	return Float(f)
}

func numberFromString(s string) (Value, error) {
	if iv, ok := new(big.Int).SetString(s, 10); ok {
		if iv.IsInt64() {
			return Int(iv.Int64()), nil
		}
		f, _ := new(big.Float).SetString(s)
		fv, _ := f.Float64()
		return Float(fv), nil
	}
	bf, ok := new(big.Float).SetString(s)
	if !ok {
		return Value{}, fmt.Errorf("invalid number literal %q", s)
	}
	if iv, acc := bf.Int(nil); acc == big.Exact && iv.IsInt64() {
		return Int(iv.Int64()), nil
	}
	fv, _ := bf.Float64()
	return Float(fv), nil
}

// ToAny converts a Value into the generic Go representation that
// encoding-json-family libraries expect, for interop with code outside
// this module.
func (v Value) ToAny() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]interface{}, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]interface{}, len(v.obj.keys))
		for _, k := range v.obj.keys {
			out[k] = v.obj.vals[k].ToAny()
		}
		return out
	}
	return nil
}

// orderedMarshaler wraps a Value as a json.Marshaler that writes object
// members in insertion order, which encoding/json and goccy/go-json cannot
// do for a plain map. Encode and MarshalJSON call writeJSON directly and do
// not go through it.
type orderedMarshaler struct{ v Value }

func (m orderedMarshaler) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindInt:
		fmt.Fprintf(buf, "%d", v.i)
	case KindFloat:
		enc, err := json.Marshal(v.f)
		if err != nil {
			return err
		}
		buf.Write(enc)
	case KindString:
		enc, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(enc)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.obj.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyEnc, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(keyEnc)
			buf.WriteByte(':')
			if err := v.obj.vals[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// Encode serializes v to JSON bytes, preserving object member order.
func (v Value) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler so a Value can be embedded
// directly in other goccy/go-json-encoded structures (e.g. EvaluationResult
// annotations in the jsonschema package).
func (v Value) MarshalJSON() ([]byte, error) {
	return v.Encode()
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
