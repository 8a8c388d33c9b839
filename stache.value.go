package stache

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/itsatony/go-stache/internal"
)

// Value is the polymorphic data contract templates render against. See
// the internal package for the capability set; concrete implementations
// below cover the usual shapes, and any external type implementing the
// interfaces works the same way.
type Value = internal.Value

// Kind classifies a data value for rendering dispatch.
type Kind = internal.Kind

// Value kind constants
const (
	KindNull     = internal.KindNull
	KindBool     = internal.KindBool
	KindNumber   = internal.KindNumber
	KindString   = internal.KindString
	KindSequence = internal.KindSequence
	KindMapping  = internal.KindMapping
	KindCallable = internal.KindCallable
)

// Container is implemented by mapping values supporting keyed child
// lookup.
type Container = internal.Container

// Sequence is implemented by sequence values supporting iteration.
type Sequence = internal.Sequence

// SectionCaller is implemented by callable-context values backing
// sections with code.
type SectionCaller = internal.SectionCaller

// ContextStack is the hierarchical lookup context handed to
// callable-context values during rendering.
type ContextStack = internal.Stack

// nullValue

type nullValue struct{}

func (nullValue) Kind() Kind { return KindNull }
func (nullValue) Truthy() bool { return false }
func (nullValue) Render() (string, error) { return "", nil }

// Null returns the null value.
func Null() Value { return nullValue{} }

// boolValue

type boolValue bool

func (b boolValue) Kind() Kind { return KindBool }
func (b boolValue) Truthy() bool { return bool(b) }
func (b boolValue) Render() (string, error) {
	return strconv.FormatBool(bool(b)), nil
}

// Bool returns a boolean value.
func Bool(b bool) Value { return boolValue(b) }

// numberValue keeps the canonical decimal text so adapters can preserve
// the source notation exactly.
type numberValue string

func (n numberValue) Kind() Kind { return KindNumber }
func (n numberValue) Truthy() bool { return true }
func (n numberValue) Render() (string, error) { return string(n), nil }

// Number returns a numeric value.
func Number(f float64) Value {
	return numberValue(strconv.FormatFloat(f, 'f', -1, 64))
}

// Int returns a numeric value from an integer.
func Int(i int64) Value {
	return numberValue(strconv.FormatInt(i, 10))
}

// stringValue

type stringValue string

func (s stringValue) Kind() Kind { return KindString }
func (s stringValue) Truthy() bool { return len(s) > 0 }
func (s stringValue) Render() (string, error) { return string(s), nil }

// String returns a text value.
func String(s string) Value { return stringValue(s) }

// listValue

type listValue []Value

func (l listValue) Kind() Kind { return KindSequence }
func (l listValue) Truthy() bool { return len(l) > 0 }
func (l listValue) Items() []Value { return l }
func (l listValue) Render() (string, error) {
	return "", fmt.Errorf("sequence has no text form")
}

// List returns a sequence value over the given items.
func List(items ...Value) Value { return listValue(items) }

// mapValue

type mapValue map[string]Value

func (m mapValue) Kind() Kind { return KindMapping }
func (m mapValue) Truthy() bool { return true }
func (m mapValue) Child(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}
func (m mapValue) Render() (string, error) {
	return "", fmt.Errorf("mapping has no text form")
}

// Map returns a mapping value over the given entries.
func Map(entries map[string]Value) Value {
	if entries == nil {
		entries = map[string]Value{}
	}
	return mapValue(entries)
}

// LambdaFunc is the signature of a callable-context value. When the
// value backs a section, fn receives the literal template text between
// the section tags and the live context stack; the returned value is
// dispatched in the section's place. The raw text is never re-parsed by
// the engine.
type LambdaFunc func(raw string, stack *ContextStack) Value

type lambdaValue struct {
	fn LambdaFunc
}

func (l lambdaValue) Kind() Kind { return KindCallable }
func (l lambdaValue) Truthy() bool { return true }
func (l lambdaValue) Render() (string, error) { return "", nil }
func (l lambdaValue) CallSection(raw string, stack *ContextStack) Value {
	return l.fn(raw, stack)
}

// Lambda returns a callable-context value.
func Lambda(fn LambdaFunc) Value { return lambdaValue{fn: fn} }

// FromGo converts a native Go value into a Value tree. Maps with string
// keys become mappings, slices and arrays become sequences, nil pointers
// and interfaces become null, and anything unrecognized falls back to
// its fmt string form.
func FromGo(v any) Value {
	if v == nil {
		return Null()
	}
	switch t := v.(type) {
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return numberValue(strconv.FormatUint(uint64(t), 10))
	case uint64:
		return numberValue(strconv.FormatUint(t, 10))
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case []byte:
		return String(string(t))
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, val := range t {
			entries[k] = FromGo(val)
		}
		return Map(entries)
	case []any:
		items := make([]Value, 0, len(t))
		for _, val := range t {
			items = append(items, FromGo(val))
		}
		return listValue(items)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16:
		return Int(rv.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return numberValue(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Slice, reflect.Array:
		items := make([]Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, FromGo(rv.Index(i).Interface()))
		}
		return listValue(items)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			entries := make(map[string]Value, rv.Len())
			it := rv.MapRange()
			for it.Next() {
				entries[it.Key().String()] = FromGo(it.Value().Interface())
			}
			return Map(entries)
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return FromGo(rv.Elem().Interface())
	}

	return String(fmt.Sprintf("%v", v))
}
