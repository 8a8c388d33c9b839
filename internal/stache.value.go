package internal

// Kind classifies a data value for rendering dispatch.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
	KindCallable
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindCallable:
		return "callable"
	default:
		return "unknown"
	}
}

// Value is the polymorphic data contract the renderer consumes. The
// renderer never inspects concrete types: it asks a value for its kind,
// truthiness and text form, and uses the optional capability interfaces
// below for child lookup, iteration and section invocation.
type Value interface {
	// Kind reports the value's classification.
	Kind() Kind
	// Truthy reports whether a section over this value renders. Null,
	// false, the empty string and the empty sequence are falsy;
	// everything else, mappings included, is truthy.
	Truthy() bool
	// Render returns the text form used by interpolation.
	Render() (string, error)
}

// Container is implemented by mapping values that support keyed child
// lookup.
type Container interface {
	Value
	Child(key string) (Value, bool)
}

// Sequence is implemented by sequence values that support iteration.
type Sequence interface {
	Value
	Items() []Value
}

// SectionCaller is implemented by callable-context values. When such a
// value backs a section, the renderer hands it the literal source text
// between the section tags and the live context stack; the returned
// value is dispatched as if it were the section data. The raw text is
// never re-tokenized by the engine.
type SectionCaller interface {
	Value
	CallSection(raw string, stack *Stack) Value
}

// childOf performs keyed lookup when the value is a container.
func childOf(v Value, key string) (Value, bool) {
	c, ok := v.(Container)
	if !ok {
		return nil, false
	}
	return c.Child(key)
}

// itemsOf returns the iteration items when the value is a sequence.
func itemsOf(v Value) []Value {
	s, ok := v.(Sequence)
	if !ok {
		return nil
	}
	return s.Items()
}
