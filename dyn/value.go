// Package dyn holds the schema-agnostic tree representation of structured
// data (primitive/record/variant/sequence/map/null), the optic paths that
// address locations inside such trees, and structural pattern matching.
// Values are immutable; edits produce fresh trees.
package dyn

// Value is a dynamic tree value: Null, Primitive, Record, Variant, Sequence
// or Map.
type Value interface {
	isValue()
}

// Null is the absent value.
type Null struct{}

// Primitive wraps a scalar. Supported scalar kinds are bool, string, int64
// and float64; TypeName reports the lower-cased kind name used by pattern
// matching ("boolean", "string", "int", "double").
type Primitive struct {
	V any
}

// Field is one name/value entry of a Record, in declaration order.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered field list.
type Record []Field

// Variant is one case of a sum value: a case name plus its payload.
type Variant struct {
	Case  string
	Value Value
}

// Sequence is an ordered element list.
type Sequence []Value

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   Value
	Value Value
}

// Map is an ordered entry list; keys are arbitrary values compared
// structurally.
type Map []Entry

func (Null) isValue()      {}
func (Primitive) isValue() {}
func (Record) isValue()    {}
func (Variant) isValue()   {}
func (Sequence) isValue()  {}
func (Map) isValue()       {}

// Convenience constructors.

func Boolean(b bool) Primitive  { return Primitive{V: b} }
func String(s string) Primitive { return Primitive{V: s} }
func Int(i int64) Primitive     { return Primitive{V: i} }
func Float(f float64) Primitive { return Primitive{V: f} }

// TypeName returns the lower-cased primitive kind name, "" for unsupported
// scalars.
func (p Primitive) TypeName() string {
	switch p.V.(type) {
	case bool:
		return "boolean"
	case string:
		return "string"
	case int64:
		return "int"
	case float64:
		return "double"
	default:
		return ""
	}
}

// Lookup returns the first field with the given name.
func (r Record) Lookup(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether a field with the given name exists.
func (r Record) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Equal reports structural equality of two values.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Primitive:
		bv, ok := b.(Primitive)
		return ok && av.V == bv.V
	case Record:
		bv, ok := b.(Record)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Name != bv[i].Name || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	case Variant:
		bv, ok := b.(Variant)
		return ok && av.Case == bv.Case && Equal(av.Value, bv.Value)
	case Sequence:
		bv, ok := b.(Sequence)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i].Key, bv[i].Key) || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
