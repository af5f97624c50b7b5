package dyn

// Pattern is a lightweight structural shape used to test whether a Value has
// a given form, e.g. for value search over heterogeneous trees.
type Pattern interface {
	isPattern()
}

// WildcardPattern matches any value.
type WildcardPattern struct{}

// PrimitivePattern matches a primitive whose kind name equals Name
// ("boolean", "string", "int", "double").
type PrimitivePattern struct {
	Name string
}

// FieldPattern is one named sub-pattern of a RecordPattern.
type FieldPattern struct {
	Name    string
	Pattern Pattern
}

// RecordPattern matches records by subset: every pattern field must exist by
// name with a matching value; extra actual fields are ignored.
type RecordPattern struct {
	Fields []FieldPattern
}

// CasePattern is one named case of a VariantPattern.
type CasePattern struct {
	Name    string
	Pattern Pattern
}

// VariantPattern matches a variant whose case name equals one of the listed
// cases and whose payload matches that case's sub-pattern.
type VariantPattern struct {
	Cases []CasePattern
}

// SequencePattern matches sequences whose every element matches Element.
// The empty sequence always matches.
type SequencePattern struct {
	Element Pattern
}

// MapPattern matches maps whose every entry key/value match. The empty map
// always matches.
type MapPattern struct {
	Key   Pattern
	Value Pattern
}

// OptionalPattern matches Null unconditionally, otherwise defers to Inner.
type OptionalPattern struct {
	Inner Pattern
}

// NominalPattern never matches: a bare dynamic value carries no nominal type
// tag to verify against. Documented limitation, not a bug.
type NominalPattern struct {
	Name string
}

func (WildcardPattern) isPattern()  {}
func (PrimitivePattern) isPattern() {}
func (RecordPattern) isPattern()    {}
func (VariantPattern) isPattern()   {}
func (SequencePattern) isPattern()  {}
func (MapPattern) isPattern()       {}
func (OptionalPattern) isPattern()  {}
func (NominalPattern) isPattern()   {}

// Match reports whether the value has the shape described by the pattern.
func Match(p Pattern, v Value) bool {
	switch pt := p.(type) {
	case WildcardPattern:
		return true
	case PrimitivePattern:
		prim, ok := v.(Primitive)
		return ok && prim.TypeName() == pt.Name
	case RecordPattern:
		rec, ok := v.(Record)
		if !ok {
			return false
		}
		for _, f := range pt.Fields {
			got, ok := rec.Lookup(f.Name)
			if !ok || !Match(f.Pattern, got) {
				return false
			}
		}
		return true
	case VariantPattern:
		va, ok := v.(Variant)
		if !ok {
			return false
		}
		for _, c := range pt.Cases {
			if c.Name == va.Case {
				return Match(c.Pattern, va.Value)
			}
		}
		return false
	case SequencePattern:
		seq, ok := v.(Sequence)
		if !ok {
			return false
		}
		for _, e := range seq {
			if !Match(pt.Element, e) {
				return false
			}
		}
		return true
	case MapPattern:
		m, ok := v.(Map)
		if !ok {
			return false
		}
		for _, e := range m {
			if !Match(pt.Key, e.Key) || !Match(pt.Value, e.Value) {
				return false
			}
		}
		return true
	case OptionalPattern:
		if _, ok := v.(Null); ok {
			return true
		}
		return Match(pt.Inner, v)
	case NominalPattern:
		return false
	default:
		return false
	}
}
