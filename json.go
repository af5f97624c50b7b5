package blockschema

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Kind enumerates the runtime shapes of a Json value.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON Schema spelling of the kind ("null", "boolean", ...).
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
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

// Json is an immutable parsed JSON document: Null, Bool, Number, String,
// Array or Object. Values are constructed during parse and never mutated.
type Json interface {
	Kind() Kind
	// Equal reports exact structural equality. Numbers compare by numeric
	// value (decimal-exact), objects compare as ordered member lists.
	Equal(other Json) bool
}

type Null struct{}

type Bool bool

// Number wraps an exact decimal so that integer-ness and multipleOf checks
// never go through float arithmetic.
type Number struct {
	dec apd.Decimal
}

type String string

type Array []Json

// Member is one name/value entry of an Object. Names are not required to be
// unique; lookup is first-wins.
type Member struct {
	Name  string
	Value Json
}

type Object []Member

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBoolean }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }
func (Object) Kind() Kind { return KindObject }

// ParseNumber builds a Number from its decimal text form.
func ParseNumber(s string) (Number, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Number{}, err
	}
	var n Number
	n.dec.Set(d)
	return n, nil
}

// Int builds a Number from an int64.
func Int(i int64) Number {
	var n Number
	n.dec.SetInt64(i)
	return n
}

// Float builds a Number from a float64. NaN/Inf are not representable and
// collapse to zero; JSON sources never produce them.
func Float(f float64) Number {
	var n Number
	if _, err := n.dec.SetFloat64(f); err != nil {
		n.dec.SetInt64(0)
	}
	return n
}

// Decimal exposes the underlying decimal. Callers must not mutate it.
func (n Number) Decimal() *apd.Decimal { return &n.dec }

// String renders the number in its decimal text form.
func (n Number) String() string { return n.dec.String() }

// Cmp compares two numbers by value (-1, 0, +1).
func (n Number) Cmp(o Number) int { return n.dec.Cmp(&o.dec) }

// IsWhole reports whether the number has no fractional part, so that a JSON
// number like 2.0 satisfies an "integer" type expectation.
func (n Number) IsWhole() bool {
	if n.dec.Form != apd.Finite {
		return false
	}
	var r apd.Decimal
	r.Reduce(&n.dec)
	return r.Exponent >= 0
}

// numCtx is the shared arithmetic context for remainder checks. 50 digits is
// far beyond what JSON documents carry in practice.
var numCtx = apd.BaseContext.WithPrecision(50)

// IsMultipleOf reports whether n divided by m leaves a zero remainder,
// computed decimal-exactly. m equal to zero reports true (the keyword is
// ignored rather than dividing by zero).
func (n Number) IsMultipleOf(m Number) bool {
	if m.dec.IsZero() {
		return true
	}
	var r apd.Decimal
	if _, err := numCtx.Rem(&r, &n.dec, &m.dec); err != nil {
		return false
	}
	return r.IsZero()
}

func (Null) Equal(other Json) bool {
	_, ok := other.(Null)
	return ok
}

func (b Bool) Equal(other Json) bool {
	o, ok := other.(Bool)
	return ok && b == o
}

func (n Number) Equal(other Json) bool {
	o, ok := other.(Number)
	return ok && n.Cmp(o) == 0
}

func (s String) Equal(other Json) bool {
	o, ok := other.(String)
	return ok && s == o
}

func (a Array) Equal(other Json) bool {
	o, ok := other.(Array)
	if !ok || len(a) != len(o) {
		return false
	}
	for i := range a {
		if !a[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (m Object) Equal(other Json) bool {
	o, ok := other.(Object)
	if !ok || len(m) != len(o) {
		return false
	}
	for i := range m {
		if m[i].Name != o[i].Name || !m[i].Value.Equal(o[i].Value) {
			return false
		}
	}
	return true
}

// Lookup returns the value of the first member with the given name.
// First-wins is the documented duplicate-key policy for the whole package.
func (m Object) Lookup(name string) (Json, bool) {
	for _, mem := range m {
		if mem.Name == name {
			return mem.Value, true
		}
	}
	return nil, false
}

// Has reports whether a member with the given name exists.
func (m Object) Has(name string) bool {
	_, ok := m.Lookup(name)
	return ok
}

// Names returns member names in document order, duplicates removed
// (first occurrence kept).
func (m Object) Names() []string {
	seen := make(map[string]struct{}, len(m))
	out := make([]string, 0, len(m))
	for _, mem := range m {
		if _, dup := seen[mem.Name]; dup {
			continue
		}
		seen[mem.Name] = struct{}{}
		out = append(out, mem.Name)
	}
	return out
}

// DuplicateKeys lists member names that occur more than once, in first
// occurrence order. The parser keeps duplicates so callers can enforce
// stricter policies than the default first-wins lookup.
func (m Object) DuplicateKeys() []string {
	count := make(map[string]int, len(m))
	for _, mem := range m {
		count[mem.Name]++
	}
	var out []string
	seen := make(map[string]struct{})
	for _, mem := range m {
		if count[mem.Name] > 1 {
			if _, ok := seen[mem.Name]; !ok {
				seen[mem.Name] = struct{}{}
				out = append(out, mem.Name)
			}
		}
	}
	return out
}

// jsonKindName is used in type_mismatch params/messages.
func jsonKindName(j Json) string { return j.Kind().String() }

// renderTypes joins expected type names for messages, e.g. "string|null".
func renderTypes(ts []TypeName) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, "|")
}
