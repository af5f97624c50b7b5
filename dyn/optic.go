package dyn

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is one navigation step of an Optic.
type Node interface {
	isNode()
	render(b *strings.Builder)
}

// FieldNode navigates into the record field with the given name.
type FieldNode string

// CaseNode navigates into a variant payload when its case name matches.
type CaseNode string

// AtIndex navigates to one sequence index.
type AtIndex int

// AtIndices navigates to several sequence indices.
type AtIndices []int

// AtMapKey navigates to the map entry whose key equals Key.
type AtMapKey struct {
	Key Value
}

// AtMapKeys navigates to the map entries whose keys equal any of Keys.
type AtMapKeys struct {
	Keys []Value
}

// Elements navigates to every element of a sequence.
type Elements struct{}

// MapKeys navigates to every key of a map.
type MapKeys struct{}

// MapValues navigates to every value of a map.
type MapValues struct{}

// Wrapped navigates into the payload of a variant regardless of its case.
type Wrapped struct{}

func (FieldNode) isNode() {}
func (CaseNode) isNode()  {}
func (AtIndex) isNode()   {}
func (AtIndices) isNode() {}
func (AtMapKey) isNode()  {}
func (AtMapKeys) isNode() {}
func (Elements) isNode()  {}
func (MapKeys) isNode()   {}
func (MapValues) isNode() {}
func (Wrapped) isNode()   {}

// Optic is an ordered sequence of navigation nodes addressing one or more
// locations inside a tree value. The empty optic addresses the root.
type Optic []Node

// Root is the empty optic.
var Root = Optic{}

// Appending helpers; each returns a fresh optic.

func (o Optic) Field(name string) Optic { return o.push(FieldNode(name)) }
func (o Optic) Case(name string) Optic  { return o.push(CaseNode(name)) }
func (o Optic) Index(i int) Optic       { return o.push(AtIndex(i)) }
func (o Optic) Indices(is ...int) Optic { return o.push(AtIndices(is)) }
func (o Optic) MapKey(k Value) Optic    { return o.push(AtMapKey{Key: k}) }
func (o Optic) Each() Optic             { return o.push(Elements{}) }
func (o Optic) Keys() Optic             { return o.push(MapKeys{}) }
func (o Optic) Values() Optic           { return o.push(MapValues{}) }
func (o Optic) Wrap() Optic             { return o.push(Wrapped{}) }

func (o Optic) push(n Node) Optic {
	out := make(Optic, len(o), len(o)+1)
	copy(out, o)
	return append(out, n)
}

// String renders the optic in dotted/bracketed notation: .field, [2],
// .when(Case), .each, .keys, .values, .wrapped. The empty optic renders as ".".
func (o Optic) String() string {
	if len(o) == 0 {
		return "."
	}
	b := &strings.Builder{}
	for _, n := range o {
		n.render(b)
	}
	return b.String()
}

func (n FieldNode) render(b *strings.Builder) { b.WriteByte('.'); b.WriteString(string(n)) }
func (n CaseNode) render(b *strings.Builder) {
	fmt.Fprintf(b, ".when(%s)", string(n))
}
func (n AtIndex) render(b *strings.Builder) { fmt.Fprintf(b, "[%d]", int(n)) }
func (n AtIndices) render(b *strings.Builder) {
	parts := make([]string, len(n))
	for i, idx := range n {
		parts[i] = strconv.Itoa(idx)
	}
	b.WriteByte('[')
	b.WriteString(strings.Join(parts, ","))
	b.WriteByte(']')
}
func (n AtMapKey) render(b *strings.Builder)  { fmt.Fprintf(b, "[key=%s]", renderKey(n.Key)) }
func (n AtMapKeys) render(b *strings.Builder) {
	parts := make([]string, len(n.Keys))
	for i, k := range n.Keys {
		parts[i] = renderKey(k)
	}
	fmt.Fprintf(b, "[keys=%s]", strings.Join(parts, ","))
}
func (Elements) render(b *strings.Builder)  { b.WriteString(".each") }
func (MapKeys) render(b *strings.Builder)   { b.WriteString(".keys") }
func (MapValues) render(b *strings.Builder) { b.WriteString(".values") }
func (Wrapped) render(b *strings.Builder)   { b.WriteString(".wrapped") }

func renderKey(k Value) string {
	if p, ok := k.(Primitive); ok {
		return fmt.Sprintf("%v", p.V)
	}
	return "?"
}
