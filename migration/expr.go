// Package migration implements a small interpreter that applies ordered
// structural edit actions to a dyn.Value tree, addressed by optic paths,
// with best-effort reversal of the action sequence.
package migration

import (
	"fmt"

	"github.com/reoring/blockschema/dyn"
)

// Expr produces a value from a value. Action defaults and transforms are
// expressions so that migrations stay data: Const is fully serializable and
// Named round-trips through a FuncRegistry by its discriminant string.
type Expr interface {
	Eval(v dyn.Value) (dyn.Value, error)
}

// Const ignores its input and yields Value.
type Const struct {
	Value dyn.Value
}

func (c Const) Eval(dyn.Value) (dyn.Value, error) { return c.Value, nil }

// Identity yields its input unchanged.
type Identity struct{}

func (Identity) Eval(v dyn.Value) (dyn.Value, error) { return v, nil }

// Named is a function registered under a name. The function itself never
// crosses the wire; decoding resolves Name through a FuncRegistry.
type Named struct {
	Name string
	Fn   func(dyn.Value) (dyn.Value, error)
}

func (n Named) Eval(v dyn.Value) (dyn.Value, error) {
	if n.Fn == nil {
		return nil, fmt.Errorf("expression %q is not bound to a function", n.Name)
	}
	return n.Fn(v)
}

// JoinExpr combines several gathered values into one (the combiner of a Join
// action).
type JoinExpr interface {
	EvalJoin(vs []dyn.Value) (dyn.Value, error)
	JoinName() string
}

// NamedJoin is a registered many-to-one combiner.
type NamedJoin struct {
	Name string
	Fn   func(vs []dyn.Value) (dyn.Value, error)
}

func (n NamedJoin) EvalJoin(vs []dyn.Value) (dyn.Value, error) {
	if n.Fn == nil {
		return nil, fmt.Errorf("join expression %q is not bound to a function", n.Name)
	}
	return n.Fn(vs)
}

func (n NamedJoin) JoinName() string { return n.Name }

// SplitExpr splits one value into several (the splitter of a Split action).
type SplitExpr interface {
	EvalSplit(v dyn.Value) ([]dyn.Value, error)
	SplitName() string
}

// NamedSplit is a registered one-to-many splitter.
type NamedSplit struct {
	Name string
	Fn   func(v dyn.Value) ([]dyn.Value, error)
}

func (n NamedSplit) EvalSplit(v dyn.Value) ([]dyn.Value, error) {
	if n.Fn == nil {
		return nil, fmt.Errorf("split expression %q is not bound to a function", n.Name)
	}
	return n.Fn(v)
}

func (n NamedSplit) SplitName() string { return n.Name }

// evalExpr treats a nil expression as identity. Reversing a transform whose
// inverse was never supplied yields exactly this nominal behavior.
func evalExpr(e Expr, v dyn.Value) (dyn.Value, error) {
	if e == nil {
		return v, nil
	}
	return e.Eval(v)
}

// FuncRegistry binds expression names to functions for wire decoding.
// Bindings are registered once at startup; the registry is not safe for
// concurrent mutation.
type FuncRegistry struct {
	values map[string]func(dyn.Value) (dyn.Value, error)
	joins  map[string]func(vs []dyn.Value) (dyn.Value, error)
	splits map[string]func(v dyn.Value) ([]dyn.Value, error)
}

// NewFuncRegistry returns an empty function registry.
func NewFuncRegistry() *FuncRegistry {
	return &FuncRegistry{
		values: map[string]func(dyn.Value) (dyn.Value, error){},
		joins:  map[string]func(vs []dyn.Value) (dyn.Value, error){},
		splits: map[string]func(v dyn.Value) ([]dyn.Value, error){},
	}
}

// RegisterValue binds a value expression name.
func (r *FuncRegistry) RegisterValue(name string, fn func(dyn.Value) (dyn.Value, error)) {
	r.values[name] = fn
}

// RegisterJoin binds a combiner expression name.
func (r *FuncRegistry) RegisterJoin(name string, fn func(vs []dyn.Value) (dyn.Value, error)) {
	r.joins[name] = fn
}

// RegisterSplit binds a splitter expression name.
func (r *FuncRegistry) RegisterSplit(name string, fn func(v dyn.Value) ([]dyn.Value, error)) {
	r.splits[name] = fn
}

func (r *FuncRegistry) value(name string) (Named, error) {
	fn, ok := r.values[name]
	if !ok {
		return Named{}, fmt.Errorf("migration: unknown expression %q", name)
	}
	return Named{Name: name, Fn: fn}, nil
}

func (r *FuncRegistry) join(name string) (NamedJoin, error) {
	fn, ok := r.joins[name]
	if !ok {
		return NamedJoin{}, fmt.Errorf("migration: unknown join expression %q", name)
	}
	return NamedJoin{Name: name, Fn: fn}, nil
}

func (r *FuncRegistry) split(name string) (NamedSplit, error) {
	fn, ok := r.splits[name]
	if !ok {
		return NamedSplit{}, fmt.Errorf("migration: unknown split expression %q", name)
	}
	return NamedSplit{Name: name, Fn: fn}, nil
}
