package migration

import (
	"fmt"

	"github.com/reoring/blockschema/dyn"
)

// Error identifies the first failing action of a migration. Actions are
// atomic: a failure aborts the remaining pipeline with no partial result.
type Error struct {
	Index int    // position of the failing action in the sequence
	Op    string // wire op name of the failing action
	Path  string // rendered target optic
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("migration: action %d (%s) at %s: %v", e.Index, e.Op, e.Path, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Apply threads the value through each action left to right, producing a
// fresh tree (unchanged subtrees are shared). The first failing action
// aborts the whole migration.
func (m Migration) Apply(root dyn.Value) (dyn.Value, error) {
	cur := root
	for i, a := range m {
		next, err := applyAction(a, cur)
		if err != nil {
			return nil, &Error{Index: i, Op: a.Op(), Path: a.Location().String(), Cause: err}
		}
		cur = next
	}
	return cur, nil
}

func applyAction(a Action, v dyn.Value) (dyn.Value, error) {
	switch act := a.(type) {
	case AddField:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			rec, ok := t.(dyn.Record)
			if !ok {
				return nil, fmt.Errorf("add_field target is %T, want record", t)
			}
			if rec.Has(act.Name) {
				return nil, fmt.Errorf("field %q already exists", act.Name)
			}
			dv, err := evalExpr(act.Default, rec)
			if err != nil {
				return nil, err
			}
			out := make(dyn.Record, len(rec), len(rec)+1)
			copy(out, rec)
			return append(out, dyn.Field{Name: act.Name, Value: dv}), nil
		})
	case DropField:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			rec, ok := t.(dyn.Record)
			if !ok {
				return nil, fmt.Errorf("drop_field target is %T, want record", t)
			}
			if !rec.Has(act.Name) {
				return nil, fmt.Errorf("field %q does not exist", act.Name)
			}
			out := make(dyn.Record, 0, len(rec)-1)
			for _, f := range rec {
				if f.Name != act.Name {
					out = append(out, f)
				}
			}
			return out, nil
		})
	case Rename:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			rec, ok := t.(dyn.Record)
			if !ok {
				return nil, fmt.Errorf("rename target is %T, want record", t)
			}
			if !rec.Has(act.From) {
				return nil, fmt.Errorf("field %q does not exist", act.From)
			}
			if rec.Has(act.To) {
				return nil, fmt.Errorf("field %q already exists", act.To)
			}
			out := make(dyn.Record, len(rec))
			for i, f := range rec {
				if f.Name == act.From {
					f.Name = act.To
				}
				out[i] = f
			}
			return out, nil
		})
	case TransformValue:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			return evalExpr(act.Forward, t)
		})
	case Mandate:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			switch opt := t.(type) {
			case dyn.Variant:
				switch opt.Case {
				case "Some":
					return opt.Value, nil
				case "None":
					return evalExpr(act.Default, dyn.Null{})
				}
				return nil, fmt.Errorf("mandate target has case %q, want Some or None", opt.Case)
			case dyn.Null:
				return evalExpr(act.Default, dyn.Null{})
			default:
				return nil, fmt.Errorf("mandate target is %T, want optional shape", t)
			}
		})
	case Optionalize:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			if _, isNull := t.(dyn.Null); isNull {
				return dyn.Variant{Case: "None", Value: dyn.Null{}}, nil
			}
			return dyn.Variant{Case: "Some", Value: t}, nil
		})
	case RenameCase:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			va, ok := t.(dyn.Variant)
			if !ok {
				return nil, fmt.Errorf("rename_case target is %T, want variant", t)
			}
			if va.Case == act.From {
				va.Case = act.To
			}
			return va, nil
		})
	case TransformElements:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			seq, ok := t.(dyn.Sequence)
			if !ok {
				return nil, fmt.Errorf("transform_elements target is %T, want sequence", t)
			}
			out := make(dyn.Sequence, len(seq))
			for i, e := range seq {
				ne, err := evalExpr(act.Forward, e)
				if err != nil {
					return nil, err
				}
				out[i] = ne
			}
			return out, nil
		})
	case TransformKeys:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			m, ok := t.(dyn.Map)
			if !ok {
				return nil, fmt.Errorf("transform_keys target is %T, want map", t)
			}
			out := make(dyn.Map, len(m))
			for i, e := range m {
				nk, err := evalExpr(act.Forward, e.Key)
				if err != nil {
					return nil, err
				}
				out[i] = dyn.Entry{Key: nk, Value: e.Value}
			}
			return out, nil
		})
	case TransformValues:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			m, ok := t.(dyn.Map)
			if !ok {
				return nil, fmt.Errorf("transform_values target is %T, want map", t)
			}
			out := make(dyn.Map, len(m))
			for i, e := range m {
				nv, err := evalExpr(act.Forward, e.Value)
				if err != nil {
					return nil, err
				}
				out[i] = dyn.Entry{Key: e.Key, Value: nv}
			}
			return out, nil
		})
	case TransformCase:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			va, ok := t.(dyn.Variant)
			if !ok {
				return nil, fmt.Errorf("transform_case target is %T, want variant", t)
			}
			payload, err := act.Actions.Apply(va.Value)
			if err != nil {
				return nil, err
			}
			return dyn.Variant{Case: va.Case, Value: payload}, nil
		})
	case Join:
		return applyJoin(act, v)
	case Split:
		return applySplit(act, v)
	case ChangeType:
		return update(v, act.At, func(t dyn.Value) (dyn.Value, error) {
			return evalExpr(act.Convert, t)
		})
	default:
		return nil, fmt.Errorf("unknown action %T", a)
	}
}

func applyJoin(act Join, v dyn.Value) (dyn.Value, error) {
	if act.Combiner == nil {
		return nil, fmt.Errorf("join has no combiner")
	}
	gathered := make([]dyn.Value, len(act.Sources))
	for i, src := range act.Sources {
		got, err := get(v, src)
		if err != nil {
			return nil, err
		}
		gathered[i] = got
	}
	combined, err := act.Combiner.EvalJoin(gathered)
	if err != nil {
		return nil, err
	}
	cur := v
	for _, src := range act.Sources {
		cur, err = removeAt(cur, src)
		if err != nil {
			return nil, err
		}
	}
	return insertAt(cur, act.At, combined)
}

func applySplit(act Split, v dyn.Value) (dyn.Value, error) {
	if act.Splitter == nil {
		return nil, fmt.Errorf("split has no splitter")
	}
	val, err := get(v, act.At)
	if err != nil {
		return nil, err
	}
	parts, err := act.Splitter.EvalSplit(val)
	if err != nil {
		return nil, err
	}
	if len(parts) != len(act.Targets) {
		return nil, fmt.Errorf("splitter produced %d values for %d targets", len(parts), len(act.Targets))
	}
	cur, err := removeAt(v, act.At)
	if err != nil {
		return nil, err
	}
	for i, target := range act.Targets {
		cur, err = insertAt(cur, target, parts[i])
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}
