package migration

import (
	"fmt"

	"github.com/reoring/blockschema/dyn"
)

// update rebuilds the tree with f applied at every location the optic
// addresses. Multi-target nodes (Elements, MapKeys, MapValues, AtIndices,
// AtMapKeys) fan out; everything traversed but unchanged is shared.
func update(v dyn.Value, path dyn.Optic, f func(dyn.Value) (dyn.Value, error)) (dyn.Value, error) {
	if len(path) == 0 {
		return f(v)
	}
	head, rest := path[0], path[1:]
	switch n := head.(type) {
	case dyn.FieldNode:
		rec, ok := v.(dyn.Record)
		if !ok {
			return nil, fmt.Errorf("path expects record, got %T", v)
		}
		idx := -1
		for i, fld := range rec {
			if fld.Name == string(n) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("field %q not found", string(n))
		}
		nv, err := update(rec[idx].Value, rest, f)
		if err != nil {
			return nil, err
		}
		out := make(dyn.Record, len(rec))
		copy(out, rec)
		out[idx].Value = nv
		return out, nil
	case dyn.CaseNode:
		va, ok := v.(dyn.Variant)
		if !ok {
			return nil, fmt.Errorf("path expects variant, got %T", v)
		}
		if va.Case != string(n) {
			return nil, fmt.Errorf("variant case is %q, path expects %q", va.Case, string(n))
		}
		nv, err := update(va.Value, rest, f)
		if err != nil {
			return nil, err
		}
		return dyn.Variant{Case: va.Case, Value: nv}, nil
	case dyn.Wrapped:
		va, ok := v.(dyn.Variant)
		if !ok {
			return nil, fmt.Errorf("path expects variant, got %T", v)
		}
		nv, err := update(va.Value, rest, f)
		if err != nil {
			return nil, err
		}
		return dyn.Variant{Case: va.Case, Value: nv}, nil
	case dyn.AtIndex:
		seq, ok := v.(dyn.Sequence)
		if !ok {
			return nil, fmt.Errorf("path expects sequence, got %T", v)
		}
		i := int(n)
		if i < 0 || i >= len(seq) {
			return nil, fmt.Errorf("index %d out of range (len %d)", i, len(seq))
		}
		nv, err := update(seq[i], rest, f)
		if err != nil {
			return nil, err
		}
		out := make(dyn.Sequence, len(seq))
		copy(out, seq)
		out[i] = nv
		return out, nil
	case dyn.AtIndices:
		seq, ok := v.(dyn.Sequence)
		if !ok {
			return nil, fmt.Errorf("path expects sequence, got %T", v)
		}
		out := make(dyn.Sequence, len(seq))
		copy(out, seq)
		for _, i := range n {
			if i < 0 || i >= len(seq) {
				return nil, fmt.Errorf("index %d out of range (len %d)", i, len(seq))
			}
			nv, err := update(out[i], rest, f)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case dyn.AtMapKey:
		m, ok := v.(dyn.Map)
		if !ok {
			return nil, fmt.Errorf("path expects map, got %T", v)
		}
		idx := -1
		for i, e := range m {
			if dyn.Equal(e.Key, n.Key) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("map key not found")
		}
		nv, err := update(m[idx].Value, rest, f)
		if err != nil {
			return nil, err
		}
		out := make(dyn.Map, len(m))
		copy(out, m)
		out[idx].Value = nv
		return out, nil
	case dyn.AtMapKeys:
		m, ok := v.(dyn.Map)
		if !ok {
			return nil, fmt.Errorf("path expects map, got %T", v)
		}
		out := make(dyn.Map, len(m))
		copy(out, m)
		for _, key := range n.Keys {
			idx := -1
			for i, e := range out {
				if dyn.Equal(e.Key, key) {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("map key not found")
			}
			nv, err := update(out[idx].Value, rest, f)
			if err != nil {
				return nil, err
			}
			out[idx].Value = nv
		}
		return out, nil
	case dyn.Elements:
		seq, ok := v.(dyn.Sequence)
		if !ok {
			return nil, fmt.Errorf("path expects sequence, got %T", v)
		}
		out := make(dyn.Sequence, len(seq))
		for i, e := range seq {
			nv, err := update(e, rest, f)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case dyn.MapKeys:
		m, ok := v.(dyn.Map)
		if !ok {
			return nil, fmt.Errorf("path expects map, got %T", v)
		}
		out := make(dyn.Map, len(m))
		for i, e := range m {
			nk, err := update(e.Key, rest, f)
			if err != nil {
				return nil, err
			}
			out[i] = dyn.Entry{Key: nk, Value: e.Value}
		}
		return out, nil
	case dyn.MapValues:
		m, ok := v.(dyn.Map)
		if !ok {
			return nil, fmt.Errorf("path expects map, got %T", v)
		}
		out := make(dyn.Map, len(m))
		for i, e := range m {
			nv, err := update(e.Value, rest, f)
			if err != nil {
				return nil, err
			}
			out[i] = dyn.Entry{Key: e.Key, Value: nv}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported path node %T", head)
	}
}

// get reads the single value an optic addresses. Multi-target nodes are
// rejected: Join sources and Split targets must address one location each.
func get(v dyn.Value, path dyn.Optic) (dyn.Value, error) {
	cur := v
	for _, node := range path {
		switch n := node.(type) {
		case dyn.FieldNode:
			rec, ok := cur.(dyn.Record)
			if !ok {
				return nil, fmt.Errorf("path expects record, got %T", cur)
			}
			val, ok := rec.Lookup(string(n))
			if !ok {
				return nil, fmt.Errorf("field %q not found", string(n))
			}
			cur = val
		case dyn.CaseNode:
			va, ok := cur.(dyn.Variant)
			if !ok || va.Case != string(n) {
				return nil, fmt.Errorf("path expects variant case %q", string(n))
			}
			cur = va.Value
		case dyn.Wrapped:
			va, ok := cur.(dyn.Variant)
			if !ok {
				return nil, fmt.Errorf("path expects variant, got %T", cur)
			}
			cur = va.Value
		case dyn.AtIndex:
			seq, ok := cur.(dyn.Sequence)
			if !ok {
				return nil, fmt.Errorf("path expects sequence, got %T", cur)
			}
			if int(n) < 0 || int(n) >= len(seq) {
				return nil, fmt.Errorf("index %d out of range (len %d)", int(n), len(seq))
			}
			cur = seq[int(n)]
		case dyn.AtMapKey:
			m, ok := cur.(dyn.Map)
			if !ok {
				return nil, fmt.Errorf("path expects map, got %T", cur)
			}
			found := false
			for _, e := range m {
				if dyn.Equal(e.Key, n.Key) {
					cur = e.Value
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("map key not found")
			}
		default:
			return nil, fmt.Errorf("path node %T does not address a single value", node)
		}
	}
	return cur, nil
}

// removeAt deletes the addressed location from its parent. The final node
// must name a removable slot: a record field, a map entry, or a sequence
// index.
func removeAt(v dyn.Value, path dyn.Optic) (dyn.Value, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("cannot remove the root value")
	}
	parent, last := path[:len(path)-1], path[len(path)-1]
	return update(v, parent, func(t dyn.Value) (dyn.Value, error) {
		switch n := last.(type) {
		case dyn.FieldNode:
			rec, ok := t.(dyn.Record)
			if !ok {
				return nil, fmt.Errorf("path expects record, got %T", t)
			}
			if !rec.Has(string(n)) {
				return nil, fmt.Errorf("field %q not found", string(n))
			}
			out := make(dyn.Record, 0, len(rec)-1)
			for _, fld := range rec {
				if fld.Name != string(n) {
					out = append(out, fld)
				}
			}
			return out, nil
		case dyn.AtMapKey:
			m, ok := t.(dyn.Map)
			if !ok {
				return nil, fmt.Errorf("path expects map, got %T", t)
			}
			out := make(dyn.Map, 0, len(m))
			removed := false
			for _, e := range m {
				if !removed && dyn.Equal(e.Key, n.Key) {
					removed = true
					continue
				}
				out = append(out, e)
			}
			if !removed {
				return nil, fmt.Errorf("map key not found")
			}
			return out, nil
		case dyn.AtIndex:
			seq, ok := t.(dyn.Sequence)
			if !ok {
				return nil, fmt.Errorf("path expects sequence, got %T", t)
			}
			i := int(n)
			if i < 0 || i >= len(seq) {
				return nil, fmt.Errorf("index %d out of range (len %d)", i, len(seq))
			}
			out := make(dyn.Sequence, 0, len(seq)-1)
			out = append(out, seq[:i]...)
			return append(out, seq[i+1:]...), nil
		default:
			return nil, fmt.Errorf("path node %T is not removable", last)
		}
	})
}

// insertAt creates the addressed slot in its parent: a new record field or
// map entry. Existing slots are an error so migrations stay explicit about
// overwrites (use TransformValue for those).
func insertAt(v dyn.Value, path dyn.Optic, nv dyn.Value) (dyn.Value, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("cannot insert at the root value")
	}
	parent, last := path[:len(path)-1], path[len(path)-1]
	return update(v, parent, func(t dyn.Value) (dyn.Value, error) {
		switch n := last.(type) {
		case dyn.FieldNode:
			rec, ok := t.(dyn.Record)
			if !ok {
				return nil, fmt.Errorf("path expects record, got %T", t)
			}
			if rec.Has(string(n)) {
				return nil, fmt.Errorf("field %q already exists", string(n))
			}
			out := make(dyn.Record, len(rec), len(rec)+1)
			copy(out, rec)
			return append(out, dyn.Field{Name: string(n), Value: nv}), nil
		case dyn.AtMapKey:
			m, ok := t.(dyn.Map)
			if !ok {
				return nil, fmt.Errorf("path expects map, got %T", t)
			}
			for _, e := range m {
				if dyn.Equal(e.Key, n.Key) {
					return nil, fmt.Errorf("map key already exists")
				}
			}
			out := make(dyn.Map, len(m), len(m)+1)
			copy(out, m)
			return append(out, dyn.Entry{Key: n.Key, Value: nv}), nil
		default:
			return nil, fmt.Errorf("path node %T is not insertable", last)
		}
	})
}
