package migration

import (
	"fmt"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/blockschema/dyn"
)

// wireAction is the persisted form of one action:
// {"op": <name>, "details": {"at": [...], ...op-specific fields}}.
type wireAction struct {
	Op      string         `json:"op"`
	Details map[string]any `json:"details"`
}

// Encode serializes a migration as an ordered list of encoded actions.
// Named expressions serialize by their discriminant string; unbound function
// literals cannot cross the wire and are an error.
func Encode(m Migration) ([]byte, error) {
	actions, err := encodeActions(m)
	if err != nil {
		return nil, err
	}
	return j.Marshal(actions)
}

// Decode parses a serialized migration, resolving named expressions through
// funcs.
func Decode(data []byte, funcs *FuncRegistry) (Migration, error) {
	var actions []wireAction
	if err := j.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("migration: decode: %w", err)
	}
	return decodeActions(actions, funcs)
}

func encodeActions(m Migration) ([]wireAction, error) {
	out := make([]wireAction, 0, len(m))
	for _, a := range m {
		wa, err := encodeAction(a)
		if err != nil {
			return nil, err
		}
		out = append(out, wa)
	}
	return out, nil
}

func encodeAction(a Action) (wireAction, error) {
	at, err := encodeOptic(a.Location())
	if err != nil {
		return wireAction{}, err
	}
	d := map[string]any{"at": at}
	switch act := a.(type) {
	case AddField:
		d["name"] = act.Name
		if err := putExpr(d, "default", act.Default); err != nil {
			return wireAction{}, err
		}
	case DropField:
		d["name"] = act.Name
		if err := putExpr(d, "default", act.Default); err != nil {
			return wireAction{}, err
		}
	case Rename:
		d["from"], d["to"] = act.From, act.To
	case RenameCase:
		d["from"], d["to"] = act.From, act.To
	case TransformValue:
		if err := putExprs(d, act.Forward, act.Backward); err != nil {
			return wireAction{}, err
		}
	case TransformElements:
		if err := putExprs(d, act.Forward, act.Backward); err != nil {
			return wireAction{}, err
		}
	case TransformKeys:
		if err := putExprs(d, act.Forward, act.Backward); err != nil {
			return wireAction{}, err
		}
	case TransformValues:
		if err := putExprs(d, act.Forward, act.Backward); err != nil {
			return wireAction{}, err
		}
	case Mandate:
		if err := putExpr(d, "default", act.Default); err != nil {
			return wireAction{}, err
		}
	case Optionalize:
		if err := putExpr(d, "default", act.Default); err != nil {
			return wireAction{}, err
		}
	case TransformCase:
		nested, err := encodeActions(act.Actions)
		if err != nil {
			return wireAction{}, err
		}
		d["actions"] = nested
	case Join:
		sources := make([]any, len(act.Sources))
		for i, s := range act.Sources {
			enc, err := encodeOptic(s)
			if err != nil {
				return wireAction{}, err
			}
			sources[i] = enc
		}
		d["sources"] = sources
		if act.Combiner != nil {
			d["combiner"] = map[string]any{"expr": "named", "name": act.Combiner.JoinName()}
		}
		if act.Splitter != nil {
			d["splitter"] = map[string]any{"expr": "named", "name": act.Splitter.SplitName()}
		}
	case Split:
		targets := make([]any, len(act.Targets))
		for i, t := range act.Targets {
			enc, err := encodeOptic(t)
			if err != nil {
				return wireAction{}, err
			}
			targets[i] = enc
		}
		d["targets"] = targets
		if act.Splitter != nil {
			d["splitter"] = map[string]any{"expr": "named", "name": act.Splitter.SplitName()}
		}
		if act.Combiner != nil {
			d["combiner"] = map[string]any{"expr": "named", "name": act.Combiner.JoinName()}
		}
	case ChangeType:
		if err := putExpr(d, "convert", act.Convert); err != nil {
			return wireAction{}, err
		}
		if err := putExpr(d, "convert_back", act.ConvertBack); err != nil {
			return wireAction{}, err
		}
	default:
		return wireAction{}, fmt.Errorf("migration: cannot encode action %T", a)
	}
	return wireAction{Op: a.Op(), Details: d}, nil
}

func putExpr(d map[string]any, key string, e Expr) error {
	if e == nil {
		return nil
	}
	enc, err := encodeExpr(e)
	if err != nil {
		return err
	}
	d[key] = enc
	return nil
}

func putExprs(d map[string]any, forward, backward Expr) error {
	if err := putExpr(d, "forward", forward); err != nil {
		return err
	}
	return putExpr(d, "backward", backward)
}

func encodeExpr(e Expr) (any, error) {
	switch ex := e.(type) {
	case Const:
		v, err := encodeValue(ex.Value)
		if err != nil {
			return nil, err
		}
		return map[string]any{"expr": "const", "value": v}, nil
	case Identity:
		return map[string]any{"expr": "identity"}, nil
	case Named:
		return map[string]any{"expr": "named", "name": ex.Name}, nil
	default:
		return nil, fmt.Errorf("migration: expression %T is not serializable", e)
	}
}

// encodeValue renders a dynamic value as kind-tagged JSON. Int primitives
// carry their text form so int64 survives a float64-based decoder.
func encodeValue(v dyn.Value) (any, error) {
	switch val := v.(type) {
	case dyn.Null:
		return map[string]any{"kind": "null"}, nil
	case dyn.Primitive:
		out := map[string]any{"kind": "prim", "type": val.TypeName()}
		switch p := val.V.(type) {
		case int64:
			out["value"] = strconv.FormatInt(p, 10)
		case bool, string, float64:
			out["value"] = p
		default:
			return nil, fmt.Errorf("migration: unsupported primitive %T", val.V)
		}
		return out, nil
	case dyn.Record:
		fields := make([]any, len(val))
		for i, f := range val {
			fv, err := encodeValue(f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = []any{f.Name, fv}
		}
		return map[string]any{"kind": "record", "fields": fields}, nil
	case dyn.Variant:
		pv, err := encodeValue(val.Value)
		if err != nil {
			return nil, err
		}
		return map[string]any{"kind": "variant", "case": val.Case, "value": pv}, nil
	case dyn.Sequence:
		items := make([]any, len(val))
		for i, e := range val {
			ev, err := encodeValue(e)
			if err != nil {
				return nil, err
			}
			items[i] = ev
		}
		return map[string]any{"kind": "seq", "items": items}, nil
	case dyn.Map:
		entries := make([]any, len(val))
		for i, e := range val {
			kv, err := encodeValue(e.Key)
			if err != nil {
				return nil, err
			}
			vv, err := encodeValue(e.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = []any{kv, vv}
		}
		return map[string]any{"kind": "map", "entries": entries}, nil
	default:
		return nil, fmt.Errorf("migration: unsupported value %T", v)
	}
}

func encodeOptic(o dyn.Optic) ([]any, error) {
	out := make([]any, 0, len(o))
	for _, node := range o {
		switch n := node.(type) {
		case dyn.FieldNode:
			out = append(out, "field:"+string(n))
		case dyn.CaseNode:
			out = append(out, "case:"+string(n))
		case dyn.AtIndex:
			out = append(out, "index:"+strconv.Itoa(int(n)))
		case dyn.AtIndices:
			parts := make([]string, len(n))
			for i, idx := range n {
				parts[i] = strconv.Itoa(idx)
			}
			out = append(out, "indices:"+strings.Join(parts, ","))
		case dyn.Elements:
			out = append(out, "each")
		case dyn.MapKeys:
			out = append(out, "keys")
		case dyn.MapValues:
			out = append(out, "values")
		case dyn.Wrapped:
			out = append(out, "wrapped")
		case dyn.AtMapKey:
			kv, err := encodeValue(n.Key)
			if err != nil {
				return nil, err
			}
			out = append(out, map[string]any{"key": kv})
		case dyn.AtMapKeys:
			keys := make([]any, len(n.Keys))
			for i, k := range n.Keys {
				kv, err := encodeValue(k)
				if err != nil {
					return nil, err
				}
				keys[i] = kv
			}
			out = append(out, map[string]any{"keys": keys})
		default:
			return nil, fmt.Errorf("migration: cannot encode path node %T", node)
		}
	}
	return out, nil
}

func decodeActions(was []wireAction, funcs *FuncRegistry) (Migration, error) {
	out := make(Migration, 0, len(was))
	for _, wa := range was {
		a, err := decodeAction(wa, funcs)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeAction(wa wireAction, funcs *FuncRegistry) (Action, error) {
	d := wa.Details
	at, err := decodeOptic(d["at"])
	if err != nil {
		return nil, fmt.Errorf("migration: op %q: %w", wa.Op, err)
	}
	switch wa.Op {
	case OpAddField, OpDropField:
		name, _ := d["name"].(string)
		def, err := decodeExpr(d["default"], funcs)
		if err != nil {
			return nil, err
		}
		if wa.Op == OpAddField {
			return AddField{At: at, Name: name, Default: def}, nil
		}
		return DropField{At: at, Name: name, Default: def}, nil
	case OpRename, OpRenameCase:
		from, _ := d["from"].(string)
		to, _ := d["to"].(string)
		if wa.Op == OpRename {
			return Rename{At: at, From: from, To: to}, nil
		}
		return RenameCase{At: at, From: from, To: to}, nil
	case OpTransformValue, OpTransformElements, OpTransformKeys, OpTransformValues:
		fwd, err := decodeExpr(d["forward"], funcs)
		if err != nil {
			return nil, err
		}
		bwd, err := decodeExpr(d["backward"], funcs)
		if err != nil {
			return nil, err
		}
		switch wa.Op {
		case OpTransformValue:
			return TransformValue{At: at, Forward: fwd, Backward: bwd}, nil
		case OpTransformElements:
			return TransformElements{At: at, Forward: fwd, Backward: bwd}, nil
		case OpTransformKeys:
			return TransformKeys{At: at, Forward: fwd, Backward: bwd}, nil
		default:
			return TransformValues{At: at, Forward: fwd, Backward: bwd}, nil
		}
	case OpMandate, OpOptionalize:
		def, err := decodeExpr(d["default"], funcs)
		if err != nil {
			return nil, err
		}
		if wa.Op == OpMandate {
			return Mandate{At: at, Default: def}, nil
		}
		return Optionalize{At: at, Default: def}, nil
	case OpTransformCase:
		raw, err := j.Marshal(d["actions"])
		if err != nil {
			return nil, err
		}
		var nested []wireAction
		if err := j.Unmarshal(raw, &nested); err != nil {
			return nil, fmt.Errorf("migration: transform_case actions: %w", err)
		}
		acts, err := decodeActions(nested, funcs)
		if err != nil {
			return nil, err
		}
		return TransformCase{At: at, Actions: acts}, nil
	case OpJoin:
		sources, err := decodeOptics(d["sources"])
		if err != nil {
			return nil, err
		}
		combiner, err := decodeJoinExpr(d["combiner"], funcs)
		if err != nil {
			return nil, err
		}
		splitter, err := decodeSplitExpr(d["splitter"], funcs)
		if err != nil {
			return nil, err
		}
		return Join{At: at, Sources: sources, Combiner: combiner, Splitter: splitter}, nil
	case OpSplit:
		targets, err := decodeOptics(d["targets"])
		if err != nil {
			return nil, err
		}
		splitter, err := decodeSplitExpr(d["splitter"], funcs)
		if err != nil {
			return nil, err
		}
		combiner, err := decodeJoinExpr(d["combiner"], funcs)
		if err != nil {
			return nil, err
		}
		return Split{At: at, Targets: targets, Splitter: splitter, Combiner: combiner}, nil
	case OpChangeType:
		conv, err := decodeExpr(d["convert"], funcs)
		if err != nil {
			return nil, err
		}
		back, err := decodeExpr(d["convert_back"], funcs)
		if err != nil {
			return nil, err
		}
		return ChangeType{At: at, Convert: conv, ConvertBack: back}, nil
	default:
		return nil, fmt.Errorf("migration: unknown op %q", wa.Op)
	}
}

func decodeExpr(raw any, funcs *FuncRegistry) (Expr, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("migration: malformed expression %T", raw)
	}
	switch m["expr"] {
	case "const":
		v, err := decodeValue(m["value"])
		if err != nil {
			return nil, err
		}
		return Const{Value: v}, nil
	case "identity":
		return Identity{}, nil
	case "named":
		name, _ := m["name"].(string)
		if funcs == nil {
			return nil, fmt.Errorf("migration: named expression %q needs a function registry", name)
		}
		return funcs.value(name)
	default:
		return nil, fmt.Errorf("migration: unknown expression tag %v", m["expr"])
	}
}

func decodeJoinExpr(raw any, funcs *FuncRegistry) (JoinExpr, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("migration: malformed join expression %T", raw)
	}
	name, _ := m["name"].(string)
	if funcs == nil {
		return nil, fmt.Errorf("migration: join expression %q needs a function registry", name)
	}
	return funcs.join(name)
}

func decodeSplitExpr(raw any, funcs *FuncRegistry) (SplitExpr, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("migration: malformed split expression %T", raw)
	}
	name, _ := m["name"].(string)
	if funcs == nil {
		return nil, fmt.Errorf("migration: split expression %q needs a function registry", name)
	}
	return funcs.split(name)
}

func decodeValue(raw any) (dyn.Value, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("migration: malformed value %T", raw)
	}
	switch m["kind"] {
	case "null":
		return dyn.Null{}, nil
	case "prim":
		typ, _ := m["type"].(string)
		switch typ {
		case "boolean":
			b, ok := m["value"].(bool)
			if !ok {
				return nil, fmt.Errorf("migration: boolean primitive has %T value", m["value"])
			}
			return dyn.Boolean(b), nil
		case "string":
			s, ok := m["value"].(string)
			if !ok {
				return nil, fmt.Errorf("migration: string primitive has %T value", m["value"])
			}
			return dyn.String(s), nil
		case "int":
			s, ok := m["value"].(string)
			if !ok {
				return nil, fmt.Errorf("migration: int primitive has %T value", m["value"])
			}
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, err
			}
			return dyn.Int(i), nil
		case "double":
			f, ok := m["value"].(float64)
			if !ok {
				return nil, fmt.Errorf("migration: double primitive has %T value", m["value"])
			}
			return dyn.Float(f), nil
		default:
			return nil, fmt.Errorf("migration: unknown primitive type %q", typ)
		}
	case "record":
		fields, _ := m["fields"].([]any)
		rec := make(dyn.Record, 0, len(fields))
		for _, f := range fields {
			pair, ok := f.([]any)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("migration: malformed record field")
			}
			name, _ := pair[0].(string)
			fv, err := decodeValue(pair[1])
			if err != nil {
				return nil, err
			}
			rec = append(rec, dyn.Field{Name: name, Value: fv})
		}
		return rec, nil
	case "variant":
		caseName, _ := m["case"].(string)
		pv, err := decodeValue(m["value"])
		if err != nil {
			return nil, err
		}
		return dyn.Variant{Case: caseName, Value: pv}, nil
	case "seq":
		items, _ := m["items"].([]any)
		seq := make(dyn.Sequence, 0, len(items))
		for _, it := range items {
			iv, err := decodeValue(it)
			if err != nil {
				return nil, err
			}
			seq = append(seq, iv)
		}
		return seq, nil
	case "map":
		entries, _ := m["entries"].([]any)
		out := make(dyn.Map, 0, len(entries))
		for _, e := range entries {
			pair, ok := e.([]any)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("migration: malformed map entry")
			}
			kv, err := decodeValue(pair[0])
			if err != nil {
				return nil, err
			}
			vv, err := decodeValue(pair[1])
			if err != nil {
				return nil, err
			}
			out = append(out, dyn.Entry{Key: kv, Value: vv})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("migration: unknown value kind %v", m["kind"])
	}
}

func decodeOptics(raw any) ([]dyn.Optic, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("migration: malformed path list %T", raw)
	}
	out := make([]dyn.Optic, 0, len(list))
	for _, e := range list {
		o, err := decodeOptic(e)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func decodeOptic(raw any) (dyn.Optic, error) {
	if raw == nil {
		return dyn.Root, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("malformed path %T", raw)
	}
	out := make(dyn.Optic, 0, len(list))
	for _, e := range list {
		switch node := e.(type) {
		case string:
			n, err := decodeOpticTag(node)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		case map[string]any:
			if kraw, ok := node["key"]; ok {
				k, err := decodeValue(kraw)
				if err != nil {
					return nil, err
				}
				out = append(out, dyn.AtMapKey{Key: k})
				continue
			}
			if kraw, ok := node["keys"]; ok {
				klist, ok := kraw.([]any)
				if !ok {
					return nil, fmt.Errorf("malformed keys node")
				}
				keys := make([]dyn.Value, 0, len(klist))
				for _, ke := range klist {
					k, err := decodeValue(ke)
					if err != nil {
						return nil, err
					}
					keys = append(keys, k)
				}
				out = append(out, dyn.AtMapKeys{Keys: keys})
				continue
			}
			return nil, fmt.Errorf("unknown path node object")
		default:
			return nil, fmt.Errorf("malformed path node %T", e)
		}
	}
	return out, nil
}

func decodeOpticTag(tag string) (dyn.Node, error) {
	switch tag {
	case "each":
		return dyn.Elements{}, nil
	case "keys":
		return dyn.MapKeys{}, nil
	case "values":
		return dyn.MapValues{}, nil
	case "wrapped":
		return dyn.Wrapped{}, nil
	}
	kind, arg, ok := strings.Cut(tag, ":")
	if !ok {
		return nil, fmt.Errorf("unknown path tag %q", tag)
	}
	switch kind {
	case "field":
		return dyn.FieldNode(arg), nil
	case "case":
		return dyn.CaseNode(arg), nil
	case "index":
		i, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("bad index %q", arg)
		}
		return dyn.AtIndex(i), nil
	case "indices":
		parts := strings.Split(arg, ",")
		is := make(dyn.AtIndices, 0, len(parts))
		for _, p := range parts {
			i, err := strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("bad index %q", p)
			}
			is = append(is, i)
		}
		return is, nil
	default:
		return nil, fmt.Errorf("unknown path tag %q", tag)
	}
}
