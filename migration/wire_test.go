package migration_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/blockschema/dyn"
	"github.com/reoring/blockschema/migration"
)

func TestWire_RoundTripWithConstDefaults(t *testing.T) {
	m := migration.Migration{
		migration.AddField{
			At:      dyn.Root.Field("user"),
			Name:    "active",
			Default: migration.Const{Value: dyn.Boolean(true)},
		},
		migration.Rename{At: dyn.Root.Field("user"), From: "name", To: "fullName"},
		migration.DropField{At: dyn.Root, Name: "legacy"},
	}
	data, err := migration.Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := migration.Decode(data, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(got))
	}
	add := got[0].(migration.AddField)
	if add.At.String() != ".user" || add.Name != "active" {
		t.Fatalf("add_field decoded wrong: %+v", add)
	}
	if !dyn.Equal(add.Default.(migration.Const).Value, dyn.Boolean(true)) {
		t.Fatalf("const default lost: %+v", add.Default)
	}
	ren := got[1].(migration.Rename)
	if ren.From != "name" || ren.To != "fullName" {
		t.Fatalf("rename decoded wrong: %+v", ren)
	}
}

func TestWire_Int64SurvivesTheRoundTrip(t *testing.T) {
	// Large int64 values cannot pass through float64 without loss, so the
	// codec carries them as strings.
	big := int64(1<<62 + 1)
	m := migration.Migration{
		migration.AddField{At: dyn.Root, Name: "n", Default: migration.Const{Value: dyn.Int(big)}},
	}
	data, err := migration.Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := migration.Decode(data, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	v := got[0].(migration.AddField).Default.(migration.Const).Value
	if !dyn.Equal(v, dyn.Int(big)) {
		t.Fatalf("int64 fidelity lost: %v", v)
	}
}

func TestWire_NamedExprsResolveThroughFuncRegistry(t *testing.T) {
	funcs := migration.NewFuncRegistry()
	funcs.RegisterValue("upper", func(v dyn.Value) (dyn.Value, error) {
		return dyn.String(strings.ToUpper(v.(dyn.Primitive).V.(string))), nil
	})
	funcs.RegisterValue("lower", func(v dyn.Value) (dyn.Value, error) {
		return dyn.String(strings.ToLower(v.(dyn.Primitive).V.(string))), nil
	})

	m := migration.Migration{
		migration.TransformValue{
			At:       dyn.Root.Field("code"),
			Forward:  migration.Named{Name: "upper"},
			Backward: migration.Named{Name: "lower"},
		},
	}
	data, err := migration.Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := migration.Decode(data, funcs)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := got.Apply(dyn.Record{{Name: "code", Value: dyn.String("abc")}})
	if err != nil {
		t.Fatalf("apply decoded migration: %v", err)
	}
	if v, _ := out.(dyn.Record).Lookup("code"); !dyn.Equal(v, dyn.String("ABC")) {
		t.Fatalf("decoded function did not run: %v", v)
	}
}

func TestWire_UnknownFunctionFailsDecode(t *testing.T) {
	m := migration.Migration{
		migration.TransformValue{At: dyn.Root, Forward: migration.Named{Name: "nowhere"}},
	}
	data, err := migration.Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := migration.Decode(data, migration.NewFuncRegistry()); err == nil {
		t.Fatalf("decoding an unregistered function name must fail")
	}
}

func TestWire_OpticFidelity(t *testing.T) {
	optics := []dyn.Optic{
		dyn.Root,
		dyn.Root.Field("a").Index(3),
		dyn.Root.Case("Paid").Field("amount"),
		dyn.Root.Indices(1, 2).Each(),
		dyn.Root.Keys(),
		dyn.Root.Values(),
		dyn.Root.Wrap(),
		dyn.Root.MapKey(dyn.String("en")),
	}
	for _, o := range optics {
		m := migration.Migration{migration.DropField{At: o, Name: "x"}}
		data, err := migration.Encode(m)
		if err != nil {
			t.Fatalf("encode %s: %v", o, err)
		}
		got, err := migration.Decode(data, nil)
		if err != nil {
			t.Fatalf("decode %s: %v", o, err)
		}
		back := got[0].(migration.DropField).At
		if diff := cmp.Diff(o.String(), back.String()); diff != "" {
			t.Fatalf("optic changed across the wire (-want +got):\n%s", diff)
		}
	}
}

func TestWire_JoinRoundTrip(t *testing.T) {
	funcs := migration.NewFuncRegistry()
	funcs.RegisterJoin("concat", func(vs []dyn.Value) (dyn.Value, error) {
		return dyn.String(vs[0].(dyn.Primitive).V.(string) + vs[1].(dyn.Primitive).V.(string)), nil
	})
	funcs.RegisterSplit("halve", func(v dyn.Value) ([]dyn.Value, error) {
		s := v.(dyn.Primitive).V.(string)
		return []dyn.Value{dyn.String(s[:1]), dyn.String(s[1:])}, nil
	})

	m := migration.Migration{migration.Join{
		At:       dyn.Root.Field("ab"),
		Sources:  []dyn.Optic{dyn.Root.Field("a"), dyn.Root.Field("b")},
		Combiner: migration.NamedJoin{Name: "concat"},
		Splitter: migration.NamedSplit{Name: "halve"},
	}}
	data, err := migration.Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := migration.Decode(data, funcs)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := got.Apply(dyn.Record{
		{Name: "a", Value: dyn.String("x")},
		{Name: "b", Value: dyn.String("y")},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if v, _ := out.(dyn.Record).Lookup("ab"); !dyn.Equal(v, dyn.String("xy")) {
		t.Fatalf("join via wire wrong: %v", v)
	}
}

// opaqueExpr stands in for any expression with no wire form.
type opaqueExpr struct{}

func (opaqueExpr) Eval(v dyn.Value) (dyn.Value, error) { return v, nil }

func TestWire_UnserializableExprIsRejected(t *testing.T) {
	m := migration.Migration{
		migration.TransformValue{At: dyn.Root, Forward: opaqueExpr{}},
	}
	if _, err := migration.Encode(m); err == nil {
		t.Fatalf("expressions without a wire form must be rejected at encode time")
	}
}
