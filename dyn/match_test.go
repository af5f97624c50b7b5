package dyn_test

import (
	"testing"

	"github.com/reoring/blockschema/dyn"
)

func TestMatch_Primitives(t *testing.T) {
	if !dyn.Match(dyn.WildcardPattern{}, dyn.Null{}) {
		t.Fatalf("wildcard must match anything")
	}
	if !dyn.Match(dyn.PrimitivePattern{Name: "int"}, dyn.Int(3)) {
		t.Fatalf("int pattern should match Int")
	}
	if dyn.Match(dyn.PrimitivePattern{Name: "int"}, dyn.Float(3)) {
		t.Fatalf("int pattern must not match Float")
	}
	if dyn.Match(dyn.PrimitivePattern{Name: "string"}, dyn.Record{}) {
		t.Fatalf("primitive pattern must not match a record")
	}
}

func TestMatch_RecordIsSubsetMatch(t *testing.T) {
	rec := dyn.Record{
		{Name: "id", Value: dyn.Int(1)},
		{Name: "name", Value: dyn.String("alice")},
	}
	p := dyn.RecordPattern{Fields: []dyn.FieldPattern{
		{Name: "id", Pattern: dyn.PrimitivePattern{Name: "int"}},
	}}
	if !dyn.Match(p, rec) {
		t.Fatalf("extra actual fields must be ignored")
	}
	missing := dyn.RecordPattern{Fields: []dyn.FieldPattern{
		{Name: "email", Pattern: dyn.WildcardPattern{}},
	}}
	if dyn.Match(missing, rec) {
		t.Fatalf("absent pattern field must fail the match")
	}
}

func TestMatch_Variant(t *testing.T) {
	v := dyn.Variant{Case: "Some", Value: dyn.Int(5)}
	p := dyn.VariantPattern{Cases: []dyn.CasePattern{
		{Name: "None", Pattern: dyn.WildcardPattern{}},
		{Name: "Some", Pattern: dyn.PrimitivePattern{Name: "int"}},
	}}
	if !dyn.Match(p, v) {
		t.Fatalf("listed case with matching payload should match")
	}
	other := dyn.Variant{Case: "Other", Value: dyn.Null{}}
	if dyn.Match(p, other) {
		t.Fatalf("unlisted case must not match")
	}
}

func TestMatch_SequenceAndMap(t *testing.T) {
	seq := dyn.Sequence{dyn.Int(1), dyn.Int(2)}
	if !dyn.Match(dyn.SequencePattern{Element: dyn.PrimitivePattern{Name: "int"}}, seq) {
		t.Fatalf("homogeneous sequence should match")
	}
	mixed := dyn.Sequence{dyn.Int(1), dyn.String("x")}
	if dyn.Match(dyn.SequencePattern{Element: dyn.PrimitivePattern{Name: "int"}}, mixed) {
		t.Fatalf("one mismatching element fails the sequence")
	}
	if !dyn.Match(dyn.SequencePattern{Element: dyn.NominalPattern{Name: "X"}}, dyn.Sequence{}) {
		t.Fatalf("the empty sequence matches vacuously")
	}
	m := dyn.Map{{Key: dyn.String("a"), Value: dyn.Int(1)}}
	mp := dyn.MapPattern{
		Key:   dyn.PrimitivePattern{Name: "string"},
		Value: dyn.PrimitivePattern{Name: "int"},
	}
	if !dyn.Match(mp, m) {
		t.Fatalf("map entries should match")
	}
}

func TestMatch_OptionalAndNominal(t *testing.T) {
	opt := dyn.OptionalPattern{Inner: dyn.PrimitivePattern{Name: "string"}}
	if !dyn.Match(opt, dyn.Null{}) {
		t.Fatalf("optional matches null")
	}
	if !dyn.Match(opt, dyn.String("x")) {
		t.Fatalf("optional defers to the inner pattern")
	}
	if dyn.Match(opt, dyn.Int(1)) {
		t.Fatalf("inner mismatch fails")
	}
	if dyn.Match(dyn.NominalPattern{Name: "UserId"}, dyn.Int(1)) {
		t.Fatalf("nominal patterns never match dynamic values")
	}
}

func TestEqual(t *testing.T) {
	a := dyn.Record{{Name: "x", Value: dyn.Sequence{dyn.Int(1), dyn.Null{}}}}
	b := dyn.Record{{Name: "x", Value: dyn.Sequence{dyn.Int(1), dyn.Null{}}}}
	if !dyn.Equal(a, b) {
		t.Fatalf("structurally identical values must compare equal")
	}
	c := dyn.Record{{Name: "x", Value: dyn.Sequence{dyn.Int(2), dyn.Null{}}}}
	if dyn.Equal(a, c) {
		t.Fatalf("differing leaves must compare unequal")
	}
	// Field order is significant for records.
	d := dyn.Record{{Name: "a", Value: dyn.Int(1)}, {Name: "b", Value: dyn.Int(2)}}
	e := dyn.Record{{Name: "b", Value: dyn.Int(2)}, {Name: "a", Value: dyn.Int(1)}}
	if dyn.Equal(d, e) {
		t.Fatalf("record equality is positional")
	}
}
