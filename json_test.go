package blockschema_test

import (
	"testing"

	blockschema "github.com/reoring/blockschema"
)

func TestFromJSONBytes_PreservesOrderAndDuplicates(t *testing.T) {
	doc, err := blockschema.FromJSONBytes([]byte(`{"b":1,"a":2,"b":3}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	obj, ok := doc.(blockschema.Object)
	if !ok {
		t.Fatalf("expected object, got %T", doc)
	}
	if len(obj) != 3 {
		t.Fatalf("expected 3 members (duplicates kept), got %d", len(obj))
	}
	if obj[0].Name != "b" || obj[1].Name != "a" || obj[2].Name != "b" {
		t.Fatalf("member order not preserved: %+v", obj)
	}
	// First-wins lookup.
	v, ok := obj.Lookup("b")
	if !ok {
		t.Fatalf("lookup failed")
	}
	if !v.Equal(blockschema.Int(1)) {
		t.Fatalf("first-wins lookup broken, got %v", v)
	}
	dups := obj.DuplicateKeys()
	if len(dups) != 1 || dups[0] != "b" {
		t.Fatalf("expected duplicate key [b], got %v", dups)
	}
}

func TestJsonEqual_NumbersCompareByValue(t *testing.T) {
	a, err := blockschema.ParseNumber("1.0")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !a.Equal(blockschema.Int(1)) {
		t.Fatalf("1.0 should equal 1")
	}
	if a.Equal(blockschema.Int(2)) {
		t.Fatalf("1.0 should not equal 2")
	}
	if !a.IsWhole() {
		t.Fatalf("1.0 should be whole")
	}
	frac, _ := blockschema.ParseNumber("1.5")
	if frac.IsWhole() {
		t.Fatalf("1.5 should not be whole")
	}
}

func TestNumber_IsMultipleOf_DecimalExact(t *testing.T) {
	v, _ := blockschema.ParseNumber("0.3")
	m, _ := blockschema.ParseNumber("0.1")
	if !v.IsMultipleOf(m) {
		t.Fatalf("0.3 should be a multiple of 0.1 with exact arithmetic")
	}
	v2, _ := blockschema.ParseNumber("0.25")
	if v2.IsMultipleOf(m) {
		t.Fatalf("0.25 should not be a multiple of 0.1")
	}
	// Zero multiple is ignored, never a division by zero.
	if !v.IsMultipleOf(blockschema.Int(0)) {
		t.Fatalf("zero multipleOf must be ignored")
	}
}

func TestFromYAMLBytes_MatchesJSONShape(t *testing.T) {
	fromYAML, err := blockschema.FromYAMLBytes([]byte("name: widget\ncount: 3\ntags:\n  - a\n  - b\n"))
	if err != nil {
		t.Fatalf("yaml parse: %v", err)
	}
	fromJSON, err := blockschema.FromJSONBytes([]byte(`{"name":"widget","count":3,"tags":["a","b"]}`))
	if err != nil {
		t.Fatalf("json parse: %v", err)
	}
	if !fromYAML.Equal(fromJSON) {
		t.Fatalf("YAML and JSON parses differ:\n%v\n%v", fromYAML, fromJSON)
	}
}
