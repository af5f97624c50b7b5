package blockschema_test

import (
	"strings"
	"testing"

	blockschema "github.com/reoring/blockschema"
)

func TestComposition_AllOfAccumulatesEveryBranch(t *testing.T) {
	schemaSrc := `{"allOf":[{"minimum":10},{"maximum":5}]}`
	iss := check(t, schemaSrc, `7`)
	wantCodes(t, iss, blockschema.CodeMinimumViolated, blockschema.CodeMaximumViolated)
}

func TestComposition_AnyOf(t *testing.T) {
	schemaSrc := `{"anyOf":[{"type":"string"},{"type":"number"}]}`
	if iss := check(t, schemaSrc, `3`); len(iss) != 0 {
		t.Fatalf("one matching branch suffices: %v", iss)
	}
	iss := check(t, schemaSrc, `true`)
	wantCodes(t, iss, blockschema.CodeCompositionFailed)
	if !strings.Contains(iss[0].Message, "anyOf") {
		t.Fatalf("expected anyOf in message, got %q", iss[0].Message)
	}
}

func TestComposition_AnyOfMergesAllSuccessfulContexts(t *testing.T) {
	// Both branches match, so both a and b are evaluated; only c is left
	// for unevaluatedProperties to reject.
	schemaSrc := `{
		"anyOf":[
			{"properties":{"a":{"type":"integer"}}},
			{"properties":{"b":{"type":"integer"}}}
		],
		"unevaluatedProperties":false
	}`
	iss := check(t, schemaSrc, `{"a":1,"b":2,"c":3}`)
	wantCodes(t, iss, blockschema.CodeAdditionalProperty)
	if iss[0].Path != ".c" {
		t.Fatalf("only c is unevaluated, got %s", iss[0].Path)
	}
}

func TestComposition_OneOf(t *testing.T) {
	schemaSrc := `{"oneOf":[{"type":"integer"},{"minimum":5}]}`
	if iss := check(t, schemaSrc, `4.5`); len(iss) != 0 {
		t.Fatalf("exactly one branch matches 4.5: %v", iss)
	}
	// 7 matches both branches.
	iss := check(t, schemaSrc, `7`)
	wantCodes(t, iss, blockschema.CodeCompositionFailed)
	if !strings.Contains(iss[0].Message, "2") {
		t.Fatalf("expected match count in message, got %q", iss[0].Message)
	}
	// true matches neither.
	wantCodes(t, check(t, schemaSrc, `true`), blockschema.CodeCompositionFailed)
}

func TestComposition_Not(t *testing.T) {
	wantCodes(t, check(t, `{"not":{"type":"string"}}`, `"x"`), blockschema.CodeCompositionFailed)
	if iss := check(t, `{"not":{"type":"string"}}`, `5`); len(iss) != 0 {
		t.Fatalf("not should accept a failing subschema: %v", iss)
	}
}

func TestConditional_IfThenElse(t *testing.T) {
	schemaSrc := `{
		"if":{"properties":{"kind":{"const":"card"}},"required":["kind"]},
		"then":{"required":["number"]},
		"else":{"required":["iban"]}
	}`
	wantCodes(t, check(t, schemaSrc, `{"kind":"card"}`), blockschema.CodeRequiredMissing)
	if iss := check(t, schemaSrc, `{"kind":"card","number":"4111"}`); len(iss) != 0 {
		t.Fatalf("then satisfied: %v", iss)
	}
	wantCodes(t, check(t, schemaSrc, `{"kind":"bank"}`), blockschema.CodeRequiredMissing)
	if iss := check(t, schemaSrc, `{"kind":"bank","iban":"DE89"}`); len(iss) != 0 {
		t.Fatalf("else satisfied: %v", iss)
	}
}

func TestConditional_IfContextOnlyCountsWhenTrue(t *testing.T) {
	// When if fails, its property evaluations do not count toward
	// unevaluatedProperties.
	schemaSrc := `{
		"if":{"properties":{"a":{"const":1}},"required":["a","missing"]},
		"unevaluatedProperties":false
	}`
	iss := check(t, schemaSrc, `{"a":1}`)
	wantCodes(t, iss, blockschema.CodeAdditionalProperty)
	// When if passes, a is evaluated.
	schemaPass := `{
		"if":{"properties":{"a":{"const":1}}},
		"unevaluatedProperties":false
	}`
	if iss := check(t, schemaPass, `{"a":1}`); len(iss) != 0 {
		t.Fatalf("if branch evaluations should count: %v", iss)
	}
}

func TestUnevaluatedProperties_RunsAfterInPlaceKeywords(t *testing.T) {
	schemaSrc := `{
		"properties":{"a":{}},
		"allOf":[{"properties":{"b":{}}}],
		"unevaluatedProperties":{"type":"string"}
	}`
	// a and b are evaluated; c must be a string.
	if iss := check(t, schemaSrc, `{"a":1,"b":2,"c":"ok"}`); len(iss) != 0 {
		t.Fatalf("string leftovers pass: %v", iss)
	}
	iss := check(t, schemaSrc, `{"a":1,"b":2,"c":3}`)
	wantCodes(t, iss, blockschema.CodeTypeMismatch)
	if iss[0].Path != ".c" {
		t.Fatalf("expected .c, got %s", iss[0].Path)
	}
}

func TestUnevaluatedItems(t *testing.T) {
	schemaSrc := `{"prefixItems":[{"type":"string"}],"unevaluatedItems":false}`
	if iss := check(t, schemaSrc, `["a"]`); len(iss) != 0 {
		t.Fatalf("fully covered array passes: %v", iss)
	}
	iss := check(t, schemaSrc, `["a",2]`)
	wantCodes(t, iss, blockschema.CodeAdditionalProperty)
	if iss[0].Path != "[1]" {
		t.Fatalf("expected [1], got %s", iss[0].Path)
	}
	// Contains matches earn evaluated credit.
	schemaContains := `{"contains":{"type":"number"},"unevaluatedItems":false}`
	if iss := check(t, schemaContains, `[1,2]`); len(iss) != 0 {
		t.Fatalf("all items matched contains: %v", iss)
	}
	wantCodes(t, check(t, schemaContains, `[1,"x"]`), blockschema.CodeAdditionalProperty)
}
