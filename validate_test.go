package blockschema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	blockschema "github.com/reoring/blockschema"
)

func mustJSON(t *testing.T, src string) blockschema.Json {
	t.Helper()
	doc, err := blockschema.FromJSONBytes([]byte(src))
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return doc
}

func mustSchema(t *testing.T, src string) *blockschema.Schema {
	t.Helper()
	return blockschema.SchemaFromJSON(mustJSON(t, src))
}

func check(t *testing.T, schemaSrc, docSrc string) blockschema.Issues {
	t.Helper()
	s := mustSchema(t, schemaSrc)
	return blockschema.Validate(s, mustJSON(t, docSrc), blockschema.RegistryFor(s))
}

func wantCodes(t *testing.T, iss blockschema.Issues, codes ...string) {
	t.Helper()
	if len(iss) != len(codes) {
		t.Fatalf("expected %d issues %v, got %d: %v", len(codes), codes, len(iss), iss)
	}
	for i, c := range codes {
		if iss[i].Code != c {
			t.Fatalf("issue %d: expected code %s, got %s (%v)", i, c, iss[i].Code, iss)
		}
	}
}

func TestValidate_EmptySchemaAcceptsEverything(t *testing.T) {
	for _, doc := range []string{`null`, `true`, `5`, `"x"`, `[1,2]`, `{"a":1}`} {
		if iss := check(t, `{}`, doc); len(iss) != 0 {
			t.Fatalf("empty schema rejected %s: %v", doc, iss)
		}
	}
}

func TestValidate_BooleanSchemas(t *testing.T) {
	s := blockschema.TrueSchema()
	if iss := blockschema.Validate(s, mustJSON(t, `{"a":1}`), blockschema.RegistryFor(s)); len(iss) != 0 {
		t.Fatalf("true schema rejected: %v", iss)
	}
	f := blockschema.FalseSchema()
	iss := blockschema.Validate(f, mustJSON(t, `1`), blockschema.RegistryFor(f))
	wantCodes(t, iss, blockschema.CodeConstraintViolation)
}

func TestValidate_TypeKeyword(t *testing.T) {
	iss := check(t, `{"type":"string"}`, `5`)
	wantCodes(t, iss, blockschema.CodeTypeMismatch)
	if iss := check(t, `{"type":["string","null"]}`, `null`); len(iss) != 0 {
		t.Fatalf("union type rejected null: %v", iss)
	}
	// Whole-valued numbers satisfy integer; integers satisfy number.
	if iss := check(t, `{"type":"integer"}`, `2.0`); len(iss) != 0 {
		t.Fatalf("2.0 should satisfy integer: %v", iss)
	}
	wantCodes(t, check(t, `{"type":"integer"}`, `2.5`), blockschema.CodeTypeMismatch)
	if iss := check(t, `{"type":"number"}`, `7`); len(iss) != 0 {
		t.Fatalf("7 should satisfy number: %v", iss)
	}
}

func TestValidate_EnumAndConst(t *testing.T) {
	wantCodes(t, check(t, `{"enum":["a","b"]}`, `"c"`), blockschema.CodeNotInEnum)
	if iss := check(t, `{"enum":["a","b"]}`, `"b"`); len(iss) != 0 {
		t.Fatalf("enum member rejected: %v", iss)
	}
	wantCodes(t, check(t, `{"const":3}`, `4`), blockschema.CodeConstMismatch)
	if iss := check(t, `{"const":3}`, `3.0`); len(iss) != 0 {
		t.Fatalf("const compares numerically: %v", iss)
	}
}

func TestValidate_NumberBounds(t *testing.T) {
	wantCodes(t, check(t, `{"minimum":3}`, `2`), blockschema.CodeMinimumViolated)
	if iss := check(t, `{"minimum":3}`, `3`); len(iss) != 0 {
		t.Fatalf("minimum is inclusive: %v", iss)
	}
	wantCodes(t, check(t, `{"exclusiveMinimum":3}`, `3`), blockschema.CodeMinimumViolated)
	wantCodes(t, check(t, `{"maximum":3}`, `4`), blockschema.CodeMaximumViolated)
	wantCodes(t, check(t, `{"exclusiveMaximum":3}`, `3`), blockschema.CodeMaximumViolated)
	wantCodes(t, check(t, `{"multipleOf":0.1}`, `0.25`), blockschema.CodeMultipleOfViolated)
	if iss := check(t, `{"multipleOf":0.1}`, `0.3`); len(iss) != 0 {
		t.Fatalf("0.3 is an exact multiple of 0.1: %v", iss)
	}
}

func TestValidate_StringKeywords(t *testing.T) {
	// Length counts codepoints.
	if iss := check(t, `{"minLength":3,"maxLength":3}`, `"日本語"`); len(iss) != 0 {
		t.Fatalf("codepoint length: %v", iss)
	}
	wantCodes(t, check(t, `{"minLength":2}`, `"a"`), blockschema.CodeLengthViolated)
	wantCodes(t, check(t, `{"maxLength":1}`, `"ab"`), blockschema.CodeLengthViolated)
	// Contains-a-match semantics, not anchored.
	if iss := check(t, `{"pattern":"b+"}`, `"abbc"`); len(iss) != 0 {
		t.Fatalf("unanchored pattern should match: %v", iss)
	}
	wantCodes(t, check(t, `{"pattern":"z+"}`, `"abc"`), blockschema.CodePatternMismatch)
	// Malformed pattern degrades to a constraint violation, not a crash.
	wantCodes(t, check(t, `{"pattern":"["}`, `"abc"`), blockschema.CodeConstraintViolation)
	wantCodes(t, check(t, `{"format":"ipv4"}`, `"256.1.1.1"`), blockschema.CodeFormatInvalid)
	if iss := check(t, `{"format":"no-such-format"}`, `"anything"`); len(iss) != 0 {
		t.Fatalf("unknown formats are vacuously valid: %v", iss)
	}
}

func TestValidate_RefSiblingKeywordsStillApply(t *testing.T) {
	schemaSrc := `{"$defs":{"Name":{"type":"string"}},"$ref":"#/$defs/Name","minLength":3}`
	iss := check(t, schemaSrc, `"ab"`)
	wantCodes(t, iss, blockschema.CodeLengthViolated)
	wantCodes(t, check(t, schemaSrc, `5`), blockschema.CodeTypeMismatch)
}

func TestValidate_RefNotResolved(t *testing.T) {
	iss := check(t, `{"$ref":"#/$defs/Missing"}`, `1`)
	wantCodes(t, iss, blockschema.CodeRefNotResolved)
}

func TestValidate_Idempotent(t *testing.T) {
	schemaSrc := `{"type":"object","properties":{"a":{"type":"string"}},"required":["a","b"]}`
	docSrc := `{"a":5}`
	first := check(t, schemaSrc, docSrc)
	second := check(t, schemaSrc, docSrc)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("validation is not idempotent (-first +second):\n%s", diff)
	}
}

func TestValidate_MaxDepthGuard(t *testing.T) {
	s := mustSchema(t, `{"items":{"$ref":"#"}}`)
	doc := mustJSON(t, `[[[[[1]]]]]`)
	iss := blockschema.Validate(s, doc, blockschema.RegistryFor(s), blockschema.ValidateOpt{MaxDepth: 3})
	if len(iss) == 0 {
		t.Fatalf("expected depth guard to fire")
	}
	for _, it := range iss {
		if it.Code != blockschema.CodeConstraintViolation {
			t.Fatalf("expected constraint_violation, got %s", it.Code)
		}
	}
}

func TestValidate_PathRendering(t *testing.T) {
	iss := check(t, `{"properties":{"items":{"items":{"type":"string"}}}}`, `{"items":[1]}`)
	wantCodes(t, iss, blockschema.CodeTypeMismatch)
	if iss[0].Path != ".items[0]" {
		t.Fatalf("expected path .items[0], got %s", iss[0].Path)
	}
}
