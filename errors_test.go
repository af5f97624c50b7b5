package blockschema_test

import (
	"fmt"
	"strings"
	"testing"

	blockschema "github.com/reoring/blockschema"
)

func TestIssues_ErrorSummarizesFirstFew(t *testing.T) {
	iss := blockschema.Issues{
		{Code: blockschema.CodeTypeMismatch, Path: ".a"},
		{Code: blockschema.CodeRequiredMissing, Path: ".b"},
		{Code: blockschema.CodeNotInEnum, Path: ".c"},
		{Code: blockschema.CodeFormatInvalid, Path: ".d"},
	}
	msg := iss.Error()
	if !strings.Contains(msg, "type_mismatch at .a") {
		t.Fatalf("missing first issue: %q", msg)
	}
	if strings.Contains(msg, ".d") {
		t.Fatalf("summary should stop after three issues: %q", msg)
	}
	if !strings.Contains(msg, "total 4") {
		t.Fatalf("summary should report the total: %q", msg)
	}
	if (blockschema.Issues{}).Error() != "" {
		t.Fatalf("empty issues render as empty string")
	}
}

func TestAsIssues(t *testing.T) {
	iss := blockschema.Issues{{Code: blockschema.CodeRefNotResolved}}
	wrapped := fmt.Errorf("resolving: %w", iss)
	got, ok := blockschema.AsIssues(wrapped)
	if !ok || len(got) != 1 {
		t.Fatalf("AsIssues should unwrap, got %v %v", got, ok)
	}
	if _, ok := blockschema.AsIssues(fmt.Errorf("plain")); ok {
		t.Fatalf("unrelated errors must not convert")
	}
	if _, ok := blockschema.AsIssues(nil); ok {
		t.Fatalf("nil is not Issues")
	}
}
