package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("type_mismatch", nil); msg == "type_mismatch" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("type_mismatch", nil); msg == "type mismatch" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodePassesThrough(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown codes fall back to themselves, got %q", msg)
	}
}

type staticTranslator struct{}

func (staticTranslator) Message(code string, data map[string]string) string { return "boom" }

func TestTranslator_CustomTranslator(t *testing.T) {
	SetTranslator(staticTranslator{})
	if msg := T("type_mismatch", nil); msg != "boom" {
		t.Fatalf("custom translator ignored, got %q", msg)
	}
	// nil is a no-op
	SetTranslator(nil)
	if msg := T("type_mismatch", nil); msg != "boom" {
		t.Fatalf("nil translator must be ignored, got %q", msg)
	}
	SetLanguage("en")
}
