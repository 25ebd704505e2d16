package i18n

import "testing"

func TestDefaultEnglishMessages(t *testing.T) {
	if got := T("required", nil); got != "required property missing" {
		t.Fatalf("required = %q", got)
	}
	if got := T("too_short", nil); got != "too short" {
		t.Fatalf("too_short = %q", got)
	}
}

func TestJapaneseMessages(t *testing.T) {
	SetLanguage("ja")
	defer SetLanguage("en")
	if got := T("required", nil); got != "必須プロパティが不足しています" {
		t.Fatalf("required = %q", got)
	}
}

func TestUnknownCodeFallsBackToCode(t *testing.T) {
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("fallback = %q", got)
	}
}

type upperTranslator struct{}

func (upperTranslator) Message(code string, data map[string]string) string { return "!" + code }

func TestCustomTranslator(t *testing.T) {
	SetTranslator(upperTranslator{})
	defer SetTranslator(nil)
	if got := T("required", nil); got != "!required" {
		t.Fatalf("custom = %q", got)
	}
}
