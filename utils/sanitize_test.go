package utils

import "testing"

func TestSanitizeMetadata_FoldsDiacritics(t *testing.T) {
	cases := map[string]string{
		"café":           "cafe",
		"über alles":     "uber alles",
		"señor Martínez": "senor Martinez",
		"crème brûlée":   "creme brulee",
	}
	for in, want := range cases {
		if got := SanitizeMetadata(in); got != want {
			t.Errorf("SanitizeMetadata(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeMetadata_ASCIIPassesThrough(t *testing.T) {
	in := "plain ASCII donation message 123"
	if got := SanitizeMetadata(in); got != in {
		t.Errorf("ASCII input mutated: %q", got)
	}
}

func TestSanitizeMetadata_Idempotent(t *testing.T) {
	inputs := []string{"café", "plain", "naïve — donation", "日本語 text"}
	for _, in := range inputs {
		once := SanitizeMetadata(in)
		twice := SanitizeMetadata(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSanitizeMetadata_DropsNonASCII(t *testing.T) {
	if got := SanitizeMetadata("日本語"); got != "" {
		t.Errorf("expected non-foldable runes dropped, got %q", got)
	}
	if got := SanitizeMetadata("a💙b"); got != "ab" {
		t.Errorf("expected emoji dropped, got %q", got)
	}
}
