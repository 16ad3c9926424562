package platform

import (
	"strings"
	"testing"
)

func TestNormalizeAliases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Platform
	}{
		{name: "canonical passthrough", input: "instagram", expected: Instagram},
		{name: "capitalized", input: "Instagram", expected: Instagram},
		{name: "x alias", input: "x", expected: Twitter},
		{name: "x alias uppercase", input: "X", expected: Twitter},
		{name: "ig alias", input: "ig", expected: Instagram},
		{name: "IG alias mixed case", input: "IG", expected: Instagram},
		{name: "fb alias", input: "fb", expected: Facebook},
		{name: "yt alias", input: "yt", expected: YouTube},
		{name: "threads folds into instagram", input: "threads", expected: Instagram},
		{name: "whitespace trimmed", input: "  twitter  ", expected: Twitter},
		{name: "mixed case canonical", input: "TikTok", expected: TikTok},
		{name: "linkedin camel", input: "LinkedIn", expected: LinkedIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeUnknownPassesThrough(t *testing.T) {
	got := Normalize("  MySpace ")
	if got != Platform("myspace") {
		t.Errorf("Normalize unknown = %q, want %q", got, "myspace")
	}
}

func TestNormalizeIsIdempotentOnCanonicalTokens(t *testing.T) {
	for _, p := range All {
		if got := Normalize(string(p)); got != p {
			t.Errorf("Normalize(%q) = %q, want identity", p, got)
		}
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	for _, s := range []string{"", " ", "???", "Bluesky", "  WhatsApp  "} {
		got := Normalize(s)
		// Unknowns come back lowercased and trimmed, never dropped.
		want := Platform(strings.ToLower(strings.TrimSpace(s)))
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", s, got, want)
		}
	}
}

func TestIsCanonical(t *testing.T) {
	for _, p := range All {
		if !IsCanonical(p) {
			t.Errorf("IsCanonical(%q) = false, want true", p)
		}
	}
	for _, p := range []Platform{"", "myspace", "Instagram"} {
		if IsCanonical(p) {
			t.Errorf("IsCanonical(%q) = true, want false", p)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(Twitter); got != "X (Twitter)" {
		t.Errorf("DisplayName(twitter) = %q", got)
	}
	if got := DisplayName(Platform("myspace")); got != "Myspace" {
		t.Errorf("DisplayName(myspace) = %q", got)
	}
}
