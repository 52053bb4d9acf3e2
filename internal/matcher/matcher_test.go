package matcher

import (
	"testing"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  INV-001 ", "inv-001"},
		{"'00123", "123"},
		{"00123", "123"},
		{"000", "0"},
		{"00A1", "00a1"}, // not purely numeric, zeros stay
		{"", ""},
		{"ABC", "abc"},
	}

	for _, tt := range tests {
		if got := NormalizeKey(tt.input); got != tt.expected {
			t.Errorf("NormalizeKey(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestExact(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"INV-001", "inv-001", true},
		{"'00123", "123", true},
		{"INV-001", "INV-002", false},
		{"INV-001", "INV001", false},
	}

	for _, tt := range tests {
		if got := Exact(tt.a, tt.b); got != tt.expected {
			t.Errorf("Exact(%q, %q) = %v, expected %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if s := Similarity("INV-001", "inv-001"); s != 1.0 {
		t.Errorf("identical normalized keys should score 1.0, got %v", s)
	}

	// "inv-001" vs "inv001": one deletion over seven runes.
	s := Similarity("INV-001", "INV001")
	expected := 1.0 - 1.0/7.0
	if s < expected-0.0001 || s > expected+0.0001 {
		t.Errorf("Similarity(INV-001, INV001) = %v, expected about %v", s, expected)
	}

	if s := Similarity("abc", "xyz"); s != 0.0 {
		t.Errorf("disjoint keys should score 0.0, got %v", s)
	}
}

func TestFuzzy(t *testing.T) {
	matched, score := Fuzzy("INV-001", "INV001", 0.85)
	if !matched {
		t.Errorf("expected match at threshold 0.85, score was %v", score)
	}

	matched, _ = Fuzzy("INV-001", "INV001", 0.95)
	if matched {
		t.Error("did not expect match at threshold 0.95")
	}

	// Threshold 1.0 admits only exact normalized equality.
	matched, score = Fuzzy("INV-001", "inv-001", 1.0)
	if !matched || score != 1.0 {
		t.Errorf("identical normalized keys must pass threshold 1.0, got %v/%v", matched, score)
	}
}
