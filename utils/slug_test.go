package utils

import "testing"

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Red Chair", "red-chair"},
		{"accents", "Café Crème", "cafe-creme"},
		{"mixed punctuation", "A & B / C!", "a-b-c"},
		{"leading trailing junk", "  --Hello World--  ", "hello-world"},
		{"collapse runs", "a   ...   b", "a-b"},
		{"numbers", "Box 2000 XL", "box-2000-xl"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"punctuation only", "!!! ??? ...", ""},
		{"already a slug", "red-chair", "red-chair"},
		{"uppercase", "SHOUTING", "shouting"},
		{"unicode letters dropped", "日本語 chair", "chair"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GenerateSlug(tc.in)
			if got != tc.want {
				t.Fatalf("GenerateSlug(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestGenerateSlugIdempotent(t *testing.T) {
	inputs := []string{
		"Red Chair", "Café Crème", "a&b", "", "   ", "!!!", "ALL CAPS 42",
		"Ünïcödé Nàmé", "trailing-", "-leading", "double--hyphen",
	}
	for _, in := range inputs {
		once := GenerateSlug(in)
		twice := GenerateSlug(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
