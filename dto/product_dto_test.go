package dto

import (
	"encoding/json"
	"testing"
)

func TestAttributeValueUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"Red"`, "Red"},
		{"structured object", `{"name":"Color","value":"Red"}`, "Red"},
		{"json encoded pair in string", `"{\"name\":\"Color\",\"value\":\"Red\"}"`, "Red"},
		{"empty string", `""`, ""},
		{"number never fails", `42`, ""},
		{"object with missing value", `{"name":"Color"}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v AttributeValue
			if err := json.Unmarshal([]byte(tc.raw), &v); err != nil {
				t.Fatalf("unmarshal %q returned error: %v", tc.raw, err)
			}
			if v.String() != tc.want {
				t.Fatalf("unmarshal %q = %q, want %q", tc.raw, v, tc.want)
			}
		})
	}
}

func TestVariantAttributeRoundTrip(t *testing.T) {
	in := `[{"name":"Color","value":"Red"},{"name":"Size","value":{"name":"Size","value":"L"}}]`
	var attrs []VariantAttributeDTO
	if err := json.Unmarshal([]byte(in), &attrs); err != nil {
		t.Fatal(err)
	}
	if attrs[0].Value.String() != "Red" || attrs[1].Value.String() != "L" {
		t.Fatalf("normalization failed: %+v", attrs)
	}

	// Once normalized, marshaling always produces the plain encoding
	out, err := json.Marshal(attrs)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"name":"Color","value":"Red"},{"name":"Size","value":"L"}]`
	if string(out) != want {
		t.Fatalf("got %s, want %s", out, want)
	}
}
