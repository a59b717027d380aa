package utils

import (
	"reflect"
	"testing"

	"github.com/meridaco/catalogbackend/dto"
)

func TestDecodeArrayLenient(t *testing.T) {
	t.Run("plain array", func(t *testing.T) {
		got := DecodeArrayLenient[string](`["a","b"]`)
		if !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("double encoded", func(t *testing.T) {
		got := DecodeArrayLenient[string](`"[\"a\",\"b\"]"`)
		if !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("structured objects", func(t *testing.T) {
		got := DecodeArrayLenient[dto.PackageDTO](`[{"length":1,"breadth":2,"width":3,"unit":"cm"}]`)
		if len(got) != 1 || got[0].Breadth != 2 {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("malformed json yields empty not error", func(t *testing.T) {
		for _, raw := range []string{`{not json`, `[1,2`, `"unterminated`, `true`, `42`, `null`} {
			got := DecodeArrayLenient[string](raw)
			if got == nil || len(got) != 0 {
				t.Errorf("DecodeArrayLenient(%q) = %v, want empty slice", raw, got)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := DecodeArrayLenient[string](""); len(got) != 0 {
			t.Fatalf("got %v", got)
		}
		if got := DecodeArrayLenient[string]("   "); len(got) != 0 {
			t.Fatalf("got %v", got)
		}
	})
}

func TestDecodeMapLenient(t *testing.T) {
	got := DecodeMapLenient(`{"a":1,"b":"x"}`)
	if got["b"] != "x" {
		t.Fatalf("got %v", got)
	}

	if got := DecodeMapLenient(`{broken`); got != nil {
		t.Fatalf("malformed input should yield nil, got %v", got)
	}
	if got := DecodeMapLenient(""); got != nil {
		t.Fatalf("empty input should yield nil, got %v", got)
	}

	// double-encoded object
	got = DecodeMapLenient(`"{\"k\":\"v\"}"`)
	if got["k"] != "v" {
		t.Fatalf("got %v", got)
	}
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

func TestFilterVariants(t *testing.T) {
	variants := []dto.VariantDTO{
		{Name: "Red / L", Sku: "R-L", Price: floatPtr(10), Stock: intPtr(3)},
		{Name: "", Sku: "NO-NAME", Price: floatPtr(10), Stock: intPtr(3)},
		{Name: "No SKU", Sku: "  ", Price: floatPtr(10), Stock: intPtr(3)},
		{Name: "No Price", Sku: "NP", Stock: intPtr(3)},
		{Name: "No Stock", Sku: "NS", Price: floatPtr(10)},
		{Name: "Zero is fine", Sku: "Z", Price: floatPtr(0), Stock: intPtr(0)},
	}

	kept := FilterVariants(variants)
	if len(kept) != 2 {
		t.Fatalf("kept %d variants, want 2: %+v", len(kept), kept)
	}
	if kept[0].Sku != "R-L" || kept[1].Sku != "Z" {
		t.Fatalf("wrong variants kept: %+v", kept)
	}
}
