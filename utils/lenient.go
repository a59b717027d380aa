package utils

import (
	"encoding/json"
	"strings"

	"github.com/meridaco/catalogbackend/dto"
)

// DecodeArrayLenient decodes a JSON-encoded array form field best-effort: the
// raw value may be the array itself or a JSON string wrapping the array
// (clients double-encode when re-submitting fetched data). Any failure,
// including malformed JSON, yields an empty slice, never an error. Malformed
// structured input is treated as absence by contract; callers must not turn
// it into a validation failure.
func DecodeArrayLenient[T any](raw string) []T {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []T{}
	}

	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err == nil && out != nil {
		return out
	}

	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err == nil {
		out = nil
		if err := json.Unmarshal([]byte(inner), &out); err == nil && out != nil {
			return out
		}
	}

	return []T{}
}

// DecodeMapLenient is the object-field twin of DecodeArrayLenient, used for
// the opaque metadata blobs.
func DecodeMapLenient(raw string) map[string]interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out
	}

	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err == nil {
		if err := json.Unmarshal([]byte(inner), &out); err == nil {
			return out
		}
	}

	return nil
}

// FilterVariants keeps only variants that are actually sellable: non-empty
// name and sku, and both price and stock present. Everything else is dropped
// without error; the create endpoint must not reject a product because one
// variant row was half-filled.
func FilterVariants(variants []dto.VariantDTO) []dto.VariantDTO {
	kept := make([]dto.VariantDTO, 0, len(variants))
	for _, v := range variants {
		if strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.Sku) == "" {
			continue
		}
		if v.Price == nil || v.Stock == nil {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}
