package dto

import (
	"encoding/json"
	"strings"
)

// AttributeValue absorbs the three encodings a variant attribute value shows
// up in on the wire: a plain string, a structured {"name":...,"value":...}
// object, or a string that itself contains that object JSON-encoded. It
// normalizes all of them to the inner plain string and never fails; anything
// unreadable becomes "".
type AttributeValue string

type attributePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (v *AttributeValue) UnmarshalJSON(b []byte) error {
	var pair attributePair
	if err := json.Unmarshal(b, &pair); err == nil {
		*v = AttributeValue(pair.Value)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*v = ""
		return nil
	}
	if trimmed := strings.TrimSpace(s); strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &pair); err == nil {
			*v = AttributeValue(pair.Value)
			return nil
		}
	}
	*v = AttributeValue(s)
	return nil
}

func (v AttributeValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

func (v AttributeValue) String() string { return string(v) }

type VariantAttributeDTO struct {
	Name  string         `json:"name"`
	Value AttributeValue `json:"value"`
}

type VariantTranslationDTO struct {
	Language string `json:"language"`
	Name     string `json:"name"`
}

// VariantDTO uses pointers for price and stock so "missing" is distinguishable
// from zero; the create path drops variants where either is missing.
type VariantDTO struct {
	Slug         string                  `json:"slug"`
	Name         string                  `json:"name"`
	Sku          string                  `json:"sku"`
	Price        *float64                `json:"price"`
	Stock        *int                    `json:"stock"`
	Attributes   []VariantAttributeDTO   `json:"attributes"`
	Translations []VariantTranslationDTO `json:"translations"`
}

type PackageDTO struct {
	Length  float64 `json:"length"`
	Breadth float64 `json:"breadth"`
	Width   float64 `json:"width"`
	Unit    string  `json:"unit"`
}

type ProductTranslationDTO struct {
	Language        string `json:"language"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	SeoTitle        string `json:"seoTitle"`
	SeoDescription  string `json:"seoDescription"`
	DescriptionJson string `json:"descriptionJson"`
}

// BulkProductUpdateDTO is one element of the PUT /admin/products body. Only
// flat commerce fields are bulk-updatable; nested collections go through the
// single-product multipart route.
type BulkProductUpdateDTO struct {
	Id       string   `json:"id" binding:"required"`
	Price    *float64 `json:"price,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
	Status   *string  `json:"status,omitempty"`
	Currency *string  `json:"currency,omitempty"`
}

type DeleteProductsDTO struct {
	Ids []string `json:"ids" binding:"required,min=1"`
}
