package controllers

import (
	"errors"
	"testing"

	"github.com/meridaco/catalogbackend/models"
)

func TestBuildProductDocumentRequiresImage(t *testing.T) {
	in := productForm{Name: "Desk Lamp"}

	_, err := buildProductDocument(in, nil)
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for zero images, got %v", err)
	}
}

func TestBuildProductDocumentVariantFiltering(t *testing.T) {
	in := productForm{
		Name: "Desk Lamp",
		VariantsRaw: `[
			{"name":"Black","sku":"DL-B","price":29.9,"stock":5},
			{"name":"","sku":"DL-X","price":29.9,"stock":5},
			{"name":"No Price","sku":"DL-NP","stock":5},
			{"name":"White","sku":"DL-W","price":31.5,"stock":0}
		]`,
	}

	p, err := buildProductDocument(in, []string{"https://cdn.example.com/b/products/desk-lamp/1.png"})
	if err != nil {
		t.Fatal(err)
	}

	if len(p.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d: %+v", len(p.Variants), p.Variants)
	}
	if p.Variants[0].Sku != "DL-B" || p.Variants[1].Sku != "DL-W" {
		t.Fatalf("wrong variants kept: %+v", p.Variants)
	}
	// slug fallback from the variant name
	if p.Variants[0].Slug != "black" || p.Variants[1].Slug != "white" {
		t.Fatalf("variant slug fallback failed: %+v", p.Variants)
	}
}

func TestBuildProductDocumentMalformedVariantsJSON(t *testing.T) {
	in := productForm{
		Name:        "Desk Lamp",
		VariantsRaw: `[{"name": "broken`,
	}

	p, err := buildProductDocument(in, []string{"https://cdn.example.com/b/products/desk-lamp/1.png"})
	if err != nil {
		t.Fatalf("malformed variants JSON must not fail the create: %v", err)
	}
	if len(p.Variants) != 0 {
		t.Fatalf("expected empty variant list, got %+v", p.Variants)
	}
}

func TestBuildProductDocumentDefaultsAndEnums(t *testing.T) {
	in := productForm{Name: "Desk Lamp"}
	p, err := buildProductDocument(in, []string{"u1"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Slug != "desk-lamp" {
		t.Fatalf("slug = %q", p.Slug)
	}
	if p.Status != models.ProductStatusDraft {
		t.Fatalf("default status = %q", p.Status)
	}
	if p.Currency != "USD" {
		t.Fatalf("default currency = %q", p.Currency)
	}
	if p.WeightUnit != models.WeightUnitKG {
		t.Fatalf("default weight unit = %q", p.WeightUnit)
	}

	in.Status = "SHINY"
	if _, err := buildProductDocument(in, []string{"u1"}); err == nil {
		t.Fatal("invalid status must be rejected")
	}

	in.Status = "published"
	p, err = buildProductDocument(in, []string{"u1"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != models.ProductStatusPublished {
		t.Fatalf("status = %q", p.Status)
	}
}

func TestBuildProductDocumentImagePositions(t *testing.T) {
	in := productForm{
		Name:         "Desk Lamp",
		ImageAltsRaw: `["front","side"]`,
	}
	urls := []string{"u0", "u1", "u2"}

	p, err := buildProductDocument(in, urls)
	if err != nil {
		t.Fatal(err)
	}

	if len(p.Images) != 3 {
		t.Fatalf("expected 3 images, got %d", len(p.Images))
	}
	for i, img := range p.Images {
		if img.Position != i {
			t.Errorf("image %d has position %d", i, img.Position)
		}
		if img.Url != urls[i] {
			t.Errorf("image %d has url %q", i, img.Url)
		}
	}
	if p.Images[0].AltText != "front" || p.Images[1].AltText != "side" || p.Images[2].AltText != "" {
		t.Fatalf("alt texts misaligned: %+v", p.Images)
	}
}

func TestBuildProductDocumentNameFromTranslations(t *testing.T) {
	in := productForm{
		TranslationsRaw: `[{"language":"en","name":"Oak Table"},{"language":"de","name":"Eichentisch"}]`,
	}

	p, err := buildProductDocument(in, []string{"u1"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Slug != "oak-table" {
		t.Fatalf("slug = %q", p.Slug)
	}
	if len(p.Translations) != 2 {
		t.Fatalf("translations = %+v", p.Translations)
	}
}

func TestVariantsFromRawNormalizesAttributes(t *testing.T) {
	raw := `[{
		"name":"Red / L","sku":"R-L","price":10,"stock":1,
		"attributes":[
			{"name":"Color","value":"Red"},
			{"name":"Size","value":"{\"name\":\"Size\",\"value\":\"L\"}"}
		]
	}]`

	variants := variantsFromRaw(raw)
	if len(variants) != 1 {
		t.Fatalf("got %+v", variants)
	}
	attrs := variants[0].Attributes
	if len(attrs) != 2 {
		t.Fatalf("got %+v", attrs)
	}
	if attrs[0].Value != "Red" || attrs[1].Value != "L" {
		t.Fatalf("attribute values not normalized: %+v", attrs)
	}
}
