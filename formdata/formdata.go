// Package formdata builds the multipart payloads the catalog admin API
// expects. It is the client half of the submission pipeline: admin tooling
// fills a form struct, EncodeProductForm/EncodeCategoryForm flatten it into
// multipart fields (scalars as strings, structured collections as one
// JSON-encoded field each, files as repeated parts under one key), and the
// server's handlers parse it back.
//
// Encoding is deterministic: the same logical form always serializes to the
// same bytes (fixed field order, fixed boundary, sorted JSON map keys), so a
// retried request is byte-identical to the original.
package formdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/meridaco/catalogbackend/dto"
)

// boundary is fixed so that encoding is reproducible. multipart boundaries
// only need to not collide with the payload; image bytes containing this
// exact marker are not a realistic concern.
const boundary = "catalogform9c3e8d1a74b25f60"

// File is one file part of a submission.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// ProductForm is the typed client-side model of a product submission.
// PrimaryImageIndex is client-only UI state and is never transmitted.
type ProductForm struct {
	Name       string
	Currency   string
	Price      float64
	Stock      int
	Sku        string
	Weight     float64
	WeightUnit string
	Status     string
	CategoryId string

	Packages       []dto.PackageDTO
	VariantFields  []string
	Variants       []dto.VariantDTO
	Translations   []dto.ProductTranslationDTO
	Metadata       map[string]interface{}
	BundleMetadata map[string]interface{}

	ImageAlts         []string
	RemovedImagesUrls []string

	Images []File

	PrimaryImageIndex int
}

// CategoryForm is the typed client-side model of a category submission.
type CategoryForm struct {
	Name         string
	ParentId     string
	ImageUrl     string
	Translations []dto.CategoryTranslationDTO

	Image *File
}

func writeField(w *multipart.Writer, name, value string) error {
	if value == "" {
		return nil
	}
	return w.WriteField(name, value)
}

func writeJSONField(w *multipart.Writer, name string, value interface{}, present bool) error {
	if !present {
		return nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return w.WriteField(name, string(encoded))
}

func writeFilePart(w *multipart.Writer, field string, f File) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, escapeQuotes(f.Name)))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(f.Content)
	return err
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// EncodeProductForm serializes the form into a multipart body and returns the
// body together with the Content-Type header value to send it under.
func EncodeProductForm(f ProductForm) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(boundary); err != nil {
		return nil, "", err
	}

	// Scalars, fixed order
	if err := writeField(w, "name", f.Name); err != nil {
		return nil, "", err
	}
	if err := writeField(w, "currency", f.Currency); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("price", formatFloat(f.Price)); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("stock", strconv.Itoa(f.Stock)); err != nil {
		return nil, "", err
	}
	if err := writeField(w, "sku", f.Sku); err != nil {
		return nil, "", err
	}
	if f.Weight != 0 {
		if err := w.WriteField("weight", formatFloat(f.Weight)); err != nil {
			return nil, "", err
		}
	}
	if err := writeField(w, "weightUnit", f.WeightUnit); err != nil {
		return nil, "", err
	}
	if err := writeField(w, "status", f.Status); err != nil {
		return nil, "", err
	}
	if err := writeField(w, "categoryId", f.CategoryId); err != nil {
		return nil, "", err
	}

	// Structured collections, one JSON field each
	if err := writeJSONField(w, "packages", f.Packages, f.Packages != nil); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "variantFields", f.VariantFields, f.VariantFields != nil); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "variants", f.Variants, f.Variants != nil); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "ProductTranslations", f.Translations, f.Translations != nil); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "metadata", f.Metadata, f.Metadata != nil); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "bundleMetadata", f.BundleMetadata, f.BundleMetadata != nil); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "imageAlts", f.ImageAlts, f.ImageAlts != nil); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "removedImagesUrls", f.RemovedImagesUrls, f.RemovedImagesUrls != nil); err != nil {
		return nil, "", err
	}

	// Files last, repeated key so the server sees them as an ordered array
	for _, img := range f.Images {
		if err := writeFilePart(w, "images", img); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// EncodeCategoryForm serializes a category submission.
func EncodeCategoryForm(f CategoryForm) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(boundary); err != nil {
		return nil, "", err
	}

	if err := writeField(w, "name", f.Name); err != nil {
		return nil, "", err
	}
	if err := writeField(w, "parentId", f.ParentId); err != nil {
		return nil, "", err
	}
	if err := writeField(w, "imageUrl", f.ImageUrl); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "translations", f.Translations, f.Translations != nil); err != nil {
		return nil, "", err
	}

	if f.Image != nil {
		if err := writeFilePart(w, "image", *f.Image); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
