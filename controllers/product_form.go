package controllers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meridaco/catalogbackend/dto"
	"github.com/meridaco/catalogbackend/models"
	"github.com/meridaco/catalogbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// productForm carries the raw multipart field values of a product submission.
// Structured collections stay as raw strings here; buildProductDocument
// lenient-parses them so that malformed JSON degrades to an empty collection
// instead of failing the request.
type productForm struct {
	Name       string
	Currency   string
	Price      float64
	Stock      int
	Sku        string
	Weight     float64
	WeightUnit string
	Status     string
	CategoryId *bson.ObjectID

	PackagesRaw       string
	VariantFieldsRaw  string
	VariantsRaw       string
	TranslationsRaw   string
	MetadataRaw       string
	BundleMetadataRaw string
	ImageAltsRaw      string
}

func productFormFromRequest(c *gin.Context) productForm {
	translations := c.PostForm("ProductTranslations")
	if translations == "" {
		translations = c.PostForm("translations")
	}

	return productForm{
		Name:       strings.TrimSpace(c.PostForm("name")),
		Currency:   strings.TrimSpace(c.PostForm("currency")),
		Price:      utils.ParseFloatDefault(c.PostForm("price"), 0),
		Stock:      utils.ParseIntDefault(c.PostForm("stock"), 0),
		Sku:        strings.TrimSpace(c.PostForm("sku")),
		Weight:     utils.ParseFloatDefault(c.PostForm("weight"), 0),
		WeightUnit: strings.TrimSpace(c.PostForm("weightUnit")),
		Status:     strings.TrimSpace(c.PostForm("status")),

		PackagesRaw:       c.PostForm("packages"),
		VariantFieldsRaw:  c.PostForm("variantFields"),
		VariantsRaw:       c.PostForm("variants"),
		TranslationsRaw:   translations,
		MetadataRaw:       c.PostForm("metadata"),
		BundleMetadataRaw: c.PostForm("bundleMetadata"),
		ImageAltsRaw:      c.PostForm("imageAlts"),
	}
}

func packagesFromRaw(raw string) []models.ProductPackage {
	parsed := utils.DecodeArrayLenient[dto.PackageDTO](raw)
	out := make([]models.ProductPackage, 0, len(parsed))
	for _, p := range parsed {
		out = append(out, models.ProductPackage{
			Length:  p.Length,
			Breadth: p.Breadth,
			Width:   p.Width,
			Unit:    p.Unit,
		})
	}
	return out
}

// variantsFromRaw lenient-parses, drops unsellable rows and fills slugs from
// names. Attribute values arrive in several encodings and are normalized to
// plain strings by dto.AttributeValue before they get here.
func variantsFromRaw(raw string) []models.ProductVariant {
	kept := utils.FilterVariants(utils.DecodeArrayLenient[dto.VariantDTO](raw))
	out := make([]models.ProductVariant, 0, len(kept))
	for _, v := range kept {
		slug := strings.TrimSpace(v.Slug)
		if slug == "" {
			slug = utils.GenerateSlug(v.Name)
		}

		attrs := make([]models.VariantAttribute, 0, len(v.Attributes))
		for _, a := range v.Attributes {
			if strings.TrimSpace(a.Name) == "" {
				continue
			}
			attrs = append(attrs, models.VariantAttribute{
				Name:  a.Name,
				Value: a.Value.String(),
			})
		}

		var translations []models.VariantTranslation
		for _, t := range v.Translations {
			if strings.TrimSpace(t.Language) == "" {
				continue
			}
			translations = append(translations, models.VariantTranslation{
				Language: t.Language,
				Name:     t.Name,
			})
		}

		out = append(out, models.ProductVariant{
			Slug:         slug,
			Name:         v.Name,
			Sku:          v.Sku,
			Price:        *v.Price,
			Stock:        *v.Stock,
			Attributes:   attrs,
			Translations: translations,
		})
	}
	return out
}

func productTranslationsFromRaw(raw string) []models.ProductTranslation {
	parsed := utils.DecodeArrayLenient[dto.ProductTranslationDTO](raw)
	seen := make(map[string]struct{}, len(parsed))
	out := make([]models.ProductTranslation, 0, len(parsed))
	for _, t := range parsed {
		lang := strings.TrimSpace(t.Language)
		if lang == "" {
			continue
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, models.ProductTranslation{
			Language:        lang,
			Name:            t.Name,
			Description:     t.Description,
			SeoTitle:        t.SeoTitle,
			SeoDescription:  t.SeoDescription,
			DescriptionJson: t.DescriptionJson,
		})
	}
	return out
}

// imagesFromUrls assigns positions from the submission index; alt texts align
// by index and any surplus is ignored.
func imagesFromUrls(urls []string, altsRaw string) []models.ProductImage {
	alts := utils.DecodeArrayLenient[string](altsRaw)
	images := make([]models.ProductImage, 0, len(urls))
	for i, u := range urls {
		img := models.ProductImage{Url: u, Position: i}
		if i < len(alts) {
			img.AltText = alts[i]
		}
		images = append(images, img)
	}
	return images
}

// buildProductDocument assembles the full aggregate from a parsed form and
// the already-uploaded image URLs. It enforces the create invariants (a name
// to derive the slug from, at least one image, valid enums) but never rejects
// over malformed structured fields or half-filled variants.
func buildProductDocument(in productForm, imageUrls []string) (models.Product, error) {
	if len(imageUrls) == 0 {
		return models.Product{}, &models.ValidationError{Msg: "at least one image is required"}
	}

	translations := productTranslationsFromRaw(in.TranslationsRaw)

	name := in.Name
	if name == "" && len(translations) > 0 {
		name = translations[0].Name
	}
	slug := utils.GenerateSlug(name)
	if slug == "" {
		return models.Product{}, &models.ValidationError{Msg: "product name is required"}
	}

	status := models.ProductStatus(strings.ToUpper(in.Status))
	if in.Status == "" {
		status = models.ProductStatusDraft
	} else if !models.IsValidProductStatus(status) {
		return models.Product{}, &models.ValidationError{Msg: "invalid product status"}
	}

	weightUnit := models.WeightUnit(strings.ToUpper(in.WeightUnit))
	if in.WeightUnit == "" {
		weightUnit = models.WeightUnitKG
	} else if !models.IsValidWeightUnit(weightUnit) {
		return models.Product{}, &models.ValidationError{Msg: "invalid weight unit"}
	}

	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	return models.Product{
		Slug:           slug,
		CategoryId:     in.CategoryId,
		Currency:       currency,
		Price:          in.Price,
		Stock:          in.Stock,
		Sku:            in.Sku,
		Weight:         in.Weight,
		WeightUnit:     weightUnit,
		Status:         status,
		Images:         imagesFromUrls(imageUrls, in.ImageAltsRaw),
		Packages:       packagesFromRaw(in.PackagesRaw),
		VariantFields:  utils.DecodeArrayLenient[string](in.VariantFieldsRaw),
		Variants:       variantsFromRaw(in.VariantsRaw),
		Translations:   translations,
		Metadata:       utils.DecodeMapLenient(in.MetadataRaw),
		BundleMetadata: utils.DecodeMapLenient(in.BundleMetadataRaw),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
