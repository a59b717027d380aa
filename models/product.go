package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "DRAFT"
	ProductStatusPublished ProductStatus = "PUBLISHED"
	ProductStatusArchived  ProductStatus = "ARCHIVED"
)

func IsValidProductStatus(s ProductStatus) bool {
	switch s {
	case ProductStatusDraft, ProductStatusPublished, ProductStatusArchived:
		return true
	}
	return false
}

type WeightUnit string

const (
	WeightUnitKG WeightUnit = "KG"
	WeightUnitG  WeightUnit = "G"
	WeightUnitLB WeightUnit = "LB"
	WeightUnitOZ WeightUnit = "OZ"
)

func IsValidWeightUnit(u WeightUnit) bool {
	switch u {
	case WeightUnitKG, WeightUnitG, WeightUnitLB, WeightUnitOZ:
		return true
	}
	return false
}

// ProductImage keeps the submission order via Position; Position is the index
// of the file part in the multipart request that created or replaced it.
type ProductImage struct {
	Url      string `bson:"url" json:"url"`
	AltText  string `bson:"altText,omitempty" json:"altText,omitempty"`
	Position int    `bson:"position" json:"position"`
}

// ProductPackage is a shipping box.
type ProductPackage struct {
	Length  float64 `bson:"length" json:"length"`
	Breadth float64 `bson:"breadth" json:"breadth"`
	Width   float64 `bson:"width" json:"width"`
	Unit    string  `bson:"unit" json:"unit"`
}

type ProductTranslation struct {
	Language        string `bson:"language" json:"language"`
	Name            string `bson:"name" json:"name"`
	Description     string `bson:"description,omitempty" json:"description,omitempty"`
	SeoTitle        string `bson:"seoTitle,omitempty" json:"seoTitle,omitempty"`
	SeoDescription  string `bson:"seoDescription,omitempty" json:"seoDescription,omitempty"`
	DescriptionJson string `bson:"descriptionJson,omitempty" json:"descriptionJson,omitempty"`
}

// VariantAttribute is one axis/value pair of a variant. Value is always the
// plain string form; the wire-level encoding variants are normalized on
// ingress (see dto.AttributeValue).
type VariantAttribute struct {
	Name  string `bson:"name" json:"name"`
	Value string `bson:"value" json:"value"`
}

type VariantTranslation struct {
	Language string `bson:"language" json:"language"`
	Name     string `bson:"name" json:"name"`
}

// ProductVariant is a purchasable configuration with its own SKU, price and
// stock.
type ProductVariant struct {
	Slug         string               `bson:"slug" json:"slug"`
	Name         string               `bson:"name" json:"name"`
	Sku          string               `bson:"sku" json:"sku"`
	Price        float64              `bson:"price" json:"price"`
	Stock        int                  `bson:"stock" json:"stock"`
	Attributes   []VariantAttribute   `bson:"attributes" json:"attributes"`
	Translations []VariantTranslation `bson:"translations,omitempty" json:"translations,omitempty"`
}

// Product embeds all of its owned collections so that a create or wholesale
// update is a single document write.
type Product struct {
	Id         bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Slug       string         `bson:"slug" json:"slug"`
	CategoryId *bson.ObjectID `bson:"categoryId,omitempty" json:"categoryId,omitempty"`

	Currency   string        `bson:"currency" json:"currency"`
	Price      float64       `bson:"price" json:"price"`
	Stock      int           `bson:"stock" json:"stock"`
	Sku        string        `bson:"sku,omitempty" json:"sku,omitempty"`
	Weight     float64       `bson:"weight,omitempty" json:"weight,omitempty"`
	WeightUnit WeightUnit    `bson:"weightUnit,omitempty" json:"weightUnit,omitempty"`
	Status     ProductStatus `bson:"status" json:"status"`

	Images        []ProductImage       `bson:"images" json:"images"`
	Packages      []ProductPackage     `bson:"packages" json:"packages"`
	VariantFields []string             `bson:"variantFields" json:"variantFields"`
	Variants      []ProductVariant     `bson:"variants" json:"variants"`
	Translations  []ProductTranslation `bson:"translations" json:"translations"`

	Metadata       bson.M `bson:"metadata,omitempty" json:"metadata,omitempty"`
	BundleMetadata bson.M `bson:"bundleMetadata,omitempty" json:"bundleMetadata,omitempty"`

	// Filled on single-product reads, never persisted.
	Category *Category `bson:"-" json:"category,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ImageUrls flattens the ordered image list, mostly for storage cleanup.
func (p Product) ImageUrls() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.Url)
	}
	return urls
}
