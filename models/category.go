package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CategoryTranslation holds the localized fields for one language. Uniqueness
// of (category, language) is enforced when the document is built, not by the
// database.
type CategoryTranslation struct {
	Language    string `bson:"language" json:"language"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

type Category struct {
	Id           bson.ObjectID         `bson:"_id,omitempty" json:"id"`
	Slug         string                `bson:"slug" json:"slug"`
	ParentId     *bson.ObjectID        `bson:"parentId,omitempty" json:"parentId,omitempty"`
	ImageUrl     string                `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Translations []CategoryTranslation `bson:"translations" json:"translations"`

	// Filled by list reads, never persisted.
	ProductCount int64 `bson:"-" json:"productCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Name returns the display name of the first translation, which is what the
// slug is derived from when no explicit name is submitted.
func (c Category) Name() string {
	if len(c.Translations) == 0 {
		return ""
	}
	return c.Translations[0].Name
}
