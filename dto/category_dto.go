package dto

// CategoryTranslationDTO arrives inside the JSON-encoded "translations"
// multipart field.
type CategoryTranslationDTO struct {
	Language    string `json:"language"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DeleteCategoriesDTO is the bulk-delete body. The admin UI only knows slugs,
// so that is the wire identifier; the handler resolves them to ids.
type DeleteCategoriesDTO struct {
	Slugs []string `json:"slugs" binding:"required,min=1"`
}
