package controllers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meridaco/catalogbackend/database"
	"github.com/meridaco/catalogbackend/dto"
	"github.com/meridaco/catalogbackend/models"
	"github.com/meridaco/catalogbackend/storage"
	"github.com/meridaco/catalogbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// categoryTranslationsFromForm lenient-parses the "translations" field and
// converts to the persisted shape, deduplicating by language (first entry
// wins).
func categoryTranslationsFromForm(raw string) []models.CategoryTranslation {
	parsed := utils.DecodeArrayLenient[dto.CategoryTranslationDTO](raw)
	seen := make(map[string]struct{}, len(parsed))
	out := make([]models.CategoryTranslation, 0, len(parsed))
	for _, t := range parsed {
		lang := strings.TrimSpace(t.Language)
		if lang == "" || strings.TrimSpace(t.Name) == "" {
			continue
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, models.CategoryTranslation{
			Language:    lang,
			Name:        strings.TrimSpace(t.Name),
			Description: t.Description,
		})
	}
	return out
}

// wouldCreateCycle walks the ancestor chain from newParent upward and reports
// whether it reaches catID. The visited set stops the walk if the stored tree
// already contains a loop.
func wouldCreateCycle(ctx context.Context, col *mongo.Collection, catID bson.ObjectID, newParent bson.ObjectID) (bool, error) {
	visited := map[bson.ObjectID]struct{}{}
	current := newParent
	for {
		if current == catID {
			return true, nil
		}
		if _, seen := visited[current]; seen {
			return true, nil
		}
		visited[current] = struct{}{}

		var parent struct {
			ParentId *bson.ObjectID `bson:"parentId"`
		}
		err := col.FindOne(ctx, bson.M{"_id": current}).Decode(&parent)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return false, nil
			}
			return false, err
		}
		if parent.ParentId == nil {
			return false, nil
		}
		current = *parent.ParentId
	}
}

func categoryImageFile(c *gin.Context) *multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	files := form.File["image"]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// POST /admin/categories (multipart: translations JSON field, optional name,
// parentId, image file)
func AddCategory(store storage.ObjectStore, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		translations := categoryTranslationsFromForm(c.PostForm("translations"))
		if len(translations) == 0 {
			respondError(c, &models.ValidationError{Msg: "at least one translation is required"})
			return
		}

		name := strings.TrimSpace(c.PostForm("name"))
		if name == "" {
			name = translations[0].Name
		}
		slug := utils.GenerateSlug(name)
		if slug == "" {
			respondError(c, &models.ValidationError{Msg: "name does not produce a valid slug"})
			return
		}

		var parentId *bson.ObjectID
		if raw := strings.TrimSpace(c.PostForm("parentId")); raw != "" {
			id, err := bson.ObjectIDFromHex(raw)
			if err != nil {
				respondError(c, &models.ValidationError{Msg: "invalid parent category id"})
				return
			}
			if err := col.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
				respondError(c, &models.NotFoundError{Resource: "category", Key: raw})
				return
			}
			parentId = &id
		}

		imageUrl := strings.TrimSpace(c.PostForm("imageUrl"))
		if fh := categoryImageFile(c); fh != nil {
			if _, err := v.ValidateFile(fh); err != nil {
				respondError(c, &models.ValidationError{Msg: err.Error()})
				return
			}
			url, err := store.Upload(ctx, storage.ImageKey("categories", slug, fh.Filename), fh)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			imageUrl = url
		}

		now := time.Now().UTC()
		doc := models.Category{
			Slug:         slug,
			ParentId:     parentId,
			ImageUrl:     imageUrl,
			Translations: translations,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := col.InsertOne(ctx, doc)
		if err != nil {
			if utils.IsDuplicateKey(err) {
				respondError(c, &models.ConflictError{Field: "slug", Msg: "slug already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		doc.Id = res.InsertedID.(bson.ObjectID)
		c.JSON(http.StatusCreated, doc)
	}
}

// GET /categories
func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")
		productsCol := database.OpenCollection("products")

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 50
		}
		if limit > 200 {
			limit = 200
		}
		skip := int64((page - 1) * limit)

		q := strings.TrimSpace(c.Query("q"))

		filter := bson.M{}
		if q != "" {
			filter["translations.name"] = bson.M{"$regex": q, "$options": "i"}
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "slug", Value: 1}})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Category, 0)
		for cursor.Next(ctx) {
			var cat models.Category
			if err := cursor.Decode(&cat); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, cat)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Per-category product membership count
		for i := range items {
			n, err := productsCol.CountDocuments(ctx, bson.M{"categoryId": items[i].Id})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items[i].ProductCount = n
		}

		total, err := col.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": items,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// GET /categories/:slug
func GetCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")
		productsCol := database.OpenCollection("products")

		slug := strings.TrimSpace(c.Param("slug"))
		if slug == "" {
			respondError(c, &models.ValidationError{Msg: "no slug provided"})
			return
		}

		var cat models.Category
		if err := col.FindOne(ctx, bson.M{"slug": slug}).Decode(&cat); err != nil {
			respondError(c, &models.NotFoundError{Resource: "category", Key: slug})
			return
		}

		cursor, err := productsCol.Find(ctx, bson.M{"categoryId": cat.Id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		cat.ProductCount = int64(len(products))

		c.JSON(http.StatusOK, gin.H{
			"category": cat,
			"products": products,
		})
	}
}

// PUT /admin/categories/:slug (multipart; all fields optional)
func UpdateCategory(store storage.ObjectStore, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		slug := strings.TrimSpace(c.Param("slug"))

		var cat models.Category
		if err := col.FindOne(ctx, bson.M{"slug": slug}).Decode(&cat); err != nil {
			respondError(c, &models.NotFoundError{Resource: "category", Key: slug})
			return
		}

		form, _ := c.MultipartForm()
		has := func(field string) bool {
			if form == nil {
				return false
			}
			_, ok := form.Value[field]
			return ok
		}

		set := bson.M{}

		if has("translations") {
			translations := categoryTranslationsFromForm(c.PostForm("translations"))
			if len(translations) == 0 {
				respondError(c, &models.ValidationError{Msg: "at least one translation is required"})
				return
			}
			set["translations"] = translations
		}

		if has("slug") {
			newSlug := utils.GenerateSlug(c.PostForm("slug"))
			if newSlug == "" {
				respondError(c, &models.ValidationError{Msg: "slug cannot be empty"})
				return
			}
			set["slug"] = newSlug
		}

		if has("parentId") {
			raw := strings.TrimSpace(c.PostForm("parentId"))
			if raw == "" {
				set["parentId"] = nil
			} else {
				id, err := bson.ObjectIDFromHex(raw)
				if err != nil {
					respondError(c, &models.ValidationError{Msg: "invalid parent category id"})
					return
				}
				cyclic, err := wouldCreateCycle(ctx, col, cat.Id, id)
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				if cyclic {
					respondError(c, &models.ValidationError{Msg: "parent would create a category cycle"})
					return
				}
				set["parentId"] = id
			}
		}

		newImageUrl := cat.ImageUrl
		if fh := categoryImageFile(c); fh != nil {
			if _, err := v.ValidateFile(fh); err != nil {
				respondError(c, &models.ValidationError{Msg: err.Error()})
				return
			}
			url, err := store.Upload(ctx, storage.ImageKey("categories", cat.Slug, fh.Filename), fh)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			newImageUrl = url
			set["imageUrl"] = url
		} else if has("imageUrl") {
			newImageUrl = strings.TrimSpace(c.PostForm("imageUrl"))
			set["imageUrl"] = newImageUrl
		}

		if len(set) == 0 {
			respondError(c, &models.ValidationError{Msg: "no updates provided"})
			return
		}
		set["updatedAt"] = time.Now().UTC()

		if _, err := col.UpdateByID(ctx, cat.Id, bson.M{"$set": set}); err != nil {
			if utils.IsDuplicateKey(err) {
				respondError(c, &models.ConflictError{Field: "slug", Msg: "slug already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// The document is authoritative now; the replaced object is cleanup
		// only and must never fail the request.
		utils.CleanupReplacedImage(ctx, store, cat.ImageUrl, newImageUrl)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// DELETE /admin/categories/:id
func DeleteCategory(store storage.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		idHex := c.Param("id")
		id, err := bson.ObjectIDFromHex(idHex)
		if err != nil {
			respondError(c, &models.ValidationError{Msg: "invalid category id"})
			return
		}

		var cat models.Category
		if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&cat); err != nil {
			respondError(c, &models.NotFoundError{Resource: "category", Key: idHex})
			return
		}

		if cat.ImageUrl != "" {
			utils.CleanupImageURLs(ctx, store, []string{cat.ImageUrl})
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, cat)
	}
}

// DELETE /admin/categories (bulk, body {slugs: []})
func DeleteCategories(store storage.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("categories")

		var body dto.DeleteCategoriesDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, &models.ValidationError{Msg: err.Error()})
			return
		}

		cursor, err := col.Find(ctx, bson.M{"slug": bson.M{"$in": body.Slugs}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		cats := make([]models.Category, 0, len(body.Slugs))
		if err := cursor.All(ctx, &cats); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ids := make([]bson.ObjectID, 0, len(cats))
		for _, cat := range cats {
			if cat.ImageUrl != "" {
				utils.CleanupImageURLs(ctx, store, []string{cat.ImageUrl})
			}
			ids = append(ids, cat.Id)
		}

		res, err := col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": res.DeletedCount})
	}
}
