package controllers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meridaco/catalogbackend/cache"
	"github.com/meridaco/catalogbackend/database"
	"github.com/meridaco/catalogbackend/dto"
	"github.com/meridaco/catalogbackend/models"
	"github.com/meridaco/catalogbackend/storage"
	"github.com/meridaco/catalogbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GET /products
func GetProducts(rdb *cache.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		cacheKey := cache.ProductListKey(c.Request.URL.Query())
		if payload, ok := rdb.GetProductList(ctx, cacheKey); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}

		categorySlug := strings.TrimSpace(c.Query("category"))
		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 20)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}
		skip := int64((page - 1) * limit)

		sortParam := strings.TrimSpace(c.Query("sort"))
		sortDoc := bson.D{{Key: "slug", Value: 1}}
		switch sortParam {
		case "price_asc":
			sortDoc = bson.D{{Key: "price", Value: 1}}
		case "price_desc":
			sortDoc = bson.D{{Key: "price", Value: -1}}
		case "newest":
			sortDoc = bson.D{{Key: "createdAt", Value: -1}}
		case "oldest":
			sortDoc = bson.D{{Key: "createdAt", Value: 1}}
		}

		productsCol := database.OpenCollection("products")
		categoriesCol := database.OpenCollection("categories")

		filter := bson.M{}

		// Resolve the category slug first; an unknown slug means an empty
		// list, not an error.
		if categorySlug != "" {
			var cat models.Category
			if err := categoriesCol.FindOne(ctx, bson.M{"slug": categorySlug}).Decode(&cat); err != nil {
				c.JSON(http.StatusOK, gin.H{
					"items": []models.Product{},
					"page":  page,
					"limit": limit,
					"total": 0,
				})
				return
			}
			filter["categoryId"] = cat.Id
		}

		if status := models.ProductStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))); status != "" {
			if models.IsValidProductStatus(status) {
				filter["status"] = status
			}
		}

		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["translations.name"] = bson.M{"$regex": q, "$options": "i"}
		}

		findOpts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(sortDoc)

		cursor, err := productsCol.Find(ctx, filter, findOpts)
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

		total, err := productsCol.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		response := gin.H{
			"items":    products,
			"page":     page,
			"limit":    limit,
			"total":    total,
			"category": categorySlug,
			"sort":     sortParam,
		}

		if payload, err := json.Marshal(response); err == nil {
			rdb.SetProductList(ctx, cacheKey, payload)
		}

		c.JSON(http.StatusOK, response)
	}
}

// GET /products/:slug
func GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		productsCol := database.OpenCollection("products")
		categoriesCol := database.OpenCollection("categories")

		slug := strings.TrimSpace(c.Param("slug"))

		var product models.Product
		if err := productsCol.FindOne(ctx, bson.M{"slug": slug}).Decode(&product); err != nil {
			respondError(c, &models.NotFoundError{Resource: "product", Key: slug})
			return
		}

		if product.CategoryId != nil {
			var cat models.Category
			if err := categoriesCol.FindOne(ctx, bson.M{"_id": *product.CategoryId}).Decode(&cat); err == nil {
				product.Category = &cat
			}
		}

		c.JSON(http.StatusOK, product)
	}
}

// POST /admin/products (multipart: scalar fields + JSON-encoded collections +
// repeated "images" file parts)
func AddProduct(store storage.ObjectStore, rdb *cache.RedisClient, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := database.OpenCollection("products")
		categoriesCol := database.OpenCollection("categories")

		form, err := c.MultipartForm()
		if err != nil {
			respondError(c, &models.ValidationError{Msg: "invalid multipart form"})
			return
		}

		in := productFormFromRequest(c)

		if raw := strings.TrimSpace(c.PostForm("categoryId")); raw != "" {
			id, err := bson.ObjectIDFromHex(raw)
			if err != nil {
				respondError(c, &models.ValidationError{Msg: "invalid category id"})
				return
			}
			if err := categoriesCol.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
				respondError(c, &models.NotFoundError{Resource: "category", Key: raw})
				return
			}
			in.CategoryId = &id
		}

		files := form.File["images"]
		if len(files) == 0 {
			respondError(c, &models.ValidationError{Msg: "at least one image is required"})
			return
		}
		if max := utils.MaxProductImages(); len(files) > max {
			respondError(c, &models.ValidationError{Msg: fmt.Sprintf("max %d images", max)})
			return
		}
		if err := v.ValidateFiles(files); err != nil {
			respondError(c, &models.ValidationError{Msg: err.Error()})
			return
		}

		slug := utils.GenerateSlug(in.Name)
		if slug == "" {
			if ts := productTranslationsFromRaw(in.TranslationsRaw); len(ts) > 0 {
				slug = utils.GenerateSlug(ts[0].Name)
			}
		}
		if slug == "" {
			respondError(c, &models.ValidationError{Msg: "product name is required"})
			return
		}

		imageUrls, err := storage.UploadImages(ctx, store, "products", slug, files)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		product, err := buildProductDocument(in, imageUrls)
		if err != nil {
			// The document never existed; drop what we just uploaded.
			utils.CleanupImageURLs(ctx, store, imageUrls)
			respondError(c, err)
			return
		}

		res, err := collection.InsertOne(ctx, product)
		if err != nil {
			utils.CleanupImageURLs(ctx, store, imageUrls)
			if utils.IsDuplicateKey(err) {
				respondError(c, &models.ConflictError{Field: "slug", Msg: "slug already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		product.Id = res.InsertedID.(bson.ObjectID)

		rdb.InvalidateProducts(ctx)

		c.JSON(http.StatusCreated, product)
	}
}

// PUT /admin/products/:id (multipart; scalar fields and collections are
// optional, present collections replace the stored ones wholesale)
func UpdateProduct(store storage.ObjectStore, rdb *cache.RedisClient, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := database.OpenCollection("products")
		categoriesCol := database.OpenCollection("categories")

		idHex := c.Param("id")
		prodID, err := bson.ObjectIDFromHex(idHex)
		if err != nil {
			respondError(c, &models.ValidationError{Msg: "invalid product id"})
			return
		}

		var product models.Product
		if err := collection.FindOne(ctx, bson.M{"_id": prodID}).Decode(&product); err != nil {
			respondError(c, &models.NotFoundError{Resource: "product", Key: idHex})
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

		if has("name") {
			newSlug := utils.GenerateSlug(c.PostForm("name"))
			if newSlug == "" {
				respondError(c, &models.ValidationError{Msg: "name cannot be empty"})
				return
			}
			set["slug"] = newSlug
		}
		if has("currency") {
			set["currency"] = strings.ToUpper(strings.TrimSpace(c.PostForm("currency")))
		}
		if has("price") {
			set["price"] = utils.ParseFloatDefault(c.PostForm("price"), product.Price)
		}
		if has("stock") {
			set["stock"] = utils.ParseIntDefault(c.PostForm("stock"), product.Stock)
		}
		if has("sku") {
			set["sku"] = strings.TrimSpace(c.PostForm("sku"))
		}
		if has("weight") {
			set["weight"] = utils.ParseFloatDefault(c.PostForm("weight"), product.Weight)
		}
		if has("weightUnit") {
			unit := models.WeightUnit(strings.ToUpper(strings.TrimSpace(c.PostForm("weightUnit"))))
			if !models.IsValidWeightUnit(unit) {
				respondError(c, &models.ValidationError{Msg: "invalid weight unit"})
				return
			}
			set["weightUnit"] = unit
		}
		if has("status") {
			status := models.ProductStatus(strings.ToUpper(strings.TrimSpace(c.PostForm("status"))))
			if !models.IsValidProductStatus(status) {
				respondError(c, &models.ValidationError{Msg: "invalid product status"})
				return
			}
			set["status"] = status
		}
		if has("categoryId") {
			raw := strings.TrimSpace(c.PostForm("categoryId"))
			if raw == "" {
				set["categoryId"] = nil
			} else {
				id, err := bson.ObjectIDFromHex(raw)
				if err != nil {
					respondError(c, &models.ValidationError{Msg: "invalid category id"})
					return
				}
				if err := categoriesCol.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
					respondError(c, &models.NotFoundError{Resource: "category", Key: raw})
					return
				}
				set["categoryId"] = id
			}
		}

		// Nested collections: present means full replace, absent means keep.
		if has("packages") {
			set["packages"] = packagesFromRaw(c.PostForm("packages"))
		}
		if has("variantFields") {
			set["variantFields"] = utils.DecodeArrayLenient[string](c.PostForm("variantFields"))
		}
		if has("variants") {
			set["variants"] = variantsFromRaw(c.PostForm("variants"))
		}
		if has("ProductTranslations") || has("translations") {
			raw := c.PostForm("ProductTranslations")
			if raw == "" {
				raw = c.PostForm("translations")
			}
			set["translations"] = productTranslationsFromRaw(raw)
		}
		if has("metadata") {
			set["metadata"] = utils.DecodeMapLenient(c.PostForm("metadata"))
		}
		if has("bundleMetadata") {
			set["bundleMetadata"] = utils.DecodeMapLenient(c.PostForm("bundleMetadata"))
		}

		// Image handling: urls flagged for removal are diffed against what is
		// actually stored, new file parts are uploaded and appended.
		removed := utils.IntersectStrings(
			utils.DecodeArrayLenient[string](c.PostForm("removedImagesUrls")),
			product.ImageUrls(),
		)

		var newFiles []*multipart.FileHeader
		if form != nil {
			newFiles = form.File["images"]
		}

		if max := utils.MaxProductImages(); len(product.Images)-len(removed)+len(newFiles) > max {
			respondError(c, &models.ValidationError{Msg: fmt.Sprintf("max %d images", max)})
			return
		}
		if len(product.Images)-len(removed)+len(newFiles) == 0 {
			respondError(c, &models.ValidationError{Msg: "at least one image is required"})
			return
		}

		var uploadedUrls []string
		if len(newFiles) > 0 {
			if err := v.ValidateFiles(newFiles); err != nil {
				respondError(c, &models.ValidationError{Msg: err.Error()})
				return
			}
			urls, err := storage.UploadImages(ctx, store, "products", product.Slug, newFiles)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			uploadedUrls = urls
		}

		if len(removed) > 0 || len(uploadedUrls) > 0 {
			altByUrl := make(map[string]string, len(product.Images))
			for _, img := range product.Images {
				altByUrl[img.Url] = img.AltText
			}
			merged := utils.MergeImageUrlsArrays(product.ImageUrls(), removed, uploadedUrls)
			images := make([]models.ProductImage, 0, len(merged))
			for i, u := range merged {
				images = append(images, models.ProductImage{Url: u, AltText: altByUrl[u], Position: i})
			}
			set["images"] = images
		}

		if len(set) == 0 {
			respondError(c, &models.ValidationError{Msg: "no updates provided"})
			return
		}
		set["updatedAt"] = time.Now().UTC()

		// Database first: the document is the source of truth.
		if _, err := collection.UpdateByID(ctx, prodID, bson.M{"$set": set}); err != nil {
			utils.CleanupImageURLs(ctx, store, uploadedUrls)
			if utils.IsDuplicateKey(err) {
				respondError(c, &models.ConflictError{Field: "slug", Msg: "slug already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Commit succeeded; removed objects are cleanup only.
		utils.CleanupImageURLs(ctx, store, removed)

		rdb.InvalidateProducts(ctx)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// PUT /admin/products (bulk JSON body, flat fields only)
func UpdateProducts(rdb *cache.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := database.OpenCollection("products")

		var body []dto.BulkProductUpdateDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, &models.ValidationError{Msg: err.Error()})
			return
		}
		if len(body) == 0 {
			respondError(c, &models.ValidationError{Msg: "no updates provided"})
			return
		}

		var updated int64
		for _, item := range body {
			id, err := bson.ObjectIDFromHex(item.Id)
			if err != nil {
				respondError(c, &models.ValidationError{Msg: "invalid product id: " + item.Id})
				return
			}

			set := bson.M{}
			if item.Price != nil {
				set["price"] = *item.Price
			}
			if item.Stock != nil {
				set["stock"] = *item.Stock
			}
			if item.Currency != nil {
				set["currency"] = strings.ToUpper(*item.Currency)
			}
			if item.Status != nil {
				status := models.ProductStatus(strings.ToUpper(*item.Status))
				if !models.IsValidProductStatus(status) {
					respondError(c, &models.ValidationError{Msg: "invalid product status"})
					return
				}
				set["status"] = status
			}
			if len(set) == 0 {
				continue
			}
			set["updatedAt"] = time.Now().UTC()

			res, err := collection.UpdateByID(ctx, id, bson.M{"$set": set})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			updated += res.ModifiedCount
		}

		rdb.InvalidateProducts(ctx)

		c.JSON(http.StatusOK, gin.H{"count": updated})
	}
}

// DELETE /admin/products/:id
func DeleteProduct(store storage.ObjectStore, rdb *cache.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := database.OpenCollection("products")

		idHex := c.Param("id")
		prodID, err := bson.ObjectIDFromHex(idHex)
		if err != nil {
			respondError(c, &models.ValidationError{Msg: "invalid product id"})
			return
		}

		var product models.Product
		if err := collection.FindOne(ctx, bson.M{"_id": prodID}).Decode(&product); err != nil {
			respondError(c, &models.NotFoundError{Resource: "product", Key: idHex})
			return
		}

		utils.CleanupImageURLs(ctx, store, product.ImageUrls())

		if _, err := collection.DeleteOne(ctx, bson.M{"_id": prodID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		rdb.InvalidateProducts(ctx)

		c.JSON(http.StatusOK, product)
	}
}

// DELETE /admin/products (bulk, body {ids: []})
func DeleteProducts(store storage.ObjectStore, rdb *cache.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := database.OpenCollection("products")

		var body dto.DeleteProductsDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, &models.ValidationError{Msg: err.Error()})
			return
		}

		ids, err := utils.StringsToObjectIDs(body.Ids)
		if err != nil {
			respondError(c, &models.ValidationError{Msg: err.Error()})
			return
		}

		cursor, err := collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0, len(ids))
		if err := cursor.All(ctx, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		for _, p := range products {
			utils.CleanupImageURLs(ctx, store, p.ImageUrls())
		}

		res, err := collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		rdb.InvalidateProducts(ctx)

		c.JSON(http.StatusOK, gin.H{"count": res.DeletedCount})
	}
}
