package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"catalog-api/cache"
	"catalog-api/models"
	"catalog-api/repository"
	"catalog-api/uploader"
	"catalog-api/utils"
)

// UploadImages handles bulk upload of Base64/data-URL encoded images and
// returns their URLs in input order. One failed upload fails the whole call.
func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	var req models.UploadImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "An array of images is required")
		return
	}
	if len(req.Images) == 0 {
		h.ErrorHdlr.HandleBadRequest(w, "An array of images is required")
		return
	}

	urls, err := uploader.UploadAllEncoded(r.Context(), h.Uploader, req.Images)
	if err != nil {
		log.Printf("Error uploading images: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to upload images")
		return
	}

	h.ResponseHdlr.JSON(w, http.StatusOK, urls)
}

// CreateProduct handles creating a new product
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return
	}

	// Validate request
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		h.ErrorHdlr.HandleValidationError(w, utils.ValidationDetails(err))
		return
	}

	authorID, err := primitive.ObjectIDFromHex(req.Author)
	if err != nil {
		h.ErrorHdlr.HandleValidationError(w, []utils.ErrorDetail{
			{Field: "author", Message: "Invalid author ID"},
		})
		return
	}

	// Compose the display name: "name (size)" when a size is supplied.
	// The size is also stored independently; blank sizes become null.
	var size *string
	if strings.TrimSpace(req.Size) != "" {
		size = &req.Size
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product := models.Product{
		Name:        models.DisplayName(req.Name, req.Size),
		Size:        size,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		OldPrice:    req.OldPrice,
		Image:       req.Image,
		Rating:      0,
		Author:      authorID,
		InStock:     inStock,
	}

	if err := h.Products.Insert(r.Context(), &product); err != nil {
		log.Printf("Error creating new product: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to create new product")
		return
	}

	h.invalidateListCaches(r)

	h.ResponseHdlr.Created(w, "Product created successfully", product)
}

// GetProducts handles the product listing with filtering and pagination
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	page, limit := parsePagination(query)
	filter := parseProductFilter(query)

	cacheKey := cache.ProductListKey(page, limit,
		filter.Category, filter.Size, filter.Color,
		query.Get("minPrice"), query.Get("maxPrice"))

	// Try to get from cache
	var cachedData struct {
		Products []models.ProductWithAuthor `json:"products"`
		Total    int64                      `json:"total"`
	}
	if err := cache.GetCache(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("X-Cache", "HIT")
		h.ResponseHdlr.Paginated(w, "Products fetched from cache", cachedData.Products, page, limit, int(cachedData.Total))
		return
	}
	w.Header().Set("X-Cache", "MISS")

	total, err := h.Products.Count(ctx, filter)
	if err != nil {
		log.Printf("Error counting products: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to fetch products")
		return
	}

	skip := int64((page - 1) * limit)
	products, err := h.Products.FindPage(ctx, filter, skip, int64(limit))
	if err != nil {
		log.Printf("Error fetching products: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to fetch products")
		return
	}

	// Store in cache
	dataToCache := struct {
		Products []models.ProductWithAuthor `json:"products"`
		Total    int64                      `json:"total"`
	}{
		Products: products,
		Total:    total,
	}
	if err := cache.SetCache(ctx, cacheKey, dataToCache, 5*time.Minute); err != nil {
		log.Printf("Failed to cache products list: %v", err)
	}

	h.ResponseHdlr.Paginated(w, "Products fetched successfully", products, page, limit, int(total))
}

// GetProductDetails handles retrieving a single product with its reviews
func (h *Handler) GetProductDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	productID := vars["id"]

	// Try to get from cache first
	cacheKey := fmt.Sprintf(cache.ProductDetailPattern, productID)
	var detail models.ProductDetail
	if err := cache.GetCache(ctx, cacheKey, &detail); err == nil {
		w.Header().Set("X-Cache", "HIT")
		h.ResponseHdlr.Success(w, "Product fetched from cache", detail)
		return
	}
	w.Header().Set("X-Cache", "MISS")

	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid product ID")
		return
	}

	product, err := h.Products.FindDetail(ctx, objID)
	if err == repository.ErrNotFound {
		h.ErrorHdlr.HandleNotFound(w, "Product not found")
		return
	}
	if err != nil {
		log.Printf("Error fetching the product: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to fetch the product")
		return
	}

	reviews, err := h.Reviews.FindByProduct(ctx, objID)
	if err != nil {
		log.Printf("Error fetching product reviews: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to fetch the product")
		return
	}

	detail = models.ProductDetail{Product: *product, Reviews: reviews}
	if err := cache.SetCache(ctx, cacheKey, detail, 30*time.Minute); err != nil {
		log.Printf("Failed to cache product data: %v", err)
	}

	h.ResponseHdlr.Success(w, "Product fetched successfully", detail)
}

// UpdateProduct handles updating an existing product from a multipart form,
// reconciling kept images with newly uploaded ones.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	productID := vars["id"]

	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid product ID")
		return
	}

	// Existence pre-check. The record can still disappear before the write,
	// so the update itself guards again.
	if _, err := h.Products.FindByID(ctx, objID); err != nil {
		if err == repository.ErrNotFound {
			h.ErrorHdlr.HandleNotFound(w, "Product not found")
			return
		}
		log.Printf("Error fetching product %s: %v", productID, err)
		h.ErrorHdlr.HandleInternalErrorDetail(w, "Failed to update product", err.Error())
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid multipart form")
		return
	}

	input := normalizeUpdateInput(r.PostForm)

	var details []utils.ErrorDetail
	if input.Name == "" {
		details = append(details, utils.ErrorDetail{Field: "name", Message: "This field is required"})
	}
	if input.Category == "" {
		details = append(details, utils.ErrorDetail{Field: "category", Message: "This field is required"})
	}
	if input.Price == 0 {
		details = append(details, utils.ErrorDetail{Field: "price", Message: "This field is required"})
	}
	if input.Description == "" {
		details = append(details, utils.ErrorDetail{Field: "description", Message: "This field is required"})
	}
	if input.Category == models.CategoryHennaPowder && input.Size == "" {
		details = append(details, utils.ErrorDetail{Field: "size", Message: "A size is required for henna powder products"})
	}
	if len(details) > 0 {
		h.ErrorHdlr.HandleValidationError(w, details)
		return
	}

	update := models.ProductUpdate{
		Name:        input.Name,
		Size:        input.Size,
		Category:    input.Category,
		Description: input.Description,
		Price:       input.Price,
		OldPrice:    input.OldPrice,
		InStock:     input.InStock,
	}
	if authorID, err := primitive.ObjectIDFromHex(input.Author); err == nil {
		update.Author = &authorID
	}

	// Upload any new image files concurrently, preserving form order.
	files := r.MultipartForm.File["image"]
	newImageURLs := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, header := range files {
		i, header := i, header
		g.Go(func() error {
			file, err := header.Open()
			if err != nil {
				return err
			}
			defer file.Close()

			url, err := h.Uploader.UploadFile(gctx, file)
			if err != nil {
				return err
			}
			newImageURLs[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("Error uploading product images: %v", err)
		h.ErrorHdlr.HandleInternalErrorDetail(w, "Failed to update product", err.Error())
		return
	}

	// Final image list is kept ++ newly uploaded. When both are empty the
	// stored images are left untouched, never cleared.
	if len(input.KeepImages) > 0 || len(newImageURLs) > 0 {
		images := make([]string, 0, len(input.KeepImages)+len(newImageURLs))
		images = append(images, input.KeepImages...)
		images = append(images, newImageURLs...)
		update.Image = &images
	}

	updated, err := h.Products.Update(ctx, objID, update)
	if err == repository.ErrNotFound {
		h.ErrorHdlr.HandleNotFound(w, "Product not found")
		return
	}
	if err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		h.ErrorHdlr.HandleInternalErrorDetail(w, "Failed to update product", err.Error())
		return
	}

	h.invalidateProductCaches(r, productID)

	h.ResponseHdlr.Success(w, "Product updated successfully", updated)
}

// DeleteProduct handles deleting a product and cascading its reviews
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	productID := vars["id"]

	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid product ID")
		return
	}

	err = h.Products.Delete(ctx, objID)
	if err == repository.ErrNotFound {
		h.ErrorHdlr.HandleNotFound(w, "Product not found")
		return
	}
	if err != nil {
		log.Printf("Error deleting the product: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to delete the product")
		return
	}

	// Cascade delete of the product's reviews. The two deletes are separate
	// operations: a crash between them can orphan reviews.
	if _, err := h.Reviews.DeleteByProduct(ctx, objID); err != nil {
		log.Printf("Error deleting reviews for product %s: %v", productID, err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to delete the product")
		return
	}

	h.invalidateProductCaches(r, productID)

	h.ResponseHdlr.Success(w, "Product deleted successfully", nil)
}

// GetRelatedProducts handles the related-products lookup: any other product
// whose name shares a word with this one, or whose category matches.
func (h *Handler) GetRelatedProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	productID := vars["id"]
	if productID == "" {
		h.ErrorHdlr.HandleBadRequest(w, "Product ID is required")
		return
	}

	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid product ID")
		return
	}

	product, err := h.Products.FindByID(ctx, objID)
	if err == repository.ErrNotFound {
		h.ErrorHdlr.HandleNotFound(w, "Product not found")
		return
	}
	if err != nil {
		log.Printf("Error fetching the product: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to fetch related products")
		return
	}

	related, err := h.Products.FindRelated(ctx, product)
	if err != nil {
		log.Printf("Error fetching the related products: %v", err)
		h.ErrorHdlr.HandleInternalError(w, "Failed to fetch related products")
		return
	}

	h.ResponseHdlr.Success(w, "Related products fetched successfully", related)
}

// invalidateListCaches drops every cached listing page.
func (h *Handler) invalidateListCaches(r *http.Request) {
	if err := cache.DeleteByPattern(r.Context(), cache.ProductListPattern); err != nil && err != cache.ErrUnavailable {
		log.Printf("Failed to invalidate product list cache: %v", err)
	}
}

// invalidateProductCaches drops the product's detail cache and every cached
// listing page.
func (h *Handler) invalidateProductCaches(r *http.Request, productID string) {
	detailKey := fmt.Sprintf(cache.ProductDetailPattern, productID)
	if err := cache.DeleteCache(r.Context(), detailKey); err != nil && err != cache.ErrUnavailable {
		log.Printf("Failed to invalidate product detail cache: %v", err)
	}
	h.invalidateListCaches(r)
}
