package handlers

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"catalog-api/models"
	"catalog-api/repository"
)

// parsePagination reads page and limit query parameters with the listing
// defaults. Non-numeric or non-positive values fall back to the defaults.
func parsePagination(query url.Values) (page, limit int) {
	page, limit = 1, 10
	if p, err := strconv.Atoi(query.Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 {
		limit = l
	}
	return page, limit
}

// parseProductFilter normalizes listing query parameters into a repository
// filter. The rules mirror the storefront contract: "all" disables the
// category and color clauses, size only applies to the henna powder
// category, and the price range needs both bounds to parse.
func parseProductFilter(query url.Values) repository.ProductFilter {
	filter := repository.ProductFilter{}

	if category := query.Get("category"); category != "" && category != "all" {
		filter.Category = category
		if category == models.CategoryHennaPowder {
			filter.Size = query.Get("size")
		}
	}

	if color := query.Get("color"); color != "" && color != "all" {
		filter.Color = color
	}

	minStr, maxStr := query.Get("minPrice"), query.Get("maxPrice")
	if minStr != "" && maxStr != "" {
		min, errMin := strconv.ParseFloat(minStr, 64)
		max, errMax := strconv.ParseFloat(maxStr, 64)
		if errMin == nil && errMax == nil {
			filter.MinPrice = &min
			filter.MaxPrice = &max
		}
	}

	return filter
}

// parseKeepImages decodes the keepImages form field, a JSON-encoded list of
// image URLs the client wants to retain. Anything malformed, or not a list,
// is treated as empty rather than an error.
func parseKeepImages(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var kept []string
	if err := json.Unmarshal([]byte(raw), &kept); err != nil {
		return nil
	}
	return kept
}

// normalizeUpdateInput coerces the multipart form strings of an update
// request into a typed input. The incoming name is cleaned of any previous
// size qualifier before the current size is re-appended, so the display name
// always reflects the current size.
func normalizeUpdateInput(form url.Values) models.UpdateProductInput {
	size := strings.TrimSpace(form.Get("size"))
	name := models.DisplayName(models.BaseName(form.Get("name")), size)

	price, _ := strconv.ParseFloat(form.Get("price"), 64)

	var oldPrice *float64
	if raw := form.Get("oldPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			oldPrice = &v
		}
	}

	// inStock arrives as a string; anything but "true" (case-insensitive)
	// means out of stock.
	inStock := strings.ToLower(form.Get("inStock")) == "true"

	return models.UpdateProductInput{
		Name:        name,
		Size:        size,
		Category:    form.Get("category"),
		Description: form.Get("description"),
		Price:       price,
		OldPrice:    oldPrice,
		Author:      form.Get("author"),
		InStock:     inStock,
		KeepImages:  parseKeepImages(form.Get("keepImages")),
	}
}
