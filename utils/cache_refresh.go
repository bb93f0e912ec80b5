package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"catalog-api/cache"
	"catalog-api/models"
	"catalog-api/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CacheRefreshJob periodically rebuilds the product caches so the storefront
// mostly reads warm data. Failures are logged and retried on the next tick.
type CacheRefreshJob struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	interval time.Duration
}

func NewCacheRefreshJob(products repository.ProductRepository, reviews repository.ReviewRepository, interval time.Duration) *CacheRefreshJob {
	return &CacheRefreshJob{
		products: products,
		reviews:  reviews,
		interval: interval,
	}
}

func (j *CacheRefreshJob) Start() {
	ticker := time.NewTicker(j.interval)
	go func() {
		for range ticker.C {
			j.refreshProductCaches()
		}
	}()
}

func (j *CacheRefreshJob) refreshProductCaches() {
	ctx := context.Background()

	products, err := j.products.FindPage(ctx, repository.ProductFilter{}, 0, 0)
	if err != nil {
		log.Printf("Error fetching products for cache refresh: %v", err)
		return
	}

	// Refresh the default first-page listing cache.
	total, err := j.products.Count(ctx, repository.ProductFilter{})
	if err != nil {
		log.Printf("Error counting products for cache refresh: %v", err)
		return
	}

	firstPage := products
	if len(firstPage) > 10 {
		firstPage = firstPage[:10]
	}
	listData := struct {
		Products []models.ProductWithAuthor `json:"products"`
		Total    int64                      `json:"total"`
	}{
		Products: firstPage,
		Total:    total,
	}
	listKey := cache.ProductListKey(1, 10, "", "", "", "", "")
	if err := cache.SetCache(ctx, listKey, listData, 15*time.Minute); err != nil {
		log.Printf("Failed to refresh products list cache: %v", err)
		return
	}

	// Refresh individual product detail caches. Each product is re-read
	// through FindDetail so the cached payload carries the full author
	// expansion the detail endpoint serves, not the slimmer listing rows.
	for _, product := range products {
		detail, err := j.productDetail(ctx, product.ID)
		if err != nil {
			log.Printf("Error building detail for product %s: %v", product.ID.Hex(), err)
			continue
		}
		cacheKey := fmt.Sprintf(cache.ProductDetailPattern, product.ID.Hex())
		if err := cache.SetCache(ctx, cacheKey, detail, 15*time.Minute); err != nil {
			log.Printf("Failed to refresh product cache for ID %s: %v", product.ID.Hex(), err)
		}
	}

	log.Printf("Refreshed cache for %d products", len(products))
}

func (j *CacheRefreshJob) productDetail(ctx context.Context, id primitive.ObjectID) (*models.ProductDetail, error) {
	product, err := j.products.FindDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := j.reviews.FindByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ProductDetail{Product: *product, Reviews: reviews}, nil
}
