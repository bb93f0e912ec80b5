package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"catalog-api/cache"
	"catalog-api/config"
	"catalog-api/database"
	"catalog-api/handlers"
	"catalog-api/repository"
	"catalog-api/router"
	"catalog-api/uploader"
	"catalog-api/utils"
)

func main() {
	cfg := config.LoadConfig()

	// Initialize MongoDB client
	client, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.TODO())
	log.Println("Connected to MongoDB!")

	// Initialize Redis; the service works without it, just uncached
	if err := cache.InitRedis(cache.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v. Caching disabled.", err)
	}

	// Image uploader
	up, err := uploader.NewCloudinaryUploader(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	if err != nil {
		log.Fatal(err)
	}

	// Repositories are constructed once and handed to the handlers
	db := client.Database(cfg.Database)
	products := repository.NewMongoProductRepository(db)
	reviews := repository.NewMongoReviewRepository(db)
	users := repository.NewMongoUserRepository(db)

	h := handlers.NewHandler(products, reviews, users, up, cfg.JWTSecret)
	r := router.SetupRoutes(h, cfg.JWTSecret)

	// Keep the product caches warm in the background
	if cache.GetRedisClient() != nil {
		utils.NewCacheRefreshJob(products, reviews, 10*time.Minute).Start()
	}

	log.Printf("Server running at http://localhost%s", cfg.Port)
	log.Fatal(http.ListenAndServe(cfg.Port, r))
}
