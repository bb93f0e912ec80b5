package repository

import (
	"context"

	"catalog-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoReviewRepository implements ReviewRepository on the reviews
// collection.
type MongoReviewRepository struct {
	reviews *mongo.Collection
	users   *mongo.Collection
}

func NewMongoReviewRepository(db *mongo.Database) *MongoReviewRepository {
	return &MongoReviewRepository{
		reviews: db.Collection("reviews"),
		users:   db.Collection("users"),
	}
}

func (r *MongoReviewRepository) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.ReviewWithUser, error) {
	cursor, err := r.reviews.Find(ctx, bson.M{"productId": productID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}

	userIDs := make([]primitive.ObjectID, 0, len(reviews))
	seen := make(map[primitive.ObjectID]bool, len(reviews))
	for _, review := range reviews {
		if !seen[review.UserID] {
			seen[review.UserID] = true
			userIDs = append(userIDs, review.UserID)
		}
	}
	refs, err := loadUserRefs(ctx, r.users, userIDs, "username", "email")
	if err != nil {
		return nil, err
	}

	populated := make([]models.ReviewWithUser, 0, len(reviews))
	for _, review := range reviews {
		item := models.ReviewWithUser{Review: review}
		if ref, ok := refs[review.UserID]; ok {
			item.User = &ref
		}
		populated = append(populated, item)
	}
	return populated, nil
}

func (r *MongoReviewRepository) DeleteByProduct(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	result, err := r.reviews.DeleteMany(ctx, bson.M{"productId": productID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
