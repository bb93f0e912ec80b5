package repository

import (
	"context"
	"errors"

	"catalog-api/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a referenced entity does not exist. Store
// driver errors never cross the repository boundary for missing documents.
var ErrNotFound = errors.New("not found")

// ProductFilter is a normalized listing filter. All present clauses are
// ANDed together; the caller is responsible for the query-parameter rules
// (the "all" sentinel, the category-specific size clause, the
// both-bounds-or-nothing price range).
type ProductFilter struct {
	Category string
	Size     string
	Color    string
	MinPrice *float64
	MaxPrice *float64
}

// ProductRepository is the persistence surface for products. Read methods
// returning ProductWithAuthor expand the author reference the way the
// handlers present it.
type ProductRepository interface {
	Insert(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindDetail(ctx context.Context, id primitive.ObjectID) (*models.ProductWithAuthor, error)
	FindPage(ctx context.Context, filter ProductFilter, skip, limit int64) ([]models.ProductWithAuthor, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindRelated(ctx context.Context, product *models.Product) ([]models.Product, error)
}

// ReviewRepository is the catalog's view of the reviews collection: reads
// for product detail responses and the cascade delete.
type ReviewRepository interface {
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.ReviewWithUser, error)
	DeleteByProduct(ctx context.Context, productID primitive.ObjectID) (int64, error)
}

// UserRepository handles the accounts backing authentication and author
// references.
type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
