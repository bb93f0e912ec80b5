package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryHennaPowder is the only category that requires a size, both when
// writing a product and when filtering the listing by size.
const CategoryHennaPowder = "حناء بودر"

// Product represents a catalog item as stored in MongoDB. The name is the
// display string: when a size exists it is the base name with " (size)"
// appended, while the size is also persisted independently.
type Product struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Size        *string            `json:"size" bson:"size"`
	Category    string             `json:"category" bson:"category"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	OldPrice    *float64           `json:"oldPrice,omitempty" bson:"oldPrice,omitempty"`
	Image       []string           `json:"image" bson:"image"`
	Rating      float64            `json:"rating" bson:"rating"`
	Author      primitive.ObjectID `json:"author" bson:"author"`
	InStock     bool               `json:"inStock" bson:"inStock"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProductWithAuthor is a Product with its author reference expanded,
// the equivalent of populating the author field. The expanded reference
// shadows the raw ObjectID in JSON output.
type ProductWithAuthor struct {
	Product `bson:",inline"`
	Author  *AuthorRef `json:"author" bson:"-"`
}

// ProductDetail is the response shape for a single product lookup.
type ProductDetail struct {
	Product ProductWithAuthor `json:"product"`
	Reviews []ReviewWithUser  `json:"reviews"`
}

// CreateProductRequest is used for product creation requests
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Size        string   `json:"size,omitempty"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"required,gte=0"`
	OldPrice    *float64 `json:"oldPrice,omitempty"`
	Image       []string `json:"image" validate:"required,min=1"`
	Author      string   `json:"author" validate:"required"`
	InStock     *bool    `json:"inStock,omitempty"`
}

// UpdateProductInput is the normalized form of an update request. Multipart
// form strings are coerced into typed fields at the boundary before any of
// them reach the repository.
type UpdateProductInput struct {
	Name        string
	Size        string
	Category    string
	Description string
	Price       float64
	OldPrice    *float64
	Author      string
	InStock     bool
	KeepImages  []string
}

// ProductUpdate carries the fields the repository writes on an update.
// A nil Image leaves the stored image list untouched.
type ProductUpdate struct {
	Name        string
	Size        string
	Category    string
	Description string
	Price       float64
	OldPrice    *float64
	Author      *primitive.ObjectID
	InStock     bool
	Image       *[]string
}

// UploadImagesRequest is the body of a bulk Base64 image upload.
type UploadImagesRequest struct {
	Images []string `json:"images"`
}

var trailingSizeSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// DisplayName composes the stored product name from a base name and an
// optional size: "name (size)" when the trimmed size is non-empty, the name
// unchanged otherwise.
func DisplayName(name, size string) string {
	if s := strings.TrimSpace(size); s != "" {
		return fmt.Sprintf("%s (%s)", name, s)
	}
	return name
}

// BaseName strips a single trailing parenthetical size qualifier from a
// display name, e.g. "Henna (L)" becomes "Henna". Only the final
// parenthetical is removed.
func BaseName(name string) string {
	return strings.TrimSpace(trailingSizeSuffix.ReplaceAllString(name, ""))
}
