package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is user feedback tied to one product. Reviews live in their own
// collection; the catalog only reads them for product detail responses and
// deletes them when their product is deleted.
type Review struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Comment   string             `json:"comment" bson:"comment"`
	Rating    float64            `json:"rating" bson:"rating"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ReviewWithUser is a Review with its user reference expanded to username
// and email.
type ReviewWithUser struct {
	Review `bson:",inline"`
	User   *AuthorRef `json:"userId" bson:"-"`
}
