package repository

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"catalog-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepository implements ProductRepository on the products
// collection, using the users collection to expand author references.
type MongoProductRepository struct {
	products *mongo.Collection
	users    *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		products: db.Collection("products"),
		users:    db.Collection("users"),
	}
}

// buildFilter translates a normalized ProductFilter into a Mongo filter
// document. The color clause is kept even though Product declares no color
// field, so it matches nothing until the schema grows one.
func buildFilter(f ProductFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Size != "" {
		filter["size"] = f.Size
	}
	if f.Color != "" {
		filter["color"] = f.Color
	}
	if f.MinPrice != nil && f.MaxPrice != nil {
		filter["price"] = bson.M{"$gte": *f.MinPrice, "$lte": *f.MaxPrice}
	}
	return filter
}

// relatedPattern builds a case-insensitive alternation of the name's words,
// skipping one-character words. Words are escaped so stored size qualifiers
// like "(L)" stay valid regex input.
func relatedPattern(name string) string {
	words := strings.Fields(name)
	parts := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) > 1 {
			parts = append(parts, regexp.QuoteMeta(word))
		}
	}
	return strings.Join(parts, "|")
}

func (r *MongoProductRepository) Insert(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.products.InsertOne(ctx, product)
	return err
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *MongoProductRepository) FindDetail(ctx context.Context, id primitive.ObjectID) (*models.ProductWithAuthor, error) {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := models.ProductWithAuthor{Product: *product}
	refs, err := r.authorRefs(ctx, []primitive.ObjectID{product.Author}, "email", "username")
	if err != nil {
		return nil, err
	}
	if ref, ok := refs[product.Author]; ok {
		detail.Author = &ref
	}
	return &detail, nil
}

func (r *MongoProductRepository) FindPage(ctx context.Context, filter ProductFilter, skip, limit int64) ([]models.ProductWithAuthor, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.products.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	// Expand author references (email only) with a single users query.
	authorIDs := make([]primitive.ObjectID, 0, len(products))
	seen := make(map[primitive.ObjectID]bool, len(products))
	for _, p := range products {
		if !seen[p.Author] {
			seen[p.Author] = true
			authorIDs = append(authorIDs, p.Author)
		}
	}
	refs, err := r.authorRefs(ctx, authorIDs, "email")
	if err != nil {
		return nil, err
	}

	page := make([]models.ProductWithAuthor, 0, len(products))
	for _, p := range products {
		item := models.ProductWithAuthor{Product: p}
		if ref, ok := refs[p.Author]; ok {
			item.Author = &ref
		}
		page = append(page, item)
	}
	return page, nil
}

func (r *MongoProductRepository) Count(ctx context.Context, filter ProductFilter) (int64, error) {
	return r.products.CountDocuments(ctx, buildFilter(filter))
}

func (r *MongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (*models.Product, error) {
	var size *string
	if update.Size != "" {
		size = &update.Size
	}

	set := bson.M{
		"name":        update.Name,
		"size":        size,
		"category":    update.Category,
		"description": update.Description,
		"price":       update.Price,
		"oldPrice":    update.OldPrice,
		"inStock":     update.InStock,
		"updatedAt":   time.Now().UTC(),
	}
	if update.Author != nil {
		set["author"] = *update.Author
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err := r.products.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProductRepository) FindRelated(ctx context.Context, product *models.Product) ([]models.Product, error) {
	or := []bson.M{{"category": product.Category}}
	if pattern := relatedPattern(product.Name); pattern != "" {
		or = append([]bson.M{{"name": bson.M{"$regex": pattern, "$options": "i"}}}, or...)
	}

	filter := bson.M{
		"_id": bson.M{"$ne": product.ID},
		"$or": or,
	}

	cursor, err := r.products.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	related := []models.Product{}
	if err := cursor.All(ctx, &related); err != nil {
		return nil, err
	}
	return related, nil
}

// authorRefs loads a projection of the given users keyed by id. Missing
// users are simply absent from the map, mirroring a populate on a dangling
// reference.
func (r *MongoProductRepository) authorRefs(ctx context.Context, ids []primitive.ObjectID, fields ...string) (map[primitive.ObjectID]models.AuthorRef, error) {
	return loadUserRefs(ctx, r.users, ids, fields...)
}

func loadUserRefs(ctx context.Context, users *mongo.Collection, ids []primitive.ObjectID, fields ...string) (map[primitive.ObjectID]models.AuthorRef, error) {
	refs := make(map[primitive.ObjectID]models.AuthorRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	projection := bson.M{}
	for _, field := range fields {
		projection[field] = 1
	}

	cursor, err := users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var loaded []models.AuthorRef
	if err := cursor.All(ctx, &loaded); err != nil {
		return nil, err
	}
	for _, ref := range loaded {
		refs[ref.ID] = ref
	}
	return refs, nil
}
