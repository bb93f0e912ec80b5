package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"catalog-api/models"
	"catalog-api/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeProductRepo is an in-memory ProductRepository mirroring the Mongo
// implementation's semantics.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
	authors  map[primitive.ObjectID]models.AuthorRef
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[primitive.ObjectID]models.Product),
		authors:  make(map[primitive.ObjectID]models.AuthorRef),
	}
}

func (f *fakeProductRepo) Insert(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &product, nil
}

func (f *fakeProductRepo) FindDetail(ctx context.Context, id primitive.ObjectID) (*models.ProductWithAuthor, error) {
	product, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := models.ProductWithAuthor{Product: *product}
	if ref, ok := f.authors[product.Author]; ok {
		detail.Author = &models.AuthorRef{ID: ref.ID, Email: ref.Email, Username: ref.Username}
	}
	return &detail, nil
}

func (f *fakeProductRepo) matches(filter repository.ProductFilter, p models.Product) bool {
	if filter.Category != "" && p.Category != filter.Category {
		return false
	}
	if filter.Size != "" && (p.Size == nil || *p.Size != filter.Size) {
		return false
	}
	// Products declare no color field, so a color clause matches nothing.
	if filter.Color != "" {
		return false
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil {
		if p.Price < *filter.MinPrice || p.Price > *filter.MaxPrice {
			return false
		}
	}
	return true
}

func (f *fakeProductRepo) sortedMatches(filter repository.ProductFilter) []models.Product {
	matched := []models.Product{}
	for _, p := range f.products {
		if f.matches(filter, p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (f *fakeProductRepo) FindPage(ctx context.Context, filter repository.ProductFilter, skip, limit int64) ([]models.ProductWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := f.sortedMatches(filter)

	if skip > int64(len(matched)) {
		skip = int64(len(matched))
	}
	matched = matched[skip:]
	if limit > 0 && limit < int64(len(matched)) {
		matched = matched[:limit]
	}

	page := make([]models.ProductWithAuthor, 0, len(matched))
	for _, p := range matched {
		item := models.ProductWithAuthor{Product: p}
		if ref, ok := f.authors[p.Author]; ok {
			item.Author = &models.AuthorRef{ID: ref.ID, Email: ref.Email}
		}
		page = append(page, item)
	}
	return page, nil
}

func (f *fakeProductRepo) Count(ctx context.Context, filter repository.ProductFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.sortedMatches(filter))), nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	product.Name = update.Name
	if update.Size != "" {
		size := update.Size
		product.Size = &size
	} else {
		product.Size = nil
	}
	product.Category = update.Category
	product.Description = update.Description
	product.Price = update.Price
	product.OldPrice = update.OldPrice
	product.InStock = update.InStock
	if update.Author != nil {
		product.Author = *update.Author
	}
	if update.Image != nil {
		product.Image = *update.Image
	}
	product.UpdatedAt = time.Now().UTC()

	f.products[id] = product
	return &product, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) FindRelated(ctx context.Context, product *models.Product) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	words := []string{}
	for _, word := range strings.Fields(product.Name) {
		if utf8.RuneCountInString(word) > 1 {
			words = append(words, strings.ToLower(word))
		}
	}

	related := []models.Product{}
	for _, other := range f.products {
		if other.ID == product.ID {
			continue
		}
		if other.Category == product.Category {
			related = append(related, other)
			continue
		}
		lowerName := strings.ToLower(other.Name)
		for _, word := range words {
			if strings.Contains(lowerName, word) {
				related = append(related, other)
				break
			}
		}
	}
	return related, nil
}

// fakeReviewRepo is an in-memory ReviewRepository.
type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []models.Review
	users   map[primitive.ObjectID]models.AuthorRef
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{users: make(map[primitive.ObjectID]models.AuthorRef)}
}

func (f *fakeReviewRepo) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.ReviewWithUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	found := []models.ReviewWithUser{}
	for _, review := range f.reviews {
		if review.ProductID != productID {
			continue
		}
		item := models.ReviewWithUser{Review: review}
		if ref, ok := f.users[review.UserID]; ok {
			item.User = &models.AuthorRef{ID: ref.ID, Username: ref.Username, Email: ref.Email}
		}
		found = append(found, item)
	}
	return found, nil
}

func (f *fakeReviewRepo) DeleteByProduct(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	remaining := f.reviews[:0]
	var deleted int64
	for _, review := range f.reviews {
		if review.ProductID == productID {
			deleted++
			continue
		}
		remaining = append(remaining, review)
	}
	f.reviews = remaining
	return deleted, nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]models.User)}
}

func (f *fakeUserRepo) Insert(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Role == "" {
		user.Role = "user"
	}
	f.byEmail[user.Email] = *user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

// fakeUploader returns deterministic URLs derived from the input so tests
// can assert ordering without coordination.
type fakeUploader struct {
	err error
}

func (f *fakeUploader) UploadEncoded(ctx context.Context, encoded string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.test/" + encoded, nil
}

func (f *fakeUploader) UploadFile(ctx context.Context, file io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://cdn.test/file-%s", content), nil
}

func newTestHandler() (*Handler, *fakeProductRepo, *fakeReviewRepo, *fakeUserRepo) {
	products := newFakeProductRepo()
	reviews := newFakeReviewRepo()
	users := newFakeUserRepo()
	h := NewHandler(products, reviews, users, &fakeUploader{}, "test-secret")
	return h, products, reviews, users
}
