// Package services implements the storefront workflows. Each service
// receives its stores and clients at construction, keeping persistence and
// the payment gateway substitutable in tests.
package services

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/kirana/app/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workflow errors controllers translate into HTTP responses.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("invalid password")
	ErrWrongRecovery    = errors.New("wrong email or security answer")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPhotoTooLarge    = errors.New("photo should be less than 1MB")
)

// UserStore is the persistence surface the auth workflow and the
// authorization guard need.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	RoleByID(ctx context.Context, id primitive.ObjectID) (int, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

// CategoryStore is the persistence surface of the category workflow.
type CategoryStore interface {
	FindByName(ctx context.Context, name string) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Category, error)
	All(ctx context.Context) ([]models.Category, error)
	Insert(ctx context.Context, cat *models.Category) error
	UpdateByID(ctx context.Context, id primitive.ObjectID, name, slug string) (*models.Category, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// ProductStore is the persistence surface of the product workflow.
type ProductStore interface {
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FetchPhoto(ctx context.Context, id primitive.ObjectID) (*models.Photo, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	Latest(ctx context.Context, limit int64) ([]models.Product, error)
	Filter(ctx context.Context, categories []primitive.ObjectID, priceRange []float64) ([]models.Product, error)
	EstimatedCount(ctx context.Context) (int64, error)
	Page(ctx context.Context, page, perPage int64) ([]models.Product, error)
	Search(ctx context.Context, keyword string) ([]models.Product, error)
	Related(ctx context.Context, productID, categoryID primitive.ObjectID, limit int64) ([]models.Product, error)
	ByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error)
}

// OrderStore is the persistence surface of order placement and history.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	ByBuyer(ctx context.Context, buyer primitive.ObjectID) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
}
