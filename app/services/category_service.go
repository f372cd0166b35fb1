package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/pkg/cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	categoryListKey = "categories:all"
	categoryListTTL = 5 * time.Minute
)

// CategoryService implements category CRUD. Names are slugified on every
// create and rename; name uniqueness is checked, not enforced, so the
// duplicate check is a courtesy rather than a guarantee.
type CategoryService struct {
	categories CategoryStore
}

func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create adds a category. Creating a name that already exists is a benign
// no-op reported with existed=true.
func (s *CategoryService) Create(ctx context.Context, name string) (cat *models.Category, existed bool, err error) {
	existing, err := s.categories.FindByName(ctx, name)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, fmt.Errorf("create category: %w", err)
	}

	cat = &models.Category{Name: name, Slug: slug.Make(name)}
	if err := s.categories.Insert(ctx, cat); err != nil {
		return nil, false, fmt.Errorf("create category: %w", err)
	}

	_ = cache.Del(categoryListKey)
	return cat, false, nil
}

// Update renames a category and regenerates its slug.
func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, name string) (*models.Category, error) {
	cat, err := s.categories.UpdateByID(ctx, id, name, slug.Make(name))
	if err != nil {
		return nil, err
	}

	_ = cache.Del(categoryListKey)
	return cat, nil
}

// All lists every category, served from the cache when warm.
func (s *CategoryService) All(ctx context.Context) ([]models.Category, error) {
	var cached []models.Category
	if cache.Get(categoryListKey, &cached) {
		return cached, nil
	}

	cats, err := s.categories.All(ctx)
	if err != nil {
		return nil, err
	}

	_ = cache.Set(categoryListKey, cats, categoryListTTL)
	return cats, nil
}

// BySlug returns one category by its slug.
func (s *CategoryService) BySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	return s.categories.FindBySlug(ctx, categorySlug)
}

// Delete removes a category by ID. Products referencing it keep their
// dangling reference by design.
func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.categories.DeleteByID(ctx, id); err != nil {
		return err
	}

	_ = cache.Del(categoryListKey)
	return nil
}
