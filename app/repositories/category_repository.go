package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CategoryRepository handles the `categories` collection.
type CategoryRepository struct {
	col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{col: db.Collection("categories")}
}

func (r *CategoryRepository) findOne(ctx context.Context, filter bson.M) (*models.Category, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	var cat models.Category
	err := r.col.FindOne(ctx, filter).Decode(&cat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("categories: find: %w", err)
	}
	return &cat, nil
}

// FindByName looks up a category by exact display name.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

// FindBySlug looks up a category by slug.
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

// FindByIDs fetches the given categories in one query and returns them
// keyed by ID. Missing IDs are simply absent from the map (dangling
// references stay dangling).
func (r *CategoryRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Category, error) {
	out := make(map[primitive.ObjectID]*models.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	defer metrics.ObserveDBQuery("find", time.Now())

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("categories: find by ids: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var cat models.Category
		if err := cur.Decode(&cat); err != nil {
			return nil, fmt.Errorf("categories: decode: %w", err)
		}
		c := cat
		out[cat.ID] = &c
	}
	return out, cur.Err()
}

// All returns every category.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("categories: find all: %w", err)
	}
	defer cur.Close(ctx)

	var cats []models.Category
	if err := cur.All(ctx, &cats); err != nil {
		return nil, fmt.Errorf("categories: decode all: %w", err)
	}
	return cats, nil
}

// Insert persists a new category and fills in its ID.
func (r *CategoryRepository) Insert(ctx context.Context, cat *models.Category) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	res, err := r.col.InsertOne(ctx, cat)
	if err != nil {
		return fmt.Errorf("categories: insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		cat.ID = oid
	}
	return nil
}

// UpdateByID overwrites name and slug, returning the updated document.
func (r *CategoryRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, name, slug string) (*models.Category, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"name": name, "slug": slug}})
	if err != nil {
		return nil, fmt.Errorf("categories: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &models.Category{ID: id, Name: name, Slug: slug}, nil
}

// DeleteByID removes a category. Products referencing it are untouched.
func (r *CategoryRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("categories: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
