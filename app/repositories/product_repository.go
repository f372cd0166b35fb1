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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository handles the `products` collection. Read methods never
// return the embedded photo payload; FetchPhoto is the only accessor for it.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection("products")}
}

// noPhoto excludes the binary payload from list/read queries.
var noPhoto = bson.M{"photo": 0}

func newestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}}
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("products: find: %w", err)
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("products: decode: %w", err)
	}
	return products, nil
}

// Insert persists a new product and fills in its ID and timestamps.
func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("products: insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// Update overwrites a product's fields by ID. A nil Photo leaves the stored
// photo untouched.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	p.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"quantity":    p.Quantity,
		"shipping":    p.Shipping,
		"updatedAt":   p.UpdatedAt,
	}
	if p.Photo != nil {
		set["photo"] = p.Photo
	}

	res, err := r.col.UpdateByID(ctx, p.ID, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("products: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindBySlug returns one product by slug, photo excluded.
func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	var p models.Product
	opts := options.FindOne().SetProjection(noPhoto)
	err := r.col.FindOne(ctx, bson.M{"slug": slug}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("products: find by slug: %w", err)
	}
	return &p, nil
}

// FetchPhoto returns just the stored photo for a product, or ErrNotFound
// when the product is missing or carries no photo.
func (r *ProductRepository) FetchPhoto(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	var doc struct {
		Photo *models.Photo `bson:"photo"`
	}
	opts := options.FindOne().SetProjection(bson.M{"photo": 1})
	err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("products: fetch photo: %w", err)
	}
	if doc.Photo == nil || len(doc.Photo.Data) == 0 {
		return nil, ErrNotFound
	}
	return doc.Photo, nil
}

// DeleteByID removes a product.
func (r *ProductRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Latest returns the `limit` newest products, photo excluded.
func (r *ProductRepository) Latest(ctx context.Context, limit int64) ([]models.Product, error) {
	opts := options.Find().
		SetProjection(noPhoto).
		SetSort(newestFirst()).
		SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

// Filter returns products matching (category ∈ categories) AND
// (price between priceRange[0] and priceRange[1]). Either clause is
// omitted when its input is empty; both empty means all products.
func (r *ProductRepository) Filter(ctx context.Context, categories []primitive.ObjectID, priceRange []float64) ([]models.Product, error) {
	filter := bson.M{}
	if len(categories) > 0 {
		filter["category"] = bson.M{"$in": categories}
	}
	if len(priceRange) == 2 {
		filter["price"] = bson.M{"$gte": priceRange[0], "$lte": priceRange[1]}
	}

	opts := options.Find().SetProjection(noPhoto)
	return r.find(ctx, filter, opts)
}

// EstimatedCount returns the approximate product total from collection
// metadata; it is not a precise live count under concurrent writes.
func (r *ProductRepository) EstimatedCount(ctx context.Context) (int64, error) {
	defer metrics.ObserveDBQuery("count", time.Now())

	total, err := r.col.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("products: count: %w", err)
	}
	return total, nil
}

// pageWindow converts a 1-based page to the skip/limit pair of the
// newest-first listing. Pages below 1 are clamped to the first page.
func pageWindow(page, perPage int64) (skip, limit int64) {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage, perPage
}

// Page returns one page of the newest-first ordering: skip
// (page-1)*perPage, limit perPage. A page past the end yields an empty
// slice, not an error.
func (r *ProductRepository) Page(ctx context.Context, page, perPage int64) ([]models.Product, error) {
	skip, limit := pageWindow(page, perPage)
	opts := options.Find().
		SetProjection(noPhoto).
		SetSort(newestFirst()).
		SetSkip(skip).
		SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

// Search matches keyword case-insensitively against name OR description.
func (r *ProductRepository) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	filter := bson.M{"$or": []bson.M{
		{"name": primitive.Regex{Pattern: keyword, Options: "i"}},
		{"description": primitive.Regex{Pattern: keyword, Options: "i"}},
	}}
	opts := options.Find().SetProjection(noPhoto)
	return r.find(ctx, filter, opts)
}

// Related returns up to `limit` products in the same category, excluding
// the product itself.
func (r *ProductRepository) Related(ctx context.Context, productID, categoryID primitive.ObjectID, limit int64) ([]models.Product, error) {
	filter := bson.M{
		"category": categoryID,
		"_id":      bson.M{"$ne": productID},
	}
	opts := options.Find().SetProjection(noPhoto).SetLimit(limit)
	return r.find(ctx, filter, opts)
}

// ByCategory returns every product referencing the category.
func (r *ProductRepository) ByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Product, error) {
	opts := options.Find().SetProjection(noPhoto).SetSort(newestFirst())
	return r.find(ctx, bson.M{"category": categoryID}, opts)
}
