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

// UserRepository handles the `users` collection.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	var user models.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("users: find: %w", err)
	}
	return &user, nil
}

// FindByEmail looks up a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByEmailAndAnswer looks up a user matching both the email and the
// security question answer exactly. Used by the forgot-password flow.
func (r *UserRepository) FindByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "question": answer})
}

// FindByID looks up a user by ObjectID.
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// RoleByID resolves just the role field for the authorization guard.
// One read per guarded request; never cached.
func (r *UserRepository) RoleByID(ctx context.Context, id primitive.ObjectID) (int, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	var doc struct {
		Role int `bson:"role"`
	}
	opts := options.FindOne().SetProjection(bson.M{"role": 1})
	err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("users: role: %w", err)
	}
	return doc.Role, nil
}

// Create inserts a new user and fills in its ID and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		return err // duplicate-key errors pass through for IsDuplicate
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// Update overwrites the mutable profile fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	user.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":      user.Name,
		"password":  user.Password,
		"phone":     user.Phone,
		"address":   user.Address,
		"updatedAt": user.UpdatedAt,
	}}

	_, err := r.col.UpdateByID(ctx, user.ID, update)
	if err != nil {
		return fmt.Errorf("users: update: %w", err)
	}
	return nil
}

// UpdatePassword overwrites only the password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	update := bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now().UTC(),
	}}
	_, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("users: update password: %w", err)
	}
	return nil
}
