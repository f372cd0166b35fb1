// Package repositories implements the persistence layer on MongoDB.
// Collections: users, categories, products, orders. Field names match the
// original storefront's schemas so the data set is interchangeable.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/kirana/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a referenced document does not exist.
// Controllers translate it into a 404.
var ErrNotFound = errors.New("not found")

// IsDuplicate reports whether err is a unique-index violation. Used to
// translate the register/email race into the benign "already registered"
// response.
func IsDuplicate(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

var (
	client *mongo.Client
	db     *mongo.Database
)

// Connect opens the MongoDB client and pings it. Must be called once at
// startup before any repository is constructed.
func Connect(ctx context.Context, uri, name string) error {
	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("mongo: connect: %w", err)
	}

	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("mongo: ping: %w", err)
	}

	client = c
	db = c.Database(name)
	logger.Info("mongo connected", "db", name)
	return nil
}

// DB returns the connected database handle.
func DB() *mongo.Database {
	return db
}

// Disconnect closes the client. Safe to call when Connect never ran.
func Disconnect(ctx context.Context) {
	if client == nil {
		return
	}
	_ = client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the workflows rely on: a unique email
// index backing registration, slug lookups for categories and products,
// and the buyer + newest-first order history scan.
func EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		col   string
		model mongo.IndexModel
	}{
		{"users", mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{"categories", mongo.IndexModel{
			Keys: bson.D{{Key: "slug", Value: 1}},
		}},
		{"products", mongo.IndexModel{
			Keys: bson.D{{Key: "slug", Value: 1}},
		}},
		{"products", mongo.IndexModel{
			Keys: bson.D{{Key: "category", Value: 1}},
		}},
		{"products", mongo.IndexModel{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		}},
		{"orders", mongo.IndexModel{
			Keys: bson.D{{Key: "buyer", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
	}

	for _, spec := range specs {
		if _, err := db.Collection(spec.col).Indexes().CreateOne(ctx, spec.model); err != nil {
			return fmt.Errorf("mongo: index %s: %w", spec.col, err)
		}
	}
	return nil
}
