package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category groups products in the catalog. The slug is the URL-safe form
// of the name, regenerated on every rename.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string             `bson:"name" json:"name"`
	Slug string             `bson:"slug" json:"slug"`
}
