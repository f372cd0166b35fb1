package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPhotoBytes caps the embedded photo payload. Uploads above this are
// rejected with a validation error; exactly this size is accepted.
const MaxPhotoBytes = 1_000_000

// Photo is a binary image payload embedded in the product document.
type Photo struct {
	Data        []byte `bson:"data" json:"-"`
	ContentType string `bson:"contentType" json:"contentType,omitempty"`
}

// Product is a sellable item. It references its Category by ID only:
// deleting a category leaves the reference dangling by design.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    primitive.ObjectID `bson:"category" json:"category"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Shipping    bool               `bson:"shipping" json:"shipping"`
	Photo       *Photo             `bson:"photo,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ProductView is a read projection with the category populated and the
// photo always excluded.
type ProductView struct {
	ID          primitive.ObjectID `json:"_id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Category    *Category          `json:"category"`
	Quantity    int                `json:"quantity"`
	Shipping    bool               `json:"shipping"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// View builds the populated projection for p. cat may be nil when the
// category reference dangles.
func (p *Product) View(cat *Category) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Category:    cat,
		Quantity:    p.Quantity,
		Shipping:    p.Shipping,
		CreatedAt:   p.CreatedAt,
	}
}
