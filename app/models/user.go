package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles stored on the user document.
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// Address is the structured form of the delivery address. All fields are
// optional; the original schema accepted a free-form blob.
type Address struct {
	Street string `bson:"street,omitempty" json:"street,omitempty"`
	City   string `bson:"city,omitempty" json:"city,omitempty"`
	Region string `bson:"region,omitempty" json:"region,omitempty"`
	Postal string `bson:"postal,omitempty" json:"postal,omitempty"`
}

// User is an identity record in the `users` collection. Created at
// registration, mutated by profile updates and password resets, never
// deleted by any exposed operation.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"` // bcrypt hash, never serialised
	Phone    string             `bson:"phone" json:"phone"`
	Address  Address            `bson:"address" json:"address"`
	Answer   string             `bson:"question" json:"-"` // security question answer
	Role     int                `bson:"role" json:"role"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Sanitized returns the projection exposed on login and profile responses:
// no password hash, no security answer.
func (u *User) Sanitized() map[string]interface{} {
	return map[string]interface{}{
		"_id":     u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"phone":   u.Phone,
		"address": u.Address,
		"role":    u.Role,
	}
}
