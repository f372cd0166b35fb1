package models

import (
	"time"

	"github.com/shashiranjanraj/kirana/pkg/payment"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. The default is set at payment capture; admins may move
// an order through the rest of the set.
const (
	StatusNotProcessed = "Not Processed"
	StatusProcessing   = "Processing"
	StatusShipped      = "Shipped"
	StatusDelivered    = "Delivered"
	StatusCancelled    = "Cancelled"
)

// OrderStatuses lists the admin-editable status values.
var OrderStatuses = []string{
	StatusNotProcessed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// CartItem is one line of the cart as submitted by the client. It is
// snapshotted into the order verbatim, not re-resolved against the catalog.
type CartItem struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Price float64            `bson:"price" json:"price"`
}

// Order is a purchase record, created only as a side effect of a
// successful gateway sale and mutated only by status updates.
type Order struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Products []CartItem          `bson:"products" json:"products"`
	Payment  payment.Transaction `bson:"payment" json:"payment"`
	Buyer    primitive.ObjectID  `bson:"buyer" json:"buyer"`
	Status   string              `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// OrderView is the order history projection: product snapshots as stored
// (never with photos — the snapshot never contains them) and the buyer
// reduced to a name.
type OrderView struct {
	ID        primitive.ObjectID  `json:"_id"`
	Products  []CartItem          `json:"products"`
	Payment   payment.Transaction `json:"payment"`
	Buyer     OrderBuyer          `json:"buyer"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// OrderBuyer is the populated buyer reference.
type OrderBuyer struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
}
