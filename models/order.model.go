package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is an immutable snapshot of a tenant's cart at checkout.
type Order struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	PlacedAt       time.Time          `json:"placedAt" bson:"placedAt"`
	UserDBName     string             `json:"userDbName" bson:"userDbName"`
	PaymentMethod  string             `json:"paymentMethod" bson:"paymentMethod"`
	TotalAmount    float64            `json:"totalAmount" bson:"totalAmount"`
	User           OrderUser          `json:"user" bson:"user"`
	Items          []OrderItem        `json:"items" bson:"items"`
	IdempotencyKey string             `json:"idempotencyKey,omitempty" bson:"idempotencyKey,omitempty"`
}

// OrderUser is the customer contact captured with an order.
type OrderUser struct {
	Username string   `json:"username" bson:"username"`
	Phone    string   `json:"phone" bson:"phone"`
	Address  *Address `json:"address" bson:"address"`
}

// OrderItem is a cart line copied into an order.
type OrderItem struct {
	ProductID  string   `json:"productId" bson:"productId"`
	Category   string   `json:"category" bson:"category"`
	Name       string   `json:"name" bson:"name"`
	Price      float64  `json:"price" bson:"price"`
	Quantity   int      `json:"quantity" bson:"quantity"`
	Weight     *float64 `json:"weight" bson:"weight"`
	WeightUnit *string  `json:"weightUnit" bson:"weightUnit"`
}

// OrderRequest is the checkout body.
type OrderRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}
