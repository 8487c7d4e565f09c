package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a tenant's cart. productId is unique per cart.
type CartItem struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ProductID  string             `json:"productId" bson:"productId"`
	Category   string             `json:"category" bson:"category"`
	Name       string             `json:"name" bson:"name"`
	Image      string             `json:"image" bson:"image"`
	Price      float64            `json:"price" bson:"price"`
	Weight     *float64           `json:"weight" bson:"weight"`
	WeightUnit *string            `json:"weightUnit" bson:"weightUnit"`
	Quantity   int                `json:"quantity" bson:"quantity"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Favorite is a product bookmarked by a tenant.
type Favorite struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ProductID  string             `json:"productId" bson:"productId"`
	Category   string             `json:"category" bson:"category"`
	Name       string             `json:"name" bson:"name"`
	Image      string             `json:"image" bson:"image"`
	Price      float64            `json:"price" bson:"price"`
	Weight     *float64           `json:"weight,omitempty" bson:"weight,omitempty"`
	WeightUnit string             `json:"weightUnit,omitempty" bson:"weightUnit,omitempty"`
	AddedAt    time.Time          `json:"addedAt" bson:"addedAt"`
}

// ProductRef is the product snapshot a client sends when adding to the cart
// or to favorites.
type ProductRef struct {
	ProductID  string   `json:"productId" binding:"required"`
	Category   string   `json:"category" binding:"required"`
	Name       string   `json:"name"`
	Image      string   `json:"image"`
	Price      float64  `json:"price"`
	Weight     *float64 `json:"weight"`
	WeightUnit string   `json:"weightUnit"`
}

// CartQuantityRequest sets the quantity of a cart line. Zero removes it.
type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
