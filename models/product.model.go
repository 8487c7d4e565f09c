package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the document stored in a category's product collection.
type Product struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Price        float64            `json:"price" bson:"price"`
	Weight       *float64           `json:"weight,omitempty" bson:"weight,omitempty"`
	WeightUnit   string             `json:"weightUnit,omitempty" bson:"weightUnit,omitempty"`
	Image        string             `json:"image" bson:"image"`
	ImageID      string             `json:"-" bson:"imageId,omitempty"`
	CategoryName string             `json:"categoryName,omitempty" bson:"-"`
}

// ProductInput is the multipart form accepted when creating a product.
type ProductInput struct {
	Name        string   `form:"name" binding:"required"`
	Description string   `form:"description"`
	Price       *float64 `form:"price" binding:"required,gte=0"`
	Weight      *float64 `form:"weight" binding:"omitempty,gte=0"`
	WeightUnit  string   `form:"weightUnit"`
}

// ProductUpdate carries only the fields present in an update form.
type ProductUpdate struct {
	Name        *string  `form:"name" bson:"name,omitempty"`
	Description *string  `form:"description" bson:"description,omitempty"`
	Price       *float64 `form:"price" binding:"omitempty,gte=0" bson:"price,omitempty"`
	Weight      *float64 `form:"weight" binding:"omitempty,gte=0" bson:"weight,omitempty"`
	WeightUnit  *string  `form:"weightUnit" bson:"weightUnit,omitempty"`
	Image       string   `form:"-" bson:"image,omitempty"`
	ImageID     string   `form:"-" bson:"imageId,omitempty"`
}

// Stats summarises the catalog for the admin dashboard.
type Stats struct {
	TotalCategories    int64            `json:"total_categories"`
	TotalProducts      int64            `json:"total_products"`
	TotalBanners       int64            `json:"total_banners"`
	TotalUsers         int64            `json:"total_users"`
	TotalOrders        int64            `json:"total_orders"`
	ProductsByCategory map[string]int64 `json:"products_by_category"`
}
