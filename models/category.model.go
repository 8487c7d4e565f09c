package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category names a product collection. Collection is the canonical
// identifier derived from Name and is unique across categories.
type Category struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Collection string             `json:"collection" bson:"collection"`
	Image      string             `json:"image" bson:"image"`
	ImageID    string             `json:"-" bson:"imageId,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// Banner is a storefront banner image.
type Banner struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Path       string             `json:"path" bson:"path"`
	ImageID    string             `json:"-" bson:"imageId,omitempty"`
	UploadedAt time.Time          `json:"uploadedAt" bson:"uploadedAt"`
}
