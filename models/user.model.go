package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a storefront customer, unique by phone.
type User struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Phone     string             `json:"phone" bson:"phone"`
	Role      string             `json:"role" bson:"role"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// LoginRequest is the phone-based login body.
type LoginRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// LoginResponse tells the client its role and, for customers, the session
// token to send back in the x-user-db header.
type LoginResponse struct {
	Role       string `json:"role"`
	UserDBName string `json:"userDbName,omitempty"`
	Token      string `json:"token"`
	Redirect   string `json:"redirect"`
}
