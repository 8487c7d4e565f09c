package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultState is used when an address is saved without a state.
const DefaultState = "ANDHRA PRADESH"

// Profile is the single profile document of a tenant database, keyed by the
// tenant database name stored in UserID.
type Profile struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	Username  string             `json:"username" bson:"username"`
	Phone     string             `json:"phone" bson:"phone"`
	Address   *Address           `json:"address" bson:"address"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Address is a delivery address.
type Address struct {
	FlatHouse  string `json:"flatHouse" bson:"flatHouse" binding:"required"`
	AreaStreet string `json:"areaStreet" bson:"areaStreet" binding:"required"`
	Landmark   string `json:"landmark" bson:"landmark"`
	Pincode    string `json:"pincode" bson:"pincode" binding:"required"`
	TownCity   string `json:"townCity" bson:"townCity" binding:"required"`
	State      string `json:"state" bson:"state"`
	IsDefault  bool   `json:"isDefault" bson:"isDefault"`
}

// ProfileUpdateRequest replaces the contact fields of a profile.
type ProfileUpdateRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// ProfileDebug describes the raw state of a tenant database.
type ProfileDebug struct {
	UserDBName      string   `json:"userDbName"`
	DatabaseName    string   `json:"databaseName"`
	Collections     []string `json:"collections"`
	AllProfiles     []bson.M `json:"allProfiles"`
	SpecificProfile *Profile `json:"specificProfile"`
	ProfileExists   bool     `json:"profileExists"`
	TotalProfiles   int      `json:"totalProfiles"`
}

// MigrationReport is the outcome of normalising the profiles of one tenant.
type MigrationReport struct {
	TotalProfiles int                 `json:"totalProfiles"`
	FixedCount    int                 `json:"fixedCount"`
	DeletedCount  int                 `json:"deletedCount"`
	KeptProfile   *primitive.ObjectID `json:"keptProfile,omitempty"`
	MergedAddress *Address            `json:"mergedAddress,omitempty"`
}
