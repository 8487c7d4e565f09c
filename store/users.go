package store

import (
	"context"
	"time"

	"basket-backend/models"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStore keeps the customer directory and bootstraps tenant databases.
type UserStore struct {
	db       *mongo.Database
	selector *TenantSelector
}

func NewUserStore(db *mongo.Database, selector *TenantSelector) *UserStore {
	return &UserStore{db: db, selector: selector}
}

// UpsertUser finds the user by phone or creates it. The username of an
// existing user is left untouched.
func (s *UserStore) UpsertUser(ctx context.Context, username, phone string) (user models.User, err error) {
	now := time.Now()
	update := bson.D{
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "username", Value: username},
			{Key: "role", Value: models.RoleUser},
			{Key: "createdAt", Value: now},
		}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	filter := bson.D{{Key: "phone", Value: phone}}

	coll := s.db.Collection(usersCollection)
	err = coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if mongo.IsDuplicateKeyError(err) {
		err = coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UserStore.UpsertUser").Msg("")
		return user, errors.Wrap(err, "upsert user")
	}
	return user, nil
}

// EnsureTenant prepares a tenant database: a profile carrying the login
// details, the cart and favorites collections and the cart index.
func (s *UserStore) EnsureTenant(ctx context.Context, tenant, username, phone string) error {
	db, err := s.selector.Select(tenant)
	if err != nil {
		return err
	}

	now := time.Now()
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "username", Value: username},
			{Key: "phone", Value: phone},
			{Key: "updatedAt", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "address", Value: nil},
			{Key: "createdAt", Value: now},
		}},
	}
	_, err = db.Collection(profileCollection).UpdateOne(ctx, bson.D{{Key: "userId", Value: tenant}}, update, options.Update().SetUpsert(true))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UserStore.EnsureTenant").Str("tenant", tenant).Msg("")
		return errors.Wrap(err, "upsert profile")
	}

	for _, name := range []string{cartCollection, favoritesCollection} {
		// already existing collections are expected
		if err := db.CreateCollection(ctx, name); err != nil {
			log.Ctx(ctx).Debug().Err(err).Str("collection", name).Msg("create tenant collection")
		}
	}

	_, err = db.Collection(cartCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "productId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UserStore.EnsureTenant").Str("tenant", tenant).Msg("")
		return errors.Wrap(err, "create cart index")
	}
	return nil
}
