package store

import (
	"context"
	"time"

	"basket-backend/models"
	"basket-backend/pkg/errs"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cartCollection      = "cart"
	favoritesCollection = "favorites"
	profileCollection   = "profile"

	defaultProfileName = "User"
)

// TenantSelector maps a verified tenant name to its database.
type TenantSelector struct {
	client *mongo.Client
}

func NewTenantSelector(client *mongo.Client) *TenantSelector {
	return &TenantSelector{client: client}
}

// Select never falls back to a shared database.
func (s *TenantSelector) Select(name string) (*mongo.Database, error) {
	if name == "" {
		return nil, errs.ErrMissingTenant
	}
	return s.client.Database(name), nil
}

// TenantStore holds the per-user collections: cart, favorites and profile.
type TenantStore struct {
	selector *TenantSelector
}

func NewTenantStore(selector *TenantSelector) *TenantStore {
	return &TenantStore{selector: selector}
}

func (s *TenantStore) collection(tenant, name string) (*mongo.Collection, error) {
	db, err := s.selector.Select(tenant)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// AddToCart increments the cart line of ref.ProductID, creating it with
// quantity 1 when absent. created reports whether a new line was inserted.
func (s *TenantStore) AddToCart(ctx context.Context, tenant string, ref models.ProductRef) (item models.CartItem, created bool, err error) {
	coll, err := s.collection(tenant, cartCollection)
	if err != nil {
		return item, false, err
	}

	var weightUnit *string
	if ref.WeightUnit != "" {
		weightUnit = &ref.WeightUnit
	}

	now := time.Now()
	filter := bson.D{{Key: "productId", Value: ref.ProductID}}
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "quantity", Value: 1}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "category", Value: ref.Category},
			{Key: "name", Value: ref.Name},
			{Key: "image", Value: ref.Image},
			{Key: "price", Value: ref.Price},
			{Key: "weight", Value: ref.Weight},
			{Key: "weightUnit", Value: weightUnit},
			{Key: "createdAt", Value: now},
		}},
	}
	opts := options.Update().SetUpsert(true)

	result, err := coll.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// a concurrent upsert inserted the line first
		result, err = coll.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.AddToCart").Msg("")
		return item, false, errors.Wrap(err, "upsert cart line")
	}

	if err = coll.FindOne(ctx, filter).Decode(&item); err != nil {
		return item, false, errors.Wrap(err, "read cart line")
	}
	return item, result.UpsertedCount > 0, nil
}

func (s *TenantStore) Cart(ctx context.Context, tenant string) ([]models.CartItem, error) {
	coll, err := s.collection(tenant, cartCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.Cart").Msg("")
		return nil, errors.Wrap(err, "find cart")
	}
	defer cursor.Close(ctx)

	items := []models.CartItem{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	return items, nil
}

// SetCartQuantity sets a line's quantity. Zero removes the line and returns
// a nil item.
func (s *TenantStore) SetCartQuantity(ctx context.Context, tenant, productID string, quantity int) (*models.CartItem, error) {
	if quantity < 0 {
		return nil, errors.Wrap(errs.ErrClient, "quantity must not be negative")
	}
	if quantity == 0 {
		return nil, s.RemoveFromCart(ctx, tenant, productID)
	}

	coll, err := s.collection(tenant, cartCollection)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "quantity", Value: quantity},
		{Key: "updatedAt", Value: time.Now()},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = coll.FindOneAndUpdate(ctx, bson.D{{Key: "productId", Value: productID}}, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.SetCartQuantity").Msg("")
		return nil, errors.Wrap(err, "update cart line")
	}
	return &item, nil
}

func (s *TenantStore) RemoveFromCart(ctx context.Context, tenant, productID string) error {
	coll, err := s.collection(tenant, cartCollection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.D{{Key: "productId", Value: productID}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.RemoveFromCart").Msg("")
		return errors.Wrap(err, "delete cart line")
	}
	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// AddFavorite stores ref once. An existing favorite is returned unchanged
// with created set to false.
func (s *TenantStore) AddFavorite(ctx context.Context, tenant string, ref models.ProductRef) (fav models.Favorite, created bool, err error) {
	coll, err := s.collection(tenant, favoritesCollection)
	if err != nil {
		return fav, false, err
	}

	filter := bson.D{{Key: "productId", Value: ref.ProductID}}
	update := bson.D{{Key: "$setOnInsert", Value: models.Favorite{
		ProductID:  ref.ProductID,
		Category:   ref.Category,
		Name:       ref.Name,
		Image:      ref.Image,
		Price:      ref.Price,
		Weight:     ref.Weight,
		WeightUnit: ref.WeightUnit,
		AddedAt:    time.Now(),
	}}}

	result, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.AddFavorite").Msg("")
		return fav, false, errors.Wrap(err, "upsert favorite")
	}

	if err = coll.FindOne(ctx, filter).Decode(&fav); err != nil {
		return fav, false, errors.Wrap(err, "read favorite")
	}
	return fav, result != nil && result.UpsertedCount > 0, nil
}

func (s *TenantStore) Favorites(ctx context.Context, tenant string) ([]models.Favorite, error) {
	coll, err := s.collection(tenant, favoritesCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}}))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.Favorites").Msg("")
		return nil, errors.Wrap(err, "find favorites")
	}
	defer cursor.Close(ctx)

	favs := []models.Favorite{}
	if err = cursor.All(ctx, &favs); err != nil {
		return nil, errors.Wrap(err, "decode favorites")
	}
	return favs, nil
}

func (s *TenantStore) RemoveFavorite(ctx context.Context, tenant, productID string) error {
	coll, err := s.collection(tenant, favoritesCollection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.D{{Key: "productId", Value: productID}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.RemoveFavorite").Msg("")
		return errors.Wrap(err, "delete favorite")
	}
	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Profile returns the tenant's profile, creating an empty one on first read.
func (s *TenantStore) Profile(ctx context.Context, tenant string) (models.Profile, error) {
	now := time.Now()
	return s.upsertProfile(ctx, tenant, bson.D{
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "username", Value: defaultProfileName},
			{Key: "phone", Value: ""},
			{Key: "address", Value: nil},
			{Key: "createdAt", Value: now},
			{Key: "updatedAt", Value: now},
		}},
	})
}

// SaveAddress replaces the tenant's address. State defaults to DefaultState.
func (s *TenantStore) SaveAddress(ctx context.Context, tenant string, address models.Address) (models.Profile, error) {
	if address.State == "" {
		address.State = models.DefaultState
	}

	now := time.Now()
	return s.upsertProfile(ctx, tenant, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "address", Value: address},
			{Key: "updatedAt", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "username", Value: defaultProfileName},
			{Key: "phone", Value: ""},
			{Key: "createdAt", Value: now},
		}},
	})
}

func (s *TenantStore) UpdateProfile(ctx context.Context, tenant string, req models.ProfileUpdateRequest) (models.Profile, error) {
	if req.Username == "" {
		req.Username = defaultProfileName
	}

	now := time.Now()
	return s.upsertProfile(ctx, tenant, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "username", Value: req.Username},
			{Key: "phone", Value: req.Phone},
			{Key: "updatedAt", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "address", Value: nil},
			{Key: "createdAt", Value: now},
		}},
	})
}

func (s *TenantStore) upsertProfile(ctx context.Context, tenant string, update bson.D) (profile models.Profile, err error) {
	coll, err := s.collection(tenant, profileCollection)
	if err != nil {
		return profile, err
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err = coll.FindOneAndUpdate(ctx, bson.D{{Key: "userId", Value: tenant}}, update, opts).Decode(&profile)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.upsertProfile").Msg("")
		return profile, errors.Wrap(err, "upsert profile")
	}
	return profile, nil
}

// ClearProfiles deletes every profile document of the tenant.
func (s *TenantStore) ClearProfiles(ctx context.Context, tenant string) (int64, error) {
	coll, err := s.collection(tenant, profileCollection)
	if err != nil {
		return 0, err
	}

	result, err := coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.ClearProfiles").Msg("")
		return 0, errors.Wrap(err, "clear profiles")
	}
	return result.DeletedCount, nil
}

// DebugProfiles reports the raw profile documents of the tenant database.
func (s *TenantStore) DebugProfiles(ctx context.Context, tenant string) (models.ProfileDebug, error) {
	debug := models.ProfileDebug{UserDBName: tenant}

	db, err := s.selector.Select(tenant)
	if err != nil {
		return debug, err
	}
	debug.DatabaseName = db.Name()

	if debug.Collections, err = db.ListCollectionNames(ctx, bson.D{}); err != nil {
		return debug, errors.Wrap(err, "list collections")
	}

	coll := db.Collection(profileCollection)
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return debug, errors.Wrap(err, "find profiles")
	}
	defer cursor.Close(ctx)

	debug.AllProfiles = []bson.M{}
	if err = cursor.All(ctx, &debug.AllProfiles); err != nil {
		return debug, errors.Wrap(err, "decode profiles")
	}
	debug.TotalProfiles = len(debug.AllProfiles)

	var profile models.Profile
	err = coll.FindOne(ctx, bson.D{{Key: "userId", Value: tenant}}).Decode(&profile)
	switch {
	case err == nil:
		debug.SpecificProfile = &profile
		debug.ProfileExists = true
	case !errors.Is(err, mongo.ErrNoDocuments):
		return debug, errors.Wrap(err, "find profile")
	}
	return debug, nil
}
