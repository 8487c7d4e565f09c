package store

import (
	"context"
	"time"

	"basket-backend/models"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// rawProfile keeps userId undecoded so legacy formats can be told apart.
type rawProfile struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    bson.RawValue      `bson:"userId"`
	Address   *models.Address    `bson:"address"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// legacyUserID reports whether v is one of the old userId encodings: an
// ObjectId or an embedded {"$oid": ...} document.
func legacyUserID(v bson.RawValue) bool {
	switch v.Type {
	case bsontype.ObjectID:
		return true
	case bsontype.EmbeddedDocument:
		_, err := v.Document().LookupErr("$oid")
		return err == nil
	}
	return false
}

func (s *TenantStore) rawProfiles(ctx context.Context, coll *mongo.Collection) ([]rawProfile, error) {
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "find profiles")
	}
	defer cursor.Close(ctx)

	var profiles []rawProfile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, errors.Wrap(err, "decode profiles")
	}
	return profiles, nil
}

// FixProfiles rewrites legacy userId values to the tenant name.
func (s *TenantStore) FixProfiles(ctx context.Context, tenant string) (models.MigrationReport, error) {
	var report models.MigrationReport

	coll, err := s.collection(tenant, profileCollection)
	if err != nil {
		return report, err
	}

	profiles, err := s.rawProfiles(ctx, coll)
	if err != nil {
		return report, err
	}
	report.TotalProfiles = len(profiles)

	for _, p := range profiles {
		if !legacyUserID(p.UserID) {
			continue
		}
		update := bson.D{{Key: "$set", Value: bson.D{
			{Key: "userId", Value: tenant},
			{Key: "updatedAt", Value: time.Now()},
		}}}
		if _, err := coll.UpdateByID(ctx, p.ID, update); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.FixProfiles").Str("profile", p.ID.Hex()).Msg("")
			return report, errors.Wrap(err, "fix profile")
		}
		report.FixedCount++
	}
	return report, nil
}

// MergeProfiles collapses duplicate profiles into one. The document already
// keyed by tenant wins, then the first legacy one, then the first found. The
// first non-empty address is carried over when the kept profile has none.
func (s *TenantStore) MergeProfiles(ctx context.Context, tenant string) (models.MigrationReport, error) {
	var report models.MigrationReport

	coll, err := s.collection(tenant, profileCollection)
	if err != nil {
		return report, err
	}

	profiles, err := s.rawProfiles(ctx, coll)
	if err != nil {
		return report, err
	}
	report.TotalProfiles = len(profiles)
	if len(profiles) <= 1 {
		return report, nil
	}

	keep := -1
	for i, p := range profiles {
		if name, ok := p.UserID.StringValueOK(); ok && name == tenant {
			keep = i
			break
		}
	}
	if keep < 0 {
		for i, p := range profiles {
			if legacyUserID(p.UserID) {
				keep = i
				break
			}
		}
	}
	if keep < 0 {
		keep = 0
	}
	kept := profiles[keep]

	address := kept.Address
	if address == nil {
		for _, p := range profiles {
			if p.Address != nil {
				address = p.Address
				break
			}
		}
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "userId", Value: tenant},
		{Key: "address", Value: address},
		{Key: "updatedAt", Value: time.Now()},
	}}}
	if _, err := coll.UpdateByID(ctx, kept.ID, update); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.MergeProfiles").Msg("")
		return report, errors.Wrap(err, "update kept profile")
	}

	result, err := coll.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$ne", Value: kept.ID}}}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "TenantStore.MergeProfiles").Msg("")
		return report, errors.Wrap(err, "delete duplicate profiles")
	}

	report.DeletedCount = int(result.DeletedCount)
	report.KeptProfile = &kept.ID
	report.MergedAddress = address
	return report, nil
}

// MigrateProfiles runs FixProfiles then MergeProfiles.
func (s *TenantStore) MigrateProfiles(ctx context.Context, tenant string) (models.MigrationReport, error) {
	fixed, err := s.FixProfiles(ctx, tenant)
	if err != nil {
		return fixed, err
	}

	merged, err := s.MergeProfiles(ctx, tenant)
	merged.FixedCount = fixed.FixedCount
	return merged, err
}
