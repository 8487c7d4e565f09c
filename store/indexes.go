package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexSpec struct {
	db         *mongo.Database
	collection string
	model      mongo.IndexModel
}

// EnsureIndexes creates the unique indexes the stores rely on. It is safe to
// run on every start.
func EnsureIndexes(ctx context.Context, catalog, orders *mongo.Database) error {
	specs := []indexSpec{
		{catalog, categoriesCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{catalog, categoriesCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "collection", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		}},
		{catalog, usersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{orders, ordersCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "userDbName", Value: 1}, {Key: "idempotencyKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.D{
				{Key: "idempotencyKey", Value: bson.D{{Key: "$exists", Value: true}}},
			}),
		}},
	}

	for _, spec := range specs {
		if _, err := spec.db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "EnsureIndexes").Str("collection", spec.collection).Msg("")
			return errors.Wrapf(err, "create index on %s", spec.collection)
		}
	}
	return nil
}
