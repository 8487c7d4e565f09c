package store

import (
	"context"
	"regexp"
	"sync"

	"basket-backend/models"
	"basket-backend/naming"
	"basket-backend/pkg/errs"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

const (
	productKeyPrefix = "Product_"

	codeNamespaceExists = 48
)

// ProductRegistry hands out one ProductCollection per category collection.
// Handles are created lazily and live for the lifetime of the process.
type ProductRegistry struct {
	db      *mongo.Database
	handles sync.Map
	group   singleflight.Group
}

func NewProductRegistry(db *mongo.Database) *ProductRegistry {
	return &ProductRegistry{db: db}
}

// Bind returns the handle for the collection named id. It never fails: an id
// the server refuses only errors on the first operation through the handle.
func (r *ProductRegistry) Bind(id string) *ProductCollection {
	key := productKeyPrefix + id
	if h, ok := r.handles.Load(key); ok {
		return h.(*ProductCollection)
	}

	h, _, _ := r.group.Do(key, func() (interface{}, error) {
		if h, ok := r.handles.Load(key); ok {
			return h, nil
		}
		pc := &ProductCollection{name: id, coll: r.db.Collection(id)}
		r.handles.Store(key, pc)
		return pc, nil
	})

	return h.(*ProductCollection)
}

// Exists reports whether the collection id has been created on the server.
func (r *ProductRegistry) Exists(ctx context.Context, id string) (bool, error) {
	names, err := r.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: id}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductRegistry.Exists").Msg("")
		return false, errors.Wrap(err, "list collections")
	}
	return len(names) > 0, nil
}

// Create creates the collection id. An already existing collection is fine.
func (r *ProductRegistry) Create(ctx context.Context, id string) error {
	err := r.db.CreateCollection(ctx, id)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceExists {
		return nil
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductRegistry.Create").Msg("")
		return errors.Wrapf(err, "create collection %s", id)
	}
	return nil
}

// Drop removes the collection id when present and forgets its handle.
func (r *ProductRegistry) Drop(ctx context.Context, id string) (bool, error) {
	exists, err := r.Exists(ctx, id)
	if err != nil || !exists {
		return false, err
	}

	if err := r.db.Collection(id).Drop(ctx); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductRegistry.Drop").Msg("")
		return false, errors.Wrapf(err, "drop collection %s", id)
	}
	r.handles.Delete(productKeyPrefix + id)
	return true, nil
}

// Collections lists the product collections, skipping shared and system ones.
func (r *ProductRegistry) Collections(ctx context.Context) ([]string, error) {
	names, err := r.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductRegistry.Collections").Msg("")
		return nil, errors.Wrap(err, "list collections")
	}

	out := make([]string, 0, len(names))
	for _, name := range names {
		if !naming.IsReservedCollection(name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// ProductCollection is a typed handle over one category's products.
type ProductCollection struct {
	name string
	coll *mongo.Collection
}

func (p *ProductCollection) Name() string {
	return p.name
}

func (p *ProductCollection) Insert(ctx context.Context, product *models.Product) error {
	result, err := p.coll.InsertOne(ctx, product)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductCollection.Insert").Str("collection", p.name).Msg("")
		return errors.Wrap(err, "insert product")
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

func (p *ProductCollection) List(ctx context.Context) ([]models.Product, error) {
	return p.find(ctx, bson.D{})
}

func (p *ProductCollection) FindByID(ctx context.Context, id string) (product models.Product, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return product, errors.Wrap(errs.ErrNotFound, "invalid product id")
	}

	err = p.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductCollection.FindByID").Str("collection", p.name).Msg("")
		return product, errors.Wrap(err, "find product")
	}
	return product, nil
}

// Update applies the non-nil fields of update and returns the new document.
func (p *ProductCollection) Update(ctx context.Context, id string, update models.ProductUpdate) (product models.Product, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return product, errors.Wrap(errs.ErrNotFound, "invalid product id")
	}

	set, err := bson.Marshal(update)
	if err != nil {
		return product, errors.Wrap(err, "encode product update")
	}
	if elems, _ := bson.Raw(set).Elements(); len(elems) == 0 {
		return p.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = p.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: bson.Raw(set)}}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductCollection.Update").Str("collection", p.name).Msg("")
		return product, errors.Wrap(err, "update product")
	}
	return product, nil
}

// Delete removes a product and returns what was removed.
func (p *ProductCollection) Delete(ctx context.Context, id string) (product models.Product, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return product, errors.Wrap(errs.ErrNotFound, "invalid product id")
	}

	err = p.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductCollection.Delete").Str("collection", p.name).Msg("")
		return product, errors.Wrap(err, "delete product")
	}
	return product, nil
}

// Sample returns up to size random products.
func (p *ProductCollection) Sample(ctx context.Context, size int) ([]models.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: size}}}},
	}
	cursor, err := p.coll.Aggregate(ctx, pipeline)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductCollection.Sample").Str("collection", p.name).Msg("")
		return nil, errors.Wrap(err, "sample products")
	}

	products := []models.Product{}
	if err = cursor.All(ctx, &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

// Search matches query as a case-insensitive substring of name or
// description. Results carry the collection name as their category.
func (p *ProductCollection) Search(ctx context.Context, query string) ([]models.Product, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "name", Value: pattern}},
		bson.D{{Key: "description", Value: pattern}},
	}}}

	products, err := p.find(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].CategoryName = p.name
	}
	return products, nil
}

func (p *ProductCollection) Count(ctx context.Context) (int64, error) {
	n, err := p.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, "count products")
	}
	return n, nil
}

func (p *ProductCollection) find(ctx context.Context, filter interface{}) ([]models.Product, error) {
	cursor, err := p.coll.Find(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ProductCollection.Find").Str("collection", p.name).Msg("")
		return nil, errors.Wrap(err, "find products")
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err = cursor.All(ctx, &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}
