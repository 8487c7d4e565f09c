package store

import (
	"context"
	"time"

	"basket-backend/models"
	"basket-backend/naming"
	"basket-backend/pkg/errs"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	categoriesCollection = "categories"
	bannersCollection    = "banners"
	usersCollection      = "users"
)

// CatalogStore serves the shared catalog database: categories, banners and
// the per-category product collections.
type CatalogStore struct {
	db       *mongo.Database
	products *ProductRegistry
}

func NewCatalogStore(db *mongo.Database, products *ProductRegistry) *CatalogStore {
	return &CatalogStore{db: db, products: products}
}

// CreateCategory stores the category and creates its product collection.
func (s *CatalogStore) CreateCategory(ctx context.Context, category *models.Category) error {
	category.Collection = naming.CollectionName(category.Name)
	if err := naming.ValidateCollectionName(category.Collection); err != nil {
		return err
	}
	category.CreatedAt = time.Now()

	result, err := s.db.Collection(categoriesCollection).InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrCategoryExists
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "CatalogStore.CreateCategory").Msg("")
		return errors.Wrap(err, "insert category")
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid
	}

	if err := s.products.Create(ctx, category.Collection); err != nil {
		// without its collection the category must not block a retry
		if _, dErr := s.db.Collection(categoriesCollection).DeleteOne(ctx, bson.D{{Key: "_id", Value: result.InsertedID}}); dErr != nil {
			log.Ctx(ctx).Error().Err(dErr).Str("component", "CatalogStore.CreateCategory").Str("category", category.Name).Msg("remove category after failed create")
		}
		return err
	}
	return nil
}

func (s *CatalogStore) Categories(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.db.Collection(categoriesCollection).Find(ctx, bson.D{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CatalogStore.Categories").Msg("")
		return nil, errors.Wrap(err, "find categories")
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return categories, nil
}

// DeleteCategory removes the category document and drops its products.
func (s *CatalogStore) DeleteCategory(ctx context.Context, id string) (category models.Category, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return category, errors.Wrap(errs.ErrNotFound, "invalid category id")
	}

	err = s.db.Collection(categoriesCollection).FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return category, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "CatalogStore.DeleteCategory").Msg("")
		return category, errors.Wrap(err, "delete category")
	}

	// categories written before the collection field existed
	collection := category.Collection
	if collection == "" {
		collection = naming.CollectionName(category.Name)
	}
	if naming.IsReservedCollection(collection) {
		return category, nil
	}

	if _, err = s.products.Drop(ctx, collection); err != nil {
		return category, err
	}
	return category, nil
}

func (s *CatalogStore) CreateBanners(ctx context.Context, banners []models.Banner) ([]models.Banner, error) {
	if len(banners) == 0 {
		return banners, nil
	}

	docs := make([]interface{}, len(banners))
	now := time.Now()
	for i := range banners {
		banners[i].UploadedAt = now
		docs[i] = banners[i]
	}

	result, err := s.db.Collection(bannersCollection).InsertMany(ctx, docs)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CatalogStore.CreateBanners").Msg("")
		return nil, errors.Wrap(err, "insert banners")
	}
	for i, id := range result.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			banners[i].ID = oid
		}
	}
	return banners, nil
}

// Banners lists banners newest first.
func (s *CatalogStore) Banners(ctx context.Context) ([]models.Banner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	cursor, err := s.db.Collection(bannersCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CatalogStore.Banners").Msg("")
		return nil, errors.Wrap(err, "find banners")
	}
	defer cursor.Close(ctx)

	banners := []models.Banner{}
	if err = cursor.All(ctx, &banners); err != nil {
		return nil, errors.Wrap(err, "decode banners")
	}
	return banners, nil
}

func (s *CatalogStore) DeleteBanner(ctx context.Context, id string) (banner models.Banner, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return banner, errors.Wrap(errs.ErrNotFound, "invalid banner id")
	}

	err = s.db.Collection(bannersCollection).FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&banner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return banner, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "CatalogStore.DeleteBanner").Msg("")
		return banner, errors.Wrap(err, "delete banner")
	}
	return banner, nil
}

// adminProducts binds the collection of category for writes. The name must
// be a legal product collection.
func (s *CatalogStore) adminProducts(category string) (*ProductCollection, error) {
	id := naming.CollectionName(category)
	if err := naming.ValidateCollectionName(id); err != nil {
		return nil, err
	}
	return s.products.Bind(id), nil
}

// storefrontProducts binds the collection of category only if it exists.
func (s *CatalogStore) storefrontProducts(ctx context.Context, category string) (*ProductCollection, bool, error) {
	id := naming.CollectionName(category)
	if naming.ValidateCollectionName(id) != nil {
		return nil, false, nil
	}

	exists, err := s.products.Exists(ctx, id)
	if err != nil || !exists {
		return nil, false, err
	}
	return s.products.Bind(id), true, nil
}

func (s *CatalogStore) CreateProduct(ctx context.Context, category string, product *models.Product) error {
	products, err := s.adminProducts(category)
	if err != nil {
		return err
	}
	return products.Insert(ctx, product)
}

func (s *CatalogStore) Products(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.adminProducts(category)
	if err != nil {
		return nil, err
	}
	return products.List(ctx)
}

func (s *CatalogStore) Product(ctx context.Context, category, id string) (models.Product, error) {
	products, err := s.adminProducts(category)
	if err != nil {
		return models.Product{}, err
	}
	return products.FindByID(ctx, id)
}

func (s *CatalogStore) UpdateProduct(ctx context.Context, category, id string, update models.ProductUpdate) (models.Product, error) {
	products, err := s.adminProducts(category)
	if err != nil {
		return models.Product{}, err
	}
	return products.Update(ctx, id, update)
}

func (s *CatalogStore) DeleteProduct(ctx context.Context, category, id string) (models.Product, error) {
	products, err := s.adminProducts(category)
	if err != nil {
		return models.Product{}, err
	}
	return products.Delete(ctx, id)
}

// StorefrontProducts lists a category's products. A category that was never
// created yields an empty list and nothing is created.
func (s *CatalogStore) StorefrontProducts(ctx context.Context, category string) ([]models.Product, error) {
	products, ok, err := s.storefrontProducts(ctx, category)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Product{}, nil
	}
	return products.List(ctx)
}

func (s *CatalogStore) StorefrontProduct(ctx context.Context, category, id string) (models.Product, error) {
	products, ok, err := s.storefrontProducts(ctx, category)
	if err != nil {
		return models.Product{}, err
	}
	if !ok {
		return models.Product{}, errs.ErrNotFound
	}
	return products.FindByID(ctx, id)
}

func (s *CatalogStore) RandomProducts(ctx context.Context, category string, size int) ([]models.Product, error) {
	products, ok, err := s.storefrontProducts(ctx, category)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Product{}, nil
	}
	return products.Sample(ctx, size)
}

// SearchProducts scans every product collection for query.
func (s *CatalogStore) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	names, err := s.products.Collections(ctx)
	if err != nil {
		return nil, err
	}

	results := []models.Product{}
	for _, name := range names {
		found, err := s.products.Bind(name).Search(ctx, query)
		if err != nil {
			return nil, err
		}
		results = append(results, found...)
	}
	return results, nil
}

// Stats counts the catalog. Orders are counted by the OrderStore.
func (s *CatalogStore) Stats(ctx context.Context) (models.Stats, error) {
	stats := models.Stats{ProductsByCategory: map[string]int64{}}

	counts := []struct {
		collection string
		target     *int64
	}{
		{categoriesCollection, &stats.TotalCategories},
		{bannersCollection, &stats.TotalBanners},
		{usersCollection, &stats.TotalUsers},
	}
	for _, c := range counts {
		n, err := s.db.Collection(c.collection).CountDocuments(ctx, bson.D{})
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "CatalogStore.Stats").Str("collection", c.collection).Msg("")
			return stats, errors.Wrapf(err, "count %s", c.collection)
		}
		*c.target = n
	}

	names, err := s.products.Collections(ctx)
	if err != nil {
		return stats, err
	}
	for _, name := range names {
		n, err := s.products.Bind(name).Count(ctx)
		if err != nil {
			return stats, err
		}
		stats.ProductsByCategory[name] = n
		stats.TotalProducts += n
	}
	return stats, nil
}
