package controllers_test

import (
	"context"
	"mime/multipart"

	"basket-backend/media"
	"basket-backend/models"
	"github.com/stretchr/testify/mock"
)

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) CreateCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCatalog) Categories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *mockCatalog) DeleteCategory(ctx context.Context, id string) (models.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *mockCatalog) CreateBanners(ctx context.Context, banners []models.Banner) ([]models.Banner, error) {
	args := m.Called(ctx, banners)
	return args.Get(0).([]models.Banner), args.Error(1)
}

func (m *mockCatalog) Banners(ctx context.Context) ([]models.Banner, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Banner), args.Error(1)
}

func (m *mockCatalog) DeleteBanner(ctx context.Context, id string) (models.Banner, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Banner), args.Error(1)
}

func (m *mockCatalog) CreateProduct(ctx context.Context, category string, product *models.Product) error {
	return m.Called(ctx, category, product).Error(0)
}

func (m *mockCatalog) Products(ctx context.Context, category string) ([]models.Product, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockCatalog) Product(ctx context.Context, category, id string) (models.Product, error) {
	args := m.Called(ctx, category, id)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockCatalog) UpdateProduct(ctx context.Context, category, id string, update models.ProductUpdate) (models.Product, error) {
	args := m.Called(ctx, category, id, update)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockCatalog) DeleteProduct(ctx context.Context, category, id string) (models.Product, error) {
	args := m.Called(ctx, category, id)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockCatalog) StorefrontProducts(ctx context.Context, category string) ([]models.Product, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockCatalog) StorefrontProduct(ctx context.Context, category, id string) (models.Product, error) {
	args := m.Called(ctx, category, id)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockCatalog) RandomProducts(ctx context.Context, category string, size int) ([]models.Product, error) {
	args := m.Called(ctx, category, size)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockCatalog) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockCatalog) Stats(ctx context.Context) (models.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Stats), args.Error(1)
}

type mockTenants struct{ mock.Mock }

func (m *mockTenants) AddToCart(ctx context.Context, tenant string, ref models.ProductRef) (models.CartItem, bool, error) {
	args := m.Called(ctx, tenant, ref)
	return args.Get(0).(models.CartItem), args.Bool(1), args.Error(2)
}

func (m *mockTenants) Cart(ctx context.Context, tenant string) ([]models.CartItem, error) {
	args := m.Called(ctx, tenant)
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *mockTenants) SetCartQuantity(ctx context.Context, tenant, productID string, quantity int) (*models.CartItem, error) {
	args := m.Called(ctx, tenant, productID, quantity)
	item, _ := args.Get(0).(*models.CartItem)
	return item, args.Error(1)
}

func (m *mockTenants) RemoveFromCart(ctx context.Context, tenant, productID string) error {
	return m.Called(ctx, tenant, productID).Error(0)
}

func (m *mockTenants) AddFavorite(ctx context.Context, tenant string, ref models.ProductRef) (models.Favorite, bool, error) {
	args := m.Called(ctx, tenant, ref)
	return args.Get(0).(models.Favorite), args.Bool(1), args.Error(2)
}

func (m *mockTenants) Favorites(ctx context.Context, tenant string) ([]models.Favorite, error) {
	args := m.Called(ctx, tenant)
	return args.Get(0).([]models.Favorite), args.Error(1)
}

func (m *mockTenants) RemoveFavorite(ctx context.Context, tenant, productID string) error {
	return m.Called(ctx, tenant, productID).Error(0)
}

func (m *mockTenants) Profile(ctx context.Context, tenant string) (models.Profile, error) {
	args := m.Called(ctx, tenant)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *mockTenants) SaveAddress(ctx context.Context, tenant string, address models.Address) (models.Profile, error) {
	args := m.Called(ctx, tenant, address)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *mockTenants) UpdateProfile(ctx context.Context, tenant string, req models.ProfileUpdateRequest) (models.Profile, error) {
	args := m.Called(ctx, tenant, req)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *mockTenants) ClearProfiles(ctx context.Context, tenant string) (int64, error) {
	args := m.Called(ctx, tenant)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTenants) DebugProfiles(ctx context.Context, tenant string) (models.ProfileDebug, error) {
	args := m.Called(ctx, tenant)
	return args.Get(0).(models.ProfileDebug), args.Error(1)
}

func (m *mockTenants) FixProfiles(ctx context.Context, tenant string) (models.MigrationReport, error) {
	args := m.Called(ctx, tenant)
	return args.Get(0).(models.MigrationReport), args.Error(1)
}

func (m *mockTenants) MergeProfiles(ctx context.Context, tenant string) (models.MigrationReport, error) {
	args := m.Called(ctx, tenant)
	return args.Get(0).(models.MigrationReport), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) UpsertUser(ctx context.Context, username, phone string) (models.User, error) {
	args := m.Called(ctx, username, phone)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUsers) EnsureTenant(ctx context.Context, tenant, username, phone string) error {
	return m.Called(ctx, tenant, username, phone).Error(0)
}

type mockOrders struct{ mock.Mock }

func (m *mockOrders) PlaceOrder(ctx context.Context, tenant, paymentMethod, idempotencyKey string) (models.Order, bool, error) {
	args := m.Called(ctx, tenant, paymentMethod, idempotencyKey)
	return args.Get(0).(models.Order), args.Bool(1), args.Error(2)
}

func (m *mockOrders) ListOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrders) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockImages struct{ mock.Mock }

func (m *mockImages) Save(ctx context.Context, folder string, file *multipart.FileHeader) (media.Image, error) {
	args := m.Called(ctx, folder, file)
	return args.Get(0).(media.Image), args.Error(1)
}

func (m *mockImages) Delete(ctx context.Context, image media.Image) error {
	return m.Called(ctx, image).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) OrderPlaced(ctx context.Context, order models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockPublisher) Close() error { return nil }
