package controllers

import (
	"context"
	"time"

	"basket-backend/events"
	"basket-backend/media"
	"basket-backend/models"
	"github.com/gin-gonic/gin"
)

const defaultTimeout = 10 * time.Second

type CatalogStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	Categories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id string) (models.Category, error)

	CreateBanners(ctx context.Context, banners []models.Banner) ([]models.Banner, error)
	Banners(ctx context.Context) ([]models.Banner, error)
	DeleteBanner(ctx context.Context, id string) (models.Banner, error)

	CreateProduct(ctx context.Context, category string, product *models.Product) error
	Products(ctx context.Context, category string) ([]models.Product, error)
	Product(ctx context.Context, category, id string) (models.Product, error)
	UpdateProduct(ctx context.Context, category, id string, update models.ProductUpdate) (models.Product, error)
	DeleteProduct(ctx context.Context, category, id string) (models.Product, error)

	StorefrontProducts(ctx context.Context, category string) ([]models.Product, error)
	StorefrontProduct(ctx context.Context, category, id string) (models.Product, error)
	RandomProducts(ctx context.Context, category string, size int) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)

	Stats(ctx context.Context) (models.Stats, error)
}

type TenantStore interface {
	AddToCart(ctx context.Context, tenant string, ref models.ProductRef) (models.CartItem, bool, error)
	Cart(ctx context.Context, tenant string) ([]models.CartItem, error)
	SetCartQuantity(ctx context.Context, tenant, productID string, quantity int) (*models.CartItem, error)
	RemoveFromCart(ctx context.Context, tenant, productID string) error

	AddFavorite(ctx context.Context, tenant string, ref models.ProductRef) (models.Favorite, bool, error)
	Favorites(ctx context.Context, tenant string) ([]models.Favorite, error)
	RemoveFavorite(ctx context.Context, tenant, productID string) error

	Profile(ctx context.Context, tenant string) (models.Profile, error)
	SaveAddress(ctx context.Context, tenant string, address models.Address) (models.Profile, error)
	UpdateProfile(ctx context.Context, tenant string, req models.ProfileUpdateRequest) (models.Profile, error)
	ClearProfiles(ctx context.Context, tenant string) (int64, error)
	DebugProfiles(ctx context.Context, tenant string) (models.ProfileDebug, error)
	FixProfiles(ctx context.Context, tenant string) (models.MigrationReport, error)
	MergeProfiles(ctx context.Context, tenant string) (models.MigrationReport, error)
}

type UserStore interface {
	UpsertUser(ctx context.Context, username, phone string) (models.User, error)
	EnsureTenant(ctx context.Context, tenant, username, phone string) error
}

type OrderStore interface {
	PlaceOrder(ctx context.Context, tenant, paymentMethod, idempotencyKey string) (models.Order, bool, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	Count(ctx context.Context) (int64, error)
}

type Sessions interface {
	IssueTenant(tenant string) (string, error)
	IssueAdmin(username string) (string, error)
}

// AdminCredentials identify the single back-office account. PhoneHash is a
// bcrypt hash; an empty hash disables admin login.
type AdminCredentials struct {
	Username  string
	PhoneHash []byte
}

// Controller holds the dependencies shared by every handler.
type Controller struct {
	Catalog  CatalogStore
	Tenants  TenantStore
	Users    UserStore
	Orders   OrderStore
	Images   media.ImageStore
	Events   events.Publisher
	Sessions Sessions
	Admin    AdminCredentials
	Timeout  time.Duration
	Ping     func(ctx context.Context) error

	// PublishTimeout bounds event publishing after an order is stored.
	PublishTimeout time.Duration
}

func (ctrl *Controller) context(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := ctrl.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// discardImage removes an image that is no longer referenced. Failures only
// leave an orphaned file behind.
func (ctrl *Controller) discardImage(ctx context.Context, url, id string) error {
	if url == "" && id == "" {
		return nil
	}
	return ctrl.Images.Delete(ctx, media.Image{URL: url, ID: id})
}
