package routes

import (
	"net/http"

	"basket-backend/controllers"
	"basket-backend/middleware"
	"basket-backend/pkg/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"}

type SessionParser interface {
	middleware.TenantParser
	middleware.AdminParser
}

type Options struct {
	Env          string
	CORSOrigins  []string
	Maintenance  bool
	UploadDir    string // served under /uploads when set
	MaxFormBytes int64
}

// Setup builds the gin engine with every route of the API.
func Setup(ctrl *controllers.Controller, sessions SessionParser, opts Options) *gin.Engine {
	if opts.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	if opts.MaxFormBytes > 0 {
		r.MaxMultipartMemory = opts.MaxFormBytes
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = opts.CORSOrigins
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = defaultOrigins
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TenantHeader, controllers.IdempotencyKeyHeader, middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	r.Use(cors.New(config))

	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	api := r.Group("/api")
	{
		api.GET("/health", ctrl.HealthCheck)
		api.POST("/user/login", ctrl.Login)
	}

	admin := api.Group("/admin", middleware.AdminGuard(sessions))
	{
		admin.POST("/categories", ctrl.CreateCategory)
		admin.GET("/categories", ctrl.GetCategories)
		admin.DELETE("/categories/:id", ctrl.DeleteCategory)

		admin.POST("/banners", ctrl.UploadBanners)
		admin.GET("/banners", ctrl.GetBanners)
		admin.DELETE("/banners/:id", ctrl.DeleteBanner)

		admin.POST("/products/:category", ctrl.CreateProduct)
		admin.GET("/products/:category", ctrl.GetProducts)
		admin.GET("/products/:category/:id", ctrl.GetProduct)
		admin.PUT("/products/:category/:id", ctrl.UpdateProduct)
		admin.DELETE("/products/:category/:id", ctrl.DeleteProduct)

		admin.GET("/orders", ctrl.GetOrders)
		admin.GET("/stats", ctrl.GetStats)
	}

	home := api.Group("/home")
	{
		// storefront
		home.GET("/categories", ctrl.GetCategories)
		home.GET("/banners", ctrl.GetBanners)
		home.GET("/products/:category", ctrl.HomeProducts)
		home.GET("/products/:category/random", ctrl.RandomProducts)
		home.GET("/products/:category/:id", ctrl.HomeProduct)
		home.GET("/search", ctrl.Search)
		home.GET("/search/products", ctrl.SearchProducts)

		if opts.Maintenance {
			home.GET("/profile/test", ctrl.ProfileTest)
		}
	}

	tenant := home.Group("", middleware.Tenant(sessions))
	{
		tenant.GET("/favorites", ctrl.GetFavorites)
		tenant.POST("/favorites", ctrl.AddFavorite)
		tenant.DELETE("/favorites/:productId", ctrl.RemoveFavorite)

		tenant.GET("/cart", ctrl.GetCart)
		tenant.POST("/cart", ctrl.AddToCart)
		tenant.PUT("/cart/:productId", ctrl.UpdateCartItem)
		tenant.DELETE("/cart/:productId", ctrl.RemoveCartItem)

		tenant.POST("/orders", ctrl.PlaceOrder)

		tenant.GET("/profile", ctrl.GetProfile)
		tenant.PUT("/profile", ctrl.UpdateProfile)
		tenant.POST("/profile/address", ctrl.SaveAddress)

		if opts.Maintenance {
			tenant.GET("/profile/debug", ctrl.DebugProfile)
			tenant.DELETE("/profile/clear", ctrl.ClearProfile)
			tenant.POST("/profile/fix", ctrl.FixProfile)
			tenant.POST("/profile/merge", ctrl.MergeProfile)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "API endpoint not found"})
	})
	return r
}
