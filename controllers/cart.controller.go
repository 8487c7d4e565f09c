package controllers

import (
	"net/http"

	"basket-backend/middleware"
	"basket-backend/models"
	"basket-backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

func (ctrl *Controller) GetCart(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	items, err := ctrl.Tenants.Cart(ctx, middleware.TenantFrom(c))
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddToCart answers 201 with the new line, or 200 with the incremented one.
func (ctrl *Controller) AddToCart(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	var ref models.ProductRef
	if err := c.ShouldBindJSON(&ref); err != nil {
		response.WriteClientError(c, "productId and category are required", err)
		return
	}

	item, created, err := ctrl.Tenants.AddToCart(ctx, middleware.TenantFrom(c), ref)
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, item)
}

func (ctrl *Controller) UpdateCartItem(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	var req models.CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteClientError(c, "quantity is required", err)
		return
	}

	item, err := ctrl.Tenants.SetCartQuantity(ctx, middleware.TenantFrom(c), c.Param("productId"), *req.Quantity)
	if err != nil {
		response.WriteErrorResponse(c, errors.Wrap(err, "cart item"))
		return
	}
	if item == nil {
		response.WriteMessage(c, http.StatusOK, "Item removed from cart")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ctrl *Controller) RemoveCartItem(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	if err := ctrl.Tenants.RemoveFromCart(ctx, middleware.TenantFrom(c), c.Param("productId")); err != nil {
		response.WriteErrorResponse(c, errors.Wrap(err, "cart item"))
		return
	}
	response.WriteMessage(c, http.StatusOK, "Item removed from cart")
}

func (ctrl *Controller) GetFavorites(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	favorites, err := ctrl.Tenants.Favorites(ctx, middleware.TenantFrom(c))
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

func (ctrl *Controller) AddFavorite(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	var ref models.ProductRef
	if err := c.ShouldBindJSON(&ref); err != nil {
		response.WriteClientError(c, "productId and category are required", err)
		return
	}

	favorite, created, err := ctrl.Tenants.AddFavorite(ctx, middleware.TenantFrom(c), ref)
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	if !created {
		response.WriteMessage(c, http.StatusOK, "Already in favorites")
		return
	}
	c.JSON(http.StatusCreated, favorite)
}

func (ctrl *Controller) RemoveFavorite(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	if err := ctrl.Tenants.RemoveFavorite(ctx, middleware.TenantFrom(c), c.Param("productId")); err != nil {
		response.WriteErrorResponse(c, errors.Wrap(err, "favorite"))
		return
	}
	response.WriteMessage(c, http.StatusOK, "Removed from favorites")
}
