package controllers

import (
	"context"
	"io"
	"net/http"
	"time"

	"basket-backend/middleware"
	"basket-backend/models"
	"basket-backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const IdempotencyKeyHeader = "Idempotency-Key"

const defaultPublishTimeout = 3 * time.Second

// PlaceOrder checks out the tenant's cart. Retries carrying the same
// Idempotency-Key return the order placed by the first attempt.
func (ctrl *Controller) PlaceOrder(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.WriteClientError(c, "Invalid order request", err)
		return
	}

	tenant := middleware.TenantFrom(c)
	order, created, err := ctrl.Orders.PlaceOrder(ctx, tenant, req.PaymentMethod, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Order already placed", "orderId": order.ID})
		return
	}

	ctrl.publishOrderPlaced(ctx, order)
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "orderId": order.ID})
}

// GetOrders lists every order for the back office.
func (ctrl *Controller) GetOrders(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	orders, err := ctrl.Orders.ListOrders(ctx)
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// publishOrderPlaced runs on its own deadline, detached from the request
// timeout: the order is already stored and a slow broker must not fail it.
func (ctrl *Controller) publishOrderPlaced(ctx context.Context, order models.Order) {
	timeout := ctrl.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := ctrl.Events.OrderPlaced(pubCtx, order); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("order", order.ID.Hex()).Msg("publish order placed")
	}
}
