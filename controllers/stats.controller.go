package controllers

import (
	"context"
	"net/http"
	"time"

	"basket-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether the database answers a ping.
func (ctrl *Controller) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "connected"
	if ctrl.Ping == nil || ctrl.Ping(ctx) != nil {
		dbStatus = "disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  dbStatus,
		"timestamp": time.Now().Unix(),
	})
}

func (ctrl *Controller) GetStats(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	stats, err := ctrl.Catalog.Stats(ctx)
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}

	if stats.TotalOrders, err = ctrl.Orders.Count(ctx); err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
