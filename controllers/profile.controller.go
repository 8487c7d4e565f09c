package controllers

import (
	"net/http"

	"basket-backend/middleware"
	"basket-backend/models"
	"basket-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

func (ctrl *Controller) GetProfile(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	profile, err := ctrl.Tenants.Profile(ctx, middleware.TenantFrom(c))
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (ctrl *Controller) UpdateProfile(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	var req models.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteClientError(c, "Invalid profile data", err)
		return
	}

	profile, err := ctrl.Tenants.UpdateProfile(ctx, middleware.TenantFrom(c), req)
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "profile": profile})
}

func (ctrl *Controller) SaveAddress(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	var address models.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		response.WriteClientError(c, "Required address fields missing", err)
		return
	}

	profile, err := ctrl.Tenants.SaveAddress(ctx, middleware.TenantFrom(c), address)
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address saved successfully", "profile": profile})
}

// ProfileTest answers without touching storage.
func (ctrl *Controller) ProfileTest(c *gin.Context) {
	response.WriteMessage(c, http.StatusOK, "Profile routes are working")
}

func (ctrl *Controller) DebugProfile(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	debug, err := ctrl.Tenants.DebugProfiles(ctx, middleware.TenantFrom(c))
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, debug)
}

func (ctrl *Controller) ClearProfile(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	deleted, err := ctrl.Tenants.ClearProfiles(ctx, middleware.TenantFrom(c))
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profiles cleared", "deletedCount": deleted})
}

func (ctrl *Controller) FixProfile(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	report, err := ctrl.Tenants.FixProfiles(ctx, middleware.TenantFrom(c))
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (ctrl *Controller) MergeProfile(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	report, err := ctrl.Tenants.MergeProfiles(ctx, middleware.TenantFrom(c))
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
