package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"basket-backend/models"
	"basket-backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	defaultRandomLimit = 6
	maxRandomLimit     = 24
)

// randomLimit parses the limit query. Anything unparsable or below one falls
// back to the default; large values are capped.
func randomLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultRandomLimit
	}
	if n > maxRandomLimit {
		return maxRandomLimit
	}
	return n
}

// HomeProducts lists a category for the storefront. Unknown categories are
// empty.
func (ctrl *Controller) HomeProducts(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	products, err := ctrl.Catalog.StorefrontProducts(ctx, c.Param("category"))
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (ctrl *Controller) RandomProducts(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	products, err := ctrl.Catalog.RandomProducts(ctx, c.Param("category"), randomLimit(c.Query("limit")))
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (ctrl *Controller) HomeProduct(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	product, err := ctrl.Catalog.StorefrontProduct(ctx, c.Param("category"), c.Param("id"))
	if err != nil {
		response.WriteErrorResponse(c, errors.Wrap(err, "product"))
		return
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *Controller) search(c *gin.Context, query string) ([]models.Product, bool) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Product{}, true
	}

	products, err := ctrl.Catalog.SearchProducts(ctx, query)
	if err != nil {
		response.WriteErrorResponse(c, err)
		return nil, false
	}
	return products, true
}

// Search answers GET /search?q= with {"products": [...]}.
func (ctrl *Controller) Search(c *gin.Context) {
	products, ok := ctrl.search(c, c.Query("q"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// SearchProducts answers GET /search/products?query= with a bare array.
func (ctrl *Controller) SearchProducts(c *gin.Context) {
	products, ok := ctrl.search(c, c.Query("query"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, products)
}
