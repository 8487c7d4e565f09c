package controllers

import (
	"net/http"

	"basket-backend/media"
	"basket-backend/models"
	"basket-backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// CreateProduct adds a product to the collection of the :category path
// parameter. The category document itself is not consulted.
func (ctrl *Controller) CreateProduct(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	var input models.ProductInput
	if err := c.ShouldBind(&input); err != nil {
		response.WriteClientError(c, "Name and a valid price are required", err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		response.WriteClientError(c, "Product image is required.", nil)
		return
	}

	image, err := ctrl.Images.Save(ctx, media.FolderProducts, file)
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}

	product := models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		Weight:      input.Weight,
		WeightUnit:  input.WeightUnit,
		Image:       image.URL,
		ImageID:     image.ID,
	}
	if err := ctrl.Catalog.CreateProduct(ctx, c.Param("category"), &product); err != nil {
		if dErr := ctrl.Images.Delete(ctx, image); dErr != nil {
			log.Ctx(ctx).Warn().Err(dErr).Msg("discard product image")
		}
		response.WriteErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (ctrl *Controller) GetProducts(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	products, err := ctrl.Catalog.Products(ctx, c.Param("category"))
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (ctrl *Controller) GetProduct(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	product, err := ctrl.Catalog.Product(ctx, c.Param("category"), c.Param("id"))
	if err != nil {
		response.WriteErrorResponse(c, errors.Wrap(err, "product"))
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct applies the submitted fields. A new image replaces the old
// one, which is removed after the update succeeds.
func (ctrl *Controller) UpdateProduct(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	category, id := c.Param("category"), c.Param("id")

	var update models.ProductUpdate
	if err := c.ShouldBind(&update); err != nil {
		response.WriteClientError(c, "Invalid product data", err)
		return
	}

	var previous models.Product
	file, fileErr := c.FormFile("image")
	if fileErr == nil {
		var err error
		if previous, err = ctrl.Catalog.Product(ctx, category, id); err != nil {
			response.WriteErrorResponse(c, errors.Wrap(err, "product"))
			return
		}

		image, err := ctrl.Images.Save(ctx, media.FolderProducts, file)
		if err != nil {
			response.WriteErrorResponse(c, err)
			return
		}
		update.Image, update.ImageID = image.URL, image.ID
	}

	product, err := ctrl.Catalog.UpdateProduct(ctx, category, id, update)
	if err != nil {
		if update.Image != "" {
			if dErr := ctrl.discardImage(ctx, update.Image, update.ImageID); dErr != nil {
				log.Ctx(ctx).Warn().Err(dErr).Msg("discard product image")
			}
		}
		response.WriteErrorResponse(c, errors.Wrap(err, "product"))
		return
	}

	if update.Image != "" {
		if err := ctrl.discardImage(ctx, previous.Image, previous.ImageID); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("discard replaced product image")
		}
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *Controller) DeleteProduct(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	product, err := ctrl.Catalog.DeleteProduct(ctx, c.Param("category"), c.Param("id"))
	if err != nil {
		response.WriteErrorResponse(c, errors.Wrap(err, "product"))
		return
	}

	if err := ctrl.discardImage(ctx, product.Image, product.ImageID); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("discard product image")
	}
	response.WriteMessage(c, http.StatusOK, "Product deleted successfully")
}
