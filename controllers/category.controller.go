package controllers

import (
	"net/http"
	"strings"

	"basket-backend/media"
	"basket-backend/models"
	"basket-backend/pkg/errs"
	"basket-backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxBannerFiles = 10

// CreateCategory stores a category with its image and creates the category's
// product collection.
func (ctrl *Controller) CreateCategory(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	name := strings.TrimSpace(c.PostForm("name"))
	file, err := c.FormFile("image")
	if name == "" || err != nil {
		response.WriteClientError(c, "Name and image are required", nil)
		return
	}

	image, err := ctrl.Images.Save(ctx, media.FolderCategories, file)
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}

	category := models.Category{Name: name, Image: image.URL, ImageID: image.ID}
	if err := ctrl.Catalog.CreateCategory(ctx, &category); err != nil {
		if dErr := ctrl.Images.Delete(ctx, image); dErr != nil {
			log.Ctx(ctx).Warn().Err(dErr).Msg("discard category image")
		}
		response.WriteErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (ctrl *Controller) GetCategories(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	categories, err := ctrl.Catalog.Categories(ctx)
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// DeleteCategory removes the category, its products and its image.
func (ctrl *Controller) DeleteCategory(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	category, err := ctrl.Catalog.DeleteCategory(ctx, c.Param("id"))
	if err != nil {
		response.WriteErrorResponse(c, errors.Wrap(err, "category"))
		return
	}

	if err := ctrl.discardImage(ctx, category.Image, category.ImageID); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("category", category.Name).Msg("discard category image")
	}
	response.WriteMessage(c, http.StatusOK, "Category deleted successfully")
}

func (ctrl *Controller) UploadBanners(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	form, err := c.MultipartForm()
	if err != nil || len(form.File["banners"]) == 0 {
		response.WriteErrorResponse(c, errs.ErrNoFile)
		return
	}
	files := form.File["banners"]
	if len(files) > maxBannerFiles {
		response.WriteClientError(c, "Too many files", errors.Errorf("at most %d banners per upload", maxBannerFiles))
		return
	}

	banners := make([]models.Banner, 0, len(files))
	saved := make([]media.Image, 0, len(files))
	for _, file := range files {
		image, err := ctrl.Images.Save(ctx, media.FolderBanners, file)
		if err != nil {
			ctrl.discardAll(c, saved)
			response.WriteErrorResponse(c, err)
			return
		}
		saved = append(saved, image)
		banners = append(banners, models.Banner{Path: image.URL, ImageID: image.ID})
	}

	banners, err = ctrl.Catalog.CreateBanners(ctx, banners)
	if err != nil {
		ctrl.discardAll(c, saved)
		response.WriteErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"banners": banners})
}

func (ctrl *Controller) discardAll(c *gin.Context, images []media.Image) {
	for _, image := range images {
		if err := ctrl.Images.Delete(c.Request.Context(), image); err != nil {
			log.Ctx(c.Request.Context()).Warn().Err(err).Str("image", image.URL).Msg("discard image")
		}
	}
}

func (ctrl *Controller) GetBanners(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	banners, err := ctrl.Catalog.Banners(ctx)
	if err != nil {
		response.WriteErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

func (ctrl *Controller) DeleteBanner(c *gin.Context) {
	ctx, cancel := ctrl.context(c)
	defer cancel()

	banner, err := ctrl.Catalog.DeleteBanner(ctx, c.Param("id"))
	if err != nil {
		response.WriteErrorResponse(c, errors.Wrap(err, "banner"))
		return
	}

	err = ctrl.discardImage(ctx, banner.Path, banner.ImageID)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		response.WriteMessage(c, http.StatusOK, "Banner deleted from DB, file missing.")
		return
	case err != nil:
		log.Ctx(ctx).Warn().Err(err).Msg("discard banner image")
	}
	response.WriteMessage(c, http.StatusOK, "Banner deleted successfully")
}
