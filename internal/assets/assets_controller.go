package assets

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"keynotes-cms/internal/api"
	"keynotes-cms/internal/environment"
	"keynotes-cms/internal/logging"

	"github.com/gin-gonic/gin"
)

// Api defines HTTP endpoints for uploading images and browsing the gallery.
type Api interface {
	UploadImage(c *gin.Context)
	GetGalleryImages(c *gin.Context)
}

// Controller handles API operations related to the external asset store.
type Controller struct {
	*environment.Env
	Uploader
	Gallery

	MaxResults int
}

// UploadImage receives a multipart image upload, pushes it to the asset
// store and returns the hosted URL. The response shape follows the block
// editor's image tool contract.
//
// @ID uploadImage
// @Summary Upload an image to the asset store
// @Tags assets
// @Router /admin/upload/image [post]
// @Success 200 {object} map[string]any "Returns success flag and file URL"
// @Failure 400
// @Failure 500
func (ac *Controller) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("image")
	if err != nil {
		msg := fmt.Sprintf("error reading multipart form file 'image': %s", err)
		ac.LogError(logging.GetLogTypeAssets(), msg)
		c.AbortWithStatusJSON(http.StatusBadRequest, api.NewErrorResponse(msg))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if err := ValidateImage(mimeType, fileHeader.Size); err != nil {
		ac.LogError(logging.GetLogTypeAssets(), err)
		c.AbortWithStatusJSON(http.StatusBadRequest, api.NewErrorResponse(err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		msg := fmt.Sprintf("error opening uploaded file: %s", err)
		ac.LogError(logging.GetLogTypeAssets(), msg)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorResponse(msg))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		msg := fmt.Sprintf("error reading uploaded file: %s", err)
		ac.LogError(logging.GetLogTypeAssets(), msg)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorResponse(msg))
		return
	}

	url, err := ac.Uploader.UploadImage(ctx, data, fileHeader.Filename, mimeType)
	if err != nil {
		ac.LogError(logging.GetLogTypeAssets(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorResponsef("failed to upload image: %s", err))
		return
	}

	// success flag and nested file object are what the editor's image tool expects
	c.JSON(http.StatusOK, gin.H{
		"success": 1,
		"file": gin.H{
			"url": url,
		},
	})
}

// GetGalleryImages lists the previously uploaded images. A listing failure
// is reported to the caller, who degrades to an empty gallery with a retry
// option instead of treating it as fatal.
//
// @ID getGalleryImages
// @Summary List uploaded gallery images
// @Tags assets
// @Router /admin/images [get]
// @Success 200 {object} map[string]any "Returns images and count"
// @Failure 502
func (ac *Controller) GetGalleryImages(c *gin.Context) {
	ctx := c.Request.Context()

	maxResults := ac.MaxResults
	if raw := c.Query("maxResults"); len(raw) > 0 {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxResults = parsed
		}
	}

	references, err := ac.Gallery.ListImages(ctx, maxResults)
	if err != nil {
		ac.LogError(logging.GetLogTypeAssets(), err)
		c.AbortWithStatusJSON(http.StatusBadGateway, api.NewErrorResponsef("failed to list gallery images: %s", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"images": references,
		"count":  len(references),
	})
}
