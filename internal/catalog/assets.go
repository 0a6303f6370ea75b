package catalog

import (
	"errors"
	"net/http"
	"strings"

	"talent-catalog-backend/internal/shared/response"
	"talent-catalog-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	// Assets are content-addressed: a key never serves different bytes,
	// so clients may cache them indefinitely.
	assetCacheControl = "public, max-age=31536000, immutable"

	defaultAssetContentType = "image/jpeg"
)

// AssetHandler streams photo objects straight from the blob store with
// conditional-request support.
type AssetHandler struct {
	blobs BlobStore
}

func NewAssetHandler(blobs BlobStore) *AssetHandler {
	return &AssetHandler{blobs: blobs}
}

// Serve - GET /assets/*key and GET /photos/*key
func (h *AssetHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		response.NotFound(c, "asset not found")
		return
	}

	obj, err := h.blobs.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			response.NotFound(c, "asset not found")
			return
		}
		logger.Error("asset fetch failed", err)
		response.InternalServerError(c, err.Error())
		return
	}
	defer obj.Body.Close()

	etag := `"` + obj.ETag + `"`
	c.Header("Cache-Control", assetCacheControl)
	c.Header("ETag", etag)

	if match := c.GetHeader("If-None-Match"); match != "" {
		if match == etag || match == obj.ETag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = defaultAssetContentType
	}
	c.DataFromReader(http.StatusOK, obj.Size, contentType, obj.Body, nil)
}
