package catalog

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"talent-catalog-backend/internal/shared/response"
	"talent-catalog-backend/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// imageFormField is the multipart field carrying the binary files;
// metadataFormField carries the JSON-encoded entity fields and
// deleteImagesFormField an optional JSON-encoded list of image names.
const (
	metadataFormField     = "data"
	imageFormField        = "images"
	deleteImagesFormField = "deleteImages"
)

// Handler exposes one catalog service over HTTP. Both subsystems use
// the same handler bound to their own service instance.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List - GET /{catalog}
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListAdmin - GET /{catalog}/admin
func (h *Handler) ListAdmin(c *gin.Context) {
	list, err := h.service.ListAdmin(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create - POST /{catalog}
func (h *Handler) Create(c *gin.Context) {
	input, uploads, _, ok := h.parseSubmission(c)
	if !ok {
		return
	}

	entity, err := h.service.Create(c.Request.Context(), input, uploads)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entity)
}

// Update - PUT /{catalog}/:id
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")

	input, uploads, deleteImages, ok := h.parseSubmission(c)
	if !ok {
		return
	}

	entity, err := h.service.Update(c.Request.Context(), id, input, uploads, deleteImages)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entity)
}

// Delete - DELETE /{catalog}/:id
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id})
}

// DeleteImage - DELETE /files/:id/:image
func (h *Handler) DeleteImage(c *gin.Context) {
	id := c.Param("id")
	image := c.Param("image")

	if err := h.service.DeleteImage(c.Request.Context(), id, image); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "image": image})
}

// parseSubmission reads the multipart form: entity metadata as a
// JSON-encoded string field, binary file parts, and on update an
// optional JSON-encoded list of images to delete.
func (h *Handler) parseSubmission(c *gin.Context) (EntityInput, []Upload, []string, bool) {
	var input EntityInput

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form: "+err.Error())
		return input, nil, nil, false
	}

	if raw := c.PostForm(metadataFormField); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			response.BadRequest(c, "invalid metadata field: "+err.Error())
			return input, nil, nil, false
		}
	}

	var deleteImages []string
	if raw := c.PostForm(deleteImagesFormField); raw != "" {
		if err := json.Unmarshal([]byte(raw), &deleteImages); err != nil {
			response.BadRequest(c, "invalid deleteImages field: "+err.Error())
			return input, nil, nil, false
		}
	}

	uploads, err := readUploads(form.File[imageFormField])
	if err != nil {
		response.BadRequest(c, "failed to read uploaded image: "+err.Error())
		return input, nil, nil, false
	}

	return input, uploads, deleteImages, true
}

func readUploads(headers []*multipart.FileHeader) ([]Upload, error) {
	uploads := make([]Upload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size == 0 {
			continue
		}
		file, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = mimetype.Detect(data).String()
		}

		uploads = append(uploads, Upload{
			// Strip any client-supplied directory components.
			Filename:    path.Base(fh.Filename),
			ContentType: contentType,
			Data:        data,
		})
	}
	return uploads, nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("catalog operation failed", err)
	}
	response.Error(c, status, err.Error())
}
