package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	documentapp "github.com/haulstack/tms/internal/application/document"
)

// UploadHandler handles document upload and retrieval endpoints
type UploadHandler struct {
	BaseHandler
	documentService *documentapp.Service
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(base BaseHandler, documentService *documentapp.Service) *UploadHandler {
	return &UploadHandler{BaseHandler: base, documentService: documentService}
}

// RegisterRoutes registers upload endpoints on the authenticated group
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	uploads := rg.Group("/uploads")
	{
		uploads.POST("", h.Upload)
		uploads.GET("/files/*key", h.Download)
		uploads.DELETE("/files/*key", h.Delete)
	}
}

// Upload stores a PDF document for the caller's company
func (h *UploadHandler) Upload(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file field")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unreadable file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Unreadable file")
		return
	}

	result, err := h.documentService.Upload(c.Request.Context(), companyID, fileHeader.Filename, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Download serves a stored document, redirecting to a presigned URL when
// the backing store supports it and streaming the bytes otherwise
func (h *UploadHandler) Download(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	key := strings.TrimPrefix(c.Param("key"), "/")

	result, err := h.documentService.Download(c.Request.Context(), companyID, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.RedirectURL != "" {
		c.Redirect(http.StatusFound, result.RedirectURL)
		return
	}
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// Delete removes a stored document
func (h *UploadHandler) Delete(c *gin.Context) {
	companyID, ok := h.companyID(c)
	if !ok {
		return
	}
	key := strings.TrimPrefix(c.Param("key"), "/")

	if err := h.documentService.Delete(c.Request.Context(), companyID, key); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
