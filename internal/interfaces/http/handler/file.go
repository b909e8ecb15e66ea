package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nbfc/backoffice/internal/application/upload"
	"github.com/nbfc/backoffice/internal/domain/shared"
)

// FileHandler passes document uploads through to the storage driver
type FileHandler struct {
	BaseHandler
	uploads *upload.Service
}

// NewFileHandler creates a new file handler
func NewFileHandler(uploads *upload.Service) *FileHandler {
	return &FileHandler{uploads: uploads}
}

// RegisterRoutes registers file routes
func (h *FileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/files", h.Upload)
	rg.GET("/files/url", h.URL)
	rg.DELETE("/files/:id", h.Delete)
}

// Upload godoc
// @Summary      Upload documents
// @Description  Uploads every "file" part of the form under the given category
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Document"
// @Param        category formData string false "Category"
// @Success      201 {object} dto.Response{data=[]upload.Result}
// @Router       /files [post]
func (h *FileHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Expected a multipart form")
		return
	}
	headers := form.File["file"]
	if len(headers) == 0 {
		h.BadRequest(c, "At least one file is required")
		return
	}

	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			h.HandleError(c, shared.ErrInvalidInput.WithMessage("unreadable file part "+fh.Filename))
			return
		}
		defer src.Close()
		files = append(files, upload.File{
			Name:        fh.Filename,
			Reader:      src,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	results, err := h.uploads.UploadAll(c.Request.Context(), files, c.PostForm("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, results)
}

// URL resolves an id, path or URL into a retrieval URL
func (h *FileHandler) URL(c *gin.Context) {
	ref := c.Query("ref")
	if ref == "" {
		h.BadRequest(c, "ref is required")
		return
	}
	u, err := h.uploads.FileURL(c.Request.Context(), ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"url": u})
}

// Delete removes a stored document
func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.uploads.DeleteFile(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": c.Param("id")})
}
