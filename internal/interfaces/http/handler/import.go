package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nbfc/backoffice/internal/application/importer"
	"github.com/nbfc/backoffice/internal/domain/shared"
)

// ImportHandler bulk-creates master records from uploaded sheets
type ImportHandler struct {
	BaseHandler
	importer *importer.Importer
}

// NewImportHandler creates a new import handler
func NewImportHandler(imp *importer.Importer) *ImportHandler {
	return &ImportHandler{importer: imp}
}

// RegisterRoutes registers import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/imports/:slug", h.Import)
}

// Import godoc
// @Summary      Import master records
// @Description  Creates one record per row of a CSV or xlsx sheet whose columns are the entity's form fields
// @Tags         masters
// @Accept       multipart/form-data
// @Produce      json
// @Param        slug path string true "Master slug"
// @Param        file formData file true "CSV or xlsx sheet"
// @Param        dryRun formData bool false "Validate only"
// @Success      200 {object} dto.Response{data=importer.Result}
// @Router       /imports/{slug} [post]
func (h *ImportHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file part is required")
		return
	}
	src, err := fh.Open()
	if err != nil {
		h.HandleError(c, shared.ErrInvalidInput.WithMessage("unreadable file part "+fh.Filename))
		return
	}
	defer src.Close()

	dryRun, _ := strconv.ParseBool(c.PostForm("dryRun"))
	result, err := h.importer.Import(c.Request.Context(), importer.Request{
		Slug:     c.Param("slug"),
		FileName: fh.Filename,
		Body:     src,
		DryRun:   dryRun,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
