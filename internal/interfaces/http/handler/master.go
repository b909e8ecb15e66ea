package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nbfc/backoffice/internal/application/export"
	appmaster "github.com/nbfc/backoffice/internal/application/master"
	"github.com/nbfc/backoffice/internal/application/screen"
	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/nbfc/backoffice/internal/infrastructure/logger"
)

// FieldResponse describes one form input of a master screen
type FieldResponse struct {
	Name     string `json:"name"`
	Property string `json:"property"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// DescriptorResponse describes one master screen
type DescriptorResponse struct {
	Slug       string          `json:"slug"`
	Title      string          `json:"title"`
	Table      string          `json:"table"`
	Optimistic bool            `json:"optimistic"`
	Fields     []FieldResponse `json:"fields"`
}

// ScreenResponse is the list state of one master screen
type ScreenResponse struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	screen.State
}

func kindName(k master.Kind) string {
	switch k {
	case master.KindInt:
		return "integer"
	case master.KindDecimal:
		return "decimal"
	case master.KindBool:
		return "checkbox"
	case master.KindDate:
		return "date"
	default:
		return "text"
	}
}

func toDescriptorResponse(d appmaster.Descriptor) DescriptorResponse {
	fields := make([]FieldResponse, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = FieldResponse{
			Name:     f.Form,
			Property: f.JSON,
			Label:    f.Title(),
			Type:     kindName(f.Kind),
			Required: f.Required,
		}
	}
	return DescriptorResponse{Slug: d.Slug, Title: d.Title, Table: d.Table, Optimistic: d.Optimistic, Fields: fields}
}

// MasterHandler serves the generic master-data screens. Every request
// drives a fresh screen controller, so no dialog state outlives a request.
type MasterHandler struct {
	BaseHandler
	registry *appmaster.Registry
	toasts   screen.Notifier
	validate *validator.Validate
	now      func() time.Time
}

// NewMasterHandler creates a new master handler
func NewMasterHandler(registry *appmaster.Registry, toasts screen.Notifier) *MasterHandler {
	return &MasterHandler{
		registry: registry,
		toasts:   toasts,
		validate: validator.New(),
		now:      time.Now,
	}
}

// RegisterRoutes registers master and export routes
func (h *MasterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/masters", h.Descriptors)
	rg.GET("/masters/:slug", h.List)
	rg.GET("/masters/:slug/:id", h.Get)
	rg.POST("/masters/:slug", h.Create)
	rg.PUT("/masters/:slug/:id", h.Update)
	rg.DELETE("/masters/:slug/:id", h.Delete)
	rg.GET("/exports/:slug", h.Export)
}

func (h *MasterHandler) screenFor(c *gin.Context) (*screen.Screen, bool) {
	slug := c.Param("slug")
	desc, ok := h.registry.Lookup(slug)
	if !ok {
		h.HandleError(c, shared.ErrUnknownMaster.WithMessage("unknown master resource: "+slug))
		return nil, false
	}
	res, err := h.registry.Resource(slug)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return screen.New(desc, res,
		screen.WithNotifier(h.toasts),
		screen.WithValidator(h.validate),
		screen.WithLogger(logger.FromContext(c.Request.Context())),
	), true
}

func (h *MasterHandler) respondState(c *gin.Context, s *screen.Screen) {
	d := s.Descriptor()
	st := s.State()
	if st.Items == nil {
		st.Items = []master.Record{}
	}
	h.BaseHandler.List(c, ScreenResponse{Slug: d.Slug, Title: d.Title, State: st}, len(st.Items))
}

// Descriptors godoc
// @Summary      List master screens
// @Tags         masters
// @Produce      json
// @Success      200 {object} dto.Response{data=[]DescriptorResponse}
// @Router       /masters [get]
func (h *MasterHandler) Descriptors(c *gin.Context) {
	descs := h.registry.Descriptors()
	out := make([]DescriptorResponse, len(descs))
	for i, d := range descs {
		out[i] = toDescriptorResponse(d)
	}
	h.BaseHandler.List(c, out, len(out))
}

// List godoc
// @Summary      Load a master list
// @Tags         masters
// @Produce      json
// @Param        slug path string true "Master slug"
// @Success      200 {object} dto.Response{data=ScreenResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /masters/{slug} [get]
func (h *MasterHandler) List(c *gin.Context) {
	s, ok := h.screenFor(c)
	if !ok {
		return
	}
	if err := s.Load(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondState(c, s)
}

// Get returns one record
func (h *MasterHandler) Get(c *gin.Context) {
	slug := c.Param("slug")
	if _, ok := h.registry.Lookup(slug); !ok {
		h.HandleError(c, shared.ErrUnknownMaster.WithMessage("unknown master resource: "+slug))
		return
	}
	res, err := h.registry.Resource(slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	rec, err := res.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Create godoc
// @Summary      Create a master record
// @Description  Accepts the legacy hyphenated form fields as a form post or a flat JSON object
// @Tags         masters
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        slug path string true "Master slug"
// @Success      201 {object} dto.Response
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /masters/{slug} [post]
func (h *MasterHandler) Create(c *gin.Context) {
	s, ok := h.screenFor(c)
	if !ok {
		return
	}
	form, err := readForm(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	s.OpenAdd()
	saved, err := s.Submit(c.Request.Context(), form)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, saved)
}

// Update merges the submitted fields over the record's current values and
// saves it.
func (h *MasterHandler) Update(c *gin.Context) {
	s, ok := h.screenFor(c)
	if !ok {
		return
	}
	form, err := readForm(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := s.Load(ctx); err != nil {
		h.HandleError(c, err)
		return
	}
	if err := s.OpenEdit(c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	merged := s.FormValues()
	for k, v := range form {
		merged[k] = v
	}
	saved, err := s.Submit(ctx, merged)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, saved)
}

// Delete removes a record and answers with the resulting list
func (h *MasterHandler) Delete(c *gin.Context) {
	s, ok := h.screenFor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if s.Descriptor().Optimistic {
		if err := s.Load(ctx); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	if err := s.Delete(ctx, c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondState(c, s)
}

// Export godoc
// @Summary      Export a master list
// @Tags         masters
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        slug path string true "Master slug"
// @Success      200 {file} file
// @Router       /exports/{slug} [get]
func (h *MasterHandler) Export(c *gin.Context) {
	s, ok := h.screenFor(c)
	if !ok {
		return
	}
	if err := s.Load(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	data, err := export.Workbook(s.Descriptor(), s.Items())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+export.FileName(s.Descriptor().Slug, h.now()))
	c.Data(http.StatusOK, export.ContentType, data)
}
