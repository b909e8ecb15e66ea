package handler

import (
	"github.com/gin-gonic/gin"
	appmaster "github.com/nbfc/backoffice/internal/application/master"
	"github.com/nbfc/backoffice/internal/application/screen"
	"github.com/nbfc/backoffice/internal/infrastructure/logger"
)

// EntityCount is the record count of one master list
type EntityCount struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// DashboardHandler serves the landing page counts
type DashboardHandler struct {
	BaseHandler
	registry *appmaster.Registry
	toasts   screen.Notifier
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(registry *appmaster.Registry, toasts screen.Notifier) *DashboardHandler {
	return &DashboardHandler{registry: registry, toasts: toasts}
}

// RegisterRoutes registers the dashboard route
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Get)
}

// Get loads every master list concurrently and reports the row counts.
// A list that fails to load is reported with its error and a zero count.
func (h *DashboardHandler) Get(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())
	descs := h.registry.Descriptors()
	screens := make([]*screen.Screen, 0, len(descs))
	for _, d := range descs {
		res, err := h.registry.Resource(d.Slug)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		screens = append(screens, screen.New(d, res, screen.WithNotifier(h.toasts), screen.WithLogger(log)))
	}

	_ = screen.LoadAll(c.Request.Context(), screens...)

	counts := make([]EntityCount, len(screens))
	for i, s := range screens {
		st := s.State()
		counts[i] = EntityCount{Slug: descs[i].Slug, Title: descs[i].Title, Count: len(st.Items), Error: st.Err}
	}
	h.List(c, counts, len(counts))
}
