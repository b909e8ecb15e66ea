package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nbfc/backoffice/internal/interfaces/http/middleware"
)

// CompanyHandler serves the company switcher of the calling operator
type CompanyHandler struct {
	BaseHandler
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler() *CompanyHandler {
	return &CompanyHandler{}
}

// RegisterRoutes registers company routes
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/companies", h.List)
	rg.POST("/companies/refresh", h.Refresh)
	rg.PUT("/companies/selected", h.Select)
}

// List returns the companies and the current selection
func (h *CompanyHandler) List(c *gin.Context) {
	h.Success(c, sessionResponse(middleware.GetOperatorSession(c)))
}

// Refresh refetches the company list. A failed fetch still answers with
// the session, which may now carry the fallback company.
func (h *CompanyHandler) Refresh(c *gin.Context) {
	s := middleware.GetOperatorSession(c)
	if _, err := s.RefreshCompanies(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sessionResponse(s))
}

// Select switches the selected company
func (h *CompanyHandler) Select(c *gin.Context) {
	var req SelectCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Company id is required")
		return
	}
	s := middleware.GetOperatorSession(c)
	if _, err := s.SelectCompany(c.Request.Context(), req.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sessionResponse(s))
}
