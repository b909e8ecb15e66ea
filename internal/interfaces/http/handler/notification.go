package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nbfc/backoffice/internal/application/screen"
)

// NotificationHandler exposes the recent toasts
type NotificationHandler struct {
	BaseHandler
	toasts *screen.Toasts
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(toasts *screen.Toasts) *NotificationHandler {
	return &NotificationHandler{toasts: toasts}
}

// RegisterRoutes registers the notifications route
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.Recent)
}

// Recent returns the most recent toasts, oldest first
func (h *NotificationHandler) Recent(c *gin.Context) {
	recent := h.toasts.Recent()
	if recent == nil {
		recent = []screen.Toast{}
	}
	h.List(c, recent, len(recent))
}
