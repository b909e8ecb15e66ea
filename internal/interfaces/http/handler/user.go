package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	appmaster "github.com/nbfc/backoffice/internal/application/master"
	"github.com/nbfc/backoffice/internal/domain/shared"
)

// UserHandler manages back-office accounts through the legacy users module
type UserHandler struct {
	BaseHandler
	users    *appmaster.UsersAPI
	validate *validator.Validate
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *appmaster.UsersAPI) *UserHandler {
	return &UserHandler{users: users, validate: validator.New()}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.List)
	rg.POST("/users", h.Register)
	rg.PATCH("/users/:id", h.Update)
	rg.DELETE("/users/:id", h.Delete)
}

// List returns every user
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if users == nil {
		users = []appmaster.User{}
	}
	h.BaseHandler.List(c, users, len(users))
}

// Register creates a user
func (h *UserHandler) Register(c *gin.Context) {
	var req appmaster.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.HandleError(c, shared.ErrInvalidInput.WithMessage(validationMessage(err)))
		return
	}
	u, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, u)
}

// Update patches a user
func (h *UserHandler) Update(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil || len(patch) == 0 {
		h.BadRequest(c, "Request body must be a non-empty JSON object")
		return
	}
	u, err := h.users.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, u)
}

// Delete removes a user
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": c.Param("id")})
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = strings.ToLower(fe.Field()) + " (" + fe.Tag() + ")"
	}
	return "Invalid fields: " + strings.Join(fields, ", ")
}
