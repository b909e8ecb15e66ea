package master

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
)

// User is a back-office account managed through the legacy users routes
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"isActive"`
}

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UsersAPI talks to the users module, which lives under the legacy
// /api/api/v1 prefix rather than the master-data base URL.
type UsersAPI struct {
	client *restclient.Client
	base   string
}

// NewUsersAPI creates the users API rooted at legacyBaseURL
func NewUsersAPI(client *restclient.Client, legacyBaseURL string) *UsersAPI {
	return &UsersAPI{client: client, base: strings.TrimRight(legacyBaseURL, "/")}
}

// List returns every user
func (a *UsersAPI) List(ctx context.Context) ([]User, error) {
	raw, err := restclient.RequestJSON[json.RawMessage](ctx, a.client, restclient.Request{
		Method: http.MethodGet,
		Path:   a.base + "/users_list",
		Route:  "/users_list",
	})
	if err != nil {
		return nil, err
	}
	return master.NormalizeList[User](raw)
}

// Register creates a user
func (a *UsersAPI) Register(ctx context.Context, req RegisterRequest) (User, error) {
	raw, err := restclient.RequestJSON[json.RawMessage](ctx, a.client, restclient.Request{
		Method: http.MethodPost,
		Path:   a.base + "/register",
		Body:   req,
		Route:  "/register",
	})
	if err != nil {
		return User{}, err
	}
	return master.NormalizeOne[User](raw)
}

// Update patches the given user fields
func (a *UsersAPI) Update(ctx context.Context, id string, patch map[string]any) (User, error) {
	if id == "" {
		return User{}, shared.ErrInvalidInput.WithMessage("id is required")
	}
	raw, err := restclient.RequestJSON[json.RawMessage](ctx, a.client, restclient.Request{
		Method: http.MethodPatch,
		Path:   a.base + "/users/" + url.PathEscape(id),
		Body:   patch,
		Route:  "/users/{id}",
	})
	if err != nil {
		return User{}, err
	}
	return master.NormalizeOne[User](raw)
}

// Delete removes a user
func (a *UsersAPI) Delete(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrInvalidInput.WithMessage("id is required")
	}
	return a.client.Expect(ctx, restclient.Request{
		Method: http.MethodDelete,
		Path:   a.base + "/users/" + url.PathEscape(id),
		Route:  "/users/{id}",
	})
}
