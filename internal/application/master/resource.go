// Package master provides the API modules for master-data entities. Every
// entity shares one backend convention keyed by a tablename discriminator.
package master

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
)

// Backend routes, also used as metric labels.
const (
	RouteList   = "/get_master/{tablename}"
	RouteGet    = "/get_master/{tablename}/{id}"
	RouteCreate = "/create_master"
	RouteUpdate = "/update_master/{id}"
	RouteDelete = "/delete_master/{id}/{tablename}"
)

type createBody struct {
	Tablename string `json:"tablename"`
	Data      any    `json:"data"`
}

type updateBody struct {
	Tablename string `json:"tablename"`
	ID        string `json:"id"`
	Data      any    `json:"data"`
}

type deleteBody struct {
	Tablename string `json:"tablename"`
	ID        string `json:"id"`
}

// Resource is the stateless CRUD API of one master entity.
type Resource[T any] struct {
	client *restclient.Client
	table  string
}

// NewResource creates the API for the entity stored under table
func NewResource[T any](client *restclient.Client, table string) *Resource[T] {
	return &Resource[T]{client: client, table: table}
}

// Table returns the tablename discriminator
func (r *Resource[T]) Table() string {
	return r.table
}

// GetAll lists every record of the entity
func (r *Resource[T]) GetAll(ctx context.Context) ([]T, error) {
	raw, err := restclient.RequestJSON[json.RawMessage](ctx, r.client, restclient.Request{
		Method: http.MethodGet,
		Path:   "/get_master/" + url.PathEscape(r.table),
		Route:  RouteList,
	})
	if err != nil {
		return nil, err
	}
	return master.NormalizeList[T](raw)
}

// GetByID fetches one record; a missing record surfaces as the backend's HTTP error
func (r *Resource[T]) GetByID(ctx context.Context, id string) (T, error) {
	if id == "" {
		var zero T
		return zero, shared.ErrInvalidInput.WithMessage("id is required")
	}
	raw, err := restclient.RequestJSON[json.RawMessage](ctx, r.client, restclient.Request{
		Method: http.MethodGet,
		Path:   "/get_master/" + url.PathEscape(r.table) + "/" + url.PathEscape(id),
		Route:  RouteGet,
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return master.NormalizeOne[T](raw)
}

// Create posts payload and returns the record as reported by the backend,
// which may be partial.
func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	raw, err := restclient.RequestJSON[json.RawMessage](ctx, r.client, restclient.Request{
		Method: http.MethodPost,
		Path:   "/create_master",
		Body:   createBody{Tablename: r.table, Data: payload},
		Route:  RouteCreate,
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return master.NormalizeOne[T](raw)
}

// Update replaces the record's data
func (r *Resource[T]) Update(ctx context.Context, id string, payload any) (T, error) {
	if id == "" {
		var zero T
		return zero, shared.ErrInvalidInput.WithMessage("id is required")
	}
	raw, err := restclient.RequestJSON[json.RawMessage](ctx, r.client, restclient.Request{
		Method: http.MethodPut,
		Path:   "/update_master/" + url.PathEscape(id),
		Body:   updateBody{Tablename: r.table, ID: id, Data: payload},
		Route:  RouteUpdate,
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return master.NormalizeOne[T](raw)
}

// Delete removes the record
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrInvalidInput.WithMessage("id is required")
	}
	return r.client.Expect(ctx, restclient.Request{
		Method: http.MethodDelete,
		Path:   "/delete_master/" + url.PathEscape(id) + "/" + url.PathEscape(r.table),
		Body:   deleteBody{Tablename: r.table, ID: id},
		Route:  RouteDelete,
	})
}
