package master

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
	"go.uber.org/zap"
)

// DeleteStrategy is one request shape for deleting a record.
type DeleteStrategy struct {
	Name string
	Do   func(ctx context.Context, c *restclient.Client, table, id string) error
}

// PrimaryDelete is the documented contract: DELETE /delete_master/{id}/{tablename}
var PrimaryDelete = DeleteStrategy{
	Name: "DELETE " + RouteDelete,
	Do: func(ctx context.Context, c *restclient.Client, table, id string) error {
		return c.Expect(ctx, restclient.Request{
			Method: http.MethodDelete,
			Path:   "/delete_master/" + url.PathEscape(id) + "/" + url.PathEscape(table),
			Body:   deleteBody{Tablename: table, ID: id},
			Route:  RouteDelete,
		})
	},
}

// QueryParamDelete passes the tablename as a query parameter
var QueryParamDelete = DeleteStrategy{
	Name: "DELETE /delete_master/{id}?tablename=",
	Do: func(ctx context.Context, c *restclient.Client, table, id string) error {
		return c.Expect(ctx, restclient.Request{
			Method:      http.MethodDelete,
			Path:        "/delete_master/" + url.PathEscape(id),
			QueryParams: map[string]string{"tablename": table},
			Route:       "/delete_master/{id}",
		})
	},
}

// PostDelete sends the delete body with POST
var PostDelete = DeleteStrategy{
	Name: "POST /delete_master",
	Do: func(ctx context.Context, c *restclient.Client, table, id string) error {
		return c.Expect(ctx, restclient.Request{
			Method: http.MethodPost,
			Path:   "/delete_master",
			Body:   deleteBody{Tablename: table, ID: id},
			Route:  "/delete_master",
		})
	},
}

// StatusFlagDelete marks the record deleted through the update endpoint
var StatusFlagDelete = DeleteStrategy{
	Name: "PUT " + RouteUpdate + " status=deleted",
	Do: func(ctx context.Context, c *restclient.Client, table, id string) error {
		return c.Expect(ctx, restclient.Request{
			Method: http.MethodPut,
			Path:   "/update_master/" + url.PathEscape(id),
			Body: updateBody{Tablename: table, ID: id, Data: map[string]any{
				"status":    "deleted",
				"isDeleted": true,
			}},
			Route: RouteUpdate,
		})
	},
}

// FallbackDeleteStrategies is the full chain tried when fallbacks are enabled
func FallbackDeleteStrategies() []DeleteStrategy {
	return []DeleteStrategy{PrimaryDelete, QueryParamDelete, PostDelete, StatusFlagDelete}
}

// DeleteError reports that every strategy failed. It unwraps to the last failure.
type DeleteError struct {
	ID       string
	Attempts []string
	Err      error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete %s failed after %d attempt(s) [%s]: %v",
		e.ID, len(e.Attempts), strings.Join(e.Attempts, "; "), e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// GuarantorDeleter deletes guarantors by trying each strategy in order until
// one succeeds.
type GuarantorDeleter struct {
	client     *restclient.Client
	table      string
	strategies []DeleteStrategy
	logger     *zap.Logger
}

// DeleterOption configures a GuarantorDeleter
type DeleterOption func(*GuarantorDeleter)

// WithStrategies replaces the strategy chain
func WithStrategies(strategies ...DeleteStrategy) DeleterOption {
	return func(d *GuarantorDeleter) {
		if len(strategies) > 0 {
			d.strategies = strategies
		}
	}
}

// WithDeleterLogger sets the logger
func WithDeleterLogger(logger *zap.Logger) DeleterOption {
	return func(d *GuarantorDeleter) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewGuarantorDeleter creates a deleter. Only PrimaryDelete is tried unless
// fallbacks is true.
func NewGuarantorDeleter(client *restclient.Client, fallbacks bool, opts ...DeleterOption) *GuarantorDeleter {
	d := &GuarantorDeleter{
		client:     client,
		table:      master.TableGuarantor,
		strategies: []DeleteStrategy{PrimaryDelete},
		logger:     zap.NewNop(),
	}
	if fallbacks {
		d.strategies = FallbackDeleteStrategies()
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Strategies returns the configured chain names
func (d *GuarantorDeleter) Strategies() []string {
	names := make([]string, len(d.strategies))
	for i, s := range d.strategies {
		names[i] = s.Name
	}
	return names
}

// Delete removes the guarantor
func (d *GuarantorDeleter) Delete(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrInvalidInput.WithMessage("id is required")
	}

	var attempts []string
	var lastErr error
	for _, s := range d.strategies {
		attempts = append(attempts, s.Name)
		err := s.Do(ctx, d.client, d.table, id)
		if err == nil {
			if len(attempts) > 1 {
				d.logger.Info("guarantor deleted with fallback request shape",
					zap.String("id", id),
					zap.String("strategy", s.Name),
				)
			}
			return nil
		}
		lastErr = err
		d.logger.Warn("guarantor delete attempt failed",
			zap.String("id", id),
			zap.String("strategy", s.Name),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
	}
	return &DeleteError{ID: id, Attempts: attempts, Err: lastErr}
}
