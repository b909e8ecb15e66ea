package screen

import (
	"errors"
	"sync"
	"time"

	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
	"go.uber.org/zap"
)

// Level is a toast severity
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is one user-facing notification
type Toast struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives toasts raised by screen actions
type Notifier interface {
	Notify(t Toast)
}

// DefaultToastLimit is how many toasts Toasts keeps
const DefaultToastLimit = 20

// Toasts keeps the most recent toasts in memory and logs each one.
type Toasts struct {
	mu     sync.Mutex
	limit  int
	items  []Toast
	logger *zap.Logger
}

// NewToasts creates a Toasts keeping at most limit entries
func NewToasts(limit int, logger *zap.Logger) *Toasts {
	if limit <= 0 {
		limit = DefaultToastLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Toasts{limit: limit, logger: logger}
}

// Notify records t
func (n *Toasts) Notify(t Toast) {
	if t.At.IsZero() {
		t.At = time.Now()
	}
	if t.Level == LevelError {
		n.logger.Warn("toast", zap.String("message", t.Message))
	} else {
		n.logger.Info("toast", zap.String("message", t.Message))
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, t)
	if over := len(n.items) - n.limit; over > 0 {
		n.items = append([]Toast(nil), n.items[over:]...)
	}
}

// Recent returns the stored toasts, oldest first
func (n *Toasts) Recent() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Toast(nil), n.items...)
}

// Message returns the text shown to the operator for err
func Message(err error) string {
	if httpErr, ok := restclient.AsHTTPError(err); ok {
		return httpErr.Message
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
