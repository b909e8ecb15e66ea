package session

import (
	"context"
	"sync"
	"time"

	"github.com/nbfc/backoffice/internal/infrastructure/kv"
	"go.uber.org/zap"
)

// OperatorKeyPrefix returns the store prefix of one operator's session
func OperatorKeyPrefix(operatorID string) string {
	return "operator:" + operatorID + ":"
}

// Sessions keeps one Session per operator over a shared store, so each
// console client gets its own user, selected company and company list.
type Sessions struct {
	store     kv.Store
	companies CompanySource
	opts      []Option
	users     []User
	logger    *zap.Logger

	mu           sync.Mutex
	byID         map[string]*Session
	pollCtx      context.Context
	pollInterval time.Duration
}

// NewSessions creates the per-operator registry. opts apply to every
// Session it opens.
func NewSessions(store kv.Store, companies CompanySource, opts ...Option) *Sessions {
	tmpl := &Session{users: DemoUsers(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(tmpl)
	}
	return &Sessions{
		store:     store,
		companies: companies,
		opts:      opts,
		users:     tmpl.users,
		logger:    tmpl.logger,
		byID:      make(map[string]*Session),
	}
}

// Get returns the operator's session, restoring it from the store on first
// use.
func (m *Sessions) Get(ctx context.Context, operatorID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(ctx, operatorID)
}

func (m *Sessions) getLocked(ctx context.Context, operatorID string) (*Session, error) {
	if s, ok := m.byID[operatorID]; ok {
		return s, nil
	}
	opts := append(append([]Option(nil), m.opts...), WithKeyPrefix(OperatorKeyPrefix(operatorID)))
	s, err := New(ctx, m.store, m.companies, opts...)
	if err != nil {
		return nil, err
	}
	if s.Authenticated() && m.pollCtx != nil {
		s.StartPolling(m.pollCtx, m.pollInterval)
	}
	m.byID[operatorID] = s
	return s, nil
}

// Login authenticates against the operator list and logs the operator's
// own session in. Wrong credentials return false.
func (m *Sessions) Login(ctx context.Context, email, password string) (*Session, bool, error) {
	u := findUser(m.users, email)
	if u == nil {
		m.logger.Warn("Invalid login attempt", zap.String("email", email))
		return nil, false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.getLocked(ctx, u.ID)
	if err != nil {
		return nil, false, err
	}
	if !s.Login(ctx, email, password) {
		return nil, false, nil
	}
	if m.pollCtx != nil && !s.Polling() {
		s.StartPolling(m.pollCtx, m.pollInterval)
	}
	return s, true, nil
}

// Logout clears the operator's session and stops its poller
func (m *Sessions) Logout(ctx context.Context, operatorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.getLocked(ctx, operatorID)
	if err != nil {
		return err
	}
	s.Stop()
	delete(m.byID, operatorID)
	return s.Logout(ctx)
}

// StartPolling polls companies for every logged-in operator, including
// operators who log in later, until ctx is cancelled or Stop is called.
func (m *Sessions) StartPolling(ctx context.Context, interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollCtx, m.pollInterval = ctx, interval
	for _, s := range m.byID {
		if s.Authenticated() {
			s.StartPolling(ctx, interval)
		}
	}
}

// Stop ends every operator's poller
func (m *Sessions) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollCtx = nil
	for _, s := range m.byID {
		s.Stop()
	}
}
