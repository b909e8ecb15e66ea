// Package session holds the operator's authenticated context: the logged-in
// user, the selected company and the list of companies to switch between.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/nbfc/backoffice/internal/infrastructure/kv"
	"go.uber.org/zap"
)

// Persisted keys
const (
	UserKey            = "nbfc_user"
	SelectedCompanyKey = "nbfc_selected_company"
)

// DefaultPollInterval is how often StartPolling refreshes the company list
const DefaultPollInterval = 30 * time.Second

// User is the logged-in operator
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CompanySource lists the companies the operator can switch between.
// master.OrganizationAPI implements it.
type CompanySource interface {
	Companies(ctx context.Context) ([]master.Company, error)
}

// Session is safe for concurrent use. The user and selected company are
// written through to the store; the available companies live in memory.
type Session struct {
	store     kv.Store
	companies CompanySource
	logger    *zap.Logger
	users     []User
	checker   PasswordChecker
	keyPrefix string

	mu        sync.RWMutex
	user      *User
	selected  *master.Company
	available []master.Company

	pollMu     sync.Mutex
	pollCancel context.CancelFunc
	pollWG     sync.WaitGroup
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithKeyPrefix stores the persisted values under prefix+key
func WithKeyPrefix(prefix string) Option {
	return func(s *Session) {
		s.keyPrefix = prefix
	}
}

// WithUsers replaces the demo operator list
func WithUsers(users ...User) Option {
	return func(s *Session) {
		s.users = users
	}
}

// WithPasswordChecker replaces the fixed demo password check
func WithPasswordChecker(checker PasswordChecker) Option {
	return func(s *Session) {
		if checker != nil {
			s.checker = checker
		}
	}
}

// New creates a session and restores the persisted user and selected
// company. Unreadable persisted values are dropped with a warning.
func New(ctx context.Context, store kv.Store, companies CompanySource, opts ...Option) (*Session, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	s := &Session{
		store:     store,
		companies: companies,
		logger:    zap.NewNop(),
		users:     DemoUsers(),
		checker:   DemoPasswordChecker(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var user User
	found, err := s.load(ctx, UserKey, &user)
	if err != nil {
		return nil, err
	}
	if found {
		s.user = &user
	}

	var company master.Company
	found, err = s.load(ctx, SelectedCompanyKey, &company)
	if err != nil {
		return nil, err
	}
	if found {
		s.selected = &company
	}
	return s, nil
}

func (s *Session) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, found, err := s.store.Get(ctx, s.keyPrefix+key)
	if err != nil {
		return false, fmt.Errorf("restoring %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("dropping unreadable session value", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (s *Session) persist(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err == nil {
		err = s.store.Set(ctx, s.keyPrefix+key, raw)
	}
	if err != nil {
		s.logger.Error("failed to persist session value", zap.String("key", key), zap.Error(err))
	}
}

// User returns the logged-in operator
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether an operator is logged in
func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// SelectedCompany returns the company the console is scoped to
func (s *Session) SelectedCompany() (master.Company, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return master.Company{}, false
	}
	return *s.selected, true
}

// AvailableCompanies returns a copy of the last fetched company list
func (s *Session) AvailableCompanies() []master.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]master.Company(nil), s.available...)
}

// Login checks the credentials against the operator list. On success the
// user is persisted and the company list is fetched; a fetch failure is
// logged and does not fail the login. Wrong credentials return false.
func (s *Session) Login(ctx context.Context, email, password string) bool {
	match := findUser(s.users, email)
	if match == nil || !s.checker.Check(password) {
		s.logger.Warn("Invalid login attempt", zap.String("email", email))
		return false
	}

	u := *match
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	s.persist(ctx, UserKey, u)
	s.logger.Info("Operator logged in", zap.String("email", u.Email), zap.String("role", u.Role))

	if _, err := s.FetchCompanies(ctx); err != nil {
		s.logger.Warn("failed to fetch companies after login", zap.Error(err))
	}
	return true
}

func findUser(users []User, email string) *User {
	for i := range users {
		if users[i].Email == email {
			return &users[i]
		}
	}
	return nil
}

// Logout clears the user, selected company and company list from memory
// and from the store.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.selected = nil
	s.available = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, s.keyPrefix+UserKey, s.keyPrefix+SelectedCompanyKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// FetchCompanies reloads the company list. When nothing is selected yet the
// first company is selected, or FallbackCompany if the fetch fails or
// returns no companies.
func (s *Session) FetchCompanies(ctx context.Context) ([]master.Company, error) {
	if s.companies == nil {
		return nil, shared.ErrNoCompany.WithMessage("no company source configured")
	}
	companies, fetchErr := s.companies.Companies(ctx)

	var picked *master.Company
	s.mu.Lock()
	if fetchErr == nil {
		s.available = companies
	}
	if s.selected == nil {
		c := master.FallbackCompany
		if fetchErr == nil && len(companies) > 0 {
			c = companies[0]
		}
		s.selected = &c
		picked = &c
	}
	s.mu.Unlock()

	if picked != nil {
		s.persist(ctx, SelectedCompanyKey, *picked)
		s.logger.Info("Company auto-selected", zap.String("company_id", picked.ID))
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("fetching companies: %w", fetchErr)
	}
	return append([]master.Company(nil), companies...), nil
}

// RefreshCompanies re-runs FetchCompanies
func (s *Session) RefreshCompanies(ctx context.Context) ([]master.Company, error) {
	return s.FetchCompanies(ctx)
}

// SelectCompany selects a company from the available list and persists it
func (s *Session) SelectCompany(ctx context.Context, id string) (master.Company, error) {
	s.mu.Lock()
	var found *master.Company
	for i := range s.available {
		if s.available[i].ID == id {
			c := s.available[i]
			found = &c
			break
		}
	}
	if found == nil && id == master.FallbackCompany.ID {
		c := master.FallbackCompany
		found = &c
	}
	if found == nil {
		s.mu.Unlock()
		return master.Company{}, shared.ErrNotFound.WithMessage(fmt.Sprintf("company %q is not available", id))
	}
	s.selected = found
	s.mu.Unlock()

	s.persist(ctx, SelectedCompanyKey, *found)
	return *found, nil
}
