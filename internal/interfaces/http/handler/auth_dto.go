package handler

import (
	"time"

	"github.com/nbfc/backoffice/internal/application/session"
	"github.com/nbfc/backoffice/internal/domain/master"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the console token and the restored session
type LoginResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresAt time.Time       `json:"expires_at"`
	Session   SessionResponse `json:"session"`
}

// SessionResponse describes the operator context
type SessionResponse struct {
	User               *session.User    `json:"user"`
	SelectedCompany    *master.Company  `json:"selectedCompany"`
	AvailableCompanies []master.Company `json:"availableCompanies"`
}

// SelectCompanyRequest is the body of PUT /companies/selected
type SelectCompanyRequest struct {
	ID string `json:"id" binding:"required"`
}

func sessionResponse(s *session.Session) SessionResponse {
	resp := SessionResponse{AvailableCompanies: s.AvailableCompanies()}
	if u, ok := s.User(); ok {
		resp.User = &u
	}
	if c, ok := s.SelectedCompany(); ok {
		resp.SelectedCompany = &c
	}
	if resp.AvailableCompanies == nil {
		resp.AvailableCompanies = []master.Company{}
	}
	return resp
}
