package auth

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/cashflow-gateway/internal/service"
)

// authService is the slice of service.AuthService these handlers use.
type authService interface {
	Login(ctx context.Context, email, password string) (*service.CurrentSession, error)
	Register(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*service.CurrentSession, error)
}

// User is the API response model for the logged-in user.
type User struct {
	ID    int64  `json:"id" doc:"Remote user id"`
	Name  string `json:"name" doc:"Display name"`
	Email string `json:"email" doc:"Email address"`
	Role  string `json:"role,omitempty" doc:"Role reported by the remote API"`
}

// Session is the API response model for the active session.
type Session struct {
	User      User   `json:"user" doc:"Logged-in user"`
	ExpiresAt string `json:"expiresAt" format:"date-time" doc:"RFC3339 time the session ends"`
}

func toSession(current *service.CurrentSession) Session {
	return Session{
		User: User{
			ID:    current.User.ID,
			Name:  current.User.Name,
			Email: current.User.Email,
			Role:  current.User.Role,
		},
		ExpiresAt: current.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// Handler serves the /v1/auth endpoints.
type Handler struct {
	AuthService authService
}

func NewHandler(svc authService) *Handler {
	return &Handler{AuthService: svc}
}

// Register registers every auth endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	h.registerLogin(api)
	h.registerRegister(api)
	h.registerSession(api)
}
