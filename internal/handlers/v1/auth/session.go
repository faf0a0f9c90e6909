package auth

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/apierr"
)

type SessionOutput struct {
	Body Session
}

type LogoutOutput struct {
	Status int
}

func (h *Handler) registerSession(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/v1/auth/session",
		Summary:     "Current session",
		Description: "Returns the logged-in user, or 401 when there is no live session.",
		Tags:        []string{"Auth"},
	}, h.session)

	huma.Register(api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodPost,
		Path:          "/v1/auth/logout",
		Summary:       "Log out",
		Description:   "Ends the gateway session and clears stored credentials.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusNoContent,
	}, h.logout)
}

func (h *Handler) session(ctx context.Context, _ *struct{}) (*SessionOutput, error) {
	current, err := h.AuthService.Current(ctx)
	if err != nil {
		return nil, apierr.From(err, "failed to read session")
	}
	return &SessionOutput{Body: toSession(current)}, nil
}

func (h *Handler) logout(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
	if err := h.AuthService.Logout(ctx); err != nil {
		return nil, apierr.From(err, "failed to log out")
	}
	return &LogoutOutput{Status: http.StatusNoContent}, nil
}
