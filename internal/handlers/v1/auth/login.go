package auth

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/apierr"
	"github.com/carson-networks/cashflow-gateway/internal/logging"
)

// LoginBody is the request body for logging in.
type LoginBody struct {
	Email    string `json:"email" required:"true" doc:"Account email"`
	Password string `json:"password" required:"true" doc:"Account password"`
}

type LoginInput struct {
	Body LoginBody
}

type LoginOutput struct {
	Body Session
}

func (h *Handler) registerLogin(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/v1/auth/login",
		Summary:     "Log in",
		Description: "Authenticates against the remote API and starts the gateway session.",
		Tags:        []string{"Auth"},
	}, h.login)
}

func (h *Handler) login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	current, err := h.AuthService.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, apierr.From(err, "failed to log in")
	}
	logging.Add(ctx, "userID", current.User.ID)

	return &LoginOutput{Body: toSession(current)}, nil
}
