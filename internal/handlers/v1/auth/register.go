package auth

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/apierr"
)

// RegisterBody is the request body for creating a remote account.
type RegisterBody struct {
	Name     string `json:"name" required:"true" doc:"Display name"`
	Email    string `json:"email" required:"true" doc:"Account email"`
	Password string `json:"password" required:"true" doc:"Account password, at least 6 characters"`
}

type RegisterInput struct {
	Body RegisterBody
}

type RegisterOutput struct {
	Status int
}

func (h *Handler) registerRegister(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/v1/auth/register",
		Summary:       "Register",
		Description:   "Creates an account on the remote API. Log in afterwards to start a session.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, h.register)
}

func (h *Handler) register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	err := h.AuthService.Register(ctx, input.Body.Name, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, apierr.From(err, "failed to register")
	}
	return &RegisterOutput{Status: http.StatusCreated}, nil
}
