package remote

import (
	"context"
	"errors"
	"net/http"

	"github.com/carson-networks/cashflow-gateway/internal/session"
)

// LoginResult is the token and profile issued on a successful login.
type LoginResult struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

func (r *LoginResult) validate() error {
	if r.Token == "" {
		return errors.New("login response has no token")
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := jsonBody(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var result LoginResult
	err = c.do(ctx, request{
		op:          "Login",
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        body,
		contentType: "application/json",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body, err := jsonBody(map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	return c.do(ctx, request{
		op:          "Register",
		method:      http.MethodPost,
		path:        "/auth/register",
		body:        body,
		contentType: "application/json",
	}, nil)
}
