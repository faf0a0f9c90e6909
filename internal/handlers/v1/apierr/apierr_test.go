package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/cashflow-gateway/internal/fetch"
	"github.com/carson-networks/cashflow-gateway/internal/remote"
	"github.com/carson-networks/cashflow-gateway/internal/service"
	"github.com/carson-networks/cashflow-gateway/internal/session"
	"github.com/carson-networks/cashflow-gateway/internal/stats"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestFrom_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "validation", err: &service.ValidationError{Fields: map[string]string{"label": "is required"}}, status: http.StatusBadRequest},
		{name: "no session", err: session.ErrNotAuthenticated, status: http.StatusUnauthorized},
		{name: "expired", err: fmt.Errorf("remote ListLabels: %w", session.ErrExpired), status: http.StatusUnauthorized},
		{name: "rejected token", err: fmt.Errorf("remote ListLabels: %w", remote.ErrUnauthorized), status: http.StatusUnauthorized},
		{name: "not found", err: fmt.Errorf("remote GetCashFlow: %w", remote.ErrNotFound), status: http.StatusNotFound},
		{name: "superseded", err: fetch.ErrSuperseded, status: http.StatusConflict},
		{name: "malformed key", err: &stats.MalformedPeriodKeyError{Key: "31-02-2024", Err: errors.New("bad")}, status: http.StatusBadGateway},
		{name: "upstream rejected", err: &remote.APIError{StatusCode: 422, Message: "email taken"}, status: 422},
		{name: "upstream failed", err: &remote.APIError{StatusCode: 500}, status: http.StatusBadGateway},
		{name: "success false", err: &remote.APIError{StatusCode: 200, Message: "nope"}, status: http.StatusBadGateway},
		{name: "decode", err: &remote.DecodeError{Err: errors.New("bad json")}, status: http.StatusBadGateway},
		{name: "unreachable", err: &remote.TransportError{Err: errors.New("connection refused")}, status: http.StatusBadGateway},
		{name: "timeout", err: &remote.TransportError{Err: timeoutErr{}}, status: http.StatusGatewayTimeout},
		{name: "deadline", err: context.DeadlineExceeded, status: http.StatusGatewayTimeout},
		{name: "other", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, From(tt.err, "failed").GetStatus())
		})
	}
}

func TestFrom_ValidationDetails(t *testing.T) {
	err := From(&service.ValidationError{Fields: map[string]string{
		"nominal": "must be greater than zero",
		"label":   "is required",
	}}, "failed")

	model, ok := err.(*huma.ErrorModel)
	require.True(t, ok)
	require.Len(t, model.Errors, 2)
	assert.Equal(t, "label", model.Errors[0].Location)
	assert.Equal(t, "must be greater than zero", model.Errors[1].Message)
}

func TestFrom_UpstreamMessage(t *testing.T) {
	err := From(&remote.APIError{StatusCode: 400, Message: "label too long"}, "failed to create cash flow")

	model, ok := err.(*huma.ErrorModel)
	require.True(t, ok)
	assert.Equal(t, "failed to create cash flow: label too long", model.Detail)
}
