package apierr

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/cashflow-gateway/internal/fetch"
	"github.com/carson-networks/cashflow-gateway/internal/operator"
	"github.com/carson-networks/cashflow-gateway/internal/remote"
	"github.com/carson-networks/cashflow-gateway/internal/service"
	"github.com/carson-networks/cashflow-gateway/internal/session"
	"github.com/carson-networks/cashflow-gateway/internal/stats"
)

// From converts a service error into the huma error returned to the client.
// message prefixes the client-facing text, e.g. "failed to list cash flows".
func From(err error, message string) huma.StatusError {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return huma.NewError(http.StatusBadRequest, "validation failed", fieldDetails(validationErr)...)
	}

	switch {
	case errors.Is(err, session.ErrNotAuthenticated),
		errors.Is(err, session.ErrExpired),
		errors.Is(err, remote.ErrUnauthorized):
		return huma.NewError(http.StatusUnauthorized, "not authenticated", err)
	case errors.Is(err, remote.ErrNotFound):
		return huma.NewError(http.StatusNotFound, "not found", err)
	case errors.Is(err, fetch.ErrSuperseded):
		return huma.NewError(http.StatusConflict, message+": superseded by a newer request", err)
	case errors.Is(err, operator.ErrStopped):
		return huma.NewError(http.StatusServiceUnavailable, message+": shutting down", err)
	case errors.Is(err, stats.ErrMalformedPeriodKey):
		return huma.NewError(http.StatusBadGateway, message+": upstream sent malformed periods", err)
	case errors.Is(err, context.DeadlineExceeded):
		return huma.NewError(http.StatusGatewayTimeout, message+": upstream timed out", err)
	}

	var transportErr *remote.TransportError
	if errors.As(err, &transportErr) {
		if transportErr.Timeout() {
			return huma.NewError(http.StatusGatewayTimeout, message+": upstream timed out", err)
		}
		return huma.NewError(http.StatusBadGateway, message+": upstream unreachable", err)
	}

	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		// Upstream rejected the request itself; pass that through.
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return huma.NewError(apiErr.StatusCode, apiErrorMessage(apiErr, message))
		}
		return huma.NewError(http.StatusBadGateway, apiErrorMessage(apiErr, message))
	}

	var decodeErr *remote.DecodeError
	if errors.As(err, &decodeErr) {
		return huma.NewError(http.StatusBadGateway, message+": unexpected upstream response", err)
	}

	return huma.NewError(http.StatusInternalServerError, message, err)
}

func apiErrorMessage(apiErr *remote.APIError, message string) string {
	if apiErr.Message == "" {
		return message
	}
	return message + ": " + apiErr.Message
}

func fieldDetails(validationErr *service.ValidationError) []error {
	names := make([]string, 0, len(validationErr.Fields))
	for name := range validationErr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make([]error, len(names))
	for i, name := range names {
		details[i] = &huma.ErrorDetail{
			Location: name,
			Message:  validationErr.Fields[name],
		}
	}
	return details
}
