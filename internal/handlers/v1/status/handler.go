package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carson-networks/cashflow-gateway/internal/logging"
)

// sessionChecker reports whether the gateway currently holds a live session.
type sessionChecker interface {
	Authenticated(ctx context.Context) bool
}

type Handler struct {
	Sessions sessionChecker
}

func NewHandler(sessions sessionChecker) Handler {
	return Handler{Sessions: sessions}
}

type statusBody struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	body := statusBody{Status: "ok"}
	if h.Sessions != nil {
		body.Authenticated = h.Sessions.Authenticated(req.Context())
	}
	logData.AddData("authenticated", body.Authenticated)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(body)
}
