package cashflow

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/apierr"
)

type ListLabelsOutput struct {
	Body struct {
		Labels []string `json:"labels" doc:"Distinct labels in use"`
	}
}

func (h *Handler) registerLabels(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-labels",
		Method:      http.MethodGet,
		Path:        "/v1/cash-flows/labels",
		Summary:     "List labels",
		Description: "Returns the labels used by existing entries.",
		Tags:        []string{"CashFlows"},
	}, h.labels)
}

func (h *Handler) labels(ctx context.Context, _ *struct{}) (*ListLabelsOutput, error) {
	labels, err := h.CashFlowService.Labels(ctx)
	if err != nil {
		return nil, apierr.From(err, "failed to list labels")
	}

	out := &ListLabelsOutput{}
	out.Body.Labels = labels
	return out, nil
}
