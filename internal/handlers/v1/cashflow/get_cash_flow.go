package cashflow

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/apierr"
)

type CashFlowIDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Remote entry id"`
}

type GetCashFlowOutput struct {
	Body CashFlow
}

func (h *Handler) registerGet(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-cash-flow",
		Method:      http.MethodGet,
		Path:        "/v1/cash-flows/{id}",
		Summary:     "Get cash flow",
		Description: "Returns a single entry.",
		Tags:        []string{"CashFlows"},
	}, h.get)
}

func (h *Handler) get(ctx context.Context, input *CashFlowIDInput) (*GetCashFlowOutput, error) {
	cf, err := h.CashFlowService.Get(ctx, input.ID)
	if err != nil {
		return nil, apierr.From(err, "failed to get cash flow")
	}
	return &GetCashFlowOutput{Body: FromRemote(*cf)}, nil
}
