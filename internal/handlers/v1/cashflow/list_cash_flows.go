package cashflow

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/apierr"
	"github.com/carson-networks/cashflow-gateway/internal/logging"
	"github.com/carson-networks/cashflow-gateway/internal/service"
)

// ListCashFlowsInput carries the optional listing filters.
type ListCashFlowsInput struct {
	Type      string `query:"type" doc:"inflow or outflow"`
	Source    string `query:"source" doc:"cash, savings or loans"`
	Label     string `query:"label" doc:"Exact label"`
	StartDate string `query:"startDate" doc:"First day, YYYY-MM-DD"`
	EndDate   string `query:"endDate" doc:"Last day, YYYY-MM-DD"`
}

type ListCashFlowsResponseBody struct {
	CashFlows []CashFlow `json:"cashFlows" doc:"Matching entries"`
	Stats     Summary    `json:"stats" doc:"Totals over the matching entries"`
}

type ListCashFlowsOutput struct {
	Body ListCashFlowsResponseBody
}

func (h *Handler) registerList(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-cash-flows",
		Method:      http.MethodGet,
		Path:        "/v1/cash-flows",
		Summary:     "List cash flows",
		Description: "Returns the entries matching the filters together with their totals.",
		Tags:        []string{"CashFlows"},
	}, h.list)
}

func (h *Handler) list(ctx context.Context, input *ListCashFlowsInput) (*ListCashFlowsOutput, error) {
	list, err := h.CashFlowService.List(ctx, service.ListFilter{
		Type:      input.Type,
		Source:    input.Source,
		Label:     input.Label,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		return nil, apierr.From(err, "failed to list cash flows")
	}
	logging.Add(ctx, "cashFlowCount", len(list.CashFlows))

	return &ListCashFlowsOutput{Body: ListCashFlowsResponseBody{
		CashFlows: FromRemoteList(list.CashFlows),
		Stats:     FromSummary(list.Stats),
	}}, nil
}
