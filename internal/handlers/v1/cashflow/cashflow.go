package cashflow

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/cashflow-gateway/internal/remote"
	"github.com/carson-networks/cashflow-gateway/internal/service"
)

// CashFlow is the API response model for a cash flow entry.
type CashFlow struct {
	ID          int64  `json:"id" doc:"Remote entry id"`
	Type        string `json:"type" enum:"inflow,outflow" doc:"inflow or outflow"`
	Source      string `json:"source" doc:"cash, savings or loans"`
	Label       string `json:"label" doc:"Free-form category label"`
	Description string `json:"description" doc:"Optional description"`
	Nominal     string `json:"nominal" doc:"Decimal amount"`
	CreatedAt   string `json:"createdAt" doc:"Creation time as reported by the remote API"`
}

// Summary is the API response model for inflow/outflow totals.
type Summary struct {
	TotalInflow  string `json:"totalInflow" doc:"Decimal sum of inflows"`
	TotalOutflow string `json:"totalOutflow" doc:"Decimal sum of outflows"`
	Balance      string `json:"balance" doc:"Decimal balance"`
}

func FromRemote(cf remote.CashFlow) CashFlow {
	return CashFlow{
		ID:          cf.ID,
		Type:        string(cf.Type),
		Source:      string(cf.Source),
		Label:       cf.Label,
		Description: cf.Description,
		Nominal:     cf.Nominal.String(),
		CreatedAt:   cf.CreatedAt,
	}
}

func FromRemoteList(cashFlows []remote.CashFlow) []CashFlow {
	converted := make([]CashFlow, len(cashFlows))
	for i, cf := range cashFlows {
		converted[i] = FromRemote(cf)
	}
	return converted
}

func FromSummary(s remote.Summary) Summary {
	return Summary{
		TotalInflow:  s.TotalInflow.String(),
		TotalOutflow: s.TotalOutflow.String(),
		Balance:      s.Balance.String(),
	}
}

// cashFlowService is the slice of service.CashFlowService these handlers use.
type cashFlowService interface {
	List(ctx context.Context, filter service.ListFilter) (*remote.CashFlowList, error)
	Get(ctx context.Context, id int64) (*remote.CashFlow, error)
	Labels(ctx context.Context) ([]string, error)
	Create(ctx context.Context, form service.CashFlowForm) (int64, error)
	Update(ctx context.Context, id int64, form service.CashFlowForm) error
	Delete(ctx context.Context, id int64) error
}

// Handler serves the /v1/cash-flows endpoints.
type Handler struct {
	CashFlowService cashFlowService
}

func NewHandler(svc cashFlowService) *Handler {
	return &Handler{CashFlowService: svc}
}

// Register registers every cash flow endpoint with the Huma API. Labels is
// registered before the {id} routes so it is not captured by them.
func (h *Handler) Register(api huma.API) {
	h.registerLabels(api)
	h.registerList(api)
	h.registerGet(api)
	h.registerCreate(api)
	h.registerUpdate(api)
	h.registerDelete(api)
}
