package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/apierr"
	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/cashflow"
	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/series"
	"github.com/carson-networks/cashflow-gateway/internal/service"
)

const dateLayout = "2006-01-02"

type dashboardService interface {
	Load(ctx context.Context, view string, filter service.ListFilter, end time.Time) (*service.Dashboard, error)
}

// Handler serves GET /v1/dashboard.
type Handler struct {
	DashboardService dashboardService
}

func NewHandler(svc dashboardService) *Handler {
	return &Handler{DashboardService: svc}
}

type GetDashboardInput struct {
	View      string `query:"view" doc:"Caller-chosen view key; a newer request for the same view supersedes an older one"`
	Type      string `query:"type" doc:"inflow or outflow"`
	Source    string `query:"source" doc:"cash, savings or loans"`
	Label     string `query:"label" doc:"Exact label"`
	StartDate string `query:"startDate" doc:"First day of the entry list, YYYY-MM-DD"`
	EndDate   string `query:"endDate" doc:"Last day of the entry list and of both stats windows, YYYY-MM-DD"`
}

type DashboardBody struct {
	CashFlows []cashflow.CashFlow `json:"cashFlows"`
	Summary   cashflow.Summary    `json:"summary"`
	Daily     series.Series       `json:"daily"`
	Monthly   series.Series       `json:"monthly"`
	Labels    []string            `json:"labels"`
}

type GetDashboardOutput struct {
	Body DashboardBody
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/v1/dashboard",
		Summary:     "Get dashboard",
		Description: "Loads entries, daily and monthly series and labels concurrently. Returns 409 if a newer request for the same view started first.",
		Tags:        []string{"Dashboard"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, input *GetDashboardInput) (*GetDashboardOutput, error) {
	var end time.Time
	if input.EndDate != "" {
		var err error
		end, err = time.ParseInLocation(dateLayout, input.EndDate, time.Local)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid endDate", err)
		}
	}

	dashboard, err := h.DashboardService.Load(ctx, input.View, service.ListFilter{
		Type:      input.Type,
		Source:    input.Source,
		Label:     input.Label,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}, end)
	if err != nil {
		return nil, apierr.From(err, "failed to load dashboard")
	}

	return &GetDashboardOutput{Body: DashboardBody{
		CashFlows: cashflow.FromRemoteList(dashboard.CashFlows),
		Summary:   cashflow.FromSummary(dashboard.Summary),
		Daily:     series.FromSeries(dashboard.Daily),
		Monthly:   series.FromSeries(dashboard.Monthly),
		Labels:    dashboard.Labels,
	}}, nil
}
