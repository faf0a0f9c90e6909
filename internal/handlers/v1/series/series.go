package series

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/apierr"
	"github.com/carson-networks/cashflow-gateway/internal/handlers/v1/cashflow"
	"github.com/carson-networks/cashflow-gateway/internal/logging"
	"github.com/carson-networks/cashflow-gateway/internal/remote"
	"github.com/carson-networks/cashflow-gateway/internal/service"
	"github.com/carson-networks/cashflow-gateway/internal/stats"
)

const dateLayout = "2006-01-02"

// Period is the API response model for one normalized period.
type Period struct {
	Period           string `json:"period" doc:"DD-MM-YYYY for daily, MM-YYYY for monthly"`
	Start            string `json:"start" doc:"First day of the period, YYYY-MM-DD"`
	TotalInflow      string `json:"totalInflow" doc:"Decimal inflow"`
	TotalOutflow     string `json:"totalOutflow" doc:"Decimal outflow"`
	NetCashflow      string `json:"netCashflow" doc:"Decimal net as reported upstream"`
	TransactionCount int    `json:"transactionCount" doc:"Entries created in the period, 0 when not counted"`
}

// Totals is the API response model for a series' sums.
type Totals struct {
	Inflow           string `json:"inflow"`
	Outflow          string `json:"outflow"`
	NetCashflow      string `json:"netCashflow"`
	TransactionCount int    `json:"transactionCount"`
}

// Series is the API response model for a normalized aggregate series.
type Series struct {
	Granularity string   `json:"granularity" doc:"daily or monthly"`
	StartDate   string   `json:"startDate" doc:"First day of the window"`
	EndDate     string   `json:"endDate" doc:"Last day of the window"`
	Count       int      `json:"count" doc:"Number of periods requested"`
	Periods     []Period `json:"periods" doc:"Periods oldest first"`
	Totals      Totals   `json:"totals"`
}

func FromSeries(s *service.Series) Series {
	periods := make([]Period, len(s.Periods))
	for i, p := range s.Periods {
		periods[i] = Period{
			Period:           p.Period,
			Start:            p.Start.Format(dateLayout),
			TotalInflow:      p.TotalInflow.String(),
			TotalOutflow:     p.TotalOutflow.String(),
			NetCashflow:      p.NetCashflow.String(),
			TransactionCount: p.TransactionCount,
		}
	}
	return Series{
		Granularity: s.Granularity.String(),
		StartDate:   s.Window.StartDate(),
		EndDate:     s.Window.EndDate(),
		Count:       s.Window.Count,
		Periods:     periods,
		Totals: Totals{
			Inflow:           s.Totals.Inflow.String(),
			Outflow:          s.Totals.Outflow.String(),
			NetCashflow:      s.Totals.NetCashflow.String(),
			TransactionCount: s.Totals.TransactionCount,
		},
	}
}

// statsService is the slice of service.StatsService these handlers use.
type statsService interface {
	Series(ctx context.Context, g stats.Granularity, end time.Time, count int) (*service.Series, error)
	Summary(ctx context.Context) (*remote.Summary, error)
}

// Handler serves the /v1/stats endpoints.
type Handler struct {
	StatsService statsService
}

func NewHandler(svc statsService) *Handler {
	return &Handler{StatsService: svc}
}

type GetSeriesInput struct {
	Granularity string `path:"granularity" doc:"daily or monthly"`
	EndDate     string `query:"endDate" doc:"Last day of the window, YYYY-MM-DD; defaults to today"`
	Count       int    `query:"count" minimum:"0" maximum:"366" doc:"Number of periods; 0 uses the configured default"`
}

type GetSeriesOutput struct {
	Body Series
}

type GetSummaryOutput struct {
	Body cashflow.Summary
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-stats-summary",
		Method:      http.MethodGet,
		Path:        "/v1/stats",
		Summary:     "Get totals",
		Description: "Returns the account-wide inflow, outflow and balance.",
		Tags:        []string{"Stats"},
	}, h.summary)

	huma.Register(api, huma.Operation{
		OperationID: "get-stats-series",
		Method:      http.MethodGet,
		Path:        "/v1/stats/{granularity}",
		Summary:     "Get aggregate series",
		Description: "Returns daily or monthly totals for a trailing window, oldest first, with every period reported by any source map.",
		Tags:        []string{"Stats"},
	}, h.series)
}

// parseGetSeriesInput validates the path and query parameters.
func parseGetSeriesInput(input *GetSeriesInput) (stats.Granularity, time.Time, error) {
	g, err := stats.ParseGranularity(input.Granularity)
	if err != nil {
		return 0, time.Time{}, huma.NewError(http.StatusBadRequest, "granularity must be daily or monthly", err)
	}

	var end time.Time
	if input.EndDate != "" {
		end, err = time.ParseInLocation(dateLayout, input.EndDate, time.Local)
		if err != nil {
			return 0, time.Time{}, huma.NewError(http.StatusBadRequest, "invalid endDate", err)
		}
	}
	return g, end, nil
}

func (h *Handler) series(ctx context.Context, input *GetSeriesInput) (*GetSeriesOutput, error) {
	g, end, err := parseGetSeriesInput(input)
	if err != nil {
		return nil, err
	}

	result, err := h.StatsService.Series(ctx, g, end, input.Count)
	if err != nil {
		return nil, apierr.From(err, "failed to load stats")
	}
	logging.Add(ctx, "periodCount", len(result.Periods))

	return &GetSeriesOutput{Body: FromSeries(result)}, nil
}

func (h *Handler) summary(ctx context.Context, _ *struct{}) (*GetSummaryOutput, error) {
	summary, err := h.StatsService.Summary(ctx)
	if err != nil {
		return nil, apierr.From(err, "failed to load totals")
	}
	return &GetSummaryOutput{Body: cashflow.FromSummary(*summary)}, nil
}
