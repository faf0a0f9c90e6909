package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/cashflow-gateway/internal/fetch"
	"github.com/carson-networks/cashflow-gateway/internal/remote"
	"github.com/carson-networks/cashflow-gateway/internal/service"
	"github.com/carson-networks/cashflow-gateway/internal/stats"
)

type mockDashboardService struct {
	mock.Mock
}

func (m *mockDashboardService) Load(ctx context.Context, view string, filter service.ListFilter, end time.Time) (*service.Dashboard, error) {
	args := m.Called(ctx, view, filter, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func newTestAPI(t *testing.T, svc dashboardService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	return api
}

func emptySeries(g stats.Granularity, end time.Time) *service.Series {
	return &service.Series{Granularity: g, Window: stats.NewWindow(end, 0, g, end), Periods: []stats.PeriodAggregate{}}
}

func TestHTTP_GetDashboard(t *testing.T) {
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	mockSvc := new(mockDashboardService)
	mockSvc.On("Load", mock.Anything, "home", service.ListFilter{Label: "food", EndDate: "2024-03-15"}, mock.MatchedBy(func(got time.Time) bool { return got.Equal(end) })).Return(&service.Dashboard{
		CashFlows: []remote.CashFlow{{ID: 1, Type: remote.Outflow, Label: "food", Nominal: decimal.NewFromInt(12)}},
		Summary:   remote.Summary{TotalOutflow: decimal.NewFromInt(12)},
		Daily:     emptySeries(stats.Daily, end),
		Monthly:   emptySeries(stats.Monthly, end),
		Labels:    []string{"food"},
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/dashboard?view=home&label=food&endDate=2024-03-15")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body DashboardBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.CashFlows, 1)
	assert.Equal(t, "12", body.Summary.TotalOutflow)
	assert.Equal(t, "2024-03-09", body.Daily.StartDate)
	assert.Equal(t, "2023-10-01", body.Monthly.StartDate)
	assert.Equal(t, []string{"food"}, body.Labels)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_GetDashboard_Superseded(t *testing.T) {
	mockSvc := new(mockDashboardService)
	mockSvc.On("Load", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, fetch.ErrSuperseded)

	resp := newTestAPI(t, mockSvc).Get("/v1/dashboard")

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestHTTP_GetDashboard_BadEndDate(t *testing.T) {
	mockSvc := new(mockDashboardService)

	resp := newTestAPI(t, mockSvc).Get("/v1/dashboard?endDate=tomorrow")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "Load", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
