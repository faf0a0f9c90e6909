package cashflow

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/cashflow-gateway/internal/remote"
	"github.com/carson-networks/cashflow-gateway/internal/service"
	"github.com/carson-networks/cashflow-gateway/internal/session"
)

type mockCashFlowService struct {
	mock.Mock
}

func (m *mockCashFlowService) List(ctx context.Context, filter service.ListFilter) (*remote.CashFlowList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.CashFlowList), args.Error(1)
}

func (m *mockCashFlowService) Get(ctx context.Context, id int64) (*remote.CashFlow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.CashFlow), args.Error(1)
}

func (m *mockCashFlowService) Labels(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockCashFlowService) Create(ctx context.Context, form service.CashFlowForm) (int64, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCashFlowService) Update(ctx context.Context, id int64, form service.CashFlowForm) error {
	return m.Called(ctx, id, form).Error(0)
}

func (m *mockCashFlowService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newTestAPI(t *testing.T, svc cashFlowService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	return api
}

// -- parseCashFlowBody unit tests --

func TestParseCashFlowBody(t *testing.T) {
	form, err := parseCashFlowBody(CashFlowBody{Type: "inflow", Source: "cash", Label: "salary", Nominal: "1500.50"})
	require.NoError(t, err)
	assert.Equal(t, "salary", form.Label)
	assert.True(t, form.Nominal.Equal(decimal.RequireFromString("1500.5")))

	_, err = parseCashFlowBody(CashFlowBody{Nominal: "a lot"})
	assert.Error(t, err)
}

// -- HTTP integration tests --

func TestHTTP_ListCashFlows(t *testing.T) {
	mockSvc := new(mockCashFlowService)
	mockSvc.On("List", mock.Anything, service.ListFilter{Type: "outflow", StartDate: "2024-03-01"}).Return(&remote.CashFlowList{
		CashFlows: []remote.CashFlow{{ID: 1, Type: remote.Outflow, Source: remote.SourceCash, Label: "food", Nominal: decimal.NewFromInt(25000), CreatedAt: "2024-03-02 10:00:00"}},
		Stats:     remote.Summary{TotalOutflow: decimal.NewFromInt(25000), Balance: decimal.NewFromInt(-25000)},
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/cash-flows?type=outflow&startDate=2024-03-01")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListCashFlowsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.CashFlows, 1)
	assert.Equal(t, "25000", body.CashFlows[0].Nominal)
	assert.Equal(t, "-25000", body.Stats.Balance)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListCashFlows_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "validation", err: &service.ValidationError{Fields: map[string]string{"type": "must be inflow or outflow"}}, status: http.StatusBadRequest},
		{name: "no session", err: session.ErrNotAuthenticated, status: http.StatusUnauthorized},
		{name: "upstream down", err: &remote.TransportError{Op: "ListCashFlows", Err: errors.New("refused")}, status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mockCashFlowService)
			mockSvc.On("List", mock.Anything, mock.Anything).Return(nil, tt.err)

			resp := newTestAPI(t, mockSvc).Get("/v1/cash-flows")

			assert.Equal(t, tt.status, resp.Code)
		})
	}
}

func TestHTTP_GetCashFlow(t *testing.T) {
	mockSvc := new(mockCashFlowService)
	mockSvc.On("Get", mock.Anything, int64(7)).Return(&remote.CashFlow{ID: 7, Type: remote.Inflow, Label: "gift", Nominal: decimal.NewFromInt(10)}, nil)
	mockSvc.On("Get", mock.Anything, int64(8)).Return(nil, remote.ErrNotFound)
	api := newTestAPI(t, mockSvc)

	resp := api.Get("/v1/cash-flows/7")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"label":"gift"`)

	resp = api.Get("/v1/cash-flows/8")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_ListLabels_NotCapturedByID(t *testing.T) {
	mockSvc := new(mockCashFlowService)
	mockSvc.On("Labels", mock.Anything).Return([]string{"food", "rent"}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/cash-flows/labels")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"labels":["food","rent"]`)
	mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestHTTP_CreateCashFlow(t *testing.T) {
	mockSvc := new(mockCashFlowService)
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(form service.CashFlowForm) bool {
		return form.Type == "inflow" && form.Label == "salary" && form.Nominal.Equal(decimal.NewFromInt(1500))
	})).Return(int64(42), nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/cash-flows", CashFlowBody{
		Type:    "inflow",
		Source:  "cash",
		Label:   "salary",
		Nominal: "1500",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body CreateCashFlowResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(42), body.ID)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateCashFlow_InvalidNominal(t *testing.T) {
	mockSvc := new(mockCashFlowService)

	resp := newTestAPI(t, mockSvc).Post("/v1/cash-flows", CashFlowBody{
		Type:    "inflow",
		Source:  "cash",
		Label:   "salary",
		Nominal: "lots",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHTTP_CreateCashFlow_ValidationError(t *testing.T) {
	mockSvc := new(mockCashFlowService)
	mockSvc.On("Create", mock.Anything, mock.Anything).
		Return(int64(0), &service.ValidationError{Fields: map[string]string{"nominal": "must be greater than zero"}})

	resp := newTestAPI(t, mockSvc).Post("/v1/cash-flows", CashFlowBody{
		Type:    "inflow",
		Source:  "cash",
		Label:   "salary",
		Nominal: "0",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "must be greater than zero")
}

func TestHTTP_UpdateAndDeleteCashFlow(t *testing.T) {
	mockSvc := new(mockCashFlowService)
	mockSvc.On("Update", mock.Anything, int64(5), mock.MatchedBy(func(form service.CashFlowForm) bool {
		return form.Label == "rent"
	})).Return(nil)
	mockSvc.On("Delete", mock.Anything, int64(5)).Return(nil)
	api := newTestAPI(t, mockSvc)

	resp := api.Put("/v1/cash-flows/5", CashFlowBody{Type: "outflow", Source: "savings", Label: "rent", Nominal: "900"})
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.Delete("/v1/cash-flows/5")
	assert.Equal(t, http.StatusNoContent, resp.Code)

	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteCashFlow_InvalidID(t *testing.T) {
	mockSvc := new(mockCashFlowService)

	resp := newTestAPI(t, mockSvc).Delete("/v1/cash-flows/0")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
