package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/cashflow-gateway/internal/operator/actions"
	"github.com/carson-networks/cashflow-gateway/internal/remote"
)

func newTestCashFlowService() (*CashFlowService, *mockAPI, *mockProcessor) {
	api := new(mockAPI)
	processor := new(mockProcessor)
	return NewCashFlowService(api, processor, time.Minute), api, processor
}

func validForm() CashFlowForm {
	return CashFlowForm{
		Type:    "Inflow",
		Source:  "cash",
		Label:   " salary ",
		Nominal: decimal.RequireFromString("1500.00"),
	}
}

// -- Create tests --

func TestCreate_QueuesAction(t *testing.T) {
	svc, _, processor := newTestCashFlowService()
	processor.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		create, ok := a.(*actions.CreateCashFlow)
		return ok && create.Input.Type == remote.Inflow && create.Input.Label == "salary"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*actions.CreateCashFlow).CreatedID = 31
	}).Return(nil)

	id, err := svc.Create(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, int64(31), id)
	processor.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CashFlowForm)
		field  string
	}{
		{name: "missing label", modify: func(f *CashFlowForm) { f.Label = "  " }, field: "label"},
		{name: "zero nominal", modify: func(f *CashFlowForm) { f.Nominal = decimal.Zero }, field: "nominal"},
		{name: "negative nominal", modify: func(f *CashFlowForm) { f.Nominal = decimal.NewFromInt(-5) }, field: "nominal"},
		{name: "unknown type", modify: func(f *CashFlowForm) { f.Type = "transfer" }, field: "type"},
		{name: "missing source", modify: func(f *CashFlowForm) { f.Source = "" }, field: "source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, processor := newTestCashFlowService()
			form := validForm()
			tt.modify(&form)

			_, err := svc.Create(context.Background(), form)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tt.field)
			processor.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_ProcessorError(t *testing.T) {
	svc, _, processor := newTestCashFlowService()
	processor.On("Process", mock.Anything, mock.Anything).Return(errors.New("queue full"))

	_, err := svc.Create(context.Background(), validForm())

	assert.EqualError(t, err, "queue full")
}

// -- Update / Delete tests --

func TestUpdateAndDelete(t *testing.T) {
	svc, _, processor := newTestCashFlowService()
	processor.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		update, ok := a.(*actions.UpdateCashFlow)
		return ok && update.ID == 8
	})).Return(nil).Once()
	processor.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		del, ok := a.(*actions.DeleteCashFlow)
		return ok && del.ID == 8
	})).Return(nil).Once()

	assert.NoError(t, svc.Update(context.Background(), 8, validForm()))
	assert.NoError(t, svc.Delete(context.Background(), 8))
	processor.AssertExpectations(t)
}

func TestDelete_InvalidID(t *testing.T) {
	svc, _, _ := newTestCashFlowService()

	var validationErr *ValidationError
	assert.ErrorAs(t, svc.Delete(context.Background(), 0), &validationErr)
}

// -- Read tests --

func TestList_PassesNormalizedFilter(t *testing.T) {
	svc, api, _ := newTestCashFlowService()
	expected := &remote.CashFlowList{CashFlows: []remote.CashFlow{{ID: 1, Type: remote.Outflow}}}
	api.On("ListCashFlows", mock.Anything, remote.Filter{
		Type:      remote.Outflow,
		Source:    remote.SourceSavings,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
	}).Return(expected, nil)

	list, err := svc.List(context.Background(), ListFilter{
		Type:      "OUTFLOW",
		Source:    "savings",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
	})

	require.NoError(t, err)
	assert.Same(t, expected, list)
}

func TestList_InvalidFilter(t *testing.T) {
	svc, api, _ := newTestCashFlowService()

	_, err := svc.List(context.Background(), ListFilter{StartDate: "2024-03-31", EndDate: "2024-03-01", Source: "crypto"})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "endDate")
	assert.Contains(t, validationErr.Fields, "source")
	api.AssertNotCalled(t, "ListCashFlows", mock.Anything, mock.Anything)
}

func TestLabels_Cached(t *testing.T) {
	svc, api, _ := newTestCashFlowService()
	api.On("ListLabels", mock.Anything).Return([]string{"food"}, nil).Twice()

	for range 3 {
		labels, err := svc.Labels(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"food"}, labels)
	}
	api.AssertNumberOfCalls(t, "ListLabels", 1)

	svc.InvalidateLabels()
	_, err := svc.Labels(context.Background())
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "ListLabels", 2)
}

func TestGet(t *testing.T) {
	svc, api, _ := newTestCashFlowService()
	api.On("GetCashFlow", mock.Anything, int64(4)).Return(nil, remote.ErrNotFound)

	_, err := svc.Get(context.Background(), 4)

	assert.ErrorIs(t, err, remote.ErrNotFound)
}
