package service

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/cashflow-gateway/internal/operator/actions"
	"github.com/carson-networks/cashflow-gateway/internal/remote"
	"github.com/carson-networks/cashflow-gateway/internal/stats"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Login(ctx context.Context, email, password string) (*remote.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.LoginResult), args.Error(1)
}

func (m *mockAPI) Register(ctx context.Context, name, email, password string) error {
	return m.Called(ctx, name, email, password).Error(0)
}

func (m *mockAPI) ListCashFlows(ctx context.Context, filter remote.Filter) (*remote.CashFlowList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.CashFlowList), args.Error(1)
}

func (m *mockAPI) GetCashFlow(ctx context.Context, id int64) (*remote.CashFlow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.CashFlow), args.Error(1)
}

func (m *mockAPI) ListLabels(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockAPI) Aggregates(ctx context.Context, window stats.Window) (stats.RawAggregateMaps, error) {
	args := m.Called(ctx, window)
	return args.Get(0).(stats.RawAggregateMaps), args.Error(1)
}

func (m *mockAPI) Summary(ctx context.Context) (*remote.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.Summary), args.Error(1)
}

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	return m.Called(ctx, action).Error(0)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestStatsService(api CashFlowAPI, countTransactions bool) *StatsService {
	svc := NewStatsService(api, StatsOptions{
		CacheSize:         8,
		CacheTTL:          time.Minute,
		DailyWindow:       7,
		MonthlyWindow:     6,
		CountTransactions: countTransactions,
	}, quietLogger())
	svc.now = func() time.Time { return testNow }
	svc.loc = time.UTC
	return svc
}
