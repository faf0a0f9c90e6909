package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/cashflow-gateway/internal/config"
	"github.com/carson-networks/cashflow-gateway/internal/fetch"
	"github.com/carson-networks/cashflow-gateway/internal/operator/actions"
	"github.com/carson-networks/cashflow-gateway/internal/remote"
	"github.com/carson-networks/cashflow-gateway/internal/session"
	"github.com/carson-networks/cashflow-gateway/internal/stats"
)

// CashFlowAPI is the read side of the remote API plus authentication.
type CashFlowAPI interface {
	Login(ctx context.Context, email, password string) (*remote.LoginResult, error)
	Register(ctx context.Context, name, email, password string) error
	ListCashFlows(ctx context.Context, filter remote.Filter) (*remote.CashFlowList, error)
	GetCashFlow(ctx context.Context, id int64) (*remote.CashFlow, error)
	ListLabels(ctx context.Context) ([]string, error)
	Aggregates(ctx context.Context, window stats.Window) (stats.RawAggregateMaps, error)
	Summary(ctx context.Context) (*remote.Summary, error)
}

// ActionProcessor runs mutations one at a time.
type ActionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// SessionManager is the slice of session.Session the services use.
type SessionManager interface {
	Begin(ctx context.Context, token string, user session.User) (*session.Credentials, error)
	End(ctx context.Context) error
	Authenticated(ctx context.Context) bool
	User() (session.User, bool)
	ExpiresAt() time.Time
}

// Service holds all business logic services.
type Service struct {
	Auth      *AuthService
	CashFlows *CashFlowService
	Stats     *StatsService
	Dashboard *DashboardService
}

// NewService wires the services over the remote API, the session and the
// mutation queue.
func NewService(api CashFlowAPI, sessions SessionManager, processor ActionProcessor, cfg *config.Config, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	cashFlows := NewCashFlowService(api, processor, cfg.LabelCacheTTL)
	statsSvc := NewStatsService(api, StatsOptions{
		CacheSize:         cfg.StatsCacheSize,
		CacheTTL:          cfg.StatsCacheTTL,
		LoadTimeout:       cfg.RequestTimeout,
		DailyWindow:       cfg.DailyWindow,
		MonthlyWindow:     cfg.MonthlyWindow,
		CountTransactions: cfg.CountTransactions,
	}, logger)

	svc := &Service{
		CashFlows: cashFlows,
		Stats:     statsSvc,
		Dashboard: NewDashboardService(cashFlows, statsSvc, fetch.NewCoordinator()),
	}
	svc.Auth = NewAuthService(api, sessions, svc.Invalidate)
	return svc
}

// AfterMutation is the operator commit hook: anything derived from the
// entry list is dropped so the next read reflects the change.
func (s *Service) AfterMutation(_ context.Context, action actions.IAction) {
	s.Stats.Invalidate()
	if _, ok := action.(*actions.DeleteCashFlow); !ok {
		s.CashFlows.InvalidateLabels()
	}
}

// Invalidate drops every cached read.
func (s *Service) Invalidate() {
	s.Stats.Invalidate()
	s.CashFlows.InvalidateLabels()
}
