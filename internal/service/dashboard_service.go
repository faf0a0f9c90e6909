package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/cashflow-gateway/internal/fetch"
	"github.com/carson-networks/cashflow-gateway/internal/remote"
	"github.com/carson-networks/cashflow-gateway/internal/stats"
)

// Dashboard is everything one view needs, loaded together.
type Dashboard struct {
	CashFlows []remote.CashFlow
	Summary   remote.Summary
	Daily     *Series
	Monthly   *Series
	Labels    []string
}

// DashboardService loads the entry list, both aggregate series and the
// labels concurrently. A newer load for the same view supersedes an older
// one, whose result is discarded with fetch.ErrSuperseded.
type DashboardService struct {
	cashFlows   *CashFlowService
	stats       *StatsService
	coordinator *fetch.Coordinator
}

func NewDashboardService(cashFlows *CashFlowService, statsSvc *StatsService, coordinator *fetch.Coordinator) *DashboardService {
	return &DashboardService{
		cashFlows:   cashFlows,
		stats:       statsSvc,
		coordinator: coordinator,
	}
}

func (s *DashboardService) Load(ctx context.Context, view string, filter ListFilter, end time.Time) (*Dashboard, error) {
	if _, err := filter.validate(); err != nil {
		return nil, err
	}
	if view == "" {
		view = "default"
	}

	return fetch.Do(ctx, s.coordinator, view, func(ctx context.Context) (*Dashboard, error) {
		dashboard := &Dashboard{}
		group, groupCtx := errgroup.WithContext(ctx)

		group.Go(func() error {
			list, err := s.cashFlows.List(groupCtx, filter)
			if err != nil {
				return err
			}
			dashboard.CashFlows = list.CashFlows
			dashboard.Summary = list.Stats
			return nil
		})
		group.Go(func() error {
			series, err := s.stats.Series(groupCtx, stats.Daily, end, 0)
			dashboard.Daily = series
			return err
		})
		group.Go(func() error {
			series, err := s.stats.Series(groupCtx, stats.Monthly, end, 0)
			dashboard.Monthly = series
			return err
		})
		group.Go(func() error {
			labels, err := s.cashFlows.Labels(groupCtx)
			dashboard.Labels = labels
			return err
		})

		if err := group.Wait(); err != nil {
			return nil, err
		}
		return dashboard, nil
	})
}
