package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/carson-networks/cashflow-gateway/internal/cache"
	"github.com/carson-networks/cashflow-gateway/internal/logging"
	"github.com/carson-networks/cashflow-gateway/internal/remote"
	"github.com/carson-networks/cashflow-gateway/internal/stats"
)

// Series is a normalized aggregate series with its window and totals.
type Series struct {
	Granularity stats.Granularity
	Window      stats.Window
	Periods     []stats.PeriodAggregate
	Totals      stats.Totals
}

type StatsOptions struct {
	CacheSize         int
	CacheTTL          time.Duration
	LoadTimeout       time.Duration
	DailyWindow       int
	MonthlyWindow     int
	CountTransactions bool
}

// StatsService fetches per-period aggregates and normalizes them. Identical
// windows requested concurrently share one upstream fetch, which is detached
// from any single caller's cancellation.
type StatsService struct {
	api    CashFlowAPI
	opts   StatsOptions
	series *cache.LRUCache[*Series]
	group  singleflight.Group
	logger *logrus.Logger
	now    func() time.Time
	loc    *time.Location

	// epoch advances on every Invalidate; loads started in an older epoch
	// are neither cached nor joined.
	epochMu sync.Mutex
	epoch   uint64
}

func NewStatsService(api CashFlowAPI, opts StatsOptions, logger *logrus.Logger) *StatsService {
	if opts.CacheSize < 1 {
		opts.CacheSize = 1
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = remote.DefaultTimeout
	}
	return &StatsService{
		api:    api,
		opts:   opts,
		series: cache.NewLRUCache[*Series](opts.CacheSize, opts.CacheTTL),
		logger: logger,
		now:    time.Now,
		loc:    time.Local,
	}
}

// Window shapes the request for g. A zero end means today; a non-positive
// count uses the configured window size for g.
func (s *StatsService) Window(g stats.Granularity, end time.Time, count int) stats.Window {
	if count <= 0 {
		switch g {
		case stats.Daily:
			count = s.opts.DailyWindow
		case stats.Monthly:
			count = s.opts.MonthlyWindow
		}
	}
	return stats.NewWindow(end, count, g, s.now().In(s.loc))
}

func (s *StatsService) Series(ctx context.Context, g stats.Granularity, end time.Time, count int) (*Series, error) {
	window := s.Window(g, end, count)
	key := window.Key()

	if cached, ok := s.series.Get(key); ok {
		logging.Add(ctx, "statsCache", "hit")
		return cached, nil
	}
	logging.Add(ctx, "statsCache", "miss")

	epoch := s.currentEpoch()
	flight := s.group.DoChan(fmt.Sprintf("%s#%d", key, epoch), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.LoadTimeout)
		defer cancel()

		series, err := s.load(loadCtx, window)
		if err != nil {
			return nil, err
		}
		s.cacheIfCurrent(epoch, key, series)
		return series, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-flight:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.(*Series), nil
	}
}

func (s *StatsService) currentEpoch() uint64 {
	s.epochMu.Lock()
	defer s.epochMu.Unlock()
	return s.epoch
}

func (s *StatsService) cacheIfCurrent(epoch uint64, key string, series *Series) {
	s.epochMu.Lock()
	defer s.epochMu.Unlock()
	if epoch != s.epoch {
		s.logger.WithField("window", key).Debug("StatsService.Series.StaleLoadDropped")
		return
	}
	s.series.Set(key, series)
}

// Summary returns the account-wide totals reported by the API.
func (s *StatsService) Summary(ctx context.Context) (*remote.Summary, error) {
	return s.api.Summary(ctx)
}

// Invalidate drops every cached series and keeps loads started before the
// call out of the cache.
func (s *StatsService) Invalidate() {
	s.epochMu.Lock()
	defer s.epochMu.Unlock()
	s.epoch++
	s.series.Purge()
}

func (s *StatsService) load(ctx context.Context, window stats.Window) (*Series, error) {
	defer logging.Time(ctx, "statsLoadMs")()

	var raw stats.RawAggregateMaps
	var counts map[string]int

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		raw, err = s.api.Aggregates(groupCtx, window)
		return err
	})
	if s.opts.CountTransactions {
		group.Go(func() error {
			var err error
			counts, err = s.countTransactions(groupCtx, window)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	raw.Transactions = counts

	periods, err := stats.Normalize(raw, window.Granularity)
	if err != nil {
		return nil, fmt.Errorf("normalize %s stats: %w", window.Granularity, err)
	}

	return &Series{
		Granularity: window.Granularity,
		Window:      window,
		Periods:     periods,
		Totals:      stats.Sum(periods),
	}, nil
}

// countTransactions counts the entries in each period of window from the
// entry list itself.
func (s *StatsService) countTransactions(ctx context.Context, window stats.Window) (map[string]int, error) {
	list, err := s.api.ListCashFlows(ctx, remote.Filter{
		StartDate: window.StartDate(),
		EndDate:   window.EndParam(),
	})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, cf := range list.CashFlows {
		created, err := cf.CreatedTime(s.loc)
		if err != nil {
			s.logger.WithError(err).Warn("StatsService.CountTransactions.SkippedEntry")
			continue
		}
		if !window.Contains(created) {
			continue
		}
		counts[window.Granularity.FormatKey(created)]++
	}
	return counts, nil
}
