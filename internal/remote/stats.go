package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/cashflow-gateway/internal/stats"
)

type aggregatePayload struct {
	Inflow   map[string]decimal.Decimal `json:"stats_inflow"`
	Outflow  map[string]decimal.Decimal `json:"stats_outflow"`
	Cashflow map[string]decimal.Decimal `json:"stats_cashflow"`
}

// Aggregates fetches the sparse per-period sums for window. The maps are
// returned as sent; missing ones come back empty.
func (c *Client) Aggregates(ctx context.Context, window stats.Window) (stats.RawAggregateMaps, error) {
	query := url.Values{}
	query.Set("end_date", window.EndParam())
	query.Set("total_data", strconv.Itoa(window.Count))

	var payload aggregatePayload
	err := c.do(ctx, request{
		op:     "Aggregates",
		method: http.MethodGet,
		path:   "/cash-flows/stats/" + window.Granularity.String(),
		query:  query,
		auth:   true,
	}, &payload)
	if err != nil {
		return stats.RawAggregateMaps{}, err
	}

	return stats.RawAggregateMaps{
		Inflow:   nonNil(payload.Inflow),
		Outflow:  nonNil(payload.Outflow),
		Cashflow: nonNil(payload.Cashflow),
	}, nil
}

// Summary fetches the account-wide totals.
func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	var summary Summary
	err := c.do(ctx, request{
		op:     "Summary",
		method: http.MethodGet,
		path:   "/cash-flows/stats",
		auth:   true,
	}, &summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func nonNil(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	if m == nil {
		return map[string]decimal.Decimal{}
	}
	return m
}
