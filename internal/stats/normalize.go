package stats

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawAggregateMaps are the sparse per-period maps returned by the aggregate
// source. Any map may be nil and the maps need not share a key set.
type RawAggregateMaps struct {
	Inflow   map[string]decimal.Decimal
	Outflow  map[string]decimal.Decimal
	Cashflow map[string]decimal.Decimal

	// Transactions holds true per-period entry counts when the caller has them.
	Transactions map[string]int
}

// PeriodAggregate is one row of a chart-ready series.
type PeriodAggregate struct {
	Period           string
	Start            time.Time
	TotalInflow      decimal.Decimal
	TotalOutflow     decimal.Decimal
	NetCashflow      decimal.Decimal
	TransactionCount int
}

// Normalize merges the raw maps into one series holding every key found in
// any map exactly once, ordered oldest first. Missing values are zero.
// NetCashflow is taken from the source as-is and never derived.
//
// Every malformed key is reported; no partial series is returned.
func Normalize(raw RawAggregateMaps, g Granularity) ([]PeriodAggregate, error) {
	keys := unionKeys(raw)

	out := make([]PeriodAggregate, 0, len(keys))
	var errs []error
	for _, key := range keys {
		start, err := g.ParseKey(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, PeriodAggregate{
			Period:           key,
			Start:            start,
			TotalInflow:      valueOrZero(raw.Inflow, key),
			TotalOutflow:     valueOrZero(raw.Outflow, key),
			NetCashflow:      valueOrZero(raw.Cashflow, key),
			TransactionCount: raw.Transactions[key],
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	slices.SortFunc(out, func(a, b PeriodAggregate) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return strings.Compare(a.Period, b.Period)
	})
	return out, nil
}

// unionKeys returns the distinct keys of all maps in lexical order so that
// error reporting does not depend on map iteration order.
func unionKeys(raw RawAggregateMaps) []string {
	seen := make(map[string]struct{}, len(raw.Inflow)+len(raw.Outflow)+len(raw.Cashflow))
	for k := range raw.Inflow {
		seen[k] = struct{}{}
	}
	for k := range raw.Outflow {
		seen[k] = struct{}{}
	}
	for k := range raw.Cashflow {
		seen[k] = struct{}{}
	}
	for k := range raw.Transactions {
		seen[k] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func valueOrZero(m map[string]decimal.Decimal, key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}

// Totals sums a series. Count is the sum of per-period transaction counts.
type Totals struct {
	Inflow           decimal.Decimal
	Outflow          decimal.Decimal
	NetCashflow      decimal.Decimal
	TransactionCount int
}

// Sum adds up every period of a normalized series.
func Sum(series []PeriodAggregate) Totals {
	t := Totals{Inflow: decimal.Zero, Outflow: decimal.Zero, NetCashflow: decimal.Zero}
	for _, p := range series {
		t.Inflow = t.Inflow.Add(p.TotalInflow)
		t.Outflow = t.Outflow.Add(p.TotalOutflow)
		t.NetCashflow = t.NetCashflow.Add(p.NetCashflow)
		t.TransactionCount += p.TransactionCount
	}
	return t
}
