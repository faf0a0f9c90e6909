package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/cashflow-gateway/internal/remote"
)

const filterDateLayout = "2006-01-02"

// CashFlowForm is the user-entered data for a new or edited entry.
type CashFlowForm struct {
	Type        string
	Source      string
	Label       string
	Description string
	Nominal     decimal.Decimal
}

func (f CashFlowForm) validate() (remote.CashFlowInput, error) {
	in := remote.CashFlowInput{
		Type:        remote.CashFlowType(strings.ToLower(strings.TrimSpace(f.Type))),
		Source:      remote.Source(strings.ToLower(strings.TrimSpace(f.Source))),
		Label:       strings.TrimSpace(f.Label),
		Description: strings.TrimSpace(f.Description),
		Nominal:     f.Nominal,
	}

	var v validator
	v.check(in.Type.Valid(), "type", "must be inflow or outflow")
	v.check(in.Source.Valid(), "source", "must be cash, savings or loans")
	v.check(in.Label != "", "label", "is required")
	v.check(in.Nominal.IsPositive(), "nominal", "must be greater than zero")
	return in, v.err()
}

// ListFilter narrows a listing; every field is optional.
type ListFilter struct {
	Type      string
	Source    string
	Label     string
	StartDate string
	EndDate   string
}

func (f ListFilter) validate() (remote.Filter, error) {
	out := remote.Filter{
		Type:      remote.CashFlowType(strings.ToLower(strings.TrimSpace(f.Type))),
		Source:    remote.Source(strings.ToLower(strings.TrimSpace(f.Source))),
		Label:     strings.TrimSpace(f.Label),
		StartDate: strings.TrimSpace(f.StartDate),
		EndDate:   strings.TrimSpace(f.EndDate),
	}

	var v validator
	v.check(out.Type == "" || out.Type.Valid(), "type", "must be inflow or outflow")
	v.check(out.Source == "" || out.Source.Valid(), "source", "must be cash, savings or loans")

	var start, end time.Time
	var err error
	if out.StartDate != "" {
		if start, err = time.Parse(filterDateLayout, out.StartDate); err != nil {
			v.fail("startDate", "must be YYYY-MM-DD")
		}
	}
	if out.EndDate != "" {
		if end, err = time.Parse(filterDateLayout, out.EndDate); err != nil {
			v.fail("endDate", "must be YYYY-MM-DD")
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		v.fail("endDate", "must not be before startDate")
	}

	return out, v.err()
}
