package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type CashFlowType string

const (
	Inflow  CashFlowType = "inflow"
	Outflow CashFlowType = "outflow"
)

func (t CashFlowType) Valid() bool {
	return t == Inflow || t == Outflow
}

type Source string

const (
	SourceCash    Source = "cash"
	SourceSavings Source = "savings"
	SourceLoans   Source = "loans"
)

func (s Source) Valid() bool {
	switch s {
	case SourceCash, SourceSavings, SourceLoans:
		return true
	}
	return false
}

// CashFlow is one recorded inflow or outflow.
type CashFlow struct {
	ID          int64           `json:"id"`
	Type        CashFlowType    `json:"type"`
	Source      Source          `json:"source"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Nominal     decimal.Decimal `json:"nominal"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CreatedTime parses CreatedAt in any of the layouts the API has been seen
// to use. Zone-less values are read in loc.
func (cf CashFlow) CreatedTime(loc *time.Location) (time.Time, error) {
	for _, layout := range createdAtLayouts {
		if t, err := time.ParseInLocation(layout, cf.CreatedAt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cash flow %d: unrecognised created_at %q", cf.ID, cf.CreatedAt)
}

func (cf *CashFlow) validate() error {
	if cf.ID == 0 {
		return errors.New("cash flow has no id")
	}
	if !cf.Type.Valid() {
		return fmt.Errorf("cash flow %d has unknown type %q", cf.ID, cf.Type)
	}
	return nil
}

// Summary holds the totals the API reports alongside a listing and from
// its stats endpoint.
type Summary struct {
	TotalInflow  decimal.Decimal `json:"total_inflow"`
	TotalOutflow decimal.Decimal `json:"total_outflow"`
	Balance      decimal.Decimal `json:"balance"`
}

// Filter narrows a listing. Empty fields are not sent.
type Filter struct {
	Type      CashFlowType
	Source    Source
	Label     string
	StartDate string
	EndDate   string
}

func (f Filter) query() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("type", string(f.Type))
	set("source", string(f.Source))
	set("label", f.Label)
	set("start_date", f.StartDate)
	set("end_date", f.EndDate)
	return q
}

// Key identifies the filter for request coordination.
func (f Filter) Key() string {
	return f.query().Encode()
}

type CashFlowList struct {
	CashFlows []CashFlow `json:"cash_flows"`
	Stats     Summary    `json:"stats"`
}

func (l *CashFlowList) validate() error {
	for i := range l.CashFlows {
		if err := l.CashFlows[i].validate(); err != nil {
			return fmt.Errorf("cash_flows[%d]: %w", i, err)
		}
	}
	return nil
}

type cashFlowListPayload struct {
	CashFlows *[]CashFlow `json:"cash_flows"`
	Stats     *Summary    `json:"stats"`
}

// CashFlowInput is the form submitted on create and update.
type CashFlowInput struct {
	Type        CashFlowType
	Source      Source
	Label       string
	Description string
	Nominal     decimal.Decimal
}

func (in CashFlowInput) fields() [][2]string {
	return [][2]string{
		{"type", string(in.Type)},
		{"source", string(in.Source)},
		{"label", in.Label},
		{"description", in.Description},
		{"nominal", in.Nominal.String()},
	}
}

type createResult struct {
	CashFlowID int64 `json:"cash_flow_id"`
}

func (c *Client) ListCashFlows(ctx context.Context, filter Filter) (*CashFlowList, error) {
	var payload cashFlowListPayload
	err := c.do(ctx, request{
		op:     "ListCashFlows",
		method: http.MethodGet,
		path:   "/cash-flows",
		query:  filter.query(),
		auth:   true,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.CashFlows == nil {
		return nil, &DecodeError{Op: "ListCashFlows", Err: errors.New("response has no cash_flows")}
	}

	list := &CashFlowList{CashFlows: *payload.CashFlows}
	if payload.Stats != nil {
		list.Stats = *payload.Stats
	}
	if err := list.validate(); err != nil {
		return nil, &DecodeError{Op: "ListCashFlows", Err: err}
	}
	return list, nil
}

func (c *Client) GetCashFlow(ctx context.Context, id int64) (*CashFlow, error) {
	var raw json.RawMessage
	err := c.do(ctx, request{
		op:     "GetCashFlow",
		method: http.MethodGet,
		path:   "/cash-flows/" + strconv.FormatInt(id, 10),
		auth:   true,
	}, &raw)
	if err != nil {
		return nil, err
	}

	// The entry is either the data itself or nested under cash_flow.
	var wrapped struct {
		CashFlow *CashFlow `json:"cash_flow"`
	}
	cf := &CashFlow{}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.CashFlow != nil {
		cf = wrapped.CashFlow
	} else if err := json.Unmarshal(raw, cf); err != nil {
		return nil, &DecodeError{Op: "GetCashFlow", Err: err}
	}
	if err := cf.validate(); err != nil {
		return nil, &DecodeError{Op: "GetCashFlow", Err: err}
	}
	return cf, nil
}

// CreateCashFlow submits in as a multipart form and returns the new id, or
// zero when the API does not report one.
func (c *Client) CreateCashFlow(ctx context.Context, in CashFlowInput) (int64, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, field := range in.fields() {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return 0, err
		}
	}
	if err := writer.Close(); err != nil {
		return 0, err
	}

	var raw json.RawMessage
	err := c.do(ctx, request{
		op:           "CreateCashFlow",
		method:       http.MethodPost,
		path:         "/cash-flows",
		body:         buf.Bytes(),
		contentType:  writer.FormDataContentType(),
		auth:         true,
		dataOptional: true,
	}, &raw)
	if err != nil {
		return 0, err
	}

	var result createResult
	if len(raw) == 0 || json.Unmarshal(raw, &result) != nil {
		return 0, nil
	}
	return result.CashFlowID, nil
}

// UpdateCashFlow submits in as a url-encoded form.
func (c *Client) UpdateCashFlow(ctx context.Context, id int64, in CashFlowInput) error {
	form := url.Values{}
	for _, field := range in.fields() {
		form.Set(field[0], field[1])
	}

	return c.do(ctx, request{
		op:          "UpdateCashFlow",
		method:      http.MethodPut,
		path:        "/cash-flows/" + strconv.FormatInt(id, 10),
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		auth:        true,
	}, nil)
}

func (c *Client) DeleteCashFlow(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		op:     "DeleteCashFlow",
		method: http.MethodDelete,
		path:   "/cash-flows/" + strconv.FormatInt(id, 10),
		auth:   true,
	}, nil)
}

// labelsPayload accepts either a bare array or an object with a labels key.
type labelsPayload struct {
	Labels []string
}

func (p *labelsPayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &p.Labels)
	}

	var wrapped struct {
		Labels *[]string `json:"labels"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	if wrapped.Labels == nil {
		return errors.New("labels response has no labels")
	}
	p.Labels = *wrapped.Labels
	return nil
}

func (c *Client) ListLabels(ctx context.Context) ([]string, error) {
	var payload labelsPayload
	err := c.do(ctx, request{
		op:     "ListLabels",
		method: http.MethodGet,
		path:   "/cash-flows/labels",
		auth:   true,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Labels == nil {
		return []string{}, nil
	}
	return payload.Labels, nil
}
