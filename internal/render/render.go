package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/cashflow-gateway/internal/stats"
)

const (
	defaultBarWidth = 24

	inflowBlock  = "█"
	outflowBlock = "▒"
)

type Styles struct {
	Header  lipgloss.Style
	Inflow  lipgloss.Style
	Outflow lipgloss.Style
	Net     lipgloss.Style
	Loss    lipgloss.Style
	Border  lipgloss.Style
	Summary lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true).Padding(0, 1),
		Inflow:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")),
		Outflow: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")),
		Net:     lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")),
		Loss:    lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")),
		Summary: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2),
	}
}

// ChartRenderer draws a normalized series as a table with one bar pair per
// period, scaled to the largest inflow or outflow in the series.
type ChartRenderer struct {
	BarWidth int
	Styles   Styles
}

func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{BarWidth: defaultBarWidth, Styles: DefaultStyles()}
}

func (r *ChartRenderer) Series(series []stats.PeriodAggregate, g stats.Granularity) string {
	if len(series) == 0 {
		return r.Styles.Net.Render(fmt.Sprintf("No %s data for this window.", g))
	}

	scale := decimal.Zero
	for _, p := range series {
		scale = decimal.Max(scale, p.TotalInflow, p.TotalOutflow)
	}

	rows := make([][]string, len(series))
	for i, p := range series {
		rows[i] = []string{
			p.Period,
			p.TotalInflow.StringFixed(2),
			p.TotalOutflow.StringFixed(2),
			p.NetCashflow.StringFixed(2),
			strconv.Itoa(p.TransactionCount),
			r.bars(p, scale),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.Styles.Border).
		Headers("PERIOD", "INFLOW", "OUTFLOW", "NET", "COUNT", "FLOW").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.Styles.Header
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 1:
				return style.Inherit(r.Styles.Inflow).Align(lipgloss.Right)
			case 2:
				return style.Inherit(r.Styles.Outflow).Align(lipgloss.Right)
			case 3:
				if series[row].NetCashflow.IsNegative() {
					return style.Inherit(r.Styles.Loss).Align(lipgloss.Right)
				}
				return style.Inherit(r.Styles.Net).Align(lipgloss.Right)
			case 4:
				return style.Align(lipgloss.Right)
			}
			return style
		})

	return t.String()
}

// Totals draws the summary card shown under a chart.
func (r *ChartRenderer) Totals(totals stats.Totals) string {
	lines := []string{
		"Inflow   " + r.Styles.Inflow.Render(totals.Inflow.StringFixed(2)),
		"Outflow  " + r.Styles.Outflow.Render(totals.Outflow.StringFixed(2)),
		"Net      " + r.netStyle(totals.NetCashflow).Render(totals.NetCashflow.StringFixed(2)),
	}
	if totals.TransactionCount > 0 {
		lines = append(lines, "Entries  "+strconv.Itoa(totals.TransactionCount))
	}
	return r.Styles.Summary.Render(strings.Join(lines, "\n"))
}

func (r *ChartRenderer) netStyle(net decimal.Decimal) lipgloss.Style {
	if net.IsNegative() {
		return r.Styles.Loss
	}
	return r.Styles.Net
}

func (r *ChartRenderer) bars(p stats.PeriodAggregate, scale decimal.Decimal) string {
	width := r.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}
	in := barLength(p.TotalInflow, scale, width)
	out := barLength(p.TotalOutflow, scale, width)

	return r.Styles.Inflow.Render(strings.Repeat(inflowBlock, in)) + "\n" +
		r.Styles.Outflow.Render(strings.Repeat(outflowBlock, out))
}

// barLength scales value into [0, width]. Any non-zero value gets at least
// one block so small periods stay visible.
func barLength(value, scale decimal.Decimal, width int) int {
	if !value.IsPositive() || !scale.IsPositive() {
		return 0
	}
	n := int(value.Mul(decimal.NewFromInt(int64(width))).Div(scale).Round(0).IntPart())
	if n < 1 {
		return 1
	}
	if n > width {
		return width
	}
	return n
}
