package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/carson-networks/cashflow-gateway/internal/render"
	"github.com/carson-networks/cashflow-gateway/internal/stats"
)

const dateLayout = "2006-01-02"

func newStatsCommand(opts *rootOptions) *cobra.Command {
	var end string
	var count int

	cmd := &cobra.Command{
		Use:       "stats daily|monthly",
		Short:     "Chart inflow and outflow per day or month",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"daily", "monthly"},
		RunE: func(cmd *cobra.Command, args []string) error {
			g, endDate, err := parseStatsArgs(args[0], end)
			if err != nil {
				return err
			}
			return runStats(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), g, endDate, count)
		},
	}

	cmd.Flags().StringVar(&end, "end", "", "last day of the window, YYYY-MM-DD (defaults to today)")
	cmd.Flags().IntVar(&count, "count", 0, "number of periods (defaults to the configured window)")

	return cmd
}

func parseStatsArgs(granularity, end string) (stats.Granularity, time.Time, error) {
	g, err := stats.ParseGranularity(granularity)
	if err != nil {
		return 0, time.Time{}, err
	}
	if end == "" {
		return g, time.Time{}, nil
	}
	endDate, err := time.ParseInLocation(dateLayout, end, time.Local)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("invalid --end %q: expected YYYY-MM-DD", end)
	}
	return g, endDate, nil
}

func runStats(ctx context.Context, opts *rootOptions, out, logOut io.Writer, g stats.Granularity, end time.Time, count int) error {
	if count < 0 {
		return fmt.Errorf("invalid --count %d", count)
	}

	cfg, logger, err := loadConfig(opts, logOut)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	series, err := a.svc.Stats.Series(ctx, g, end, count)
	if err != nil {
		return fmt.Errorf("loading %s stats: %w", g, err)
	}

	chart := render.NewChartRenderer()
	fmt.Fprintf(out, "%s %s to %s\n", g, series.Window.StartDate(), series.Window.EndDate())
	fmt.Fprintln(out, chart.Series(series.Periods, g))
	fmt.Fprintln(out, chart.Totals(series.Totals))
	return nil
}
