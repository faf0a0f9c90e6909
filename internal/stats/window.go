package stats

import "time"

const (
	dateParamLayout = "2006-01-02"
	endOfDaySuffix  = " 23:59:59"
)

// Window is the trailing range of periods requested from the aggregate source.
// Start is the first instant of the oldest period; End is the requested end date.
type Window struct {
	Start       time.Time
	End         time.Time
	Count       int
	Granularity Granularity
}

// NewWindow shapes an aggregate request. A zero end means now and a
// non-positive count falls back to the granularity default.
func NewWindow(end time.Time, count int, g Granularity, now time.Time) Window {
	if end.IsZero() {
		end = now
	}
	if count <= 0 {
		count = g.DefaultCount()
	}
	start := g.Step(g.Truncate(end), -(count - 1))
	return Window{
		Start:       start,
		End:         end,
		Count:       count,
		Granularity: g,
	}
}

// EndParam is the end_date query value: the end day, through 23:59:59.
func (w Window) EndParam() string {
	return w.End.Format(dateParamLayout) + endOfDaySuffix
}

// StartDate renders the first day of the window as YYYY-MM-DD.
func (w Window) StartDate() string {
	return w.Start.Format(dateParamLayout)
}

// EndDate renders the last day of the window as YYYY-MM-DD.
func (w Window) EndDate() string {
	return w.End.Format(dateParamLayout)
}

// Contains reports whether t falls on a day inside the window.
func (w Window) Contains(t time.Time) bool {
	day := Daily.Truncate(t.In(w.End.Location()))
	last := Daily.Truncate(w.End)
	return !day.Before(w.Start) && !day.After(last)
}

// Key identifies the window for caching and request de-duplication.
func (w Window) Key() string {
	return w.Granularity.String() + "|" + w.StartDate() + "|" + w.EndDate()
}
