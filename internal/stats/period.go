package stats

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Granularity selects the bucket size of a period key.
type Granularity int8

const (
	Daily Granularity = iota
	Monthly
)

const (
	dailyLayout   = "02-01-2006"
	monthlyLayout = "01-2006"

	defaultDailyCount   = 7
	defaultMonthlyCount = 6
)

// ErrMalformedPeriodKey is matched by every MalformedPeriodKeyError.
var ErrMalformedPeriodKey = errors.New("malformed period key")

// MalformedPeriodKeyError reports a key that is not a valid calendar period
// for the granularity it was parsed with.
type MalformedPeriodKeyError struct {
	Key         string
	Granularity Granularity
	Err         error
}

func (e *MalformedPeriodKeyError) Error() string {
	return fmt.Sprintf("malformed %s period key %q: %v", e.Granularity, e.Key, e.Err)
}

func (e *MalformedPeriodKeyError) Unwrap() error {
	return e.Err
}

func (e *MalformedPeriodKeyError) Is(target error) bool {
	return target == ErrMalformedPeriodKey
}

// ParseGranularity accepts "daily" or "monthly", case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, nil
	case "monthly":
		return Monthly, nil
	}
	return Daily, fmt.Errorf("unknown granularity %q", s)
}

func (g Granularity) String() string {
	switch g {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	}
	return fmt.Sprintf("Granularity(%d)", int8(g))
}

// Layout is the wire format of period keys: DD-MM-YYYY or MM-YYYY.
func (g Granularity) Layout() string {
	if g == Monthly {
		return monthlyLayout
	}
	return dailyLayout
}

// DefaultCount is the trailing window size used when a caller gives none.
func (g Granularity) DefaultCount() int {
	if g == Monthly {
		return defaultMonthlyCount
	}
	return defaultDailyCount
}

// ParseKey turns a period key into the UTC instant the period starts at.
// Monthly periods start on the 1st.
func (g Granularity) ParseKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(g.Layout(), key, time.UTC)
	if err != nil {
		return time.Time{}, &MalformedPeriodKeyError{Key: key, Granularity: g, Err: err}
	}
	return t, nil
}

// FormatKey renders the key of the period containing t.
func (g Granularity) FormatKey(t time.Time) string {
	return t.Format(g.Layout())
}

// Truncate returns the start of the period containing t, in t's location.
func (g Granularity) Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	if g == Monthly {
		d = 1
	}
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Step moves a period start n periods forward (or backward for negative n).
func (g Granularity) Step(t time.Time, n int) time.Time {
	if g == Monthly {
		return t.AddDate(0, n, 0)
	}
	return t.AddDate(0, 0, n)
}
