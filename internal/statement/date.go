package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	dayFirstLayouts   = []string{"2.1.2006", "2.1.06", "2/1/2006", "2/1/06", "2-1-2006"}
	monthFirstLayouts = []string{"1/2/2006", "1/2/06", "1-2-2006", "1.2.2006"}
	isoLayouts        = []string{"2006-01-02", "2006/01/02", time.RFC3339, "2006-01-02T15:04:05"}
	timeSuffixes      = []string{"", " 15:04:05", " 15:04"}
)

// ParseDate parses a statement date. ISO dates are tried first, then the
// preferred ordering (02.01.2006 when dayFirst, 01/02/2006 otherwise), then
// the other ordering for dates that can only be read that way, and finally
// free-form dates such as "Jan 5, 2025".
func ParseDate(s string, dayFirst bool) (time.Time, error) {
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	preferred, other := dayFirstLayouts, monthFirstLayouts
	if !dayFirst {
		preferred, other = other, preferred
	}
	for _, layouts := range [][]string{isoLayouts, preferred, other} {
		if t, ok := parseLayouts(s, layouts); ok {
			return t, nil
		}
	}

	t, err := dateparse.ParseIn(s, time.UTC,
		dateparse.PreferMonthFirst(!dayFirst),
		dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return midnight(t), nil
}

func parseLayouts(s string, layouts []string) (time.Time, bool) {
	for _, base := range layouts {
		for _, suffix := range timeSuffixes {
			if t, err := time.Parse(base+suffix, s); err == nil {
				return midnight(t), true
			}
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
