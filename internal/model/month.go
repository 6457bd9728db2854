package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// String formats the month as "2006-01".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Before reports whether ym is an earlier month than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// ParseYearMonth parses "2006-01".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("parsing year-month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// MonthTotal is the summed incoming amount of one month.
type MonthTotal struct {
	Month YearMonth
	Total decimal.Decimal
}

// MonthlyIncomeSeries holds per-month incoming totals in ascending month order.
// Months without incoming transactions are absent.
type MonthlyIncomeSeries []MonthTotal

// Mean returns the unweighted arithmetic mean of the monthly totals,
// or zero for an empty series.
func (s MonthlyIncomeSeries) Mean() decimal.Decimal {
	if len(s) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, m := range s {
		sum = sum.Add(m.Total)
	}
	return sum.Div(decimal.NewFromInt(int64(len(s))))
}

// Total returns the sum of all monthly totals.
func (s MonthlyIncomeSeries) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, m := range s {
		sum = sum.Add(m.Total)
	}
	return sum
}
