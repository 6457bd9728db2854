// Package aggregate merges parsed statements into the incoming-payment set
// and its monthly income series.
package aggregate

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/IO-n-A/quant-fin/internal/model"
)

// ErrNoIncoming is returned when no source holds a single incoming transaction.
var ErrNoIncoming = errors.New("no incoming transactions found")

// Aggregation is the union of all incoming transactions.
type Aggregation struct {
	Incoming []model.Transaction
	Monthly  model.MonthlyIncomeSeries
	Outgoing int // debits and zero amounts seen and left out
}

// AverageMonthlyIncome is the unweighted mean of the monthly totals.
func (a *Aggregation) AverageMonthlyIncome() decimal.Decimal {
	return a.Monthly.Mean()
}

// Aggregate keeps the credits of every batch, in batch then row order, and
// sums them per calendar month. It returns ErrNoIncoming together with the
// (empty) aggregation when there are none.
func Aggregate(batches ...[]model.Transaction) (*Aggregation, error) {
	agg := &Aggregation{}
	for _, batch := range batches {
		for _, txn := range batch {
			if !txn.Incoming() {
				agg.Outgoing++
				continue
			}
			agg.Incoming = append(agg.Incoming, txn)
		}
	}
	if len(agg.Incoming) == 0 {
		return agg, ErrNoIncoming
	}
	agg.Monthly = Monthly(agg.Incoming)
	return agg, nil
}

// Monthly sums amounts per calendar month, ascending. Months without
// transactions are absent rather than zero.
func Monthly(txns []model.Transaction) model.MonthlyIncomeSeries {
	sums := make(map[model.YearMonth]decimal.Decimal)
	for _, txn := range txns {
		ym := model.MonthOf(txn.Date)
		sums[ym] = sums[ym].Add(txn.Amount)
	}

	series := make(model.MonthlyIncomeSeries, 0, len(sums))
	for ym, total := range sums {
		series = append(series, model.MonthTotal{Month: ym, Total: total})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month.Before(series[j].Month)
	})
	return series
}
