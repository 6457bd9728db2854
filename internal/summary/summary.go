// Package summary reduces classified transactions into the income report.
package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/IO-n-A/quant-fin/internal/model"
)

// Report is everything a renderer needs.
type Report struct {
	AverageMonthlyIncome decimal.Decimal
	Regular              []model.ClusterSummary
	Irregular            []model.ClassifiedTransaction
	Monthly              model.MonthlyIncomeSeries
}

type groupKey struct {
	cluster int
	desc    string
}

type groupAcc struct {
	count  int
	amount decimal.Decimal
	days   int
}

// Build groups regular transactions by (cluster, description) and lists the
// irregular ones by date.
func Build(monthly model.MonthlyIncomeSeries, classified []model.ClassifiedTransaction) *Report {
	return &Report{
		AverageMonthlyIncome: monthly.Mean(),
		Regular:              Regular(classified),
		Irregular:            Irregular(classified),
		Monthly:              monthly,
	}
}

// Regular returns one ClusterSummary per (cluster, description), ordered by
// count descending, then cluster ID and description ascending.
func Regular(classified []model.ClassifiedTransaction) []model.ClusterSummary {
	groups := make(map[groupKey]*groupAcc)
	for _, ct := range classified {
		if ct.ClusterID == model.Noise {
			continue
		}
		k := groupKey{cluster: ct.ClusterID, desc: ct.Description}
		g, ok := groups[k]
		if !ok {
			g = &groupAcc{amount: decimal.Zero}
			groups[k] = g
		}
		g.count++
		g.amount = g.amount.Add(ct.Amount)
		g.days += ct.Day
	}

	out := make([]model.ClusterSummary, 0, len(groups))
	for k, g := range groups {
		out = append(out, model.ClusterSummary{
			ClusterID:   k.cluster,
			Description: k.desc,
			Count:       g.count,
			AvgAmount:   g.amount.Div(decimal.NewFromInt(int64(g.count))),
			AvgDay:      float64(g.days) / float64(g.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.ClusterID != b.ClusterID {
			return a.ClusterID < b.ClusterID
		}
		return a.Description < b.Description
	})
	return out
}

// Irregular returns the noise transactions ordered by date; ties keep their
// input order.
func Irregular(classified []model.ClassifiedTransaction) []model.ClassifiedTransaction {
	var out []model.ClassifiedTransaction
	for _, ct := range classified {
		if ct.ClusterID == model.Noise {
			out = append(out, ct)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
