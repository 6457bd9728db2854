// Package report renders a summary.Report as console text, RTF or XLSX.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/IO-n-A/quant-fin/internal/model"
	"github.com/IO-n-A/quant-fin/internal/summary"
)

// Renderer writes a report in one output format.
type Renderer interface {
	Render(w io.Writer, rep *summary.Report) error
}

// Section titles shared by every format.
const (
	Title          = "Income Report"
	AverageLabel   = "Average Monthly Income"
	RegularTitle   = "Regular Incoming Payments Summary"
	IrregularTitle = "Irregular Incoming Payments"
	MonthlyTitle   = "Monthly Income"
)

const dateFormat = "2006-01-02"

// Formats lists the names accepted by ForFormat.
func Formats() []string {
	return []string{"text", "rtf", "xlsx"}
}

// ForFormat returns the renderer registered under name.
func ForFormat(name string) (Renderer, error) {
	switch strings.ToLower(name) {
	case "", "text", "txt":
		return Text{}, nil
	case "rtf":
		return RTF{}, nil
	case "xlsx", "excel":
		return XLSX{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want one of %s)", name, strings.Join(Formats(), ", "))
	}
}

// Extension returns the file extension for a format name.
func Extension(name string) string {
	switch strings.ToLower(name) {
	case "rtf":
		return ".rtf"
	case "xlsx", "excel":
		return ".xlsx"
	default:
		return ".txt"
	}
}

func euro(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}

// clusterGroup holds the summaries of one cluster in report order.
type clusterGroup struct {
	id      int
	entries []model.ClusterSummary
}

// byCluster groups regular summaries by cluster ID, ascending.
func byCluster(summaries []model.ClusterSummary) []clusterGroup {
	idx := map[int]int{}
	var groups []clusterGroup
	for _, s := range summaries {
		i, ok := idx[s.ClusterID]
		if !ok {
			i = len(groups)
			idx[s.ClusterID] = i
			groups = append(groups, clusterGroup{id: s.ClusterID})
		}
		groups[i].entries = append(groups[i].entries, s)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].id < groups[j].id })
	return groups
}

func regularLine(s model.ClusterSummary) string {
	return fmt.Sprintf("Description: %s, Count: %d, Average Amount: %s, Average Day: %.2f",
		s.Description, s.Count, euro(s.AvgAmount), s.AvgDay)
}

func irregularLine(ct model.ClassifiedTransaction) string {
	return fmt.Sprintf("Date: %s, Description: %s, Amount: %s",
		ct.Date.Format(dateFormat), ct.Description, euro(ct.Amount))
}
