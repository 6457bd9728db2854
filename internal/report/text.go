package report

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/IO-n-A/quant-fin/internal/summary"
)

// Text renders the report for a terminal.
type Text struct{}

func (Text) Render(w io.Writer, rep *summary.Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, Title)
	fmt.Fprintf(bw, "%s: %s\n", AverageLabel, euro(rep.AverageMonthlyIncome))

	fmt.Fprintf(bw, "\n%s:\n", RegularTitle)
	groups := byCluster(rep.Regular)
	if len(groups) == 0 {
		fmt.Fprintln(bw, "  (none)")
	}
	for _, g := range groups {
		fmt.Fprintf(bw, "Cluster %d:\n", g.id)
		for _, s := range g.entries {
			fmt.Fprintf(bw, "  %s\n", regularLine(s))
		}
	}

	fmt.Fprintf(bw, "\n%s:\n", IrregularTitle)
	if len(rep.Irregular) == 0 {
		fmt.Fprintln(bw, "  (none)")
	}
	for _, ct := range rep.Irregular {
		fmt.Fprintf(bw, "  %s\n", irregularLine(ct))
	}

	if len(rep.Monthly) > 0 {
		fmt.Fprintf(bw, "\n%s:\n", MonthlyTitle)
		tw := tabwriter.NewWriter(bw, 0, 0, 2, ' ', tabwriter.AlignRight)
		for _, m := range rep.Monthly {
			fmt.Fprintf(tw, "  %s\t%s\t\n", m.Month, euro(m.Total))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return bw.Flush()
}
