package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/IO-n-A/quant-fin/internal/summary"
)

const rtfPreamble = `{\rtf1\ansi\ansicpg1252\deff0\nouicompat{\fonttbl{\f0\fnil\fcharset0 Calibri;}}` +
	`{\*\generator incomereport;}\viewkind4\uc1 \pard\sa200\sl276\slmult1\f0\fs22\lang9 `

// RTF renders the report as a Rich Text document.
type RTF struct{}

func (RTF) Render(w io.Writer, rep *summary.Report) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(rtfPreamble)
	bw.WriteString(Title + `\par` + "\n")
	fmt.Fprintf(bw, `\pard\sa200\sl276\slmult1\b %s: \b0 %s\par`+"\n",
		AverageLabel, rtfEscape(euro(rep.AverageMonthlyIncome)))

	fmt.Fprintf(bw, `\par\b %s:\b0\par`+"\n", RegularTitle)
	bw.WriteString(`\pard\sa200\sl276\slmult1` + "\n")
	for _, g := range byCluster(rep.Regular) {
		fmt.Fprintf(bw, `\par\b Cluster %d: \b0\par`+"\n", g.id)
		for _, s := range g.entries {
			bw.WriteString(rtfEscape(regularLine(s)) + `\par` + "\n")
		}
	}

	fmt.Fprintf(bw, `\par\b %s:\b0\par`+"\n", IrregularTitle)
	for _, ct := range rep.Irregular {
		bw.WriteString(rtfEscape(irregularLine(ct)) + `\par` + "\n")
	}

	bw.WriteString("}\n")
	return bw.Flush()
}

// rtfEscape quotes RTF control characters and writes non-ASCII runes as
// \uN? escapes.
func rtfEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\line `)
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%d?\u%d?`, int16(hi), int16(lo))
		case r > 0x7f:
			fmt.Fprintf(&b, `\u%d?`, int16(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
