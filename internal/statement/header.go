package statement

import (
	"strings"

	"github.com/IO-n-A/quant-fin/internal/config"
)

// RawRecord is one data row keyed by header label. Values are kept verbatim;
// date and amount parsing trim their own input.
type RawRecord map[string]string

func newRawRecord(header, rec []string) RawRecord {
	raw := make(RawRecord, len(header))
	for i, label := range header {
		if _, dup := raw[label]; dup {
			continue
		}
		if i < len(rec) {
			raw[label] = rec[i]
		} else {
			raw[label] = ""
		}
	}
	return raw
}

func cleanLabel(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

func splitLine(line string, delim rune) []string {
	cols := strings.Split(line, string(delim))
	for i, c := range cols {
		cols[i] = cleanLabel(c)
	}
	return cols
}

// matchColumn returns the index of the column best matching aliases, or -1.
// Exact (case-insensitive) matches win over substring matches; within each
// pass the alias order decides.
func matchColumn(cols, aliases []string) int {
	for _, alias := range aliases {
		for i, c := range cols {
			if strings.EqualFold(c, alias) {
				return i
			}
		}
	}
	for _, alias := range aliases {
		a := strings.ToLower(alias)
		if a == "" {
			continue
		}
		for i, c := range cols {
			if strings.Contains(strings.ToLower(c), a) {
				return i
			}
		}
	}
	return -1
}

// findHeader returns the index of the first line holding both a date and an
// amount column, or -1.
func findHeader(lines []string, delim rune, aliases config.Aliases) int {
	for i, line := range lines {
		cols := splitLine(line, delim)
		if matchColumn(cols, aliases.Date) >= 0 && matchColumn(cols, aliases.Amount) >= 0 {
			return i
		}
	}
	return -1
}
