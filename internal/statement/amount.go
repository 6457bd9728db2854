package statement

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var currencyStripper = strings.NewReplacer(
	"€", "",
	"$", "",
	"£", "",
	"EUR", "",
	"USD", "",
	"GBP", "",
	"'", "",
	`"`, "",
)

// ParseAmount normalizes a locale-formatted amount such as "1.234,56 €",
// "-1,234.56" or "100,00-". decimalSep is the locale decimal separator
// ('.' or ','), used only when a lone separator is ambiguous.
func ParseAmount(s string, decimalSep rune) (decimal.Decimal, error) {
	raw := s
	s = currencyStripper.Replace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	negative := false
	switch {
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		negative = true
		s = s[1 : len(s)-1]
	case strings.HasSuffix(s, "-"):
		negative = true
		s = strings.TrimSuffix(s, "-")
	case strings.HasPrefix(s, "-"):
		negative = true
		s = strings.TrimPrefix(s, "-")
	case strings.HasPrefix(s, "+"):
		s = strings.TrimPrefix(s, "+")
	}

	s = normalizeSeparators(s, decimalSep)
	if !isPlainNumber(s) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// normalizeSeparators rewrites s so that '.' is the only, decimal, separator.
func normalizeSeparators(s string, decimalSep rune) string {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		// Whichever comes last is the decimal separator.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		}
		return strings.ReplaceAll(s, ",", "")
	case dots == 0 && commas == 0:
		return s
	}

	sep := "."
	n := dots
	if commas > 0 {
		sep = ","
		n = commas
	}
	if n > 1 {
		return strings.ReplaceAll(s, sep, "")
	}
	if rune(sep[0]) != decimalSep && len(s)-strings.Index(s, sep)-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.ReplaceAll(s, sep, ".")
}

func isPlainNumber(s string) bool {
	if s == "" || s == "." {
		return false
	}
	seenDot := false
	for _, r := range s {
		switch {
		case r == '.':
			if seenDot {
				return false
			}
			seenDot = true
		case r < '0' || r > '9':
			return false
		}
	}
	return true
}
