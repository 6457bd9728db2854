package statement

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/IO-n-A/quant-fin/internal/config"
	"github.com/IO-n-A/quant-fin/internal/model"
)

// Parser reads loosely structured delimited statement exports whose header
// row may be preceded by metadata lines.
type Parser struct {
	Source    model.Source
	Delimiter rune   // ';' when zero
	Encoding  string // auto, utf-8, windows-1252 or iso-8859-1
	Aliases   config.Aliases
	Locale    config.Locale
}

// Result is the outcome of parsing one statement.
type Result struct {
	Source       model.Source
	HeaderLine   int // 0-based line index of the header, -1 if not found
	Transactions []model.Transaction
	Dropped      []*ParseError
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads a statement. A missing header yields an empty Result together
// with a *FormatError; rows with unparseable dates or amounts are dropped and
// listed in Result.Dropped.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	res := &Result{Source: p.Source, HeaderLine: -1}

	data, err := io.ReadAll(r)
	if err != nil {
		return res, fmt.Errorf("reading statement %s: %w", p.Source, err)
	}
	text, err := decode(data, p.Encoding)
	if err != nil {
		return res, &FormatError{Source: p.Source, Reason: "decoding", Err: err}
	}

	delim := p.delimiter()
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	headerIdx := findHeader(lines, delim, p.Aliases)
	if headerIdx < 0 {
		return res, &FormatError{Source: p.Source, Reason: "no header row with date and amount columns"}
	}

	cr := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return res, &FormatError{Source: p.Source, Reason: "reading rows", Err: err}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = cleanLabel(h)
	}
	dateCol := matchColumn(header, p.Aliases.Date)
	amountCol := matchColumn(header, p.Aliases.Amount)
	descCol := matchColumn(header, p.Aliases.Description)
	if dateCol < 0 || amountCol < 0 {
		return res, &FormatError{Source: p.Source, Reason: "header row lost its date or amount column"}
	}
	res.HeaderLine = headerIdx

	decimalSep := ','
	if p.Locale.DecimalSeparator == "." {
		decimalSep = '.'
	}

	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := i + 1
		raw := newRawRecord(header, rec)

		dateVal := raw[header[dateCol]]
		date, err := ParseDate(dateVal, p.Locale.DayFirst)
		if err != nil {
			res.Dropped = append(res.Dropped, &ParseError{Row: row, Field: "date", Value: dateVal, Err: err})
			continue
		}

		amountVal := raw[header[amountCol]]
		amount, err := ParseAmount(amountVal, decimalSep)
		if err != nil {
			res.Dropped = append(res.Dropped, &ParseError{Row: row, Field: "amount", Value: amountVal, Err: err})
			continue
		}

		var desc string
		if descCol >= 0 {
			desc = raw[header[descCol]]
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			Date:        date,
			Amount:      amount,
			Description: desc,
			Source:      p.Source,
			Row:         row,
		})
	}
	return res, nil
}

func (p *Parser) delimiter() rune {
	if p.Delimiter == 0 {
		return ';'
	}
	return p.Delimiter
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func decode(data []byte, encoding string) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var cm *charmap.Charmap
	switch strings.ToLower(encoding) {
	case "", "auto":
		if utf8.Valid(data) {
			return string(data), nil
		}
		cm = charmap.Windows1252
	case "utf-8", "utf8":
		return string(data), nil
	case "windows-1252", "cp1252":
		cm = charmap.Windows1252
	case "iso-8859-1", "latin1":
		cm = charmap.ISO8859_1
	default:
		return "", fmt.Errorf("unsupported encoding %q", encoding)
	}

	out, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", encoding, err)
	}
	return string(out), nil
}
