// Package archive writes the machine-readable side outputs of a report run.
package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/IO-n-A/quant-fin/internal/model"
	"github.com/IO-n-A/quant-fin/internal/summary"
)

// CSV headers of the archive files.
const (
	MonthlyHeader   = "year_month,total_amount"
	IrregularHeader = "date,description,amount"
	RegularHeader   = "cluster_id,description,count,avg_amount,avg_day"
)

// Archive file names.
const (
	MonthlyFile   = "monthly_income_summary.csv"
	IrregularFile = "irregular_payments_list.csv"
	RegularFile   = "regular_payments_summary.csv"
)

const dateFormat = "2006-01-02"

// WriteMonthly writes the monthly income series (including header).
func WriteMonthly(w io.Writer, series model.MonthlyIncomeSeries) error {
	rows := make([][]string, len(series))
	for i, m := range series {
		rows[i] = MarshalMonth(m)
	}
	return writeAll(w, MonthlyHeader, rows)
}

// WriteIrregular writes the irregular payment list (including header).
func WriteIrregular(w io.Writer, txns []model.ClassifiedTransaction) error {
	rows := make([][]string, len(txns))
	for i, ct := range txns {
		rows[i] = MarshalIrregular(ct.Transaction)
	}
	return writeAll(w, IrregularHeader, rows)
}

// WriteRegular writes the per-cluster regular payment summaries (including header).
func WriteRegular(w io.Writer, summaries []model.ClusterSummary) error {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			strconv.Itoa(s.ClusterID),
			s.Description,
			strconv.Itoa(s.Count),
			s.AvgAmount.StringFixed(2),
			strconv.FormatFloat(s.AvgDay, 'f', 2, 64),
		}
	}
	return writeAll(w, RegularHeader, rows)
}

// MarshalMonth converts a MonthTotal to a CSV row.
func MarshalMonth(m model.MonthTotal) []string {
	return []string{m.Month.String(), m.Total.StringFixed(2)}
}

// UnmarshalMonth converts a CSV row to a MonthTotal.
func UnmarshalMonth(record []string) (model.MonthTotal, error) {
	if len(record) != 2 {
		return model.MonthTotal{}, fmt.Errorf("expected 2 fields, got %d", len(record))
	}
	ym, err := model.ParseYearMonth(record[0])
	if err != nil {
		return model.MonthTotal{}, err
	}
	total, err := decimal.NewFromString(record[1])
	if err != nil {
		return model.MonthTotal{}, fmt.Errorf("parsing total_amount %q: %w", record[1], err)
	}
	return model.MonthTotal{Month: ym, Total: total}, nil
}

// MarshalIrregular converts a transaction to a date,description,amount row.
func MarshalIrregular(txn model.Transaction) []string {
	return []string{txn.Date.Format(dateFormat), txn.Description, txn.Amount.StringFixed(2)}
}

// ReadMonthly reads a monthly_income_summary.csv stream.
func ReadMonthly(r io.Reader) (model.MonthlyIncomeSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading monthly CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var series model.MonthlyIncomeSeries
	for i, rec := range records[1:] {
		m, err := UnmarshalMonth(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		series = append(series, m)
	}
	return series, nil
}

// WriteDir writes all three archive files for rep into dir, creating it if needed.
func WriteDir(dir string, rep *summary.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{MonthlyFile, func(w io.Writer) error { return WriteMonthly(w, rep.Monthly) }},
		{IrregularFile, func(w io.Writer) error { return WriteIrregular(w, rep.Irregular) }},
		{RegularFile, func(w io.Writer) error { return WriteRegular(w, rep.Regular) }},
	}
	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func writeAll(w io.Writer, header string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
