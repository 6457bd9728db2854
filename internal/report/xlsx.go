package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/IO-n-A/quant-fin/internal/summary"
)

// Sheet names of the XLSX workbook.
const (
	SheetSummary   = "Summary"
	SheetRegular   = "Regular"
	SheetIrregular = "Irregular"
	SheetMonthly   = "Monthly"
)

// XLSX renders the report as an Excel workbook.
type XLSX struct{}

func (XLSX) Render(w io.Writer, rep *summary.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	for _, name := range []string{SheetRegular, SheetIrregular, SheetMonthly} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating number style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	summaryRows := [][]any{
		{Title},
		{AverageLabel, rep.AverageMonthlyIncome.Round(2).InexactFloat64()},
		{"Regular clusters", len(byCluster(rep.Regular))},
		{"Irregular payments", len(rep.Irregular)},
		{"Months", len(rep.Monthly)},
	}
	if err := writeRows(f, SheetSummary, summaryRows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "B2", "B2", money); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}

	regular := [][]any{{"Cluster", "Description", "Count", "Average Amount", "Average Day"}}
	for _, s := range rep.Regular {
		regular = append(regular, []any{s.ClusterID, s.Description, s.Count, s.AvgAmount.Round(2).InexactFloat64(), s.AvgDay})
	}
	if err := writeTable(f, SheetRegular, regular, "D", bold, money); err != nil {
		return err
	}

	irregular := [][]any{{"Date", "Description", "Amount", "Source"}}
	for _, ct := range rep.Irregular {
		irregular = append(irregular, []any{ct.Date.Format(dateFormat), ct.Description, ct.Amount.Round(2).InexactFloat64(), string(ct.Source)})
	}
	if err := writeTable(f, SheetIrregular, irregular, "C", bold, money); err != nil {
		return err
	}

	monthly := [][]any{{"Month", "Total"}}
	for _, m := range rep.Monthly {
		monthly = append(monthly, []any{m.Month.String(), m.Total.Round(2).InexactFloat64()})
	}
	if err := writeTable(f, SheetMonthly, monthly, "B", bold, money); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// writeTable writes rows with a bold header and money formatting on amountCol.
func writeTable(f *excelize.File, sheet string, rows [][]any, amountCol string, header, money int) error {
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	if len(rows) > 1 {
		top := fmt.Sprintf("%s2", amountCol)
		bottom := fmt.Sprintf("%s%d", amountCol, len(rows))
		if err := f.SetCellStyle(sheet, top, bottom, money); err != nil {
			return fmt.Errorf("styling %s amounts: %w", sheet, err)
		}
	}
	return f.SetColWidth(sheet, "A", "B", 24)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
