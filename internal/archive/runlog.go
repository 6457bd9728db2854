package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IO-n-A/quant-fin/internal/summary"
)

// RunEntry is one row in the run log kept next to the archive files.
type RunEntry struct {
	Timestamp            time.Time
	RunID                string
	Sources              int
	Incoming             int
	Clusters             int
	Irregular            int
	AverageMonthlyIncome decimal.Decimal
}

// RunLogHeader is the CSV header for run_log.csv.
const RunLogHeader = "timestamp,run_id,sources,incoming,clusters,irregular,avg_monthly_income"

// RunLogFile is appended to, never rewritten.
const RunLogFile = "run_log.csv"

const (
	numRunFields = 7
	colTimestamp = 0
	colRunID     = 1
	colSources   = 2
	colIncoming  = 3
	colClusters  = 4
	colIrregular = 5
	colAverage   = 6
)

// NewRunEntry summarizes rep for the run log.
func NewRunEntry(runID string, sources int, rep *summary.Report, now time.Time) RunEntry {
	clusters := map[int]bool{}
	incoming := len(rep.Irregular)
	for _, s := range rep.Regular {
		clusters[s.ClusterID] = true
		incoming += s.Count
	}
	return RunEntry{
		Timestamp:            now.UTC(),
		RunID:                runID,
		Sources:              sources,
		Incoming:             incoming,
		Clusters:             len(clusters),
		Irregular:            len(rep.Irregular),
		AverageMonthlyIncome: rep.AverageMonthlyIncome,
	}
}

// MarshalRunEntry converts a RunEntry to a CSV row.
func MarshalRunEntry(e RunEntry) []string {
	row := make([]string, numRunFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSources] = strconv.Itoa(e.Sources)
	row[colIncoming] = strconv.Itoa(e.Incoming)
	row[colClusters] = strconv.Itoa(e.Clusters)
	row[colIrregular] = strconv.Itoa(e.Irregular)
	row[colAverage] = e.AverageMonthlyIncome.StringFixed(2)
	return row
}

// UnmarshalRunEntry converts a CSV row to a RunEntry.
func UnmarshalRunEntry(record []string) (RunEntry, error) {
	if len(record) != numRunFields {
		return RunEntry{}, fmt.Errorf("expected %d fields, got %d", numRunFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return RunEntry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	e := RunEntry{Timestamp: ts, RunID: record[colRunID]}

	ints := []struct {
		col  int
		name string
		dst  *int
	}{
		{colSources, "sources", &e.Sources},
		{colIncoming, "incoming", &e.Incoming},
		{colClusters, "clusters", &e.Clusters},
		{colIrregular, "irregular", &e.Irregular},
	}
	for _, f := range ints {
		n, err := strconv.Atoi(record[f.col])
		if err != nil {
			return RunEntry{}, fmt.Errorf("parsing %s %q: %w", f.name, record[f.col], err)
		}
		*f.dst = n
	}

	e.AverageMonthlyIncome, err = decimal.NewFromString(record[colAverage])
	if err != nil {
		return RunEntry{}, fmt.Errorf("parsing avg_monthly_income %q: %w", record[colAverage], err)
	}
	return e, nil
}

// AppendRun adds e to <dir>/run_log.csv, creating the file and header if needed.
func AppendRun(dir string, e RunEntry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	path := filepath.Join(dir, RunLogFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(RunLogHeader, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalRunEntry(e)); err != nil {
		return fmt.Errorf("writing run entry: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// ReadRuns returns all entries from <dir>/run_log.csv, or nil when the file
// does not exist.
func ReadRuns(dir string) ([]RunEntry, error) {
	f, err := os.Open(filepath.Join(dir, RunLogFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readRuns(f)
}

func readRuns(r io.Reader) ([]RunEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numRunFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []RunEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalRunEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
