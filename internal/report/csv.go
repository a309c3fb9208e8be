package report

import (
	"encoding/csv"
	"os"

	"github.com/fedqlab/fedq/internal/aggregate"
	"github.com/fedqlab/fedq/internal/match"
)

// WriteLocal writes a party's filtered result to path as CSV.
//
// The header row is the canonical row column set. Rows follow in source
// order (sorted) then record order, without source identifiers: a local
// report is a flat record list, same shape as the aggregate one.
//
// A result with no rows anywhere is an error (ErrCodeEmptyResult): with
// nothing matched there is no report to write, and writing a header-only
// file would silently look like success downstream.
func WriteLocal(result match.Result, path string) error {
	if result.TotalRows() == 0 {
		return &SinkError{Code: ErrCodeEmptyResult, Path: path, Message: "filtered result has no rows"}
	}

	rows := make([][]string, 0, result.TotalRows())
	for _, src := range result.Sources() {
		for _, row := range result[src] {
			rows = append(rows, row.Values())
		}
	}
	return writeCSV(path, match.Columns(), rows)
}

// WriteAggregate writes the coordinator's combined report to path.
func WriteAggregate(rep aggregate.Report, path string) error {
	return writeCSV(path, rep.Header, rep.Rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return &SinkError{Code: ErrCodeWriteFailed, Path: path, Message: "create report file", Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return &SinkError{Code: ErrCodeWriteFailed, Path: path, Message: "write header", Err: err}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return &SinkError{Code: ErrCodeWriteFailed, Path: path, Message: "write row", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &SinkError{Code: ErrCodeWriteFailed, Path: path, Message: "flush report", Err: err}
	}
	if err := f.Close(); err != nil {
		return &SinkError{Code: ErrCodeWriteFailed, Path: path, Message: "close report file", Err: err}
	}
	return nil
}
