// Package aggregate flattens the contributions the coordinator gathered
// into one combined report.
//
// A contribution nests three levels deep: contribution → per-source result →
// row sequence. Reduce walks that structure explicitly, level by level,
// rather than indexing into anonymous containers, and the flatten order is
// fixed: contributions in receipt order, sources in sorted order, rows in
// their original sequence order.
package aggregate

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/fedqlab/fedq/internal/match"
	"github.com/fedqlab/fedq/internal/relay"
)

// ErrorCode categorizes aggregation failures.
type ErrorCode string

const (
	// ErrCodeEmpty indicates an empty contribution list.
	ErrCodeEmpty ErrorCode = "AGGREGATE_EMPTY"

	// ErrCodeNoRows indicates contributions arrived but carried no rows,
	// leaving no header derivable downstream.
	ErrCodeNoRows ErrorCode = "AGGREGATE_NO_ROWS"

	// ErrCodeIncomplete indicates the fan-in ended without a contribution
	// from every expected party.
	ErrCodeIncomplete ErrorCode = "AGGREGATE_INCOMPLETE"

	// ErrCodeHeaderMismatch indicates a contribution whose column set does
	// not match the report header.
	ErrCodeHeaderMismatch ErrorCode = "AGGREGATE_HEADER_MISMATCH"
)

// Error is a fatal aggregation failure. It halts the coordinator's run.
type Error struct {
	Code    ErrorCode
	Message string
	Missing []string // populated for ErrCodeIncomplete
}

func (e *Error) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %s (missing=%s)", e.Code, e.Message, strings.Join(e.Missing, ","))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsAggregateError returns true if err is (or wraps) an aggregation Error.
func IsAggregateError(err error) bool {
	var ae *Error
	return errors.As(err, &ae)
}

// NewIncompleteError reports a fan-in that ended with senders missing.
func NewIncompleteError(missing []string, timedOut bool) *Error {
	msg := "gather incomplete"
	if timedOut {
		msg = "gather timed out"
	}
	return &Error{Code: ErrCodeIncomplete, Message: msg, Missing: missing}
}

// Report is the flattened combination of every party's contribution. No
// party or source identifiers survive into the rows; the report is exactly
// the union of matched records.
type Report struct {
	Header []string
	Rows   [][]string
}

// NormalizeHeader NFC-normalizes every column name. Header comparison runs
// over normalized forms so that visually identical names with different
// Unicode compositions cannot slip past validation.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = norm.NFC.String(h)
	}
	return out
}

// headerEqual compares two headers after NFC normalization.
func headerEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	na, nb := NormalizeHeader(a), NormalizeHeader(b)
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}

// Reduce flattens contributions into a single Report.
//
// The header is the canonical row column set; every contribution's columns
// are validated against it before its rows are appended. An empty
// contribution list, or a total of zero rows, is a fatal error: there is
// nothing to derive a report from.
func Reduce(contributions []relay.Contribution) (Report, error) {
	if len(contributions) == 0 {
		return Report{}, &Error{Code: ErrCodeEmpty, Message: "no contributions to aggregate"}
	}

	header := NormalizeHeader(match.Columns())
	rep := Report{Header: header}

	for _, contrib := range contributions {
		if !headerEqual(contributionColumns(contrib.Result), header) {
			return Report{}, &Error{
				Code:    ErrCodeHeaderMismatch,
				Message: fmt.Sprintf("contribution from %s does not match header %v", contrib.PartyID, header),
			}
		}
		for _, src := range contrib.Result.Sources() {
			for _, row := range contrib.Result[src] {
				rep.Rows = append(rep.Rows, row.Values())
			}
		}
	}

	if len(rep.Rows) == 0 {
		return Report{}, &Error{Code: ErrCodeNoRows, Message: "contributions carry no rows"}
	}
	return rep, nil
}

// contributionColumns returns the column set a contribution's rows carry.
// Rows are statically shaped, so this is the canonical set; the indirection
// keeps header validation in one place should the row model ever grow
// dynamic fields.
func contributionColumns(res match.Result) []string {
	return match.Columns()
}
