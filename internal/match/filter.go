package match

import (
	"sort"

	"github.com/fedqlab/fedq/internal/query"
	"github.com/fedqlab/fedq/internal/source"
)

// Row is one matched record, shaped for report output.
type Row struct {
	Code         string
	Display      string
	NumericValue string
	Unit         string
	Issued       string
}

// Result maps source ID to the ordered rows that matched there. Every
// source handed to Filter appears as a key, empty slice when nothing
// matched. A Result is owned by the party that built it; the copy sent to
// the coordinator is never mutated after receipt.
type Result map[string][]Row

// Columns is the canonical column set of a Row, in output order. The first
// row of any report derives its header from this.
func Columns() []string {
	return []string{"code", "display", "numeric_value", "unit", "issued"}
}

// Values returns the row's fields in Columns order.
func (r Row) Values() []string {
	return []string{r.Code, r.Display, r.NumericValue, r.Unit, r.Issued}
}

// Counts reports the number of matched rows per source.
func (res Result) Counts() map[string]int {
	counts := make(map[string]int, len(res))
	for src, rows := range res {
		counts[src] = len(rows)
	}
	return counts
}

// Sources returns the result's source IDs in sorted order. Iterating a
// Result through Sources gives every consumer the same row order.
func (res Result) Sources() []string {
	srcs := make([]string, 0, len(res))
	for src := range res {
		srcs = append(srcs, src)
	}
	sort.Strings(srcs)
	return srcs
}

// TotalRows returns the number of rows across all sources.
func (res Result) TotalRows() int {
	n := 0
	for _, rows := range res {
		n += len(rows)
	}
	return n
}

// Filter evaluates spec against the per-source records and returns the
// matching rows.
//
// For every source, conditions are walked in spec order and each condition
// scans the full record list; a record matches a condition when its code
// equals the condition's field and the numeric comparison holds. The scan
// order makes Filter deterministic and idempotent: same inputs, same Result,
// byte for byte.
func Filter(spec query.Spec, perSource map[string][]source.Record) Result {
	out := make(Result, len(perSource))

	for src, records := range perSource {
		rows := []Row{}
		for _, cond := range spec.Conditions {
			for _, rec := range records {
				if rec.Code != cond.Field {
					continue
				}
				if !CompareNumeric(rec.NumericValue, cond.Op, cond.Value) {
					continue
				}
				rows = append(rows, Row{
					Code:         rec.Code,
					Display:      rec.Display,
					NumericValue: rec.NumericValue,
					Unit:         rec.Unit,
					Issued:       rec.Issued,
				})
			}
		}
		out[src] = rows
	}
	return out
}
