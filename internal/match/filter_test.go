package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedqlab/fedq/internal/query"
	"github.com/fedqlab/fedq/internal/source"
)

func weightRecords() []source.Record {
	return []source.Record{
		{Code: "code", Display: "Body weight", NumericValue: "72.5", Unit: "kg", Issued: "t1"},
		{Code: "code", Display: "Body weight", NumericValue: "2.1", Unit: "kg", Issued: "t2"},
		{Code: "rate", Display: "Heart rate", NumericValue: "64", Unit: "bpm", Issued: "t3"},
	}
}

func TestFilter_MatchesOnlyMatchingCodes(t *testing.T) {
	spec := query.Spec{Conditions: []query.Condition{
		{Field: "code", Op: ">", Value: "3"},
	}}
	res := Filter(spec, map[string][]source.Record{"bergen": weightRecords()})

	require.Len(t, res["bergen"], 1)
	got := res["bergen"][0]
	assert.Equal(t, "code", got.Code)
	assert.Equal(t, "72.5", got.NumericValue)
}

func TestFilter_RecordWithForeignCodeNeverAppears(t *testing.T) {
	spec := query.Spec{Conditions: []query.Condition{
		{Field: "pressure", Op: ">", Value: "0"},
	}}
	res := Filter(spec, map[string][]source.Record{"bergen": weightRecords()})

	require.Contains(t, res, "bergen")
	assert.Empty(t, res["bergen"])
}

func TestFilter_Idempotent(t *testing.T) {
	spec := query.Spec{Conditions: []query.Condition{
		{Field: "code", Op: ">", Value: "1", Join: query.JoinerAnd},
		{Field: "rate", Op: "<=", Value: "64"},
	}}
	records := map[string][]source.Record{
		"bergen": weightRecords(),
		"oslo":   weightRecords()[:2],
	}

	first := Filter(spec, records)
	second := Filter(spec, records)
	assert.Equal(t, first, second, "same inputs must yield an identical result")
}

func TestFilter_EverySourceKeyed(t *testing.T) {
	spec := query.Spec{Conditions: []query.Condition{
		{Field: "code", Op: ">", Value: "1000"},
	}}
	res := Filter(spec, map[string][]source.Record{
		"bergen": weightRecords(),
		"empty":  {},
	})

	assert.Len(t, res, 2)
	assert.Empty(t, res["bergen"])
	assert.Empty(t, res["empty"])
	assert.Equal(t, []string{"bergen", "empty"}, res.Sources())
}

func TestFilter_MultipleConditionsStripeRows(t *testing.T) {
	// Each condition contributes its own stripe of matches, in condition
	// order; a record can appear once per condition it satisfies.
	spec := query.Spec{Conditions: []query.Condition{
		{Field: "code", Op: ">", Value: "1"},
		{Field: "code", Op: ">", Value: "50"},
	}}
	res := Filter(spec, map[string][]source.Record{"bergen": weightRecords()})

	require.Len(t, res["bergen"], 3)
	assert.Equal(t, "72.5", res["bergen"][0].NumericValue)
	assert.Equal(t, "2.1", res["bergen"][1].NumericValue)
	assert.Equal(t, "72.5", res["bergen"][2].NumericValue)
}

func TestFilter_Counts(t *testing.T) {
	spec := query.Spec{Conditions: []query.Condition{
		{Field: "code", Op: ">", Value: "1"},
	}}
	res := Filter(spec, map[string][]source.Record{"bergen": weightRecords()})

	assert.Equal(t, map[string]int{"bergen": 2}, res.Counts())
	assert.Equal(t, 2, res.TotalRows())
}

func TestCompareNumeric(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		op     string
		target string
		want   bool
	}{
		{"less true", "1", "<", "2", true},
		{"less false", "2", "<", "1", false},
		{"greater true", "5", ">", "3", true},
		{"equal true", "5", "=", "5", true},
		{"equal false", "5", "=", "5.1", false},
		{"boundary less-equal", "5", "<=", "5", true},
		{"boundary greater-equal", "5", ">=", "5", true},
		{"non-numeric value skipped", "abc", "<", "1", false},
		{"non-numeric target skipped", "1", "<", "abc", false},
		{"unknown operator skipped", "1", "!=", "2", false},
		{"float precision", "72.5", ">", "72.4", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareNumeric(tt.value, tt.op, tt.target))
		})
	}
}

func TestRow_ValuesFollowColumns(t *testing.T) {
	row := Row{Code: "c", Display: "d", NumericValue: "1", Unit: "u", Issued: "t"}
	assert.Len(t, row.Values(), len(Columns()))
	assert.Equal(t, []string{"c", "d", "1", "u", "t"}, row.Values())
}
