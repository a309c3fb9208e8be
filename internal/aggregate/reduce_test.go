package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedqlab/fedq/internal/match"
	"github.com/fedqlab/fedq/internal/relay"
)

func contribution(party string, value string) relay.Contribution {
	return relay.Contribution{
		PartyID: party,
		Result: match.Result{
			"s1": []match.Row{{Code: "A", Display: "a", NumericValue: value, Unit: "u", Issued: "t"}},
		},
	}
}

func TestReduce_FlattensInContributionOrder(t *testing.T) {
	rep, err := Reduce([]relay.Contribution{
		contribution("p1", "1"),
		contribution("p2", "2"),
	})
	require.NoError(t, err)

	assert.Equal(t, match.Columns(), rep.Header)
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "1", rep.Rows[0][2], "p1's row first")
	assert.Equal(t, "2", rep.Rows[1][2], "p2's row second")
}

func TestReduce_SourcesSortedWithinContribution(t *testing.T) {
	contrib := relay.Contribution{
		PartyID: "p1",
		Result: match.Result{
			"zeta":  []match.Row{{Code: "A", NumericValue: "2"}},
			"alpha": []match.Row{{Code: "A", NumericValue: "1"}},
		},
	}

	rep, err := Reduce([]relay.Contribution{contrib})
	require.NoError(t, err)

	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "1", rep.Rows[0][2], "alpha's rows precede zeta's")
	assert.Equal(t, "2", rep.Rows[1][2])
}

func TestReduce_RowOrderPreservedWithinSource(t *testing.T) {
	contrib := relay.Contribution{
		PartyID: "p1",
		Result: match.Result{
			"s1": []match.Row{
				{Code: "A", NumericValue: "1"},
				{Code: "A", NumericValue: "2"},
				{Code: "A", NumericValue: "3"},
			},
		},
	}

	rep, err := Reduce([]relay.Contribution{contrib})
	require.NoError(t, err)

	var values []string
	for _, row := range rep.Rows {
		values = append(values, row[2])
	}
	assert.Equal(t, []string{"1", "2", "3"}, values)
}

func TestReduce_EmptyContributionListFails(t *testing.T) {
	_, err := Reduce(nil)
	require.Error(t, err)
	require.True(t, IsAggregateError(err))

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, ErrCodeEmpty, ae.Code)
}

func TestReduce_NoRowsAnywhereFails(t *testing.T) {
	_, err := Reduce([]relay.Contribution{
		{PartyID: "p1", Result: match.Result{"s1": {}}},
		{PartyID: "p2", Result: match.Result{}},
	})
	require.Error(t, err)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, ErrCodeNoRows, ae.Code)
}

func TestNewIncompleteError(t *testing.T) {
	err := NewIncompleteError([]string{"bob", "carol"}, true)
	assert.Equal(t, ErrCodeIncomplete, err.Code)
	assert.Contains(t, err.Error(), "bob,carol")
	assert.Contains(t, err.Error(), "timed out")
}

func TestNormalizeHeader_NFC(t *testing.T) {
	// "é" composed vs decomposed must normalize to the same column name.
	composed := "café"
	decomposed := "café"
	require.NotEqual(t, composed, decomposed)

	a := NormalizeHeader([]string{composed})
	b := NormalizeHeader([]string{decomposed})
	assert.Equal(t, a, b)
}
