package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_WellFormedSpec(t *testing.T) {
	spec := Spec{Conditions: []Condition{
		{Field: "code", RawKey: "code-1", Op: ">", Value: "3", Join: JoinerAnd},
		{Field: "code", RawKey: "code-2", Op: "<=", Value: "9"},
	}}
	assert.NoError(t, Validate(spec))
}

func TestValidate_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		code SchemaErrorCode
	}{
		{
			name: "empty spec",
			spec: Spec{},
			code: ErrCodeEmptySpec,
		},
		{
			name: "missing operator",
			spec: Spec{Conditions: []Condition{{Field: "code", RawKey: "code-1", Value: "3"}}},
			code: ErrCodeMissingOperator,
		},
		{
			name: "unknown operator",
			spec: Spec{Conditions: []Condition{{Field: "code", RawKey: "code-1", Op: "!=", Value: "3"}}},
			code: ErrCodeUnknownOperator,
		},
		{
			name: "missing value",
			spec: Spec{Conditions: []Condition{{Field: "code", RawKey: "code-1", Op: ">"}}},
			code: ErrCodeMissingValue,
		},
		{
			name: "unknown joiner",
			spec: Spec{Conditions: []Condition{{Field: "code", RawKey: "code-1", Op: ">", Value: "3", Join: "or"}}},
			code: ErrCodeUnknownJoiner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.spec)
			require.Error(t, err)
			require.True(t, IsSchemaError(err))

			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.code, se.Code)
		})
	}
}

func TestSchemaError_MessageIncludesKey(t *testing.T) {
	err := &SchemaError{Code: ErrCodeMissingValue, Key: "code-1", Message: "condition is missing a value"}
	assert.Contains(t, err.Error(), "code-1")
	assert.Contains(t, err.Error(), string(ErrCodeMissingValue))
}

func TestNormalizeJoiner(t *testing.T) {
	tests := []struct {
		tok    string
		want   string
		wantOK bool
	}{
		{"and", "&", true},
		{"&", "&", true},
		{"", "", true},
		{"or", "", false},
		{"AND", "", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.tok), func(t *testing.T) {
			got, ok := NormalizeJoiner(tt.tok)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
