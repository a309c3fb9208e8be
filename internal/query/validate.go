package query

import (
	"errors"
	"fmt"
)

// SchemaErrorCode categorizes condition schema violations.
type SchemaErrorCode string

const (
	// ErrCodeMissingOperator indicates a condition without a comparison operator.
	ErrCodeMissingOperator SchemaErrorCode = "MISSING_OPERATOR"

	// ErrCodeMissingValue indicates a condition without a comparison value.
	ErrCodeMissingValue SchemaErrorCode = "MISSING_VALUE"

	// ErrCodeUnknownOperator indicates an operator outside {<,>,=,<=,>=}.
	ErrCodeUnknownOperator SchemaErrorCode = "UNKNOWN_OPERATOR"

	// ErrCodeUnknownJoiner indicates a joiner token outside {and,&}.
	ErrCodeUnknownJoiner SchemaErrorCode = "UNKNOWN_JOINER"

	// ErrCodeEmptySpec indicates a spec with no conditions at all.
	ErrCodeEmptySpec SchemaErrorCode = "EMPTY_SPEC"

	// ErrCodeInvalidCondition indicates a condition the schema definition
	// rejected; the message carries the constraint that failed.
	ErrCodeInvalidCondition SchemaErrorCode = "INVALID_CONDITION"
)

// SchemaError reports a malformed Spec or Condition. It is raised before
// compilation and is never recovered from: a run with a malformed query
// must not start.
type SchemaError struct {
	Code    SchemaErrorCode
	Key     string // raw field key of the offending condition, if any
	Message string
}

func (e *SchemaError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s (key=%s)", e.Code, e.Message, e.Key)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSchemaError returns true if err is (or wraps) a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// Validate checks a Spec against the condition grammar.
//
// The YAML loader performs the same checks via CUE unification before a Spec
// is ever constructed; Validate guards specs built programmatically and is
// cheap enough to run unconditionally before Compile.
func Validate(spec Spec) error {
	if len(spec.Conditions) == 0 {
		return &SchemaError{Code: ErrCodeEmptySpec, Message: "spec has no conditions"}
	}
	for _, c := range spec.Conditions {
		if c.Op == "" {
			return &SchemaError{Code: ErrCodeMissingOperator, Key: c.RawKey, Message: "condition is missing an operator"}
		}
		if !validOp(c.Op) {
			return &SchemaError{Code: ErrCodeUnknownOperator, Key: c.RawKey, Message: fmt.Sprintf("operator %q is not one of < > = <= >=", c.Op)}
		}
		if c.Value == "" {
			return &SchemaError{Code: ErrCodeMissingValue, Key: c.RawKey, Message: "condition is missing a value"}
		}
		if c.Join != "" && c.Join != JoinerAnd {
			return &SchemaError{Code: ErrCodeUnknownJoiner, Key: c.RawKey, Message: fmt.Sprintf("joiner %q is not one of and, &", c.Join)}
		}
	}
	return nil
}
