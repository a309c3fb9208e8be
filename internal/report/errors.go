package report

import (
	"errors"
	"fmt"
)

// SinkErrorCode categorizes report sink failures.
type SinkErrorCode string

const (
	// ErrCodeWriteFailed indicates an I/O failure writing the report.
	ErrCodeWriteFailed SinkErrorCode = "SINK_WRITE_FAILED"

	// ErrCodeEmptyResult indicates a result set with no rows at all, from
	// which no header row can be derived.
	ErrCodeEmptyResult SinkErrorCode = "SINK_EMPTY_RESULT"
)

// SinkError is a fatal report-writing failure.
type SinkError struct {
	Code    SinkErrorCode
	Path    string
	Message string
	Err     error
}

func (e *SinkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (path=%s): %v", e.Code, e.Message, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// IsSinkError returns true if err is (or wraps) a SinkError.
func IsSinkError(err error) bool {
	var se *SinkError
	return errors.As(err, &se)
}

// SampleError is a fatal test-data generation failure.
type SampleError struct {
	Message string
	Err     error
}

func (e *SampleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("SAMPLE_FAILED: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("SAMPLE_FAILED: %s", e.Message)
}

func (e *SampleError) Unwrap() error {
	return e.Err
}

// IsSampleError returns true if err is (or wraps) a SampleError.
func IsSampleError(err error) bool {
	var se *SampleError
	return errors.As(err, &se)
}
