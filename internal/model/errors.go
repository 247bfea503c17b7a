package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind tags a PipelineError. Values double as API error codes.
type ErrorKind string

const (
	ErrMissingLabel         ErrorKind = "MISSING_LABEL"
	ErrMissingMarker        ErrorKind = "MISSING_MARKER"
	ErrInvalidDate          ErrorKind = "INVALID_DATE"
	ErrUnsupportedFrequency ErrorKind = "UNSUPPORTED_FREQUENCY"
	ErrInvalidSeriesRow     ErrorKind = "INVALID_SERIES_ROW"
	ErrWindowTooLarge       ErrorKind = "WINDOW_TOO_LARGE"
	ErrUnexpectedFailure    ErrorKind = "UNEXPECTED_FAILURE"
)

// PipelineError is the single error type returned by a generation run.
// Every error is terminal for the run.
type PipelineError struct {
	Kind ErrorKind
	// Label names the missing label or marker, or which date ("start"/"end") was invalid.
	Label string
	// Row is the 0-based grid row for INVALID_SERIES_ROW, -1 otherwise.
	Row int
	// Text is the offending cell text, when there is one.
	Text string
	// Limit is the row cap a WINDOW_TOO_LARGE run exceeded.
	Limit int
	Err  error
}

func (e *PipelineError) Error() string {
	switch e.Kind {
	case ErrMissingLabel:
		return fmt.Sprintf("could not find %q label in the uploaded file", e.Label)
	case ErrMissingMarker:
		return fmt.Sprintf("could not find %q marker in the uploaded file", e.Label)
	case ErrInvalidDate:
		return fmt.Sprintf("%s date %q is invalid", e.Label, e.Text)
	case ErrUnsupportedFrequency:
		return fmt.Sprintf("unsupported frequency %q: only %q is supported", e.Text, FrequencyHourly)
	case ErrInvalidSeriesRow:
		return fmt.Sprintf("series row %d: %v", e.Row, e.Err)
	case ErrWindowTooLarge:
		return fmt.Sprintf("time window covers %s rows, limit is %d", e.Text, e.Limit)
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return strings.ToLower(string(e.Kind))
	}
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Is matches another *PipelineError by kind only, so errors.Is(err, &PipelineError{Kind: k}) works.
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	return ok && t.Kind == e.Kind
}

func MissingLabel(kind string) *PipelineError {
	return &PipelineError{Kind: ErrMissingLabel, Label: kind, Row: -1}
}

func MissingMarker(marker string) *PipelineError {
	return &PipelineError{Kind: ErrMissingMarker, Label: marker, Row: -1}
}

func InvalidDate(which, text string) *PipelineError {
	return &PipelineError{Kind: ErrInvalidDate, Label: which, Text: text, Row: -1}
}

func UnsupportedFrequency(text string) *PipelineError {
	return &PipelineError{Kind: ErrUnsupportedFrequency, Text: text, Row: -1}
}

func InvalidSeriesRow(row int, reason error) *PipelineError {
	return &PipelineError{Kind: ErrInvalidSeriesRow, Row: row, Err: reason}
}

// WindowTooLarge reports a window that would generate rows timestamps when at
// most limit are allowed.
func WindowTooLarge(rows, limit int) *PipelineError {
	return &PipelineError{Kind: ErrWindowTooLarge, Text: strconv.Itoa(rows), Limit: limit, Row: -1}
}

// UnexpectedFailure wraps any other failure; its message is reported verbatim.
func UnexpectedFailure(err error) *PipelineError {
	return &PipelineError{Kind: ErrUnexpectedFailure, Row: -1, Err: err}
}
