package authoring

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSessionDisposed is returned when an operation is invoked on a
	// session that has been torn down.
	ErrSessionDisposed = errors.New("authoring session has been disposed")

	// ErrSessionSubmitted is returned when a submission is attempted on a
	// session that already finished successfully.
	ErrSessionSubmitted = errors.New("authoring session has already been submitted")

	// ErrSubmitInFlight is returned when a second submission is attempted
	// while one is still pending. At most one submit may be in flight.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

// ValidationErrors maps a field name to a single human-readable message.
// Submission is blocked while any entry is present; the messages are surfaced
// inline next to the offending fields.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var sb strings.Builder
	sb.WriteString("validation failed: ")
	for i, field := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", field, e[field]))
	}
	return sb.String()
}

// SubmissionError wraps a backend rejection of a save. It is surfaced as a
// single top-level banner; the draft is preserved so the user can retry
// without re-entering data.
type SubmissionError struct {
	Message string
	Cause   error
}

func (e *SubmissionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}
