package booking

import "fmt"

type ErrorKind string

const (
	KindValidation       ErrorKind = "VALIDATION_ERROR"
	KindPastDate         ErrorKind = "PAST_DATE"
	KindPastTime         ErrorKind = "PAST_TIME"
	KindTableUnavailable ErrorKind = "TABLE_UNAVAILABLE"
	KindNoTableAvailable ErrorKind = "NO_TABLE_AVAILABLE"
)

// Error is a user-facing booking failure. None of the kinds are fatal.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches on Kind so callers can use errors.Is(err, booking.ErrPastDate).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation       = &Error{Kind: KindValidation, Message: "invalid booking request"}
	ErrPastDate         = &Error{Kind: KindPastDate, Message: "Cannot book tables for past dates. Please select a future date."}
	ErrPastTime         = &Error{Kind: KindPastTime, Message: "Cannot book tables for past time slots. Please select a future date and time."}
	ErrTableUnavailable = &Error{Kind: KindTableUnavailable, Message: "Selected table is no longer available. Please choose another table."}
	ErrNoTableAvailable = &Error{Kind: KindNoTableAvailable, Message: "No tables available for the selected date and time. Please choose a different time slot."}
)

// FieldError reports a malformed request field.
func FieldError(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: msg}
}
