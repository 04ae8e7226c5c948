package validation

import "strings"

// Error reports invalid client input. Details lists every failed rule so the
// caller can show them all at once.
type Error struct {
	Message string
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// New returns an *Error, or nil when details is empty.
func New(message string, details []string) error {
	if len(details) == 0 {
		return nil
	}
	return &Error{Message: message, Details: details}
}
