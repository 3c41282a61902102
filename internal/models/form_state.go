package models

// Form field names shared by the validator, the error report and the HTTP adapter.
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

// FieldErrors maps a form field name to its human-readable messages
type FieldErrors map[string][]string

// Add appends msg to the messages for field
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Empty reports whether no field has an error
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// State is what an invoice action hands back to the form that submitted it
// when no redirect happens.
type State struct {
	Errors  FieldErrors `json:"errors,omitempty"`
	Message *string     `json:"message"`
}

// NewState builds a State carrying message and optional field errors
func NewState(message string, errors FieldErrors) State {
	return State{Errors: errors, Message: &message}
}

// MessageText returns the message or an empty string when it is null
func (s State) MessageText() string {
	if s.Message == nil {
		return ""
	}
	return *s.Message
}
