package models

import "strings"

// FieldError holds the messages reported for one form field.
type FieldError struct {
	Field    string
	Messages []string
}

// FieldErrors keeps field errors in the order they were reported.
type FieldErrors []FieldError

func (fe FieldErrors) Add(field, message string) FieldErrors {
	for i := range fe {
		if fe[i].Field == field {
			fe[i].Messages = append(fe[i].Messages, message)
			return fe
		}
	}
	return append(fe, FieldError{Field: field, Messages: []string{message}})
}

// Messages flattens all messages, dropping the field association.
func (fe FieldErrors) Messages() []string {
	var out []string
	for _, e := range fe {
		out = append(out, e.Messages...)
	}
	return out
}

// Summary is the single line shown to the user: "Validation error: a, b".
func (fe FieldErrors) Summary() string {
	return "Validation error: " + strings.Join(fe.Messages(), ", ")
}
