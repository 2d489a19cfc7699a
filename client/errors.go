package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/camden-git/personsweb/models"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("person not found")

// Kind classifies a failed call.
type Kind int

const (
	KindTransport Kind = iota
	KindNotFound
	KindValidation
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "unexpected"
	}
}

const maxBodyMessage = 300

// APIError describes a call that did not produce a usable response.
type APIError struct {
	Kind        Kind
	Op          string
	StatusCode  int
	FieldErrors models.FieldErrors // ordered as the API reported them
	Body        string             // raw body when it was not a JSON object
	Err         error
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case len(e.FieldErrors) > 0:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, strings.Join(e.FieldErrors.Messages(), ", "))
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// Message is the text shown to the user for this failure. It is empty when the
// caller should use its own wording.
func (e *APIError) Message() string {
	if len(e.FieldErrors) > 0 {
		return e.FieldErrors.Summary()
	}
	if e.Body != "" {
		if len(e.Body) > maxBodyMessage {
			cut := maxBodyMessage
			for cut > 0 && !utf8.RuneStart(e.Body[cut]) {
				cut--
			}
			return e.Body[:cut] + "..."
		}
		return e.Body
	}
	return ""
}

// MessageOr returns the user-facing text of err, falling back to fallback when err
// carries nothing better.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}

// decodeFieldErrors reads a JSON object of field -> messages keeping key order. Values
// may be a string, a list of strings, or nested lists and objects; all are flattened.
func decodeFieldErrors(body []byte) (models.FieldErrors, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, false
	}

	var fe models.FieldErrors
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, false
		}
		for _, msg := range flattenMessages(raw) {
			fe = fe.Add(key, msg)
		}
	}
	return fe, true
}

func flattenMessages(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '{':
		nested, ok := decodeFieldErrors(raw)
		if !ok {
			return nil
		}
		return nested.Messages()
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		var out []string
		for _, item := range items {
			out = append(out, flattenMessages(item)...)
		}
		return out
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return []string{s}
	case 'n':
		return nil
	default:
		return []string{string(raw)}
	}
}
