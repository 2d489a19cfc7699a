package client

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDecodeFieldErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
		want []string
	}{
		{name: "not json", body: "<html>", ok: false},
		{name: "array", body: `["x"]`, ok: false},
		{name: "empty object", body: `{}`, ok: true},
		{name: "search error", body: `{"error": "Query parameter 'q' is required"}`, ok: true, want: []string{"Query parameter 'q' is required"}},
		{name: "nested lists", body: `{"a": [["x", "y"], "z"], "b": null}`, ok: true, want: []string{"x", "y", "z"}},
		{name: "nested object", body: `{"address": {"street": ["Required."], "zip": ["Bad."]}}`, ok: true, want: []string{"Required.", "Bad."}},
		{name: "non string scalars", body: `{"a": [1, true]}`, ok: true, want: []string{"1", "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe, ok := decodeFieldErrors([]byte(tt.body))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, fe.Messages())
		})
	}
}

func TestAPIErrorMessageTruncatesLongBodies(t *testing.T) {
	e := &APIError{Kind: KindUnexpected, Body: strings.Repeat("x", 400)}
	msg := e.Message()
	assert.Len(t, msg, maxBodyMessage+3)
	assert.True(t, strings.HasSuffix(msg, "..."))
}

func TestAPIErrorMessageTruncatesOnRuneBoundary(t *testing.T) {
	// every "é" is two bytes and starts at an odd offset, so byte 300 is mid-rune
	e := &APIError{Kind: KindUnexpected, Body: "x" + strings.Repeat("é", 200)}
	msg := e.Message()
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, "x"+strings.Repeat("é", 149)+"...", msg)
}

func TestAPIErrorString(t *testing.T) {
	e := &APIError{Kind: KindUnexpected, Op: "list persons", StatusCode: 503}
	assert.Equal(t, "list persons: status 503", e.Error())
	assert.Equal(t, "unexpected", e.Kind.String())
}
