// Package controllers holds the per-page state of the person front end and drives the
// remote API in response to page mounts and user actions. Every controller keeps its
// state in a pagestate.Machine; the rendered page is a projection of that state.
package controllers

import (
	"context"
	"errors"
	"sync"

	"github.com/camden-git/personsweb/client"
	"github.com/camden-git/personsweb/models"
)

const (
	ListPath = "/"

	DeletePrompt = "Are you sure you want to delete this person?"
)

var (
	// ErrNotConfirmed is returned when the user declined (or has not yet answered)
	// a confirmation prompt. No request was made.
	ErrNotConfirmed = errors.New("action not confirmed")

	// ErrBusy is returned when a delete for the same row is already in flight.
	ErrBusy = errors.New("delete already in progress")
)

// PersonAPI is the remote resource as seen by the controllers.
type PersonAPI interface {
	List(ctx context.Context) ([]models.Person, error)
	Search(ctx context.Context, q string) ([]models.Person, error)
	Get(ctx context.Context, id models.PersonID) (*models.Person, error)
	Create(ctx context.Context, payload models.PersonPayload) (*models.Person, error)
	Replace(ctx context.Context, id models.PersonID, payload models.PersonPayload) (*models.Person, error)
	Delete(ctx context.Context, id models.PersonID) error
}

var _ PersonAPI = (*client.Client)(nil)

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Busy tracks rows with a request in flight.
type Busy interface {
	TryMark(id models.PersonID) bool
	Unmark(id models.PersonID)
	Has(id models.PersonID) bool
}

// BusySet is a process-wide set of in-flight markers. Scope it per browser session so
// unrelated pages do not block each other.
type BusySet struct {
	mu    sync.Mutex
	items map[string]struct{}
}

func NewBusySet() *BusySet {
	return &BusySet{items: make(map[string]struct{})}
}

func (b *BusySet) Scope(prefix string) Busy {
	return scopedBusy{set: b, prefix: prefix}
}

func (b *BusySet) tryMark(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.items[key]; ok {
		return false
	}
	b.items[key] = struct{}{}
	return true
}

func (b *BusySet) unmark(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.items, key)
}

func (b *BusySet) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.items[key]
	return ok
}

func (b *BusySet) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

type scopedBusy struct {
	set    *BusySet
	prefix string
}

func (s scopedBusy) key(id models.PersonID) string { return s.prefix + "/" + string(id) }

func (s scopedBusy) TryMark(id models.PersonID) bool { return s.set.tryMark(s.key(id)) }
func (s scopedBusy) Unmark(id models.PersonID)       { s.set.unmark(s.key(id)) }
func (s scopedBusy) Has(id models.PersonID) bool     { return s.set.has(s.key(id)) }

// ValidationError carries field errors found before a request was sent.
type ValidationError struct {
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string { return e.Fields.Summary() }

// submitMessage maps a failed submit to the text shown above the form.
func submitMessage(fallback string) func(error) string {
	return func(err error) string {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return ve.Fields.Summary()
		}
		return client.MessageOr(err, fallback)
	}
}
