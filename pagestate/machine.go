// Package pagestate is the fetch/mutate state machine behind every page.
//
// A Machine starts Idle. Load moves it to Loading and then to Ready with a value or to
// Failed with a message. Mutate moves it to Mutating and then back to Ready or to
// Failed. Failed is always recoverable by issuing the action again; there is no
// terminal phase. Calls are neither queued nor de-duplicated.
package pagestate

import (
	"context"
	"sync"
)

type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
	Mutating
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Mutating:
		return "mutating"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of a machine's state.
type Snapshot[T any] struct {
	Phase Phase
	Value T
	// Loaded is true once a Load has succeeded at least once.
	Loaded bool
	Err    string
}

func (s Snapshot[T]) Busy() bool { return s.Phase == Loading || s.Phase == Mutating }

// Observer is called after every transition with the new state.
type Observer[T any] func(Snapshot[T])

// Messenger turns an error into the text shown on the page.
type Messenger func(err error) string

// Machine holds one page's value plus its loading and error state.
type Machine[T any] struct {
	mu        sync.Mutex
	state     Snapshot[T]
	observers []Observer[T]
}

func New[T any]() *Machine[T] {
	return &Machine[T]{}
}

// Restore creates a machine already Ready with value, used when a page's state is
// carried over from an earlier request.
func Restore[T any](value T, errMsg string) *Machine[T] {
	m := &Machine[T]{state: Snapshot[T]{Phase: Ready, Value: value, Loaded: true, Err: errMsg}}
	if errMsg != "" {
		m.state.Phase = Failed
	}
	return m
}

func (m *Machine[T]) Observe(o Observer[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

func (m *Machine[T]) Snapshot() Snapshot[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine[T]) transition(update func(*Snapshot[T])) {
	m.mu.Lock()
	update(&m.state)
	s := m.state
	observers := append([]Observer[T](nil), m.observers...)
	m.mu.Unlock()

	for _, o := range observers {
		o(s)
	}
}

// Load runs fetch and stores its result. On failure the previous value is kept and the
// message from msg is recorded.
func (m *Machine[T]) Load(ctx context.Context, fetch func(context.Context) (T, error), msg Messenger) error {
	m.transition(func(s *Snapshot[T]) { s.Phase = Loading })

	value, err := fetch(ctx)
	if err != nil {
		m.Fail(msg(err))
		return err
	}

	m.transition(func(s *Snapshot[T]) {
		s.Phase = Ready
		s.Value = value
		s.Loaded = true
		s.Err = ""
	})
	return nil
}

// Mutate runs fn against the current value. On success the value fn returns replaces
// the current one and the error is cleared.
func (m *Machine[T]) Mutate(ctx context.Context, fn func(context.Context, T) (T, error), msg Messenger) error {
	var current T
	m.transition(func(s *Snapshot[T]) {
		s.Phase = Mutating
		current = s.Value
	})

	value, err := fn(ctx, current)
	if err != nil {
		m.Fail(msg(err))
		return err
	}

	m.transition(func(s *Snapshot[T]) {
		s.Phase = Ready
		s.Value = value
		s.Err = ""
	})
	return nil
}

// Apply runs call without holding the machine and, on success, folds apply into the
// value current at that moment rather than the one seen when call started. Overlapping
// Apply calls therefore keep each other's changes.
func (m *Machine[T]) Apply(ctx context.Context, call func(context.Context) error, apply func(T) T, msg Messenger) error {
	m.transition(func(s *Snapshot[T]) { s.Phase = Mutating })

	if err := call(ctx); err != nil {
		m.Fail(msg(err))
		return err
	}

	m.transition(func(s *Snapshot[T]) {
		s.Phase = Ready
		s.Value = apply(s.Value)
		s.Err = ""
	})
	return nil
}

// Set replaces the value without a network call and leaves the machine Ready.
func (m *Machine[T]) Set(value T) {
	m.transition(func(s *Snapshot[T]) {
		s.Phase = Ready
		s.Value = value
	})
}

// Update edits the value in place under the machine's lock, keeping the phase.
func (m *Machine[T]) Update(fn func(T) T) {
	m.transition(func(s *Snapshot[T]) {
		s.Value = fn(s.Value)
	})
}

// Fail records message and moves to Failed.
func (m *Machine[T]) Fail(message string) {
	m.transition(func(s *Snapshot[T]) {
		s.Phase = Failed
		s.Err = message
	})
}

// Static returns a Messenger that ignores the error.
func Static(message string) Messenger {
	return func(error) string { return message }
}
