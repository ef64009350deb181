// Package ui wires the gallery page to the gallery API: it resolves the
// page's elements once, owns the upload and search orchestrators and their
// state, and dispatches user interactions to them.
package ui

import (
	"sync"

	gallery "github.com/jason-riddle/gallery-go"
)

// State is a value owned by one orchestrator. Subscribers are called
// synchronously, in subscription order, after every Set.
type State[T any] struct {
	mu    sync.Mutex
	value T
	subs  []func(T)
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores v and notifies subscribers.
func (s *State[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := append([]func(T){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn to be called on every change.
func (s *State[T]) Subscribe(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// StatusState is the upload status text. The zero value is idle.
type StatusState = State[string]

// ResultsView is what the results container shows: a placeholder text, or
// the rendered records when Placeholder is empty.
type ResultsView struct {
	Placeholder string
	Records     gallery.ResultSet
}

// ResultsState is the results container view model.
type ResultsState = State[ResultsView]
