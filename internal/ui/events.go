package ui

import (
	"context"
	"log/slog"
	"sync"

	gallery "github.com/jason-riddle/gallery-go"
	"github.com/jason-riddle/gallery-go/page"
)

// EventType names a user interaction.
type EventType string

const (
	Click  EventType = "click"
	Change EventType = "change"
)

// Event is one user interaction on a role's element.
type Event struct {
	Type  EventType
	Role  page.Role
	Files []gallery.File // Selection carried by a change on the file input
}

// Handler reacts to an event. Handlers run on the dispatching goroutine.
type Handler func(ctx context.Context, ev Event)

type eventKey struct {
	role page.Role
	typ  EventType
}

// Dispatcher routes events to the handlers registered for them.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[eventKey][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[eventKey][]Handler)}
}

// On registers h for events of typ on role.
func (d *Dispatcher) On(role page.Role, typ EventType, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := eventKey{role, typ}
	d.handlers[k] = append(d.handlers[k], h)
}

// Dispatch runs every handler registered for ev and reports whether any was.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) bool {
	d.mu.RLock()
	hs := append([]Handler{}, d.handlers[eventKey{ev.Role, ev.Type}]...)
	d.mu.RUnlock()

	if len(hs) == 0 {
		slog.Debug("no handler for event", "role", ev.Role.String(), "event", string(ev.Type))
		return false
	}
	for _, h := range hs {
		h(ctx, ev)
	}
	return true
}

// Picker opens a file picker and returns the user's selection.
type Picker interface {
	Pick(ctx context.Context) ([]gallery.File, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(ctx context.Context) ([]gallery.File, error)

// Pick calls f.
func (f PickerFunc) Pick(ctx context.Context) ([]gallery.File, error) {
	return f(ctx)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(msg string)

// Alert calls f.
func (f AlerterFunc) Alert(msg string) {
	f(msg)
}
