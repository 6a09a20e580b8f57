// Package dgevent implements the graph's event surface: constructed,
// connected, stepped, resolved, error. It offers the same
// On/Once/Off/Emit(name, handler(...any)) shape as a typical socket
// library's client, but as an in-process, synchronous emitter with no
// network boundary to cross.
package dgevent

import "sync"

// Name identifies one of the five signals a graph fires.
type Name string

const (
	Constructed Name = "constructed"
	Connected   Name = "connected"
	Stepped     Name = "stepped"
	Resolved    Name = "resolved"
	Error       Name = "error"
)

// Handler receives the payload of a fired event. The payload's concrete
// type depends on Name: nil for Constructed/Connected, a StepPayload for
// both Stepped and Resolved (UndefinedPaths empty on Resolved), an error
// for Error.
type Handler func(payload any)

type subscription struct {
	id      uint64
	once    bool
	handler Handler
}

// Emitter is a sync.RWMutex-guarded per-name subscriber list. It is safe
// for concurrent On/Once/Off/Emit calls.
type Emitter struct {
	mu     sync.RWMutex
	subs   map[Name][]subscription
	nextID uint64
}

// NewEmitter returns a ready-to-use Emitter.
func NewEmitter() *Emitter {
	return &Emitter{subs: map[Name][]subscription{}}
}

// On registers handler to run every time name fires. It returns an ID that
// Off can use to remove this specific subscription.
func (e *Emitter) On(name Name, handler Handler) uint64 {
	return e.add(name, handler, false)
}

// Once registers handler to run exactly once, on the next occurrence of
// name.
func (e *Emitter) Once(name Name, handler Handler) uint64 {
	return e.add(name, handler, true)
}

func (e *Emitter) add(name Name, handler Handler, once bool) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.subs[name] = append(e.subs[name], subscription{id: id, once: once, handler: handler})
	return id
}

// Off removes the subscription with the given ID, if it still exists.
func (e *Emitter) Off(name Name, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.subs[name]
	for i, sub := range list {
		if sub.id == id {
			e.subs[name] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Emit invokes every current subscriber of name with payload, in
// registration order, then drops any Once subscribers that just ran.
// Handlers run synchronously on the calling goroutine, matching the
// engine's single-threaded cooperative evaluation model.
func (e *Emitter) Emit(name Name, payload any) {
	e.mu.Lock()
	list := append([]subscription(nil), e.subs[name]...)
	if len(list) > 0 {
		remaining := list[:0:0]
		for _, sub := range e.subs[name] {
			if !sub.once {
				remaining = append(remaining, sub)
			}
		}
		e.subs[name] = remaining
	}
	e.mu.Unlock()

	for _, sub := range list {
		sub.handler(payload)
	}
}

// StepPayload is the payload of a Stepped or Resolved event.
type StepPayload struct {
	State          map[string]any
	UndefinedPaths []string
}
