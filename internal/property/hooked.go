// Package property provides observable values whose side-effect hook always
// runs before any listener hears about the change.
package property

import "fmt"

// Hooked is a mutable observable value. For every Set the hook runs first,
// then the value is stored, then listeners are called in subscription order.
//
// A Hooked is not safe for concurrent use. Callers serialize access.
type Hooked[T any] struct {
	name      string
	value     T
	hook      Hook[T]
	equal     func(a, b T) bool
	listeners []subscription[T]
	nextID    int
	busy      bool
}

type subscription[T any] struct {
	id int
	fn Listener[T]
}

// Option configures a Hooked at construction.
type Option[T any] func(*Hooked[T])

// WithHook installs the pre-change hook.
func WithHook[T any](hook Hook[T]) Option[T] {
	return func(h *Hooked[T]) { h.hook = hook }
}

// WithName labels the value in errors.
func WithName[T any](name string) Option[T] {
	return func(h *Hooked[T]) { h.name = name }
}

// WithEqual makes Set a no-op (no hook, no notification) when eq reports the
// new value equal to the current one. Without it every Set fires.
func WithEqual[T any](eq func(a, b T) bool) Option[T] {
	return func(h *Hooked[T]) { h.equal = eq }
}

// New creates a Hooked holding initial.
func New[T any](initial T, opts ...Option[T]) *Hooked[T] {
	h := &Hooked[T]{value: initial}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hooked[T]) Get() T { return h.value }

// Set runs the hook with next, stores next and notifies listeners with
// (next, prev). If the hook fails the value is left untouched and nobody is
// notified. Calling Set from inside the hook or a listener of the same value
// returns ErrReentrantSet.
func (h *Hooked[T]) Set(next T) error {
	if h.busy {
		return fmt.Errorf("%s: %w", h.label(), ErrReentrantSet)
	}
	if h.equal != nil && h.equal(h.value, next) {
		return nil
	}
	h.busy = true
	defer func() { h.busy = false }()

	if h.hook != nil {
		if err := h.hook(next); err != nil {
			return &HookError{Name: h.name, Err: err}
		}
	}
	prev := h.value
	h.value = next

	// Listeners added or removed during this pass do not affect it.
	pass := make([]subscription[T], len(h.listeners))
	copy(pass, h.listeners)
	for _, s := range pass {
		s.fn(next, prev)
	}
	return nil
}

func (h *Hooked[T]) Subscribe(l Listener[T]) func() {
	if l == nil {
		return func() {}
	}
	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, subscription[T]{id: id, fn: l})
	l(h.value, h.value)
	return func() { h.unsubscribe(id) }
}

func (h *Hooked[T]) unsubscribe(id int) {
	for i, s := range h.listeners {
		if s.id == id {
			h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
			return
		}
	}
}

// Listeners reports how many listeners are registered.
func (h *Hooked[T]) Listeners() int { return len(h.listeners) }

func (h *Hooked[T]) label() string {
	if h.name == "" {
		return "property"
	}
	return h.name
}

var _ Observable[int] = (*Hooked[int])(nil)
