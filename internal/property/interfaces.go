package property

// Listener receives the new and previous value after a change has been stored.
type Listener[T any] func(next, prev T)

// Hook runs before a new value is stored. Returning an error aborts the change.
type Hook[T any] func(next T) error

// Observable is the read-only surface handed to views.
type Observable[T any] interface {
	Get() T
	// Subscribe registers l and calls it once, synchronously, with the current
	// value as both next and prev. The returned func removes the listener.
	Subscribe(l Listener[T]) (unsubscribe func())
}
