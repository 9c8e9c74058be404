package property

// Derived projects a source observable through fn. Listeners are only called
// when the projected value changes according to eq, and they run inside the
// source's notification pass, so every field of the source is already stored.
type Derived[S, T any] struct {
	src Observable[S]
	fn  func(S) T
	eq  func(a, b T) bool
}

// Map builds a Derived view of src.
func Map[S, T any](src Observable[S], fn func(S) T, eq func(a, b T) bool) *Derived[S, T] {
	return &Derived[S, T]{src: src, fn: fn, eq: eq}
}

func (d *Derived[S, T]) Get() T { return d.fn(d.src.Get()) }

func (d *Derived[S, T]) Subscribe(l Listener[T]) func() {
	if l == nil {
		return func() {}
	}
	first := true
	return d.src.Subscribe(func(next, prev S) {
		n, p := d.fn(next), d.fn(prev)
		if first {
			first = false
			l(n, p)
			return
		}
		if d.eq != nil && d.eq(n, p) {
			return
		}
		l(n, p)
	})
}

// Equal is an eq func for comparable types.
func Equal[T comparable](a, b T) bool { return a == b }

var _ Observable[int] = (*Derived[string, int])(nil)
