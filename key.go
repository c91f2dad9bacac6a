package preview

// Key identifies a typed setting together with the value it falls back to
// when neither the store nor its registered defaults hold one.
type Key[T any] struct {
	name string
	def  T
}

// NewKey creates a typed setting key.
func NewKey[T any](name string, def T) Key[T] {
	return Key[T]{name: name, def: def}
}

// Name returns the setting name.
func (k Key[T]) Name() string {
	return k.name
}

// Default returns the key's fallback value.
func (k Key[T]) Default() T {
	return k.def
}

// Reader exposes effective setting values. Formatters receive the Store
// through this interface so they cannot write to it.
type Reader interface {
	// Lookup returns the explicit value for name, or its registered default.
	Lookup(name string) (any, bool)
}

// Get reads a typed setting. Missing values and values of the wrong type
// yield the key's default.
func Get[T any](r Reader, k Key[T]) T {
	v, ok := r.Lookup(k.name)
	if !ok {
		return k.def
	}
	typed, ok := v.(T)
	if !ok {
		return k.def
	}
	return typed
}

// Put writes a typed setting.
func Put[T any](s *Store, k Key[T], v T) {
	s.Set(k.name, v)
}
