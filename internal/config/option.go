package config

// Several config fields accept either a boolean shorthand or a full object:
// false disables the feature, true requests defaults, and an object configures
// it explicitly. Option carries that three-way choice as an explicit state so
// call sites resolve it once instead of type-switching everywhere.

// State describes how an optional boolean-or-object field was configured.
type State int

const (
	// StateUnset means the field was absent; callers fall back to the
	// enclosing scope's default.
	StateUnset State = iota
	// StateDisabled means the field was the literal false.
	StateDisabled
	// StateDefault means the field was the literal true.
	StateDefault
	// StateExplicit means the field was a full object, stored in Value.
	StateExplicit
)

// Option is a boolean-or-object config field.
type Option[T any] struct {
	State State
	Value *T
}

// Disabled returns an Option in the disabled state.
func Disabled[T any]() Option[T] {
	return Option[T]{State: StateDisabled}
}

// Defaulted returns an Option in the use-defaults state.
func Defaulted[T any]() Option[T] {
	return Option[T]{State: StateDefault}
}

// Explicit returns an Option holding a concrete value.
func Explicit[T any](v T) Option[T] {
	return Option[T]{State: StateExplicit, Value: &v}
}

// Resolve collapses the option to a concrete value. makeDefault supplies the
// value for the true shorthand. The second return is false when the option is
// disabled; fallback handling for the unset state is left to the caller, since
// it depends on the enclosing scope.
func (o Option[T]) Resolve(makeDefault func() T) (T, bool) {
	switch o.State {
	case StateDisabled:
		var zero T
		return zero, false
	case StateExplicit:
		return *o.Value, true
	default:
		return makeDefault(), true
	}
}
