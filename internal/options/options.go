// Package options implements generic functional options.
//
// Constructors such as store.Open and symfile.New accept variadic Option values and
// apply them in order with Apply:
//
//	func WithLogger(l *slog.Logger) Option {
//	    return options.NoError(func(o *Options) { o.Logger = l })
//	}
package options

import (
	"fmt"

	"github.com/arloliu/amistore/errs"
)

// Option represents a functional option for configuring any type T.
type Option[T any] interface {
	apply(T) error
}

// Func is a generic functional option that wraps a function.
type Func[T any] struct {
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New creates an option from a function that may reject its argument.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies opts to target in order and stops at the first failure.
//
// Returns:
//   - error: The failing option's error wrapped with ErrInvalidConfiguration
func Apply[T any](target T, opts ...Option[T]) error {
	for i, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt.apply(target); err != nil {
			return fmt.Errorf("%w: option %d: %w", errs.ErrInvalidConfiguration, i, err)
		}
	}

	return nil
}
