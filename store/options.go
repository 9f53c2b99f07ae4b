package store

import (
	"errors"
	"log/slog"

	"github.com/arloliu/amistore/encoding"
	"github.com/arloliu/amistore/internal/logging"
	"github.com/arloliu/amistore/internal/options"
)

// Options holds the store configuration.
type Options struct {
	// UseMmap maps files read-only while loading them instead of reading them.
	UseMmap bool
	// AvoidReservedNames rewrites symbols that start with a reserved device name
	// (see layout.Sanitize) in every operation.
	AvoidReservedNames bool
	// AtomicWrites writes each file to a temporary file renamed over the target.
	AtomicWrites bool
	// AutoRegister adds symbols to the master index on their first append.
	AutoRegister bool
	// Backend is the codec backend; nil selects the process-wide one.
	Backend encoding.Backend
	Logger  *slog.Logger
}

// Option configures a Store.
type Option = options.Option[*Options]

func defaultOptions() *Options {
	return &Options{
		UseMmap:            true,
		AvoidReservedNames: true,
		AtomicWrites:       false,
		AutoRegister:       true,
	}
}

// WithMmap enables or disables memory-mapped reads. Enabled by default.
func WithMmap(enabled bool) Option {
	return options.NoError(func(o *Options) { o.UseMmap = enabled })
}

// WithReservedNameSanitizing enables or disables rewriting reserved symbol names.
// Enabled by default.
func WithReservedNameSanitizing(enabled bool) Option {
	return options.NoError(func(o *Options) { o.AvoidReservedNames = enabled })
}

// WithAtomicWrites enables temp-file-and-rename writes. Disabled by default.
func WithAtomicWrites(enabled bool) Option {
	return options.NoError(func(o *Options) { o.AtomicWrites = enabled })
}

// WithAutoRegister controls whether appending to an unknown symbol adds it to the
// master index. Enabled by default.
func WithAutoRegister(enabled bool) Option {
	return options.NoError(func(o *Options) { o.AutoRegister = enabled })
}

// WithBackend sets the codec backend.
func WithBackend(b encoding.Backend) Option {
	return options.New(func(o *Options) error {
		if b == nil {
			return errors.New("nil backend")
		}
		o.Backend = b

		return nil
	})
}

// WithLogger sets the logger. The default is the "store" component logger.
func WithLogger(l *slog.Logger) Option {
	return options.New(func(o *Options) error {
		if l == nil {
			return errors.New("nil logger")
		}
		o.Logger = l

		return nil
	})
}

func (o *Options) finish() {
	if o.Backend == nil {
		o.Backend = encoding.Default()
	}

	if o.Logger == nil {
		o.Logger = logging.Component("store")
	}
}
