package encoding

import (
	"fmt"
	"os"
	"sync"

	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/format"
	"github.com/arloliu/amistore/internal/logging"
)

// BackendEnv is the environment variable naming the process-wide backend:
// "portable" (the default) or "native".
const BackendEnv = "AMISTORE_BACKEND"

// Selection describes how a backend was chosen.
type Selection struct {
	Requested format.BackendType
	Active    format.BackendType
	// Fallback is set when the requested backend could not be used.
	Fallback bool
	// Reason holds the error that caused the fallback.
	Reason error
}

var (
	selectOnce     sync.Once
	defaultBackend Backend
	selection      Selection
)

// Default returns the process-wide backend.
//
// The backend is chosen once, on first use, from BackendEnv. When the requested
// backend is unknown or cannot run on this host the portable backend is used
// instead, the fallback is recorded in Selected and logged once at warn level.
func Default() Backend {
	selectOnce.Do(selectFromEnv)
	return defaultBackend
}

// Selected reports how the process-wide backend was chosen.
func Selected() Selection {
	selectOnce.Do(selectFromEnv)
	return selection
}

func selectFromEnv() {
	defaultBackend, selection = Select(os.Getenv(BackendEnv))
	if selection.Fallback {
		logging.Component("encoding").Warn("codec backend unavailable, using portable",
			"env", BackendEnv,
			"requested", selection.Requested.String(),
			"reason", selection.Reason,
		)
	}
}

// Select resolves a backend name, falling back to the portable backend when the
// name is unknown or the backend is unavailable. It never fails.
//
// Parameters:
//   - name: Backend name as accepted by format.ParseBackendType
//
// Returns:
//   - Backend: The backend to use
//   - Selection: What was requested and what is active
func Select(name string) (Backend, Selection) {
	typ, ok := format.ParseBackendType(name)
	if !ok {
		return NewPortableBackend(), Selection{
			Requested: typ,
			Active:    format.BackendPortable,
			Fallback:  true,
			Reason:    fmt.Errorf("%w: unknown backend %q", errs.ErrBackendUnavailable, name),
		}
	}

	b, err := NewBackend(typ)
	if err != nil {
		return NewPortableBackend(), Selection{
			Requested: typ,
			Active:    format.BackendPortable,
			Fallback:  true,
			Reason:    err,
		}
	}

	return b, Selection{Requested: typ, Active: b.Type()}
}
