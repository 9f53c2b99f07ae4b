package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/amistore/errs"
	"github.com/arloliu/amistore/format"
)

// Validate checks the configuration for errors.
//
// Returns:
//   - error: ErrInvalidConfiguration joining every problem found, or nil
func (c *Config) Validate() error {
	var problems []error

	if strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, errors.New("data_dir is required"))
	}

	if c.Backend != "" {
		if _, ok := format.ParseBackendType(c.Backend); !ok {
			problems = append(problems, fmt.Errorf("backend: unknown value %q", c.Backend))
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Errorf("log_level: unknown value %q", c.LogLevel))
	}

	if c.SnapshotCompression != "" {
		if _, ok := format.ParseCompressionType(c.SnapshotCompression); !ok {
			problems = append(problems, fmt.Errorf("snapshot_compression: unknown value %q", c.SnapshotCompression))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", errs.ErrInvalidConfiguration, errors.Join(problems...))
	}

	return nil
}
