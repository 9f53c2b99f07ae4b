package options

import (
	"errors"
	"testing"

	"github.com/arloliu/amistore/errs"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Root     string
	MaxCache int
	Atomic   bool
}

func withRoot(root string) Option[*testConfig] {
	return NoError(func(c *testConfig) { c.Root = root })
}

func withMaxCache(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n < 0 {
			return errors.New("max cache cannot be negative")
		}
		c.MaxCache = n

		return nil
	})
}

func withAtomic() Option[*testConfig] {
	return NoError(func(c *testConfig) { c.Atomic = true })
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withRoot("/a"), withMaxCache(3), withRoot("/b"), withAtomic())

		require.NoError(t, err)
		require.Equal(t, &testConfig{Root: "/b", MaxCache: 3, Atomic: true}, cfg)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &testConfig{Root: "/keep"}
		require.NoError(t, Apply(cfg))
		require.Equal(t, "/keep", cfg.Root)
	})

	t.Run("nil options are skipped", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply(cfg, nil, withAtomic()))
		require.True(t, cfg.Atomic)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withRoot("/a"), withMaxCache(-1), withAtomic())

		require.ErrorIs(t, err, errs.ErrInvalidConfiguration)
		require.Contains(t, err.Error(), "max cache cannot be negative")
		require.Equal(t, "/a", cfg.Root)
		require.False(t, cfg.Atomic)
	})
}
