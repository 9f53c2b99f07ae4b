package symfile

import (
	"errors"
	"fmt"

	"github.com/arloliu/amistore/encoding"
	"github.com/arloliu/amistore/internal/options"
)

type fileConfig struct {
	codec    encoding.Codec
	capacity int
}

// Option configures a File created by Parse, New or Build.
type Option = options.Option[*fileConfig]

func newConfig(opts []Option) (*fileConfig, error) {
	cfg := &fileConfig{codec: encoding.DefaultCodec()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCodec sets the codec used to encode and decode records. The default is the
// process-wide codec.
func WithCodec(codec encoding.Codec) Option {
	return options.New(func(c *fileConfig) error {
		if codec.Backend() == nil {
			return errors.New("codec has no backend")
		}
		c.codec = codec

		return nil
	})
}

// WithCapacity reserves room for n records beyond the initial content, so the
// first n appends do not reallocate.
func WithCapacity(n int) Option {
	return options.New(func(c *fileConfig) error {
		if n < 0 {
			return fmt.Errorf("negative capacity %d", n)
		}
		c.capacity = n

		return nil
	})
}
