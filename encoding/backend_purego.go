//go:build !(amd64 || arm64) || purego

package encoding

import (
	"fmt"
	"runtime"

	"github.com/arloliu/amistore/errs"
)

func newNativeBackend() (Backend, error) {
	return nil, fmt.Errorf("%w: no native backend for %s (or built with purego)", errs.ErrBackendUnavailable, runtime.GOARCH)
}
