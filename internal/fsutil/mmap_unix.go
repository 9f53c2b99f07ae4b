//go:build unix

package fsutil

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const mmapSupported = true

func viewMapped(path string, fn ViewFunc) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return wrapNotFound(path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	size := st.Size()
	if size == 0 {
		// zero-length mappings are rejected by the kernel
		return fn(nil)
	}
	if size != int64(int(size)) {
		return fmt.Errorf("map %s: file too large (%d bytes)", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("map %s: %w", path, err)
	}

	defer func() {
		if uerr := unix.Munmap(data); uerr != nil && err == nil {
			err = fmt.Errorf("unmap %s: %w", path, uerr)
		}
	}()

	return fn(data)
}
