//go:build !unix

package fsutil

const mmapSupported = false

func viewMapped(path string, fn ViewFunc) error {
	return View(path, false, fn)
}
