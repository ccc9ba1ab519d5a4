//go:build linux

package strhash

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves size bytes for file before it is mapped for
// writing, so a full disk fails here rather than with SIGBUS in Save.
func fallocateFile(file *os.File, size int64) error {
	if err := unix.Fallocate(int(file.Fd()), 0, 0, size); err != nil {
		// Not every filesystem supports fallocate (tmpfs on old kernels, NFS).
		return unix.Ftruncate(int(file.Fd()), size)
	}
	return unix.Ftruncate(int(file.Fd()), size)
}
