//go:build linux

package strhash

import "golang.org/x/sys/unix"

// fadviseSequential enables aggressive readahead for an index file that
// Open decodes front to back. Errors are ignored.
func fadviseSequential(fd int, offset, length int64) {
	_ = unix.Fadvise(fd, offset, length, unix.FADV_SEQUENTIAL)
}
