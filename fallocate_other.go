//go:build !linux && !darwin

package strhash

import "os"

// fallocateFile sets the file length. Disk blocks may be allocated lazily
// on these platforms.
func fallocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}
