//go:build linux

package strhash

import "golang.org/x/sys/unix"

// MADV_POPULATE_WRITE, Linux 5.14+.
const madvPopulateWrite = 23

// prefaultRegion populates the pages of a writable mapping up front so
// encoding the index does not take one fault per page. Older kernels
// return EINVAL, which is ignored.
func prefaultRegion(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, madvPopulateWrite)
}
