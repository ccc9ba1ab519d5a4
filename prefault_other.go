//go:build !linux

package strhash

// prefaultRegion is a no-op outside Linux.
func prefaultRegion(data []byte) {}
