// Package errors defines all exported error sentinels for the strhash library.
//
// This is the single source of truth for error values. The top-level
// strhash package and the command tools import from here, so errors.Is
// checks work across package boundaries.
package errors

import "errors"

// Build errors
var (
	ErrTableTooLarge    = errors.New("strhash: key count exceeds maximum table size for hash width")
	ErrDuplicateKey     = errors.New("strhash: duplicate key detected")
	ErrUnknownHashFunc  = errors.New("strhash: unknown hash function")
	ErrInvalidWorkers   = errors.New("strhash: worker count must be at least 1")
	ErrKeyWidthMismatch = errors.New("strhash: key length does not match key width")
)

// Index file errors
var (
	ErrInvalidMagic   = errors.New("strhash: invalid magic number")
	ErrInvalidVersion = errors.New("strhash: unsupported version")
	ErrLayoutMismatch = errors.New("strhash: index layout does not match requested key, hash or value types")
	ErrChecksumFailed = errors.New("strhash: file checksum verification failed")
	ErrTruncatedFile  = errors.New("strhash: index file is truncated")
	ErrCorruptedIndex = errors.New("strhash: index data is corrupted")
)
