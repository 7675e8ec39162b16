package kv

import "errors"

var (
	// ErrNotFound indicates no record is stored at the requested key.
	ErrNotFound = errors.New("kv: record not found")

	// ErrCorrupt indicates the stored record could not be decoded.
	// The offending record has been discarded.
	ErrCorrupt = errors.New("kv: record corrupt")
)
