package maint

import "io"

// Destination provides an interface for backup transfer targets. It is
// the sole abstraction hiding local paths from remote-protocol
// locations: the rest of the core addresses a destination only through
// chunked streaming reads and writes.
type Destination interface {
	// Put stores a named object, reading its content from r.
	// size is the number of bytes that will be read from r.
	Put(name string, r io.Reader, size int64) error

	// Get retrieves a named object and writes it to w.
	Get(name string, w io.Writer) error

	// Exists reports whether a named object is already present.
	Exists(name string) (bool, error)

	// ValidateSetup verifies that the destination is accessible.
	ValidateSetup() error
}
