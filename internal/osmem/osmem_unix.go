//go:build unix

package osmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Map maps n bytes of private anonymous memory. The kernel zero-fills the
// pages and rounds the length up to its own page size.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}
	mem, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("osmem: mmap %d bytes: %w", n, err)
	}
	return mem, nil
}

// Unmap releases a mapping returned by Map. It must be passed the same slice
// (not a derived slice) that Map returned.
func Unmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := unix.Munmap(b); err != nil {
		return fmt.Errorf("osmem: munmap %d bytes: %w", len(b), err)
	}
	return nil
}

// PageSize returns the host's native page size.
func PageSize() int {
	return unix.Getpagesize()
}
