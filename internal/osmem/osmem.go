// Package osmem provides the page-granular OS memory primitive the allocator
// is built on: anonymous, zero-initialised, read/write mappings at an
// address of the OS's choosing, and their release.
package osmem

import (
	"errors"
	"unsafe"
)

// ErrBadSize indicates a mapping request for a non-positive length.
var ErrBadSize = errors.New("osmem: mapping length must be positive")

// System maps memory straight from the operating system.
type System struct{}

// Map requests n bytes of fresh anonymous memory.
func (System) Map(n int) ([]byte, error) { return Map(n) }

// Unmap releases a slice previously returned by Map.
func (System) Unmap(b []byte) error { return Unmap(b) }

// Addr returns the address of the first byte of b, or 0 for an empty slice.
func Addr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
