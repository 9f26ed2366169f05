//go:build windows

package osmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Map reserves and commits n bytes. Committed pages are zero-initialised.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}
	addr, err := windows.VirtualAlloc(0, uintptr(n), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("osmem: VirtualAlloc %d bytes: %w", n, err)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n), nil
}

// Unmap releases a mapping returned by Map.
func Unmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := windows.VirtualFree(Addr(b), 0, windows.MEM_RELEASE); err != nil {
		return fmt.Errorf("osmem: VirtualFree %d bytes: %w", len(b), err)
	}
	return nil
}

// PageSize returns the host's allocation page size.
func PageSize() int {
	return windows.Getpagesize()
}
