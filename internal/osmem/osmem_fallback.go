//go:build !unix && !windows

package osmem

// Map allocates n zeroed bytes from the Go heap when no mapping syscall is
// available.
func Map(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}
	return make([]byte, n), nil
}

// Unmap is a no-op; the slice is left to the garbage collector.
func Unmap(b []byte) error {
	return nil
}

// PageSize returns the conventional 4KB page size.
func PageSize() int {
	return 4096
}
