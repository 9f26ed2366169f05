package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a record.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadKind indicates a segment record carried an unknown kind.
	ErrBadKind = errors.New("format: unknown segment kind")
)
