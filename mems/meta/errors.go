package meta

import "errors"

var (
	// ErrBadIndex indicates a record index that was never handed out by the arena.
	ErrBadIndex = errors.New("meta: bad record index")

	// ErrPageSize indicates a page size that cannot hold a whole number of records.
	ErrPageSize = errors.New("meta: page size must be a positive multiple of the record size")

	// ErrRefill indicates the arena could not obtain a fresh page.
	ErrRefill = errors.New("meta: page refill failed")

	// ErrFull indicates the arena exhausted its index space.
	ErrFull = errors.New("meta: index space exhausted")
)
