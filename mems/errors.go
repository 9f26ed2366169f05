package mems

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a request the allocator rejects without touching any state.
	ErrInvalidArgument = errors.New("mems: invalid argument")

	// ErrInvalidSize indicates a zero-byte or oversized allocation request.
	ErrInvalidSize = fmt.Errorf("%w: invalid allocation size", ErrInvalidArgument)

	// ErrResourceExhausted indicates the OS refused to map or unmap memory.
	// A mapping failure during growth is fatal for the allocator.
	ErrResourceExhausted = errors.New("mems: resource exhausted")

	// ErrNotFound indicates no live allocation matches the handle.
	ErrNotFound = errors.New("mems: no such allocation")

	// ErrInvariant indicates the region chain or a segment list is malformed.
	ErrInvariant = errors.New("mems: invariant violation")

	// ErrNotInitialized indicates use of an Allocator not created by New.
	ErrNotInitialized = errors.New("mems: allocator not initialized")

	// ErrClosed indicates use of an Allocator after Close.
	ErrClosed = errors.New("mems: allocator closed")
)
