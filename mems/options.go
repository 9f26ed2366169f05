package mems

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/mems/internal/format"
	"github.com/joshuapare/mems/internal/osmem"
)

// Options configures an Allocator. Zero fields take their defaults in New.
type Options struct {
	// PageSize is the growth granularity for regions and the page size of
	// the metadata arena. It need not match the host page size but must be a
	// positive multiple of the 64-byte descriptor record.
	// Default: 4096
	PageSize uint64

	// VirtualBase is the first handle ever issued. It must be non-zero.
	// Default: 1000
	VirtualBase Handle

	// Mapper supplies and releases OS pages.
	// Default: osmem.System{}
	Mapper PageMapper

	// Logger receives allocator events. Splits, growth and coalescing are
	// logged at debug level; misses and unmap failures at warn.
	// Default: discard, or stderr at debug level when MEMS_LOG_ALLOC is set.
	Logger *slog.Logger

	// CheckInvariants validates the whole structure after every mutation.
	// Default: true when MEMS_CHECK_INVARIANTS is set.
	CheckInvariants bool
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		PageSize:        format.DefaultPageSize,
		VirtualBase:     format.DefaultVirtualBase,
		Mapper:          osmem.System{},
		Logger:          defaultLogger(),
		CheckInvariants: os.Getenv("MEMS_CHECK_INVARIANTS") != "",
	}
}

func defaultLogger() *slog.Logger {
	if os.Getenv("MEMS_LOG_ALLOC") != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withDefaults fills zero fields and validates the result.
func (o Options) withDefaults() (Options, error) {
	def := DefaultOptions()
	if o.PageSize == 0 {
		o.PageSize = def.PageSize
	}
	if o.VirtualBase == NilHandle {
		o.VirtualBase = def.VirtualBase
	}
	if o.Mapper == nil {
		o.Mapper = def.Mapper
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	if !o.CheckInvariants {
		o.CheckInvariants = def.CheckInvariants
	}

	if o.PageSize%format.RecordSize != 0 || o.PageSize > maxPageSize {
		return o, fmt.Errorf("%w: page size %d must be a multiple of %d and at most %d",
			ErrInvalidArgument, o.PageSize, format.RecordSize, uint64(maxPageSize))
	}
	return o, nil
}
