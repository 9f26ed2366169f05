package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/mems/mems"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs the human-readable chain layout.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// ShowPhysical adds the physical base of each region and segment.
	// Default: false
	ShowPhysical bool

	// ShowArena adds the metadata arena footprint.
	// Default: false
	ShowArena bool

	// Indent is the JSON indent string. Empty prints compact JSON.
	// Default: "  "
	Indent string
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:       FormatText,
		ShowPhysical: false,
		ShowArena:    false,
		Indent:       "  ",
	}
}

// Printer renders allocator snapshots.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer writing to w.
//
// Example:
//
//	rep, _ := a.Report()
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintReport(rep)
func New(w io.Writer, opts Options) *Printer {
	return &Printer{writer: w, opts: opts}
}

// PrintReport prints a full snapshot in the configured format.
func (p *Printer) PrintReport(rep mems.Report) error {
	switch p.opts.Format {
	case FormatText, "":
		return p.printReportText(rep)
	case FormatJSON:
		return p.printReportJSON(rep)
	default:
		return fmt.Errorf("unsupported format: %s", p.opts.Format)
	}
}

// PrintStats prints the allocator's operation counters.
func (p *Printer) PrintStats(st mems.Stats) error {
	switch p.opts.Format {
	case FormatText, "":
		return p.printStatsText(st)
	case FormatJSON:
		return p.printStatsJSON(st)
	default:
		return fmt.Errorf("unsupported format: %s", p.opts.Format)
	}
}
