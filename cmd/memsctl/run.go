package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mems/mems"
)

var runKeepGoing bool

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVarP(&runKeepGoing, "keep-going", "k", false, "Report failed lines and continue")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [script]",
		Short: "Execute an allocation script",
		Long: `The run command reads one operation per line from a script file, or
from stdin when the file is "-" or omitted. Blank lines and lines starting
with # are ignored. Numbers accept 0x and 0o prefixes.

Operations:
  alloc NAME SIZE     allocate SIZE bytes and bind the address to NAME
  free NAME           free the allocation bound to NAME
  get NAME [OFF]      print the physical address of NAME+OFF
  put NAME OFF BYTE   store BYTE at NAME+OFF
  peek NAME OFF       print the byte at NAME+OFF
  stats               print the region chain
  counters            print operation counters
  check               validate the allocator

Example:
  memsctl run ops.txt
  printf 'alloc a 500\nstats\n' | memsctl run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(args)
		},
	}
}

func runScript(args []string) (err error) {
	var in io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	a, err := newAllocator()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to unmap: %w", cerr))
		}
	}()

	s := &script{alloc: a, names: make(map[string]mems.Handle)}
	return s.run(in)
}

// script binds names to handles across the lines of one run.
type script struct {
	alloc  *mems.Allocator
	names  map[string]mems.Handle
	failed int
}

func (s *script) run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		printVerbose("%d: %s\n", line, strings.Join(fields, " "))

		if err := s.exec(fields[0], fields[1:]); err != nil {
			err = fmt.Errorf("line %d: %s: %w", line, fields[0], err)
			if !runKeepGoing || errors.Is(err, mems.ErrInvariant) {
				return err
			}
			printError("%v\n", err)
			s.failed++
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	if s.failed > 0 {
		return fmt.Errorf("%d operation(s) failed", s.failed)
	}
	return nil
}

func (s *script) exec(op string, args []string) error {
	switch op {
	case "alloc":
		if err := wantArgs(args, 2, "alloc NAME SIZE"); err != nil {
			return err
		}
		size, err := parseNumber(args[1])
		if err != nil {
			return err
		}
		h, err := s.alloc.Alloc(size)
		if err != nil {
			return err
		}
		s.names[args[0]] = h
		printInfo("%s = %d\n", args[0], h)

	case "free":
		if err := wantArgs(args, 1, "free NAME"); err != nil {
			return err
		}
		h, err := s.lookup(args[0])
		if err != nil {
			return err
		}
		if err := s.alloc.Free(h); err != nil {
			return err
		}
		printInfo("freed %s\n", args[0])

	case "get":
		if len(args) != 1 && len(args) != 2 {
			return fmt.Errorf("usage: get NAME [OFF]")
		}
		h, err := s.address(args[0], args[1:]...)
		if err != nil {
			return err
		}
		phys, err := s.alloc.Resolve(h)
		if err != nil {
			return err
		}
		printInfo("%d -> %#x\n", h, phys)

	case "put":
		if err := wantArgs(args, 3, "put NAME OFF BYTE"); err != nil {
			return err
		}
		b, err := s.byteAt(args[0], args[1])
		if err != nil {
			return err
		}
		v, err := strconv.ParseUint(args[2], 0, 8)
		if err != nil {
			return fmt.Errorf("invalid byte %q: %w", args[2], err)
		}
		b[0] = byte(v)

	case "peek":
		if err := wantArgs(args, 2, "peek NAME OFF"); err != nil {
			return err
		}
		b, err := s.byteAt(args[0], args[1])
		if err != nil {
			return err
		}
		printInfo("%d\n", b[0])

	case "stats":
		if err := wantArgs(args, 0, "stats"); err != nil {
			return err
		}
		return printReport(s.alloc)

	case "counters":
		if err := wantArgs(args, 0, "counters"); err != nil {
			return err
		}
		return printCounters(s.alloc)

	case "check":
		if err := wantArgs(args, 0, "check"); err != nil {
			return err
		}
		if err := s.alloc.Check(); err != nil {
			return err
		}
		printInfo("ok\n")

	default:
		return fmt.Errorf("unknown operation")
	}
	return nil
}

func (s *script) lookup(name string) (mems.Handle, error) {
	h, ok := s.names[name]
	if !ok {
		return mems.NilHandle, fmt.Errorf("unbound name %q", name)
	}
	return h, nil
}

// address returns the handle bound to name plus an optional offset.
func (s *script) address(name string, off ...string) (mems.Handle, error) {
	h, err := s.lookup(name)
	if err != nil {
		return mems.NilHandle, err
	}
	if len(off) == 0 {
		return h, nil
	}
	n, err := parseNumber(off[0])
	if err != nil {
		return mems.NilHandle, err
	}
	return h + mems.Handle(n), nil
}

// byteAt returns the live bytes starting at name+off.
func (s *script) byteAt(name, off string) ([]byte, error) {
	h, err := s.address(name, off)
	if err != nil {
		return nil, err
	}
	return s.alloc.Bytes(h)
}

func parseNumber(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return n, nil
}

// wantArgs validates that the correct number of arguments were provided
func wantArgs(args []string, expected int, usage string) error {
	if len(args) != expected {
		return fmt.Errorf("expected %d argument(s), got %d\nUsage: %s", expected, len(args), usage)
	}
	return nil
}
