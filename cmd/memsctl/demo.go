package main

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mems/mems"
)

const (
	demoArrays   = 10
	demoElements = 250
	demoElemSize = 4 // int32
	demoValue    = 200
)

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the allocate, write, free and reallocate walkthrough",
		Long: `The demo command allocates ten arrays of 250 int32 values, writes
through a resolved interior address, prints the region chain, frees the
fourth array and allocates it again to show the hole being reused.

Example:
  memsctl demo
  memsctl demo --phys
  memsctl demo --json --page-size 8192`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

func runDemo() (err error) {
	a, err := newAllocator()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to unmap: %w", cerr))
		}
	}()

	var ptr [demoArrays]mems.Handle

	printInfo("\n------- Allocating virtual addresses [mems_malloc] -------\n")
	for i := range ptr {
		ptr[i], err = a.Alloc(demoElements * demoElemSize)
		if err != nil {
			return fmt.Errorf("failed to allocate ptr[%d]: %w", i, err)
		}
		printInfo("Virtual address for ptr[%d]: %d\n", i, ptr[i])
	}

	printInfo("\n------ Accessing and writing to a virtual address [mems_get] -----\n")
	elem, err := a.Bytes(ptr[0] + demoElemSize)
	if err != nil {
		return fmt.Errorf("failed to resolve ptr[0][1]: %w", err)
	}
	binary.LittleEndian.PutUint32(elem, demoValue)

	phys, err := a.Resolve(ptr[0])
	if err != nil {
		return fmt.Errorf("failed to resolve ptr[0]: %w", err)
	}
	base, err := a.Bytes(ptr[0])
	if err != nil {
		return fmt.Errorf("failed to resolve ptr[0]: %w", err)
	}
	printInfo("Virtual base address: %d\tPhysical base address: %#x\n", ptr[0], phys)
	printInfo("Value at index [1]: %d\n", int32(binary.LittleEndian.Uint32(base[demoElemSize:])))

	printInfo("\n--------- Printing memory stats [mems_print_stats] --------\n")
	if err := printReport(a); err != nil {
		return err
	}

	printInfo("\n--------- Freeing and re-allocating a segment [mems_free] --------\n")
	printInfo("Freeing ptr[3]...\n")
	if err := a.Free(ptr[3]); err != nil {
		return fmt.Errorf("failed to free ptr[3]: %w", err)
	}
	if err := printReport(a); err != nil {
		return err
	}

	printInfo("\nRe-allocating space for ptr[3]...\n")
	ptr[3], err = a.Alloc(demoElements * demoElemSize)
	if err != nil {
		return fmt.Errorf("failed to reallocate ptr[3]: %w", err)
	}
	printVerbose("ptr[3] is now %d\n", ptr[3])
	if err := printReport(a); err != nil {
		return err
	}
	if verbose {
		if err := printCounters(a); err != nil {
			return err
		}
	}

	printInfo("\n--------- Unmapping all memory [mems_finish] --------\n\n")
	return nil
}
