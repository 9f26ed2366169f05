//go:build unix

package osmem

import (
	"errors"
	"testing"
)

func TestMapZeroedReadWrite(t *testing.T) {
	mem, err := Map(2 * 4096)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer func() {
		if unmapErr := Unmap(mem); unmapErr != nil {
			t.Fatalf("Unmap: %v", unmapErr)
		}
	}()
	if len(mem) != 2*4096 {
		t.Fatalf("len mismatch: got %d want %d", len(mem), 2*4096)
	}
	for i, b := range mem {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: 0x%x", i, b)
		}
	}
	mem[0] = 0xde
	mem[len(mem)-1] = 0xad
	if mem[0] != 0xde || mem[len(mem)-1] != 0xad {
		t.Fatalf("mapping is not writable")
	}
}

func TestMapAddressIsPageAligned(t *testing.T) {
	mem, err := Map(1)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer Unmap(mem)
	if Addr(mem)%uintptr(PageSize()) != 0 {
		t.Fatalf("address 0x%x not aligned to %d", Addr(mem), PageSize())
	}
}

func TestMapRejectsNonPositive(t *testing.T) {
	if _, err := Map(0); !errors.Is(err, ErrBadSize) {
		t.Fatalf("expected ErrBadSize, got %v", err)
	}
	if _, err := (System{}).Map(-1); !errors.Is(err, ErrBadSize) {
		t.Fatalf("expected ErrBadSize, got %v", err)
	}
}

func TestUnmapEmptyIsNoop(t *testing.T) {
	if err := Unmap(nil); err != nil {
		t.Fatalf("Unmap(nil): %v", err)
	}
	if Addr(nil) != 0 {
		t.Fatalf("Addr(nil) must be 0")
	}
}
