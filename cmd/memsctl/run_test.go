package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/mems/mems"
)

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name           string
		script         []string
		keepGoing      bool
		wantErr        error
		wantAnyErr     bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "alloc and stats",
			script: []string{
				"# two allocations",
				"alloc a 500",
				"",
				"alloc b 0x1f4",
				"stats",
			},
			wantContain: []string{
				"a = 1000",
				"b = 1500",
				"MAIN[1000:5095]-> P[1000:1499](500) <-> P[1500:1999](500) <-> H[2000:5095](3096) <-> NULL",
			},
		},
		{
			name: "free reuses first hole",
			script: []string{
				"alloc a 100",
				"alloc b 100",
				"free a",
				"alloc c 50",
				"stats",
			},
			wantContain: []string{
				"c = 1000",
				"P[1000:1049](50) <-> H[1050:1099](50) <-> P[1100:1199](100)",
			},
		},
		{
			name: "put and peek through interior address",
			script: []string{
				"alloc a 16",
				"put a 3 0xff",
				"peek a 3",
				"peek a 4",
				"get a 3",
			},
			wantContain: []string{"255\n", "0\n", "1003 -> 0x"},
		},
		{
			name:       "double free",
			script:     []string{"alloc a 10", "free a", "free a"},
			wantErr:    mems.ErrNotFound,
			wantAnyErr: true,
		},
		{
			name:       "zero size",
			script:     []string{"alloc a 0"},
			wantErr:    mems.ErrInvalidArgument,
			wantAnyErr: true,
		},
		{
			name:       "read past allocation",
			script:     []string{"alloc a 10", "peek a 10"},
			wantErr:    mems.ErrNotFound,
			wantAnyErr: true,
		},
		{
			name:       "unknown operation",
			script:     []string{"realloc a 10"},
			wantAnyErr: true,
		},
		{
			name:       "unbound name",
			script:     []string{"free nope"},
			wantAnyErr: true,
		},
		{
			name:       "bad number",
			script:     []string{"alloc a lots"},
			wantAnyErr: true,
		},
		{
			name:       "byte out of range",
			script:     []string{"alloc a 1", "put a 0 256"},
			wantAnyErr: true,
		},
		{
			name:        "keep going reports and continues",
			script:      []string{"free nope", "alloc a 10", "check"},
			keepGoing:   true,
			wantAnyErr:  true,
			wantContain: []string{"a = 1000", "ok\n"},
		},
		{
			name:           "counters",
			script:         []string{"alloc a 10", "alloc b 5000", "free a", "counters"},
			wantContain:    []string{"Allocs: 2 (fast 0, grow 2)", "Frees: 1 (misses 0)"},
			wantNotContain: []string{"Error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			runKeepGoing = tt.keepGoing

			path := writeScript(t, tt.script...)
			output, err := captureOutput(t, func() error {
				return runScript([]string{path})
			})

			if tt.wantAnyErr {
				require.Error(t, err, "output: %s", output)
				if tt.wantErr != nil {
					require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				}
			} else {
				require.NoError(t, err, "output: %s", output)
			}

			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestRunCommand_JSONStats(t *testing.T) {
	resetFlags()
	jsonOut = true
	quiet = true

	path := writeScript(t, "alloc a 500", "stats", "counters")
	output, err := captureOutput(t, func() error {
		return runScript([]string{path})
	})
	require.NoError(t, err)
	assertJSON(t, output)
	assertContains(t, output, []string{`"allocated_bytes": 500`, `"alloc_calls": 1`})
}

func TestRunCommand_MissingScript(t *testing.T) {
	resetFlags()
	_, err := captureOutput(t, func() error {
		return runScript([]string{"does-not-exist.txt"})
	})
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	resetFlags()
	output, err := captureOutput(t, func() error {
		return versionCmd.RunE(versionCmd, nil)
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"memsctl dev", "commit: none"})

	jsonOut = true
	output, err = captureOutput(t, func() error {
		return versionCmd.RunE(versionCmd, nil)
	})
	require.NoError(t, err)
	assertJSON(t, output)
}
