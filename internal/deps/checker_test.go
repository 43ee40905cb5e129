package deps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakeExecutable drops a script named command into dir that exits
// with the given code when probed.
func writeFakeExecutable(t *testing.T, dir, command string, exitCode int) {
	t.Helper()
	script := fmt.Sprintf("#!/bin/sh\nexit %d\n", exitCode)
	err := os.WriteFile(filepath.Join(dir, command), []byte(script), 0755)
	require.NoError(t, err)
}

func TestVerify_AllPresent(t *testing.T) {
	binDir := t.TempDir()
	writeFakeExecutable(t, binDir, "tool-a", 0)
	writeFakeExecutable(t, binDir, "tool-b", 0)
	t.Setenv("PATH", binDir)

	missing := Verify(context.Background(), []Dependency{
		{Command: "tool-a"},
		{Command: "tool-b"},
	})
	assert.Empty(t, missing)
}

func TestVerify_NotFoundAndFailingProbeTreatedTheSame(t *testing.T) {
	binDir := t.TempDir()
	writeFakeExecutable(t, binDir, "healthy", 0)
	writeFakeExecutable(t, binDir, "broken", 2)
	t.Setenv("PATH", binDir)

	missing := Verify(context.Background(), []Dependency{
		{Command: "healthy"},
		{Command: "broken", Desc: "broken tool"},
		{Command: "absent", Desc: "absent tool"},
	})

	require.Len(t, missing, 2)
	assert.Equal(t, "broken", missing[0].Command)
	assert.Equal(t, "absent", missing[1].Command)
}

func TestVerify_ProbeCountedViaMock(t *testing.T) {
	original := probeCommand
	t.Cleanup(func() { probeCommand = original })

	probes := 0
	probeCommand = func(ctx context.Context, command string) error {
		probes++
		return nil
	}

	missing := Verify(context.Background(), Required)
	assert.Empty(t, missing)
	assert.Equal(t, len(Required), probes)
}
