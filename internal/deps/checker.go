// Package deps verifies that the external executables a session needs
// are installed before anything gets spawned.
package deps

import (
	"context"
	"os/exec"

	"zenctl/pkg/logging"
)

// Dependency names an external executable and how to get it.
type Dependency struct {
	Command string // executable probed on PATH
	Desc    string // human description shown when missing
	Install string // install hint shown when missing
}

// Required is the set of executables every session needs. The check
// runs first, unconditionally; a missing entry aborts the session
// before any child process exists.
var Required = []Dependency{
	{
		Command: "claude",
		Desc:    "Claude Code CLI",
		Install: "npm install -g @anthropic-ai/claude-code",
	},
	{
		Command: "redis-server",
		Desc:    "Redis server",
		Install: "apt-get install redis-server or brew install redis",
	},
	{
		Command: "python3",
		Desc:    "Python 3.10+",
		Install: "https://www.python.org/downloads/",
	},
}

// Mockable for tests.
var probeCommand = func(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, command, "--version")
	// The probe is only a reachability check; its output is discarded.
	return cmd.Run()
}

// Verify probes each dependency with a cheap version invocation and
// returns the missing subset. A probe that fails for any reason
// (not found, non-zero exit) counts as missing.
func Verify(ctx context.Context, required []Dependency) []Dependency {
	var missing []Dependency
	for _, dep := range required {
		if err := probeCommand(ctx, dep.Command); err != nil {
			logging.Debug("deps", "Probe for %s failed: %v", dep.Command, err)
			missing = append(missing, dep)
		}
	}
	return missing
}
