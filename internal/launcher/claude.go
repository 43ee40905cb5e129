// Package launcher invokes the claude CLI synchronously against a
// materialized MCP configuration and propagates its exit code.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"zenctl/pkg/logging"
)

// allowedTools is the fixed capability allow-list passed to claude.
// It is hard-coded on purpose and must never be derived from user
// input: only these Zen operations are permitted for the session.
var allowedTools = []string{
	"mcp__zen__chat",
	"mcp__zen__thinkdeep",
	"mcp__zen__codereview",
	"mcp__zen__precommit",
	"mcp__zen__debug",
	"mcp__zen__analyze",
}

// Mockable for tests.
var claudeCommand = func(ctx context.Context, args []string) *exec.Cmd {
	return exec.CommandContext(ctx, "claude", args...)
}

// Run invokes claude with the prompt, the configuration artifact, and
// the fixed allow-list, blocking until it exits. The child owns the
// terminal for the duration. The returned code is claude's own exit
// code, verbatim; err is only non-nil when the process could not be
// run at all.
func Run(ctx context.Context, prompt, artifactPath, workingDir string) (int, error) {
	args := []string{
		"-p", prompt,
		"--mcp-config", artifactPath,
		"--allowedTools", strings.Join(allowedTools, ","),
	}

	cmd := claudeCommand(ctx, args)
	if workingDir != "" {
		cmd.Dir = workingDir
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logging.Info("launcher", "Running claude in %s", displayDir(workingDir))
	logging.Debug("launcher", "claude %s", strings.Join(args, " "))

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// A non-zero exit from claude is not an internal failure; the
		// session adopts it as its own exit code.
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("failed to run claude: %w", err)
}

func displayDir(workingDir string) string {
	if workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return wd
	}
	return workingDir
}
