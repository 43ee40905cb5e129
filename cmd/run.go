package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"zenctl/internal/config"
	"zenctl/internal/lifecycle"
)

// Mockable for tests.
var osExit = os.Exit

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <prompt> [working-dir]",
		Short: "Run a one-shot Claude Code session with the Zen MCP server",
		Long: `Runs claude non-interactively with the given prompt, backed by the
Zen MCP server. The session verifies local dependencies, resolves API
keys from the environment, ensures Redis is reachable (starting it if
needed), and tears everything down when claude exits.

The session's exit code is claude's own exit code; a missing
dependency or missing ANTHROPIC_API_KEY exits 1 before anything is
spawned.`,
		Example: `  zenctl run "Review this code with the zen chat tool"
  zenctl run "Analyze main.py with the zen analyze tool" /path/to/project`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runSession,
	}
}

func runSession(cmd *cobra.Command, args []string) error {
	prompt := args[0]

	workingDir := ""
	if len(args) > 1 {
		workingDir = args[1]
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	controller := lifecycle.New(cfg)
	code := controller.Run(cmd.Context(), prompt, workingDir)
	if code != 0 {
		// Cobra maps every error to exit code 1; the client's code
		// must be propagated verbatim, so exit directly.
		osExit(code)
	}
	return nil
}
