package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"zenctl/internal/config"
	"zenctl/internal/deps"
	"zenctl/internal/env"
	"zenctl/internal/supervisor"
	"zenctl/internal/zen"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that everything a session needs is in place",
		Long: `Probes the local setup a session depends on: required executables,
API keys, Redis reachability, and an end-to-end stdio handshake with
the Zen MCP server. Exits 1 when a required dependency is missing.`,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	missing := deps.Verify(ctx, deps.Required)
	missingSet := make(map[string]bool, len(missing))
	for _, dep := range missing {
		missingSet[dep.Command] = true
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Dependency", "Status", "Install"})
	for _, dep := range deps.Required {
		status := text.FgGreen.Sprint("ok")
		install := ""
		if missingSet[dep.Command] {
			status = text.FgRed.Sprint("missing")
			install = dep.Install
		}
		t.AppendRow(table.Row{dep.Desc, status, install})
	}
	t.Render()
	fmt.Println()

	// Credentials. A missing mandatory key is reported, not fatal to
	// the report itself.
	bundle, resolveErr := env.Resolve()
	if resolveErr != nil {
		fmt.Printf("Credentials:  %s (%v)\n", text.FgRed.Sprint("missing"), resolveErr)
	} else if bundle.Degraded {
		fmt.Printf("Credentials:  %s (no optional AI provider keys set)\n", text.FgYellow.Sprint("degraded"))
	} else {
		fmt.Printf("Credentials:  %s\n", text.FgGreen.Sprint("ok"))
	}

	// Redis reachability; the run command would start one itself.
	sup := supervisor.New(cfg.Redis, cfg.Timeouts)
	if err := sup.Probe(ctx); err != nil {
		fmt.Printf("Redis:        %s (%s not reachable; zenctl run will start it)\n", text.FgYellow.Sprint("down"), cfg.Redis.Addr())
	} else {
		fmt.Printf("Redis:        %s (%s)\n", text.FgGreen.Sprint("ok"), cfg.Redis.Addr())
	}

	// End-to-end Zen server handshake over stdio, exactly as claude
	// would spawn it. Needs the resolved credentials.
	if resolveErr != nil || missingSet["python3"] {
		fmt.Printf("Zen server:   %s\n", text.FgYellow.Sprint("skipped"))
	} else {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Probing Zen MCP server..."
		s.Start()
		tools, probeErr := zen.Probe(ctx, cfg.Zen, bundle, cfg.Redis)
		s.Stop()

		if probeErr != nil {
			fmt.Printf("Zen server:   %s (%v)\n", text.FgRed.Sprint("failed"), probeErr)
		} else {
			fmt.Printf("Zen server:   %s (%d tools at %s)\n", text.FgGreen.Sprint("ok"), len(tools), cfg.Zen.ServerScript())
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%d required dependencies are missing", len(missing))
	}
	return nil
}
