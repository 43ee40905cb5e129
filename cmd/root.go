package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"zenctl/pkg/logging"
)

var debugFlag bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zenctl",
	Short: "Run Claude Code sessions backed by the Zen MCP server",
	Long: `zenctl runs one-shot Claude Code sessions wired to the Zen MCP server
without Docker: it checks local tooling, makes sure Redis is reachable,
writes an ephemeral MCP configuration, and launches claude against it.
Everything it spawns is cleaned up when the session ends.`,
	// SilenceUsage is set to true to prevent printing usage message on
	// errors handled by us (e.g. missing dependencies)
	SilenceUsage: true,
	// A bare `zenctl "<prompt>" [working-dir]` is the same session as
	// `zenctl run ...`.
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runSession(cmd, args)
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelInfo
		if debugFlag {
			level = logging.LevelDebug
		}
		// Logs go to stderr; stdout belongs to the launched client.
		logging.Init(level, os.Stderr)
	},
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "zenctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
