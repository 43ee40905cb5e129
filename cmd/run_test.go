package cmd

import (
	"testing"
)

func TestNewRunCmd(t *testing.T) {
	runCmd := newRunCmd()

	if runCmd.Use != "run <prompt> [working-dir]" {
		t.Errorf("Unexpected Use: %s", runCmd.Use)
	}

	if runCmd.RunE == nil {
		t.Error("Expected RunE function to be set")
	}
}

func TestRunCmdArgValidation(t *testing.T) {
	runCmd := newRunCmd()

	// The prompt is mandatory.
	if err := runCmd.Args(runCmd, []string{}); err == nil {
		t.Error("Expected an error for zero arguments")
	}

	// Prompt alone and prompt plus working directory are both valid.
	if err := runCmd.Args(runCmd, []string{"prompt"}); err != nil {
		t.Errorf("Unexpected error for one argument: %v", err)
	}
	if err := runCmd.Args(runCmd, []string{"prompt", "/tmp"}); err != nil {
		t.Errorf("Unexpected error for two arguments: %v", err)
	}

	// Anything beyond the working directory is rejected.
	if err := runCmd.Args(runCmd, []string{"prompt", "/tmp", "extra"}); err == nil {
		t.Error("Expected an error for three arguments")
	}
}
