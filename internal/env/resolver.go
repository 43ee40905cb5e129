// Package env resolves the credentials and settings a session needs
// from the process environment. The Anthropic key is mandatory; the
// Zen provider keys are optional and their absence only degrades the
// capabilities the Zen server can offer.
package env

import (
	"fmt"
	"os"

	"zenctl/pkg/logging"
)

const (
	// VarAnthropicAPIKey is the mandatory credential for the claude CLI.
	VarAnthropicAPIKey = "ANTHROPIC_API_KEY"
	// VarWorkspaceRoot overrides the workspace root passed to the Zen
	// server; defaults to the user's home directory.
	VarWorkspaceRoot = "WORKSPACE_ROOT"
)

// ProviderVars are the optional AI provider credentials the Zen MCP
// server can use. At least one should be set for the Zen tools to do
// anything useful, but none is required for the session to run.
var ProviderVars = []string{
	"GEMINI_API_KEY",
	"OPENAI_API_KEY",
	"OPENROUTER_API_KEY",
}

// MissingCredentialError reports an absent mandatory credential.
type MissingCredentialError struct {
	Variable string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("required environment variable %s is not set", e.Variable)
}

// Bundle holds the resolved environment for one session.
type Bundle struct {
	AnthropicAPIKey string
	// Providers maps each optional provider variable to its value;
	// unset variables map to the empty string so the configuration
	// artifact can embed them verbatim, matching what the Zen server
	// reads itself.
	Providers     map[string]string
	WorkspaceRoot string
	// Degraded is true when no optional provider credential is set.
	Degraded bool
}

// Mockable for tests.
var osUserHomeDir = os.UserHomeDir

// Resolve reads the session environment. A missing mandatory
// credential is fatal (*MissingCredentialError); missing optional
// credentials only mark the bundle degraded and emit a single warning.
func Resolve() (*Bundle, error) {
	anthropicKey := os.Getenv(VarAnthropicAPIKey)
	if anthropicKey == "" {
		return nil, &MissingCredentialError{Variable: VarAnthropicAPIKey}
	}

	bundle := &Bundle{
		AnthropicAPIKey: anthropicKey,
		Providers:       make(map[string]string, len(ProviderVars)),
	}

	anyProvider := false
	for _, name := range ProviderVars {
		value := os.Getenv(name)
		bundle.Providers[name] = value
		if value != "" {
			anyProvider = true
		}
	}
	if !anyProvider {
		bundle.Degraded = true
		logging.Warn("env", "No AI provider API keys found for the Zen MCP server; set at least one of %v. The server will start but its AI tools will be unavailable", ProviderVars)
	}

	bundle.WorkspaceRoot = os.Getenv(VarWorkspaceRoot)
	if bundle.WorkspaceRoot == "" {
		homeDir, err := osUserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving default workspace root: %w", err)
		}
		bundle.WorkspaceRoot = homeDir
	}

	return bundle, nil
}
