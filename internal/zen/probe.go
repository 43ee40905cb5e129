// Package zen speaks MCP to the Zen server over stdio. The run path
// never needs this (claude spawns the server itself from the
// configuration artifact); the doctor command uses it to prove the
// server actually answers before a session relies on it.
package zen

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"zenctl/internal/config"
	"zenctl/internal/env"
	"zenctl/internal/mcpconfig"
	"zenctl/pkg/logging"
)

// DefaultProbeTimeout bounds the whole handshake; the server imports
// its provider SDKs on startup, which can take a few seconds.
const DefaultProbeTimeout = 30 * time.Second

// Probe spawns the Zen server over stdio with the same command,
// arguments, and environment the configuration artifact would hand to
// claude, performs the initialize handshake, and lists its tools.
func Probe(ctx context.Context, zen config.ZenConfig, bundle *env.Bundle, redis config.RedisConfig) ([]mcp.Tool, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultProbeTimeout)
		defer cancel()
	}

	entry := mcpconfig.ZenServerEntry(bundle, redis, zen)
	var envStrings []string
	for k, v := range entry.Env {
		envStrings = append(envStrings, fmt.Sprintf("%s=%s", k, v))
	}

	logging.Debug("zen", "Probing Zen server: %s %v", entry.Command, entry.Args)
	mcpClient, err := client.NewStdioMCPClient(entry.Command, envStrings, entry.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to start Zen server: %w", err)
	}
	defer func() {
		if closeErr := mcpClient.Close(); closeErr != nil {
			logging.Debug("zen", "Error closing probe client: %v", closeErr)
		}
	}()

	initResult, err := mcpClient.Initialize(ctx, mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: "2024-11-05",
			ClientInfo: mcp.Implementation{
				Name:    "zenctl",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("MCP initialize handshake failed: %w", err)
	}
	logging.Debug("zen", "Connected to %s %s", initResult.ServerInfo.Name, initResult.ServerInfo.Version)

	toolsResult, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("tools/list failed: %w", err)
	}
	return toolsResult.Tools, nil
}
