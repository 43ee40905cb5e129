// Package mcpconfig materializes the ephemeral MCP configuration file
// that claude consumes. The file embeds the resolved provider
// credentials and the Redis endpoint, lives in a private temporary
// directory, and is deleted exactly once after the client launch.
package mcpconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"zenctl/internal/config"
	"zenctl/internal/env"
	"zenctl/pkg/logging"
)

// ServerEntry describes one MCP server in the configuration artifact:
// the command claude spawns, its arguments, and its environment.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

// Document is the artifact's wire format, as claude expects it.
type Document struct {
	MCPServers map[string]ServerEntry `json:"mcpServers"`
}

// Artifact is a materialized configuration file. Remove is safe to
// call from multiple teardown paths; only the first call deletes.
type Artifact struct {
	Path string

	dir        string
	removeOnce sync.Once
	removeErr  error
}

// Create serializes the Zen server descriptor for the given bundle
// and endpoint into a fresh artifact. The caller (the lifecycle
// controller) owns deletion.
func Create(bundle *env.Bundle, redis config.RedisConfig, zen config.ZenConfig) (*Artifact, error) {
	doc := Document{
		MCPServers: map[string]ServerEntry{
			"zen": ZenServerEntry(bundle, redis, zen),
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling MCP config: %w", err)
	}

	// Private directory so the embedded credentials are only readable
	// by the invoking user.
	dir, err := os.MkdirTemp("", "zenctl-")
	if err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("zen-%s.mcp.json", uuid.NewString()))
	if err := os.WriteFile(path, data, 0600); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("writing MCP config: %w", err)
	}

	logging.Debug("mcpconfig", "Materialized MCP configuration at %s", path)
	return &Artifact{Path: path, dir: dir}, nil
}

// ZenServerEntry builds the descriptor claude uses to spawn the Zen
// server. The doctor probe reuses it so both paths launch the server
// identically.
func ZenServerEntry(bundle *env.Bundle, redis config.RedisConfig, zen config.ZenConfig) ServerEntry {
	return ServerEntry{
		Command: zen.Python,
		Args:    []string{zen.ServerScript()},
		Env:     serverEnv(bundle, redis),
	}
}

// serverEnv builds the environment map the Zen server is launched
// with. Unset provider keys are embedded as empty strings, matching
// what the server reads itself.
func serverEnv(bundle *env.Bundle, redis config.RedisConfig) map[string]string {
	serverEnv := make(map[string]string, len(bundle.Providers)+3)
	for name, value := range bundle.Providers {
		serverEnv[name] = value
	}
	serverEnv[env.VarWorkspaceRoot] = bundle.WorkspaceRoot
	serverEnv["REDIS_HOST"] = redis.Host
	serverEnv["REDIS_PORT"] = strconv.Itoa(redis.Port)
	return serverEnv
}

// Remove deletes the artifact and its private directory. Repeated
// calls are no-ops returning the first result.
func (a *Artifact) Remove() error {
	a.removeOnce.Do(func() {
		a.removeErr = os.RemoveAll(a.dir)
		if a.removeErr == nil {
			logging.Debug("mcpconfig", "Removed MCP configuration %s", a.Path)
		}
	})
	return a.removeErr
}
