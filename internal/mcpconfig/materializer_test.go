package mcpconfig

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenctl/internal/config"
	"zenctl/internal/env"
)

func testBundle() *env.Bundle {
	return &env.Bundle{
		AnthropicAPIKey: "sk-test",
		Providers: map[string]string{
			"GEMINI_API_KEY":     "gm-test",
			"OPENAI_API_KEY":     "",
			"OPENROUTER_API_KEY": "",
		},
		WorkspaceRoot: "/srv/workspace",
	}
}

var testZen = config.ZenConfig{ServerDir: "/opt/zen", Python: "python3"}
var testRedis = config.RedisConfig{Host: "localhost", Port: 6379}

func TestCreate_ContentAndPermissions(t *testing.T) {
	artifact, err := Create(testBundle(), testRedis, testZen)
	require.NoError(t, err)
	defer artifact.Remove()

	assert.True(t, strings.HasSuffix(artifact.Path, ".mcp.json"))

	info, err := os.Stat(artifact.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "credentials must only be readable by the invoking user")

	data, err := os.ReadFile(artifact.Path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))

	zen, ok := doc.MCPServers["zen"]
	require.True(t, ok)
	assert.Equal(t, "python3", zen.Command)
	assert.Equal(t, []string{"/opt/zen/server.py"}, zen.Args)
	assert.Equal(t, "gm-test", zen.Env["GEMINI_API_KEY"])
	assert.Equal(t, "", zen.Env["OPENAI_API_KEY"])
	assert.Equal(t, "/srv/workspace", zen.Env["WORKSPACE_ROOT"])
	assert.Equal(t, "localhost", zen.Env["REDIS_HOST"])
	assert.Equal(t, "6379", zen.Env["REDIS_PORT"])
}

func TestCreate_DoesNotEmbedAnthropicKey(t *testing.T) {
	// The Anthropic key belongs to claude's own environment, not to
	// the Zen server descriptor.
	artifact, err := Create(testBundle(), testRedis, testZen)
	require.NoError(t, err)
	defer artifact.Remove()

	data, err := os.ReadFile(artifact.Path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-test")
}

func TestRemove_ExactlyOnce(t *testing.T) {
	artifact, err := Create(testBundle(), testRedis, testZen)
	require.NoError(t, err)

	require.NoError(t, artifact.Remove())
	_, statErr := os.Stat(artifact.Path)
	assert.True(t, os.IsNotExist(statErr))

	// Second removal is a no-op, not an error.
	assert.NoError(t, artifact.Remove())
}
