package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, filename string, content Config) string {
	t.Helper()
	tempFilePath := filepath.Join(dir, filename)
	data, err := yaml.Marshal(&content)
	assert.NoError(t, err)
	err = os.MkdirAll(filepath.Dir(tempFilePath), 0755)
	assert.NoError(t, err)
	err = os.WriteFile(tempFilePath, data, 0644)
	assert.NoError(t, err)
	return tempFilePath
}

// mockConfigPaths points both layer lookups at non-existent files in
// tempDir so only the layers a test creates are picked up.
func mockConfigPaths(t *testing.T, tempDir string) {
	t.Helper()
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	})

	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, userConfigDir, configFileName), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, projectConfigDir, configFileName), nil
	}
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t, tempDir)

	// Make sure environment overrides don't leak into the test.
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("ZEN_SERVER_DIR", "")

	expected := GetDefaultConfig()

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, expected.Redis, loadedConfig.Redis)
	assert.Equal(t, expected.Timeouts, loadedConfig.Timeouts)
	assert.Equal(t, expected.Zen, loadedConfig.Zen)
}

func TestLoadConfig_UserOverride(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t, tempDir)
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("ZEN_SERVER_DIR", "")

	userConf := Config{
		Redis: RedisConfig{Port: 6380},
		Zen:   ZenConfig{Python: "python3.12"},
	}
	createTempConfigFile(t, tempDir, filepath.Join(userConfigDir, configFileName), userConf)

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)

	// Overridden fields take the user values, the rest stay default.
	assert.Equal(t, 6380, loadedConfig.Redis.Port)
	assert.Equal(t, DefaultRedisHost, loadedConfig.Redis.Host)
	assert.Equal(t, "python3.12", loadedConfig.Zen.Python)
	assert.Equal(t, 2*time.Second, loadedConfig.Timeouts.StartupWait)
}

func TestLoadConfig_ProjectOverridesUser(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t, tempDir)
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("ZEN_SERVER_DIR", "")

	userConf := Config{Redis: RedisConfig{Port: 6380}}
	createTempConfigFile(t, tempDir, filepath.Join(userConfigDir, configFileName), userConf)

	projectConf := Config{
		Redis:    RedisConfig{Port: 6390},
		Timeouts: TimeoutConfig{GracePeriod: 10 * time.Second},
	}
	createTempConfigFile(t, tempDir, filepath.Join(projectConfigDir, configFileName), projectConf)

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, 6390, loadedConfig.Redis.Port, "project layer should win over user layer")
	assert.Equal(t, 10*time.Second, loadedConfig.Timeouts.GracePeriod)
	assert.Equal(t, 5*time.Second, GetDefaultConfig().Timeouts.GracePeriod, "default should be untouched")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t, tempDir)

	projectConf := Config{Redis: RedisConfig{Host: "redis.internal", Port: 6390}}
	createTempConfigFile(t, tempDir, filepath.Join(projectConfigDir, configFileName), projectConf)

	t.Setenv("REDIS_HOST", "127.0.0.1")
	t.Setenv("REDIS_PORT", "7000")
	t.Setenv("ZEN_SERVER_DIR", "/opt/zen")

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "127.0.0.1", loadedConfig.Redis.Host, "environment should win over every file layer")
	assert.Equal(t, 7000, loadedConfig.Redis.Port)
	assert.Equal(t, "/opt/zen", loadedConfig.Zen.ServerDir)
}

func TestLoadConfig_InvalidEnvPortIgnored(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t, tempDir)

	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "not-a-port")
	t.Setenv("ZEN_SERVER_DIR", "")

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, DefaultRedisPort, loadedConfig.Redis.Port)
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "localhost", Port: 6379}
	assert.Equal(t, "localhost:6379", r.Addr())
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t, tempDir)

	badPath := filepath.Join(tempDir, projectConfigDir, configFileName)
	assert.NoError(t, os.MkdirAll(filepath.Dir(badPath), 0755))
	assert.NoError(t, os.WriteFile(badPath, []byte("redis: [not: valid"), 0644))

	_, err := LoadConfig()
	assert.Error(t, err)
}
