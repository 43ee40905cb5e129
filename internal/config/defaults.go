package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultRedisHost and DefaultRedisPort form the fixed local
	// endpoint used when nothing overrides them.
	DefaultRedisHost = "localhost"
	DefaultRedisPort = 6379
)

// GetDefaultConfig returns the default configuration for zenctl.
// The timeout values are deliberately conservative: two seconds for
// Redis to come up before the re-probe, five seconds of grace before
// escalating a termination.
func GetDefaultConfig() Config {
	return Config{
		Redis: RedisConfig{
			Host: DefaultRedisHost,
			Port: DefaultRedisPort,
		},
		Zen: ZenConfig{
			ServerDir: defaultZenServerDir(),
			Python:    "python3",
		},
		Timeouts: TimeoutConfig{
			StartupWait: 2 * time.Second,
			GracePeriod: 5 * time.Second,
			KillWait:    2 * time.Second,
		},
	}
}

func defaultZenServerDir() string {
	homeDir, err := osUserHomeDir()
	if err != nil {
		// Fall back to a relative location; LoadConfig surfaces a
		// warning when the home directory cannot be resolved.
		return "zen-mcp-server"
	}
	return filepath.Join(homeDir, "zen-mcp-server")
}

// Mockable for tests.
var osUserHomeDir = os.UserHomeDir
