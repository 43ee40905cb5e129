package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config is the top-level configuration structure for zenctl.
type Config struct {
	Redis    RedisConfig   `yaml:"redis"`
	Zen      ZenConfig     `yaml:"zen"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// RedisConfig describes the endpoint the supervised Redis instance
// must be reachable on. The Zen MCP server uses it for conversation
// threading; zenctl starts one locally when nothing answers.
type RedisConfig struct {
	Host string `yaml:"host,omitempty"` // REDIS_HOST override
	Port int    `yaml:"port,omitempty"` // REDIS_PORT override
}

// Addr returns the host:port form of the endpoint.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ZenConfig locates the Zen MCP server that claude will spawn over
// stdio via the materialized configuration artifact.
type ZenConfig struct {
	ServerDir string `yaml:"serverDir,omitempty"` // directory containing server.py; ZEN_SERVER_DIR override
	Python    string `yaml:"python,omitempty"`    // interpreter used to run the server
}

// ServerScript returns the path of the Zen server entrypoint.
func (z ZenConfig) ServerScript() string {
	return filepath.Join(z.ServerDir, "server.py")
}

// TimeoutConfig holds the bounded waits of the session. They are
// configuration rather than constants so tests can shrink them.
type TimeoutConfig struct {
	StartupWait time.Duration `yaml:"startupWait,omitempty"` // wait before re-probing a freshly spawned Redis
	GracePeriod time.Duration `yaml:"gracePeriod,omitempty"` // SIGTERM to SIGKILL escalation bound
	KillWait    time.Duration `yaml:"killWait,omitempty"`    // wait after SIGKILL before giving up
}
