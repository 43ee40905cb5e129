// Package config provides configuration management for zenctl.
//
// This package implements a layered configuration system. Configuration
// is loaded from multiple sources and merged in a specific order, with
// later sources overriding earlier ones:
//
//  1. Default Configuration (embedded in binary)
//     - Fixed local Redis endpoint (localhost:6379)
//     - Conservative timeout bounds for service startup and teardown
//
//  2. User Configuration (~/.config/zenctl/config.yaml)
//     - User-specific settings that apply to all projects
//
//  3. Project Configuration (./.zenctl/config.yaml)
//     - Project-specific settings in the current directory
//     - Allows teams to share configuration via version control
//
//  4. Environment Overrides (REDIS_HOST, REDIS_PORT, ZEN_SERVER_DIR)
//     - Highest precedence; matches what the Zen server itself reads
//
// # Configuration Structure
//
// The configuration file uses YAML format:
//
//	redis:
//	  host: localhost
//	  port: 6379
//
//	zen:
//	  serverDir: /home/user/zen-mcp-server
//	  python: python3
//
//	timeouts:
//	  startupWait: 2s
//	  gracePeriod: 5s
//	  killWait: 2s
//
// The timeout values bound the three waits of a session: how long a
// freshly spawned Redis gets before the liveness re-probe, how long a
// graceful termination may take before escalating to a forced kill,
// and how long the forced kill itself may take.
package config
