package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/zenctl"
	projectConfigDir = ".zenctl"
	configFileName   = "config.yaml"
)

// LoadConfig loads the zenctl configuration by layering default, user,
// project, and environment settings (later layers win).
func LoadConfig() (Config, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. User-specific configuration
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional; warn and continue with defaults.
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	// 3. Project-specific configuration
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	// 4. Environment overrides take precedence over every file layer.
	applyEnvOverrides(&config)

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Zero
// values in the overlay leave the base value untouched.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.Redis.Host != "" {
		merged.Redis.Host = overlay.Redis.Host
	}
	if overlay.Redis.Port != 0 {
		merged.Redis.Port = overlay.Redis.Port
	}

	if overlay.Zen.ServerDir != "" {
		merged.Zen.ServerDir = overlay.Zen.ServerDir
	}
	if overlay.Zen.Python != "" {
		merged.Zen.Python = overlay.Zen.Python
	}

	if overlay.Timeouts.StartupWait != 0 {
		merged.Timeouts.StartupWait = overlay.Timeouts.StartupWait
	}
	if overlay.Timeouts.GracePeriod != 0 {
		merged.Timeouts.GracePeriod = overlay.Timeouts.GracePeriod
	}
	if overlay.Timeouts.KillWait != 0 {
		merged.Timeouts.KillWait = overlay.Timeouts.KillWait
	}

	return merged
}

// applyEnvOverrides applies the documented environment variable
// overrides for the Redis endpoint and Zen server location.
func applyEnvOverrides(config *Config) {
	if host := os.Getenv("REDIS_HOST"); host != "" {
		config.Redis.Host = host
	}
	if portStr := os.Getenv("REDIS_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			config.Redis.Port = port
		} else {
			fmt.Fprintf(os.Stderr, "Warning: Ignoring invalid REDIS_PORT value %q\n", portStr)
		}
	}
	if dir := os.Getenv("ZEN_SERVER_DIR"); dir != "" {
		config.Zen.ServerDir = dir
	}
}
