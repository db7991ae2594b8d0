// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Data     DataConfig
	Steam    SteamConfig
	SteamSpy SteamSpyConfig
	Sampling SamplingConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-disk data layout configuration. Snapshots, exports,
// the run ledger database, and the search index all live under BasePath.
type DataConfig struct {
	BasePath string
}

// SteamConfig holds Steam API configuration.
type SteamConfig struct {
	// APIKey authorizes Web API calls (the app list). The storefront and
	// review endpoints work without one.
	APIKey string
	// WebAPIBaseURL and StoreBaseURL override the public origins; only
	// useful for tests and proxies.
	WebAPIBaseURL string
	StoreBaseURL  string
}

// SteamSpyConfig holds SteamSpy ownership-proxy configuration.
type SteamSpyConfig struct {
	// BaseURL overrides the public endpoint; empty uses the default.
	BaseURL string
	// Enabled turns the source off entirely; records then carry no
	// ownership proxy.
	Enabled bool
}

// SamplingConfig holds sampling run defaults.
type SamplingConfig struct {
	// DefaultTargetN substitutes for an absent or non-positive target size.
	DefaultTargetN int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(name string, args []string) (*Config, error) {
	return LoadConfigFlagSet(flag.NewFlagSet(name, flag.ContinueOnError), args)
}

// LoadConfigFlagSet is LoadConfig with a caller-supplied flag set, so a
// binary can register its own flags next to the shared configuration ones.
func LoadConfigFlagSet(fs *flag.FlagSet, args []string) (*Config, error) {
	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for collected data")
	steamAPIKey := fs.String("steam-api-key", "", "Steam Web API key")
	steamSpy := fs.String("steamspy", "", "Enable the SteamSpy ownership source (default: true)")
	defaultTargetN := fs.String("default-target-n", "", "Fallback sample size (default: 500)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	// Parse flags but don't exit on error - we want to handle it gracefully.
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Steam: SteamConfig{
			APIKey:        getConfigValue(*steamAPIKey, "STEAM_API_KEY", ""),
			WebAPIBaseURL: getConfigValue("", "STEAM_WEBAPI_URL", ""),
			StoreBaseURL:  getConfigValue("", "STEAM_STORE_URL", ""),
		},
		SteamSpy: SteamSpyConfig{
			BaseURL: getConfigValue("", "STEAMSPY_URL", ""),
			Enabled: getBoolConfigValue(*steamSpy, "STEAMSPY_ENABLED", true),
		},
		Sampling: SamplingConfig{
			DefaultTargetN: getIntConfigValue(*defaultTargetN, "DEFAULT_TARGET_N", 500),
		},
	}

	// Expand and validate the data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Sampling.DefaultTargetN <= 0 {
		return fmt.Errorf("invalid default target n: %d (must be positive)", c.Sampling.DefaultTargetN)
	}

	// The Steam API key is only required for catalog listing; the client
	// reports its absence at call time.

	return nil
}

// SnapshotDir returns the directory for raw and sampled snapshots.
func (c *Config) SnapshotDir() string {
	return filepath.Join(c.Data.BasePath, "snapshots")
}

// ExportDir returns the directory for cleaned CSV exports.
func (c *Config) ExportDir() string {
	return filepath.Join(c.Data.BasePath, "exports")
}

// DatabasePath returns the run-ledger database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Data.BasePath, "runs.db")
}

// IndexDir returns the search index location.
func (c *Config) IndexDir() string {
	return filepath.Join(c.Data.BasePath, "index")
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "GameScope", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
