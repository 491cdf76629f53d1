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
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Server  ServerConfig
	Convert ConvertConfig
	Fetch   FetchConfig
	Inbox   InboxConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds data directory configuration.
// The data directory contains the catalog database, the per-book content
// directories, the search index, and the fetch cache.
type StorageConfig struct {
	BasePath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed origins for the SPA (default: *)
}

// ConvertConfig holds document conversion configuration.
type ConvertConfig struct {
	// PandocPath overrides auto-detection of the pandoc binary (default: auto-detect).
	PandocPath string
	// Timeout bounds a single conversion run (default: 120s).
	Timeout time.Duration
}

// FetchConfig holds web article fetching configuration.
//
// MinSectionText and ImageTimeout carry source-observed defaults; they are
// configurable but changing them changes pagination behavior.
type FetchConfig struct {
	PageTimeout    time.Duration // Whole-page fetch bound (default: 30s)
	ImageTimeout   time.Duration // Per-image download bound (default: 15s)
	MinSectionText int           // Minimum stripped text length to keep a split section (default: 21)
	UserAgent      string        // User-Agent header for outbound fetches
	CacheTTL       time.Duration // TTL for the fetched-HTML cache (default: 1h)
}

// InboxConfig holds drop-folder auto-import configuration.
type InboxConfig struct {
	// Path is the watched directory; empty disables the watcher.
	Path string
}

// defaultUserAgent identifies outbound article fetches.
const defaultUserAgent = "Mozilla/5.0 (compatible; HepReader/1.0)"

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for data storage")
	inboxPath := flag.String("inbox-path", "", "Directory watched for dropped ebook files")
	pandocPath := flag.String("pandoc-path", "", "Path to pandoc binary (default: auto-detect)")

	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	convertTimeout := flag.String("convert-timeout", "", "Document conversion timeout (default: 120s)")
	pageTimeout := flag.String("fetch-page-timeout", "", "Article page fetch timeout (default: 30s)")
	imageTimeout := flag.String("fetch-image-timeout", "", "Per-image download timeout (default: 15s)")
	minSectionText := flag.String("min-section-text", "", "Minimum section text length after h2 split (default: 21)")
	cacheTTL := flag.String("fetch-cache-ttl", "", "Fetched HTML cache TTL (default: 1h)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Convert: ConvertConfig{
			PandocPath: getConfigValue(*pandocPath, "PANDOC_PATH", ""),
		},
		Fetch: FetchConfig{
			MinSectionText: getIntConfigValue(*minSectionText, "FETCH_MIN_SECTION_TEXT", 21),
			UserAgent:      getConfigValue("", "FETCH_USER_AGENT", defaultUserAgent),
		},
		Inbox: InboxConfig{
			Path: getConfigValue(*inboxPath, "INBOX_PATH", ""),
		},
	}

	origins := getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.Server.CORSOrigins = append(cfg.Server.CORSOrigins, o)
		}
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		dst       *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*convertTimeout, "CONVERT_TIMEOUT", "120s", &cfg.Convert.Timeout},
		{*pageTimeout, "FETCH_PAGE_TIMEOUT", "30s", &cfg.Fetch.PageTimeout},
		{*imageTimeout, "FETCH_IMAGE_TIMEOUT", "15s", &cfg.Fetch.ImageTimeout},
		{*cacheTTL, "FETCH_CACHE_TTL", "1h", &cfg.Fetch.CacheTTL},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(d.envKey), raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if err := cfg.expandInboxPath(); err != nil {
		return nil, fmt.Errorf("invalid inbox path: %w", err)
	}

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

	if c.Storage.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Fetch.MinSectionText < 1 {
		return fmt.Errorf("min section text must be positive, got %d", c.Fetch.MinSectionText)
	}

	return nil
}

// BooksPath returns the root of the per-book content directories.
func (c *Config) BooksPath() string {
	return filepath.Join(c.Storage.BasePath, "books")
}

// StagingPath returns the directory for in-flight import staging.
func (c *Config) StagingPath() string {
	return filepath.Join(c.Storage.BasePath, "tmp")
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

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
// Defaults to ~/HepReader/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "HepReader", "data")

	expanded, err := expandPath(c.Storage.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.BasePath = expanded
	return nil
}

// expandInboxPath expands ~ and makes the path absolute.
// Empty leaves the inbox watcher disabled.
func (c *Config) expandInboxPath() error {
	if c.Inbox.Path == "" {
		return nil
	}

	expanded, err := expandPath(c.Inbox.Path, "")
	if err != nil {
		return err
	}
	c.Inbox.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
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

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
