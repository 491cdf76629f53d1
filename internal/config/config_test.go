package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{BasePath: "/some/path"},
		Fetch:   FetchConfig{MinSectionText: 21},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		cfg := validConfig()
		cfg.Logger.Level = level
		assert.NoError(t, cfg.Validate(), "level %s should be valid", level)
	}

	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_MinSectionText(t *testing.T) {
	cfg := validConfig()
	cfg.Fetch.MinSectionText = 0
	assert.Error(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books"), got)

	got, err = expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", got)

	got, err = expandPath("/already/absolute", "")
	require.NoError(t, err)
	assert.Equal(t, "/already/absolute", got)
}

func TestDerivedPaths(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, filepath.Join("/some/path", "books"), cfg.BooksPath())
	assert.Equal(t, filepath.Join("/some/path", "tmp"), cfg.StagingPath())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nHEP_TEST_KEY=from_file\nHEP_TEST_QUOTED=\"quoted\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0644))
	t.Cleanup(func() {
		os.Unsetenv("HEP_TEST_KEY")
		os.Unsetenv("HEP_TEST_QUOTED")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from_file", os.Getenv("HEP_TEST_KEY"))
	assert.Equal(t, "quoted", os.Getenv("HEP_TEST_QUOTED"))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("HEP_PRECEDENCE_TEST", "from_env")

	assert.Equal(t, "from_flag", getConfigValue("from_flag", "HEP_PRECEDENCE_TEST", "default"))
	assert.Equal(t, "from_env", getConfigValue("", "HEP_PRECEDENCE_TEST", "default"))
	assert.Equal(t, "default", getConfigValue("", "HEP_PRECEDENCE_MISSING", "default"))
}
