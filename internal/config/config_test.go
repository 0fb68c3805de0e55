package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-fortune/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalProdid", config.ICalProdid},
		{"DailyResetSchedule", config.DailyResetSchedule},
		{"ConnectivityIdeogram", config.ConnectivityIdeogram},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that the fortune rules keep their fixed values.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 8, config.DailyResetHour)
	assert.Equal(t, 200, config.MaxFortuneLength)
	assert.Equal(t, 5, config.MaxPreviousFortunes)
	assert.Equal(t, 5*time.Minute, config.ConnectivityExpiry)
	assert.True(t, strings.HasPrefix(config.DailyResetSchedule, "0 8 "), "Reset schedule must fire at 08:00")

	assert.GreaterOrEqual(t, config.DefaultTextTimeout, 5*time.Second)
	assert.LessOrEqual(t, config.DefaultTextTimeout, 10*time.Second)
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Fortune/"))
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvPort, "")

	s, err := config.LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "A missing settings file is not an error")

	assert.Equal(t, config.DefaultLanguage, s.Language)
	assert.Equal(t, config.DefaultModel, s.Oracle.Model)
	assert.Equal(t, config.DefaultTextTimeout, s.Oracle.Timeout)
	assert.Equal(t, config.DefaultPort, s.Server.Port)
	assert.True(t, s.Storage.Encrypt)
}

func TestLoadSettings_YAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `language: fr
oracle:
  model: local-model
  base_url: http://localhost:1234/v1
  timeout: 7s
storage:
  encrypt: false
server:
  port: "9000"
`
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))

	t.Setenv(config.EnvAPIKey, "sk-test")
	t.Setenv(config.EnvPort, "9100")

	s, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "fr", s.Language)
	assert.Equal(t, "local-model", s.Oracle.Model)
	assert.Equal(t, "http://localhost:1234/v1", s.Oracle.BaseURL)
	assert.Equal(t, 7*time.Second, s.Oracle.Timeout)
	assert.False(t, s.Storage.Encrypt)
	assert.Equal(t, "sk-test", s.Oracle.APIKey, "Environment must provide the API key")
	assert.Equal(t, "9100", s.Server.Port, "Environment overrides YAML")
}

func TestLoadSettings_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: [unterminated"), config.FilePermUserRW))

	_, err := config.LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSettingsLoad)
}
