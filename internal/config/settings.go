package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings holds the runtime configuration loaded from YAML and the environment.
type Settings struct {
	Language string         `yaml:"language"`
	Oracle   OracleSettings `yaml:"oracle"`
	Storage  StoreSettings  `yaml:"storage"`
	Server   ServerSettings `yaml:"server"`
}

// OracleSettings configures the OpenAI-compatible text generation endpoint.
type OracleSettings struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// StoreSettings configures persistence.
type StoreSettings struct {
	Path    string `yaml:"path"`
	Encrypt bool   `yaml:"encrypt"`
}

// ServerSettings configures the fortune publisher.
type ServerSettings struct {
	Port string `yaml:"port"`
}

// DefaultSettings returns the settings used when no file or environment overrides exist.
func DefaultSettings() Settings {
	return Settings{
		Language: DefaultLanguage,
		Oracle: OracleSettings{
			BaseURL: DefaultBaseURL,
			Model:   DefaultModel,
			Timeout: DefaultTextTimeout,
		},
		Storage: StoreSettings{Encrypt: true},
		Server:  ServerSettings{Port: DefaultPort},
	}
}

// LoadSettings reads the optional .env file, the optional YAML file at path,
// then applies FORTUNE_* environment overrides on top of the defaults.
// A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	// .env is a convenience for development; production uses the real environment.
	_ = godotenv.Load(EnvFileName)

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
		default:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("%s: %w", ErrSettingsLoad, err)
			}
		}
	}

	applyEnv(&s)
	return s, nil
}

func applyEnv(s *Settings) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		s.Oracle.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		s.Oracle.BaseURL = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		s.Oracle.Model = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			s.Oracle.Timeout = d
		}
	}
	if v := os.Getenv(EnvLanguage); v != "" {
		s.Language = strings.ToLower(v)
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		s.Storage.Path = v
	}
	if v := os.Getenv(EnvEncrypt); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.Storage.Encrypt = b
		}
	}
	if v := os.Getenv(EnvPort); v != "" {
		s.Server.Port = v
	}
}

// AppDir returns the per-user application directory, creating it with restricted permissions.
func AppDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, AppID)
	if err := os.MkdirAll(appDir, DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", ErrCreateDir, err)
	}
	return appDir, nil
}
