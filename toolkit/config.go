package toolkit

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL = "https://adminpanel-dev-1.preview.emergentagent.com"
	DefaultEmail   = "admin@storybox.bg"
	DefaultTimeout = 30 * time.Second

	EnvPrefix = "ADMINCHECK"
)

// Config keys, shared by flags, environment (ADMINCHECK_*) and .env files.
const (
	KeyBaseURL  = "base-url"
	KeyEmail    = "email"
	KeyPassword = "password"
	KeyTimeout  = "timeout"
	KeyReport   = "report"
	KeyXLSX     = "xlsx"
	KeyCleanup  = "cleanup"
	KeyLogLevel = "log-level"
	KeyEnvFile  = "env-file"
)

// NewViper returns a viper instance with defaults and ADMINCHECK_* env
// binding. Flags are bound on top of it by the cli package.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyEmail, DefaultEmail)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyEnvFile, ".env")
	return v
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("config.env_file: not found", "path", path)
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	slog.Debug("config.env_file: loaded", "path", path)
	return nil
}

// LoadConfig reads and validates the checker configuration from v.
func LoadConfig(v *viper.Viper) (CheckerConfig, error) {
	cfg := CheckerConfig{
		BaseURL:    strings.TrimSpace(v.GetString(KeyBaseURL)),
		Email:      strings.TrimSpace(v.GetString(KeyEmail)),
		Password:   v.GetString(KeyPassword),
		Timeout:    v.GetDuration(KeyTimeout),
		ReportPath: strings.TrimSpace(v.GetString(KeyReport)),
		XLSXPath:   strings.TrimSpace(v.GetString(KeyXLSX)),
		Cleanup:    v.GetBool(KeyCleanup),
	}
	if err := cfg.Validate(); err != nil {
		return CheckerConfig{}, err
	}
	return cfg, nil
}

func (c CheckerConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url is empty")
	}
	if !isAbsoluteURL(c.BaseURL) {
		return fmt.Errorf("base url must be an absolute URL, got=%q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got=%s", c.Timeout)
	}
	if c.Email == "" {
		return fmt.Errorf("email is empty")
	}
	if c.Password == "" {
		return fmt.Errorf("password is empty (set --password or %s_PASSWORD)", EnvPrefix)
	}
	return nil
}
