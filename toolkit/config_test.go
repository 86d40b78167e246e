package toolkit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	v := NewViper()
	v.Set(KeyPassword, "pw")

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultEmail, cfg.Email)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.False(t, cfg.Cleanup)
	assert.Empty(t, cfg.ReportPath)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("ADMINCHECK_BASE_URL", "http://localhost:3000")
	t.Setenv("ADMINCHECK_PASSWORD", "from-env")
	t.Setenv("ADMINCHECK_TIMEOUT", "5s")
	t.Setenv("ADMINCHECK_CLEANUP", "true")

	cfg, err := LoadConfig(NewViper())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, "from-env", cfg.Password)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Cleanup)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr string
	}{
		{name: "missing password", set: map[string]any{}, wantErr: "password is empty"},
		{name: "relative url", set: map[string]any{KeyPassword: "x", KeyBaseURL: "example.com"}, wantErr: "absolute URL"},
		{name: "empty url", set: map[string]any{KeyPassword: "x", KeyBaseURL: " "}, wantErr: "base url is empty"},
		{name: "zero timeout", set: map[string]any{KeyPassword: "x", KeyTimeout: "0s"}, wantErr: "timeout must be positive"},
		{name: "empty email", set: map[string]any{KeyPassword: "x", KeyEmail: ""}, wantErr: "email is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := LoadConfig(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMINCHECK_TEST_ONLY_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ADMINCHECK_TEST_ONLY_KEY") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("ADMINCHECK_TEST_ONLY_KEY"))
}

func TestLoadEnvFile_MissingIsIgnored(t *testing.T) {
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
	require.NoError(t, LoadEnvFile(""))
}
