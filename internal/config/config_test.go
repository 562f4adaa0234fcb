package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "API_KEY", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL", "SESSION_TTL"} {
		t.Setenv(k, "")
	}
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, "development", c.Env)
	assert.Equal(t, ":8088", c.HTTPAddr)
	assert.Equal(t, "gemini-2.5-flash", c.GeminiModel)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Empty(t, c.APIKey)
}

func TestParse_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sleepscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: staging\nhttp_addr: \":9000\"\ngemini_model: gemini-x\nsession_ttl: 5m\n"), 0o644))
	t.Setenv("HTTP_ADDR", ":9100")
	t.Setenv("GEMINI_API_KEY", "secret")

	c, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", c.Env)
	assert.Equal(t, ":9100", c.HTTPAddr)
	assert.Equal(t, "gemini-x", c.GeminiModel)
	assert.Equal(t, 5*time.Minute, c.SessionTTL)
	assert.Equal(t, "secret", c.APIKey)
}

func TestParse_APIKeyPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "primary")
	t.Setenv("GEMINI_API_KEY", "secondary")
	c, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, "primary", c.APIKey)
}

func TestParse_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "qa")
	_, err := Parse("")
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("SESSION_TTL", "soon")
	_, err = Parse("")
	assert.Error(t, err)

	clearEnv(t)
	_, err = Parse(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
