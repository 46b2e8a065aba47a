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
	for _, k := range []string{"CHAT_SERVER_URL", "CHAT_WS_URL", "CHAT_REQUEST_TIMEOUT", "CHAT_TYPING_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, "ws://localhost:3000/ws", cfg.WSURL)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultTypingTimeout, cfg.TypingTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHAT_SERVER_URL", "https://chat.example.com/api/")
	t.Setenv("CHAT_REQUEST_TIMEOUT", "2s")
	t.Setenv("CHAT_TYPING_TIMEOUT", "500ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com/api", cfg.ServerURL)
	assert.Equal(t, "wss://chat.example.com/api/ws", cfg.WSURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.TypingTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestExplicitWSURLWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHAT_WS_URL", "ws://other:9000/socket")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "ws://other:9000/socket", cfg.WSURL)
}

func TestInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHAT_REQUEST_TIMEOUT", "soon")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "CHAT_REQUEST_TIMEOUT")

	clearEnv(t)
	t.Setenv("CHAT_SERVER_URL", "ftp://host")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "scheme")
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that exist, even empty ones
	os.Unsetenv("CHAT_SERVER_URL")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHAT_SERVER_URL=http://from-file:8080\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:8080", cfg.ServerURL)
	assert.Equal(t, "ws://from-file:8080/ws", cfg.WSURL)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
