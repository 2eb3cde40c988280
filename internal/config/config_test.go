package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "bot_panel.log", cfg.LogFile)
	assert.NotEmpty(t, cfg.SessionPath, "путь сессии выводится из каталога конфигурации")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("BOTPANEL_API_URL", "https://bots.example.com")
	t.Setenv("BOTPANEL_REFRESH_INTERVAL", "10s")
	t.Setenv("BOTPANEL_SESSION_PATH", "/tmp/custom-session.db")
	t.Setenv("BOTPANEL_LOG_FILE", "/tmp/custom-panel.log")

	cfg, err := Load(testLogger())
	require.NoError(t, err)

	assert.Equal(t, "https://bots.example.com", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "/tmp/custom-session.db", cfg.SessionPath)
	assert.Equal(t, "/tmp/custom-panel.log", cfg.LogFile)
}
