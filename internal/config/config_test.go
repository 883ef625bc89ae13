package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WODPLUS_CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ModeStdio, cfg.Transport.Mode)
	require.Equal(t, "wodplus.db", cfg.DB.Path)
	require.Equal(t, 60, cfg.Reminder.LeadMinutes)
	require.Equal(t, 60*time.Second, cfg.Fetch.Timeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wodplus.yaml")
	yamlConfig := `
server:
  port: 9090
transport:
  mode: http
db:
  path: /tmp/file.db
fetch:
  command: ["python3", "scraper.py"]
  timeout: 45s
reminder:
  lead_minutes: 30
  timezone: Europe/Madrid
`
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o600))
	t.Setenv("WODPLUS_DB_PATH", "/tmp/env.db")
	t.Setenv("WODPLUS_NOTIFY_COMMAND", "notify-send -u critical")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, ModeHTTP, cfg.Transport.Mode)
	require.Equal(t, "/tmp/env.db", cfg.DB.Path)
	require.Equal(t, []string{"python3", "scraper.py"}, cfg.Fetch.Command)
	require.Equal(t, 45*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, []string{"notify-send", "-u", "critical"}, cfg.Notify.Command)
	require.Equal(t, 30, cfg.Reminder.LeadMinutes)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "Europe/Madrid", loc.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("WODPLUS_SERVER_PORT", "eighty")
	_, err := Load("")
	require.ErrorContains(t, err, "WODPLUS_SERVER_PORT")

	t.Setenv("WODPLUS_SERVER_PORT", "")
	t.Setenv("WODPLUS_TRANSPORT_MODE", "carrier-pigeon")
	_, err = Load("")
	require.ErrorContains(t, err, "transport mode")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config file")
}
