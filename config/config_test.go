package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vlanman.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 22, cfg.Device.Port)
	assert.Equal(t, 30*time.Second, cfg.Device.Timeout)
	assert.Equal(t, 24, cfg.Vlan.DefaultExpiryHours)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vlanman.yaml")
	body := `
server:
  http_port: "9090"
device:
  host: 192.0.2.10
  timeout: 10s
vlan:
  default_expiry_hours: 48
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.HTTPPort)
	assert.Equal(t, "192.0.2.10", cfg.Device.Host)
	assert.Equal(t, 10*time.Second, cfg.Device.Timeout)
	assert.Equal(t, 48, cfg.Vlan.DefaultExpiryHours)
	// untouched sections keep defaults
	assert.Equal(t, "admin", cfg.Device.Username)
}
