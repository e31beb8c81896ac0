package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

func TestLoadOrInitConfig_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.yaml")

	c, err := LoadOrInitConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, c.ListenAddr)
	assert.Equal(t, "Zebra LP2824", c.DefaultPrinter)
	assert.Equal(t, model.ProtocolTwoSlot, c.ProtocolVersion)
	assert.Equal(t, 300*time.Millisecond, c.Render.Settle)
	assert.Equal(t, 9100, c.Discovery.Port)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config must be written")

	again, err := LoadOrInitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestLoadOrInitConfig_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
listen_addr: ":9000"
default_printer: "Kitchen"
protocol_version: "products"
reject_while_pending: true
render:
  settle: 1s
discovery:
  workers: 8
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	c, err := LoadOrInitConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.ListenAddr)
	assert.Equal(t, "Kitchen", c.DefaultPrinter)
	assert.Equal(t, model.ProtocolProducts, c.ProtocolVersion)
	assert.True(t, c.RejectWhilePending)
	assert.Equal(t, time.Second, c.Render.Settle)
	assert.Equal(t, 8, c.Discovery.Workers)
	assert.Equal(t, 9100, c.Discovery.Port, "unset fields keep defaults")
}

func TestLoadOrInitConfig_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("LABELS_DEFAULT_PRINTER", "Front Desk")
	t.Setenv("LABELS_PROTOCOL_VERSION", "four-slot")
	t.Setenv("LABELS_API_KEY", "secret")

	c, err := LoadOrInitConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Front Desk", c.DefaultPrinter)
	assert.Equal(t, model.ProtocolFourSlot, c.ProtocolVersion)
	assert.Equal(t, "secret", c.APIKey)
}

func TestLoadOrInitConfig_RejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`protocol_version: "v9"`), 0644))

	_, err := LoadOrInitConfig(path)
	assert.Error(t, err)
}
