package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

const (
	DefaultConfigFile    = "config/config.yaml"
	DefaultPrinterName   = "Zebra LP2824"
	DefaultListenAddr    = ":8765"
	DefaultPrintersFile  = "config/printers.json"
	DefaultJournalPath   = "data/journal.db"
	defaultRenderSettle  = 300 * time.Millisecond
	defaultProbeTimeout  = 300 * time.Millisecond
	defaultDiscoveryPort = 9100
	defaultScanWorkers   = 50
	envPrefix            = "LABELS_"
)

// DefaultConfig returns the configuration used when no file exists yet.
func DefaultConfig() model.Config {
	return model.Config{
		ListenAddr:      DefaultListenAddr,
		DefaultPrinter:  DefaultPrinterName,
		ProtocolVersion: model.ProtocolTwoSlot,
		PrintersFile:    DefaultPrintersFile,
		JournalPath:     DefaultJournalPath,
		CORSOrigins:     []string{"http://localhost:1420"},
		LogLevel:        "info",
		Render: model.RenderConfig{
			Settle: defaultRenderSettle,
		},
		Discovery: model.DiscoveryConfig{
			Port:         defaultDiscoveryPort,
			Workers:      defaultScanWorkers,
			ProbeTimeout: defaultProbeTimeout,
		},
	}
}

// LoadOrInitConfig reads the YAML config at path. A missing file is created
// with the defaults. Environment overrides are applied last.
func LoadOrInitConfig(path string) (model.Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return config, fmt.Errorf("failed to create config directory: %w", err)
		}
		out, err := yaml.Marshal(config)
		if err != nil {
			return config, err
		}
		if err := os.WriteFile(path, out, 0644); err != nil {
			return config, fmt.Errorf("failed to write default config: %w", err)
		}
	case err != nil:
		return config, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnv(&config)
	fillDefaults(&config)

	if !config.ProtocolVersion.Valid() {
		return config, fmt.Errorf("invalid protocol_version %q", config.ProtocolVersion)
	}
	return config, nil
}

func applyEnv(config *model.Config) {
	overrides := map[string]*string{
		"LISTEN_ADDR":     &config.ListenAddr,
		"API_KEY":         &config.APIKey,
		"BRIDGE_URL":      &config.BridgeURL,
		"DEFAULT_PRINTER": &config.DefaultPrinter,
		"PRINTERS_FILE":   &config.PrintersFile,
		"JOURNAL_PATH":    &config.JournalPath,
		"TEMPLATE_PATH":   &config.TemplatePath,
		"LOG_LEVEL":       &config.LogLevel,
		"CHROME_PATH":     &config.Render.ChromePath,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*field = v
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "PROTOCOL_VERSION"); ok {
		config.ProtocolVersion = model.ProtocolVersion(v)
	}
}

func fillDefaults(config *model.Config) {
	d := DefaultConfig()
	if config.ListenAddr == "" {
		config.ListenAddr = d.ListenAddr
	}
	if config.ProtocolVersion == "" {
		config.ProtocolVersion = d.ProtocolVersion
	}
	if config.PrintersFile == "" {
		config.PrintersFile = d.PrintersFile
	}
	if config.Render.Settle <= 0 {
		config.Render.Settle = d.Render.Settle
	}
	if config.Discovery.Port == 0 {
		config.Discovery.Port = d.Discovery.Port
	}
	if config.Discovery.Workers <= 0 {
		config.Discovery.Workers = d.Discovery.Workers
	}
	if config.Discovery.ProbeTimeout <= 0 {
		config.Discovery.ProbeTimeout = d.Discovery.ProbeTimeout
	}
}
