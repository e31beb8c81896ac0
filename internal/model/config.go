package model

import "time"

// --- Configuration Structures ---

type Config struct {
	ListenAddr         string          `yaml:"listen_addr"`
	APIKey             string          `yaml:"api_key"`
	BridgeURL          string          `yaml:"bridge_url"` // empty: in-process host
	DefaultPrinter     string          `yaml:"default_printer"`
	ProtocolVersion    ProtocolVersion `yaml:"protocol_version"`
	RejectWhilePending bool            `yaml:"reject_while_pending"`
	PrintersFile       string          `yaml:"printers_file"`
	JournalPath        string          `yaml:"journal_path"`
	TemplatePath       string          `yaml:"template_path"` // empty: embedded label template
	CORSOrigins        []string        `yaml:"cors_origins"`
	LogLevel           string          `yaml:"log_level"`
	Render             RenderConfig    `yaml:"render"`
	Discovery          DiscoveryConfig `yaml:"discovery"`
}

type RenderConfig struct {
	ChromePath string        `yaml:"chrome_path"`
	Settle     time.Duration `yaml:"settle"`
}

type DiscoveryConfig struct {
	Port         int           `yaml:"port"`
	Workers      int           `yaml:"workers"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

// DefaultPrinterSize is the raster width in dots used when a printer entry
// does not carry one.
const DefaultPrinterSize = 576

type Printer struct {
	Name        string `json:"name"`
	IP          string `json:"ip"`
	Port        int    `json:"port"`
	Description string `json:"description"`
	IsEnabled   bool   `json:"isEnabled"`
	Size        int    `json:"size,omitempty"` // raster width in dots
}

func (p Printer) Addr() string {
	port := p.Port
	if port == 0 {
		port = 9100
	}
	return joinHostPort(p.IP, port)
}
