package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

// --- Utility Functions ---

func DetectLocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String(), nil
		}
	}
	return "", fmt.Errorf("no local IPv4 address found")
}

// Probe reports whether something accepts TCP connections on ip:port.
func Probe(ctx context.Context, ip string, port int, timeout time.Duration) bool {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(ip, fmt.Sprint(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// --- Printer Registry File ---

func LoadPrinters(printersFile string) ([]model.Printer, error) {
	data, err := os.ReadFile(printersFile)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Printer{}, nil
	}
	if err != nil {
		return nil, err
	}
	var printers []model.Printer
	if err := json.Unmarshal(data, &printers); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", printersFile, err)
	}
	for i := range printers {
		if printers[i].Size == 0 {
			printers[i].Size = model.DefaultPrinterSize
		}
	}
	return printers, nil
}

// SavePrinters merges printers into the registry file. Entries are keyed by
// IP; an IP already present keeps its stored entry.
func SavePrinters(printersFile string, printers []model.Printer) error {
	configDir := filepath.Dir(printersFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	existingPrinters, err := LoadPrinters(printersFile)
	if err != nil {
		return fmt.Errorf("failed to read existing printers file: %w", err)
	}

	existingPrintersMap := make(map[string]struct{}, len(existingPrinters))
	for _, printer := range existingPrinters {
		existingPrintersMap[printer.IP] = struct{}{}
	}

	for _, printer := range printers {
		if _, exists := existingPrintersMap[printer.IP]; exists {
			continue
		}
		if printer.Size == 0 {
			printer.Size = model.DefaultPrinterSize
		}
		existingPrintersMap[printer.IP] = struct{}{}
		existingPrinters = append(existingPrinters, printer)
	}

	data, err := json.MarshalIndent(existingPrinters, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(printersFile, data, 0644)
}
