package services

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/utils"
)

// --- Discovery Logic ---

// ScanOptions controls a subnet scan for raw-print ports.
type ScanOptions struct {
	Port         int
	Workers      int
	ProbeTimeout time.Duration
	Log          *slog.Logger
}

// Subnet24 returns the first three octets of an IPv4 address.
func Subnet24(ip string) (string, error) {
	parsed := net.ParseIP(ip).To4()
	if parsed == nil {
		return "", fmt.Errorf("not an IPv4 address: %q", ip)
	}
	parts := strings.Split(parsed.String(), ".")
	return strings.Join(parts[:3], "."), nil
}

// ScanSubnet probes subnet.1 to subnet.254 and returns the addresses that
// accept connections on opts.Port, sorted.
func ScanSubnet(ctx context.Context, subnet string, opts ScanOptions) []string {
	hosts := make([]string, 0, 254)
	for i := 1; i <= 254; i++ {
		hosts = append(hosts, fmt.Sprintf("%s.%d", subnet, i))
	}
	return ScanHosts(ctx, hosts, opts)
}

// ScanHosts probes each host with a pool of opts.Workers goroutines.
func ScanHosts(ctx context.Context, hosts []string, opts ScanOptions) []string {
	workers := opts.Workers
	if workers <= 0 {
		workers = 50
	}
	if opts.Log != nil {
		opts.Log.Info("scanning for printers", "hosts", len(hosts), "port", opts.Port)
	}

	ipChan := make(chan string)
	foundChan := make(chan string, len(hosts))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ip := range ipChan {
				if utils.Probe(ctx, ip, opts.Port, opts.ProbeTimeout) {
					foundChan <- ip
				}
			}
		}()
	}

feed:
	for _, ip := range hosts {
		select {
		case ipChan <- ip:
		case <-ctx.Done():
			break feed
		}
	}
	close(ipChan)
	wg.Wait()
	close(foundChan)

	var found []string
	for ip := range foundChan {
		found = append(found, ip)
	}
	sort.Slice(found, func(i, j int) bool {
		return ipLess(found[i], found[j])
	})
	return found
}

// PrintersFromScan turns scan hits into enabled registry entries named after
// their address.
func PrintersFromScan(ips []string, port int) []model.Printer {
	printers := make([]model.Printer, 0, len(ips))
	for _, ip := range ips {
		printers = append(printers, model.Printer{
			Name:        "printer-" + ip,
			IP:          ip,
			Port:        port,
			Description: "discovered on port " + fmt.Sprint(port),
			IsEnabled:   true,
			Size:        model.DefaultPrinterSize,
		})
	}
	return printers
}

func ipLess(a, b string) bool {
	ia, ib := net.ParseIP(a).To4(), net.ParseIP(b).To4()
	if ia == nil || ib == nil {
		return a < b
	}
	for k := range ia {
		if ia[k] != ib[k] {
			return ia[k] < ib[k]
		}
	}
	return false
}
