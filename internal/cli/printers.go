package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/services"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/utils"
)

func newPrintersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "printers",
		Short: "List the printers the print host offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeBridge, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBridge()

			names, err := client.ListPrinters(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no printers configured")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newScanCmd(a *app) *cobra.Command {
	var subnet string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find printers on the local network and add them to the registry",
		Long: `Probes every address of a /24 subnet on the raw print port and adds the
hosts that answer to the printer registry. Printers already registered
(same IP) are kept as they are.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if subnet == "" {
				localIP, err := utils.DetectLocalIP()
				if err != nil {
					return fmt.Errorf("could not detect local IP: %w", err)
				}
				if subnet, err = services.Subnet24(localIP); err != nil {
					return err
				}
			}

			opts := services.ScanOptions{
				Port:         a.cfg.Discovery.Port,
				Workers:      a.cfg.Discovery.Workers,
				ProbeTimeout: a.cfg.Discovery.ProbeTimeout,
				Log:          a.log,
			}
			found := services.ScanSubnet(cmd.Context(), subnet, opts)
			if len(found) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no printers found on %s.0/24\n", subnet)
				return nil
			}

			printers := services.PrintersFromScan(found, a.cfg.Discovery.Port)
			if err := utils.SavePrinters(a.cfg.PrintersFile, printers); err != nil {
				return err
			}
			for _, p := range printers {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.Name, p.Addr())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&subnet, "subnet", "", "First three octets to scan, e.g. 192.168.1 (default: local subnet)")

	return cmd
}
