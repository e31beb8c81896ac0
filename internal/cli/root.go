// Package cli holds the command line of the label printing tool.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/logging"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/utils"
)

// app is what every subcommand gets once the root has loaded the config.
type app struct {
	cfg model.Config
	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	var (
		configFile string
		a          app
	)

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Product label printing for Perfect Menu stores",
		Long: `Labels renders product labels (name, price, barcode) and prints them on
network label printers.

The print host renders each label with headless Chrome and sends it to the
printer on its raw port. The form side keeps the label being edited and
submits it to the host, either in-process or over WebSocket.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := utils.LoadOrInitConfig(configFile)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			a.cfg = cfg
			a.log = logging.New(cfg.LogLevel, os.Stderr)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", utils.DefaultConfigFile, "Path to the YAML config file")

	cmd.AddCommand(
		newServeCmd(&a),
		newPrintCmd(&a),
		newSampleCmd(&a),
		newPrintersCmd(&a),
		newScanCmd(&a),
		newGreetCmd(&a),
		newHistoryCmd(&a),
		newDoctorCmd(&a),
	)

	return cmd
}
