package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/api"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/bridge"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/form"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/host"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the print host and the label form API",
		Long: `Starts the print host WebSocket endpoint on /agent and the label form
API under /api.

Without bridge_url the form submits to the print host in this process.
With bridge_url set it submits to the remote host instead, while /agent
still serves the local printers.`,
		Example: `  # Serve on the configured address
  labels serve

  # Serve on a custom address
  labels serve --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.ListenAddr
			}

			d, _, err := a.newHost()
			if err != nil {
				return err
			}

			client := bridge.NewClient(d)
			closeBridge := func() error { return nil }
			if a.cfg.BridgeURL != "" {
				ws, err := bridge.Dial(cmd.Context(), a.cfg.BridgeURL, a.cfg.APIKey, a.log)
				if err != nil {
					return err
				}
				client, closeBridge = bridge.NewClient(ws), ws.Close
			}
			defer closeBridge()

			j, err := a.openJournal()
			if err != nil {
				return err
			}
			if j != nil {
				defer j.Close()
			}

			ctrl := a.newController(client, j)
			form.Discover(cmd.Context(), client, ctrl.Store(), a.log)

			var history api.History
			if j != nil {
				history = j
			}
			gin.SetMode(gin.ReleaseMode)
			engine := api.NewEngine(api.NewHandler(ctrl, client, history, a.log), a.cfg.CORSOrigins)
			engine.GET("/agent", gin.WrapH(host.NewServer(d, a.cfg.APIKey, a.log)))

			server := &http.Server{
				Addr:    addr,
				Handler: engine,
			}

			serverErr := make(chan error, 1)
			go func() {
				a.log.Info("label server listening", "addr", addr, "agent", "/agent", "api", "/api")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				a.log.Info("shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					a.log.Error("server shutdown failed", "err", err)
					return err
				}
				a.log.Info("server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")

	return cmd
}
