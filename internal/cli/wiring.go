package cli

import (
	"context"
	"fmt"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/bridge"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/form"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/host"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/journal"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/services"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/utils"
)

// newHost builds the print host from the printer registry and the label
// template. Chrome is only started when a label is rendered.
func (a *app) newHost() (*host.Dispatcher, *host.Executor, error) {
	printers, err := utils.LoadPrinters(a.cfg.PrintersFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load printers: %w", err)
	}
	tmpl, err := services.LoadLabelTemplate(a.cfg.TemplatePath)
	if err != nil {
		return nil, nil, err
	}

	renderer := &services.ChromeRenderer{
		Template:   tmpl,
		ChromePath: a.cfg.Render.ChromePath,
		Settle:     a.cfg.Render.Settle,
	}
	sender := &services.TCPSender{Log: a.log}

	exec := host.NewExecutor(printers, a.cfg.DefaultPrinter, renderer, sender, a.log)
	d := host.NewDispatcher()
	exec.Register(d)
	a.log.Debug("print host ready", "printers", len(printers), "commands", len(d.Commands()))
	return d, exec, nil
}

// connect returns a bridge client to the configured print host: the remote
// one when bridge_url is set, an in-process one otherwise. The returned
// close func is never nil.
func (a *app) connect(ctx context.Context) (*bridge.Client, func() error, error) {
	if a.cfg.BridgeURL != "" {
		ws, err := bridge.Dial(ctx, a.cfg.BridgeURL, a.cfg.APIKey, a.log)
		if err != nil {
			return nil, nil, err
		}
		return bridge.NewClient(ws), ws.Close, nil
	}

	d, _, err := a.newHost()
	if err != nil {
		return nil, nil, err
	}
	return bridge.NewClient(d), func() error { return nil }, nil
}

// openJournal opens the configured journal. Both results are nil when the
// journal is disabled.
func (a *app) openJournal() (*journal.Journal, error) {
	if a.cfg.JournalPath == "" {
		return nil, nil
	}
	j, err := journal.Open(a.cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

func (a *app) newController(client *bridge.Client, j *journal.Journal) *form.Controller {
	store := form.NewStore(a.cfg.ProtocolVersion, a.cfg.DefaultPrinter)
	opts := []form.Option{form.WithExclusiveSubmit(a.cfg.RejectWhilePending)}
	if j != nil {
		opts = append(opts, form.WithRecorder(j))
	}
	return form.NewController(store, client, a.log, opts...)
}
