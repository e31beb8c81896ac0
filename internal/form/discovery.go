package form

import (
	"context"
	"log/slog"
)

// PrinterLister is the part of the bridge discovery needs.
type PrinterLister interface {
	ListPrinters(ctx context.Context) ([]string, error)
}

// Discover queries the available printers once. A failure is logged and
// otherwise ignored: the selection, the options and the status stay as they
// were. An empty result changes nothing either.
func Discover(ctx context.Context, lister PrinterLister, store *Store, log *slog.Logger) {
	printers, err := lister.ListPrinters(ctx)
	if err != nil {
		log.Warn("printer discovery failed", "err", err)
		return
	}
	if len(printers) == 0 {
		log.Info("no printers discovered", "selected", store.Printer())
		return
	}
	store.applyDiscovery(printers)
	log.Info("printers discovered", "count", len(printers), "selected", store.Printer())
}
