package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/services"
)

var ErrPrinterNotFound = errors.New("printer not found")

// SampleLabel is printed by print_sample_label.
var SampleLabel = model.Label{
	Title: "أسواق ابوعمر",
	Products: []model.ProductEntry{
		{Name: "عصير برتقال", Price: "5.00", Barcode: "622300123456"},
		{Name: "مياه معدنية", Price: "3.50", Barcode: "622300654321"},
	},
}

// Executor owns the printer registry and turns labels into print jobs.
type Executor struct {
	renderer       services.Renderer
	sender         services.Sender
	defaultPrinter string
	log            *slog.Logger

	mu       sync.RWMutex
	printers []model.Printer
}

func NewExecutor(printers []model.Printer, defaultPrinter string, renderer services.Renderer, sender services.Sender, log *slog.Logger) *Executor {
	e := &Executor{
		renderer:       renderer,
		sender:         sender,
		defaultPrinter: defaultPrinter,
		log:            log,
	}
	e.SetPrinters(printers)
	return e
}

// SetPrinters replaces the printer registry.
func (e *Executor) SetPrinters(printers []model.Printer) {
	cp := make([]model.Printer, len(printers))
	copy(cp, printers)
	e.mu.Lock()
	e.printers = cp
	e.mu.Unlock()
}

// PrinterNames lists the enabled printers in registry order.
func (e *Executor) PrinterNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.printers))
	for _, p := range e.printers {
		if p.IsEnabled {
			names = append(names, p.Name)
		}
	}
	return names
}

func (e *Executor) lookup(name string) (model.Printer, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, p := range e.printers {
		if p.Name == name && p.IsEnabled {
			return p, nil
		}
	}
	return model.Printer{}, fmt.Errorf("printer %q: %w", name, ErrPrinterNotFound)
}

// Print renders label and sends it to the printer it names.
func (e *Executor) Print(ctx context.Context, label model.Label) (string, error) {
	p, err := e.lookup(label.Printer)
	if err != nil {
		return "", err
	}
	log := e.log.With("printer", p.Name)

	width := p.Size
	if width == 0 {
		width = model.DefaultPrinterSize
	}

	log.Info("rendering label", "products", len(label.Products), "width", width)
	img, err := e.renderer.Render(ctx, label, width)
	if err != nil {
		log.Error("failed to render label", "err", err)
		return "", fmt.Errorf("render label: %w", err)
	}

	job := services.EncodeRaster(img, width)
	if err := e.sender.Send(ctx, p, job); err != nil {
		log.Error("failed to send to printer", "err", err)
		return "", err
	}

	log.Info("label sent successfully", "bytes", len(job))
	return fmt.Sprintf("printed %d product(s) on %s", len(label.Products), p.Name), nil
}

// Register installs the default command set on d.
func (e *Executor) Register(d *Dispatcher) {
	d.Register(model.CommandGreet, func(ctx context.Context, payload json.RawMessage) (any, error) {
		req, err := decode[model.GreetRequest](model.CommandGreet, payload)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("Hello, %s! You've been greeted from Go!", req.Name), nil
	})

	d.Register(model.CommandListPrinters, func(ctx context.Context, payload json.RawMessage) (any, error) {
		return e.PrinterNames(), nil
	})

	d.Register(model.CommandPrintLabel, printHandler[model.PrintLabelRequest](e, model.CommandPrintLabel))
	d.Register(model.CommandPrintTwoProductLabel, printHandler[model.PrintTwoProductLabelRequest](e, model.CommandPrintTwoProductLabel))
	d.Register(model.CommandPrintFourProductLabel, printHandler[model.PrintFourProductLabelRequest](e, model.CommandPrintFourProductLabel))

	d.Register(model.CommandPrintSampleLabel, func(ctx context.Context, payload json.RawMessage) (any, error) {
		label := SampleLabel
		label.Printer = e.defaultPrinter
		return e.Print(ctx, label)
	})
}

func printHandler[T model.PrintCommand](e *Executor, name model.CommandName) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		req, err := decode[T](name, payload)
		if err != nil {
			return nil, err
		}
		return e.Print(ctx, req.Label())
	}
}
