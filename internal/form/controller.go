package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

var ErrSlotCount = errors.New("wrong number of product slots")

// LabelPrinter is the part of the bridge submission needs.
type LabelPrinter interface {
	Print(ctx context.Context, cmd model.Command) (string, error)
}

// Recorder keeps a log of finished submissions.
type Recorder interface {
	Record(ctx context.Context, command model.CommandName, printer string, o model.Outcome) error
}

type Controller struct {
	store     *Store
	printer   LabelPrinter
	recorder  Recorder
	exclusive bool
	log       *slog.Logger
}

type Option func(*Controller)

// WithExclusiveSubmit refuses a submission while another one is
// outstanding instead of letting them overlap.
func WithExclusiveSubmit(on bool) Option {
	return func(c *Controller) { c.exclusive = on }
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

func NewController(store *Store, printer LabelPrinter, log *slog.Logger, opts ...Option) *Controller {
	c := &Controller{store: store, printer: printer, log: log}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Store() *Store { return c.store }

// Submit sends the current form as one print request and returns its
// outcome. The outcome reaches the store only if no later submission has
// started meanwhile. The error is non-nil only when the submission was not
// started at all.
func (c *Controller) Submit(ctx context.Context) (model.Outcome, error) {
	seq, snap, err := c.store.begin(c.exclusive)
	if err != nil {
		return model.Outcome{}, err
	}
	log := c.log.With("seq", seq, "printer", snap.Printer, "version", snap.Version)

	var outcome model.Outcome
	name := snap.Version.CommandName()
	cmd, err := BuildRequest(snap)
	if err != nil {
		outcome = failure(seq, err)
	} else {
		log.Info("submitting label", "command", name)
		text, err := c.printer.Print(ctx, cmd)
		if err != nil {
			outcome = failure(seq, err)
		} else {
			outcome = success(seq, text)
		}
	}

	outcome, current := c.store.complete(outcome)
	if !current {
		log.Info("discarding stale outcome", "state", outcome.State)
	}
	if outcome.Failed() {
		log.Warn("submission failed", "message", outcome.Message)
	}

	if c.recorder != nil {
		// recorded even when the caller has gone away
		if err := c.recorder.Record(context.WithoutCancel(ctx), name, snap.Printer, outcome); err != nil {
			log.Warn("failed to record submission", "err", err)
		}
	}
	return outcome, nil
}

// BuildRequest turns a snapshot into the request variant of its version.
// Fields are passed through untouched; the only check is that fixed-slot
// versions have exactly their number of products.
func BuildRequest(snap Snapshot) (model.Command, error) {
	if n := snap.Version.SlotCount(); n > 0 && len(snap.Products) != n {
		return nil, fmt.Errorf("%w: %s needs %d, form has %d", ErrSlotCount, snap.Version, n, len(snap.Products))
	}

	p := snap.Products
	switch snap.Version {
	case model.ProtocolTwoSlot:
		return model.PrintTwoProductLabelRequest{
			Printer:   snap.Printer,
			P1Name:    p[0].Name,
			P1Price:   p[0].Price,
			P1Barcode: p[0].Barcode,
			P2Name:    p[1].Name,
			P2Price:   p[1].Price,
			P2Barcode: p[1].Barcode,
		}, nil

	case model.ProtocolFourSlot:
		return model.PrintFourProductLabelRequest{
			Printer:   snap.Printer,
			P1Name:    p[0].Name,
			P1Price:   p[0].Price,
			P1Barcode: p[0].Barcode,
			P2Name:    p[1].Name,
			P2Price:   p[1].Price,
			P2Barcode: p[1].Barcode,
			P3Name:    p[2].Name,
			P3Price:   p[2].Price,
			P3Barcode: p[2].Barcode,
			P4Name:    p[3].Name,
			P4Price:   p[3].Price,
			P4Barcode: p[3].Barcode,
		}, nil

	case model.ProtocolProducts:
		return model.PrintLabelRequest{
			Printer:  snap.Printer,
			Title:    snap.Title,
			Products: p,
		}, nil
	}
	return nil, fmt.Errorf("unknown protocol version %q", snap.Version)
}

func success(seq uint64, text string) model.Outcome {
	msg := "Printed successfully"
	if text != "" {
		msg += ": " + text
	}
	return model.Outcome{Seq: seq, State: model.StateSuccess, Message: msg}
}

func failure(seq uint64, err error) model.Outcome {
	return model.Outcome{Seq: seq, State: model.StateFailure, Message: "Print failed: " + err.Error()}
}
