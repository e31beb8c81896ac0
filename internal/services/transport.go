package services

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

// Sender delivers a finished print job to a printer.
type Sender interface {
	Send(ctx context.Context, p model.Printer, job []byte) error
}

// TCPSender writes raw jobs to a printer's port (9100 by default).
type TCPSender struct {
	DialTimeout time.Duration
	// Settle is how long the connection stays open after the write so the
	// printer can drain its buffer.
	Settle time.Duration
	Log    *slog.Logger
}

func (s *TCPSender) Send(ctx context.Context, p model.Printer, job []byte) error {
	timeout := s.DialTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if s.Log != nil {
		s.Log.Info("sending print job", "printer", p.Name, "bytes", len(job), "addr", p.Addr())
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", p.Addr())
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
	}
	if _, err := conn.Write(job); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	if s.Settle > 0 {
		select {
		case <-time.After(s.Settle):
		case <-ctx.Done():
		}
	}
	return nil
}
