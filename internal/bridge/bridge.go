// Package bridge is the form side's only way to reach the print host. An
// Invoker carries one named command and its payload to an executor and
// returns the executor's raw result; Client layers the typed commands on top.
//
// The bridge performs no schema validation and never retries. A mismatch
// between the payload shape and what the executor implements surfaces only as
// the executor's error.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

// Invoker performs exactly one external call per Invoke.
type Invoker interface {
	Invoke(ctx context.Context, name model.CommandName, payload any) (json.RawMessage, error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, name model.CommandName, payload any) (json.RawMessage, error)

func (f InvokerFunc) Invoke(ctx context.Context, name model.CommandName, payload any) (json.RawMessage, error) {
	return f(ctx, name, payload)
}

var ErrClosed = errors.New("bridge closed")

// CommandError is an executor-side rejection. Its text is the executor's
// message verbatim.
type CommandError struct {
	Command model.CommandName
	Message string
}

func (e *CommandError) Error() string { return e.Message }

type Client struct {
	inv Invoker
}

func NewClient(inv Invoker) *Client {
	return &Client{inv: inv}
}

// Send invokes cmd under its own command name.
func (c *Client) Send(ctx context.Context, cmd model.Command) (json.RawMessage, error) {
	return c.inv.Invoke(ctx, cmd.CommandName(), cmd)
}

func (c *Client) Greet(ctx context.Context, name string) (string, error) {
	raw, err := c.Send(ctx, model.GreetRequest{Name: name})
	if err != nil {
		return "", err
	}
	return decodeText(model.CommandGreet, raw)
}

func (c *Client) ListPrinters(ctx context.Context) ([]string, error) {
	raw, err := c.Send(ctx, model.ListPrintersRequest{})
	if err != nil {
		return nil, err
	}
	var printers []string
	if len(raw) == 0 || string(raw) == "null" {
		return printers, nil
	}
	if err := json.Unmarshal(raw, &printers); err != nil {
		return nil, fmt.Errorf("decode %s result: %w", model.CommandListPrinters, err)
	}
	return printers, nil
}

// Print sends a print command and returns the executor's text. A unit
// result yields "".
func (c *Client) Print(ctx context.Context, cmd model.Command) (string, error) {
	raw, err := c.Send(ctx, cmd)
	if err != nil {
		return "", err
	}
	return decodeText(cmd.CommandName(), raw)
}

func decodeText(name model.CommandName, raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("decode %s result: %w", name, err)
	}
	return text, nil
}
