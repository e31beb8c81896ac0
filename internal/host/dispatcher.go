// Package host is the executor side of the command bridge: a dispatcher of
// named commands, the print handlers behind them, and a WebSocket endpoint
// that serves remote bridge clients.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

var ErrUnknownCommand = errors.New("unknown command")

// HandlerFunc executes one command. The returned value is encoded as the
// command's JSON result; nil encodes as null.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[model.CommandName]HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[model.CommandName]HandlerFunc)}
}

func (d *Dispatcher) Register(name model.CommandName, h HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = h
}

// Commands lists the registered command names, sorted.
func (d *Dispatcher) Commands() []model.CommandName {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]model.CommandName, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Invoke runs a command in-process. Together with the signature of
// bridge.Invoker it lets the form side use the host without a socket.
func (d *Dispatcher) Invoke(ctx context.Context, name model.CommandName, payload any) (json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", name, err)
	}
	return d.Dispatch(ctx, name, raw)
}

// Dispatch runs the handler registered for name on a raw payload.
func (d *Dispatcher) Dispatch(ctx context.Context, name model.CommandName, payload json.RawMessage) (json.RawMessage, error) {
	d.mu.RLock()
	h, ok := d.handlers[name]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	result, err := h(ctx, payload)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", name, err)
	}
	return out, nil
}

// decode unmarshals a command payload, treating an absent payload as {}.
func decode[T any](name model.CommandName, payload json.RawMessage) (T, error) {
	var v T
	if len(payload) == 0 || string(payload) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, fmt.Errorf("invalid %s payload: %w", name, err)
	}
	return v, nil
}
