package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

// WSInvoker talks to a remote print host over one WebSocket connection.
// Calls may overlap; replies are matched to calls by envelope id.
type WSInvoker struct {
	conn *websocket.Conn
	log  *slog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan model.Envelope
	err     error
	done    chan struct{}
}

// Dial connects to the print host at url. apiKey, when set, is sent as
// X-Api-Key.
func Dial(ctx context.Context, url, apiKey string, log *slog.Logger) (*WSInvoker, error) {
	header := http.Header{}
	if apiKey != "" {
		header.Add("X-Api-Key", apiKey)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("connect to print host %s: %w", url, err)
	}

	w := &WSInvoker{
		conn:    conn,
		log:     log.With("host", url),
		pending: make(map[string]chan model.Envelope),
		done:    make(chan struct{}),
	}
	go w.readLoop()
	w.log.Info("connected to print host")
	return w, nil
}

func (w *WSInvoker) Invoke(ctx context.Context, name model.CommandName, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", name, err)
	}

	id := uuid.NewString()
	reply := make(chan model.Envelope, 1)

	w.mu.Lock()
	if w.err != nil {
		err := w.err
		w.mu.Unlock()
		return nil, err
	}
	w.pending[id] = reply
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.pending, id)
		w.mu.Unlock()
	}()

	msg := model.Envelope{
		Type:    model.MessageTypeInvoke,
		ID:      id,
		Command: name,
		Payload: body,
	}
	if err := w.write(msg); err != nil {
		return nil, fmt.Errorf("send %s: %w", name, err)
	}

	select {
	case env := <-reply:
		if env.Type == model.MessageTypeError {
			return nil, &CommandError{Command: name, Message: env.Error}
		}
		return env.Result, nil
	case <-w.done:
		return nil, w.closeErr()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ping asks the host for a pong. The pong is consumed by the read loop.
func (w *WSInvoker) Ping() error {
	return w.write(model.Envelope{Type: model.MessageTypePing})
}

// Close shuts the connection down; pending calls fail with ErrClosed.
func (w *WSInvoker) Close() error {
	w.fail(ErrClosed)
	return w.conn.Close()
}

func (w *WSInvoker) write(msg model.Envelope) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return w.conn.WriteJSON(msg)
}

func (w *WSInvoker) readLoop() {
	for {
		var env model.Envelope
		if err := w.conn.ReadJSON(&env); err != nil {
			w.fail(fmt.Errorf("%w: %v", ErrClosed, err))
			return
		}

		switch env.Type {
		case model.MessageTypeResult, model.MessageTypeError:
			w.mu.Lock()
			reply, ok := w.pending[env.ID]
			w.mu.Unlock()
			if !ok {
				w.log.Warn("reply for unknown call", "id", env.ID)
				continue
			}
			select {
			case reply <- env:
			default:
				w.log.Warn("duplicate reply dropped", "id", env.ID)
			}

		case model.MessageTypePong:
			w.log.Debug("received pong")

		default:
			w.log.Warn("unknown message type", "type", env.Type)
		}
	}
}

func (w *WSInvoker) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return
	}
	w.err = err
	close(w.done)
}

func (w *WSInvoker) closeErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
