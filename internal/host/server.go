package host

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

// --- WebSocket Host Logic ---

// Server exposes a Dispatcher to remote bridge clients over WebSocket.
type Server struct {
	dispatcher *Dispatcher
	apiKey     string
	log        *slog.Logger
	upgrader   websocket.Upgrader
}

// NewServer returns a Server. When apiKey is set, connections must present
// it in X-Api-Key.
func NewServer(d *Dispatcher, apiKey string, log *slog.Logger) *Server {
	return &Server{
		dispatcher: d,
		apiKey:     apiKey,
		log:        log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.apiKey != "" && r.Header.Get("X-Api-Key") != s.apiKey {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	log := s.log.With("remote", r.RemoteAddr)
	log.Info("bridge client connected")
	s.handleConnection(r.Context(), conn, log)
	log.Info("bridge client disconnected")
}

func (s *Server) handleConnection(ctx context.Context, conn *websocket.Conn, log *slog.Logger) {
	var (
		writeMu sync.Mutex
		calls   sync.WaitGroup
	)
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		calls.Wait()
	}()

	write := func(msg model.Envelope) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(msg); err != nil {
			log.Warn("failed to write reply", "type", msg.Type, "err", err)
		}
	}

	for {
		var msg model.Envelope
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read error", "err", err)
			}
			return
		}

		switch msg.Type {
		case model.MessageTypePing:
			write(model.Envelope{Type: model.MessageTypePong})

		case model.MessageTypeInvoke:
			log.Info("received command", "command", msg.Command, "id", msg.ID)
			calls.Add(1)
			go func(msg model.Envelope) {
				defer calls.Done()
				write(s.run(ctx, msg, log))
			}(msg)

		default:
			log.Warn("unknown message type", "type", msg.Type)
		}
	}
}

func (s *Server) run(ctx context.Context, msg model.Envelope, log *slog.Logger) model.Envelope {
	result, err := s.dispatcher.Dispatch(ctx, msg.Command, msg.Payload)
	if err != nil {
		log.Warn("command failed", "command", msg.Command, "id", msg.ID, "err", err)
		return model.Envelope{Type: model.MessageTypeError, ID: msg.ID, Command: msg.Command, Error: err.Error()}
	}
	return model.Envelope{Type: model.MessageTypeResult, ID: msg.ID, Command: msg.Command, Result: result}
}
