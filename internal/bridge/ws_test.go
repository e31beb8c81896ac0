package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/logging"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

// newEchoHost answers every invoke with its payload, or with an error when
// the command is print_label. The X-Api-Key header of each connection is
// sent on keys when keys is non-nil.
func newEchoHost(t *testing.T, keys chan<- string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if keys != nil {
			keys <- r.Header.Get("X-Api-Key")
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var env model.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			reply := model.Envelope{ID: env.ID}
			switch {
			case env.Type == model.MessageTypePing:
				reply = model.Envelope{Type: model.MessageTypePong}
			case env.Command == model.CommandPrintLabel:
				reply.Type = model.MessageTypeError
				reply.Error = "device offline"
			default:
				reply.Type = model.MessageTypeResult
				reply.Result = env.Payload
			}
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSInvoker_RoundTrip(t *testing.T) {
	keys := make(chan string, 1)
	srv := newEchoHost(t, keys)

	inv, err := Dial(context.Background(), wsURL(srv), "secret", logging.Discard())
	require.NoError(t, err)
	defer inv.Close()

	raw, err := inv.Invoke(context.Background(), model.CommandGreet, model.GreetRequest{Name: "Sam"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Sam"}`, string(raw))
	assert.Equal(t, "secret", <-keys)
	assert.NoError(t, inv.Ping())
}

func TestWSInvoker_CommandError(t *testing.T) {
	srv := newEchoHost(t, nil)
	inv, err := Dial(context.Background(), wsURL(srv), "", logging.Discard())
	require.NoError(t, err)
	defer inv.Close()

	_, err = inv.Invoke(context.Background(), model.CommandPrintLabel, model.PrintLabelRequest{})
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "device offline", cmdErr.Message)
	assert.Equal(t, model.CommandPrintLabel, cmdErr.Command)
}

func TestWSInvoker_ConcurrentCalls(t *testing.T) {
	srv := newEchoHost(t, nil)
	inv, err := Dial(context.Background(), wsURL(srv), "", logging.Discard())
	require.NoError(t, err)
	defer inv.Close()

	var wg sync.WaitGroup
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			raw, err := inv.Invoke(context.Background(), model.CommandGreet, model.GreetRequest{Name: name})
			if !assert.NoError(t, err) {
				return
			}
			var got model.GreetRequest
			assert.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, name, got.Name)
		}(name)
	}
	wg.Wait()
}

func TestWSInvoker_CloseFailsCalls(t *testing.T) {
	srv := newEchoHost(t, nil)
	inv, err := Dial(context.Background(), wsURL(srv), "", logging.Discard())
	require.NoError(t, err)

	require.NoError(t, inv.Close())

	_, err = inv.Invoke(context.Background(), model.CommandGreet, model.GreetRequest{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWSInvoker_ContextCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	silent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer silent.Close()

	inv, err := Dial(context.Background(), wsURL(silent), "", logging.Discard())
	require.NoError(t, err)
	defer inv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = inv.Invoke(ctx, model.CommandGreet, model.GreetRequest{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDial_Unreachable(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1/agent", "", logging.Discard())
	assert.Error(t, err)
}
