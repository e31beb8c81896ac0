package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/form"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/journal"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/logging"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

type fakeBridge struct {
	printers []string
	listErr  error
	text     string
	err      error
	last     model.Command
}

func (f *fakeBridge) ListPrinters(ctx context.Context) ([]string, error) {
	return f.printers, f.listErr
}

func (f *fakeBridge) Print(ctx context.Context, cmd model.Command) (string, error) {
	f.last = cmd
	return f.text, f.err
}

type fakeHistory struct {
	entries []journal.Entry
	limit   int
}

func (f *fakeHistory) Recent(ctx context.Context, limit int) ([]journal.Entry, error) {
	f.limit = limit
	return f.entries, nil
}

func newTestEngine(t *testing.T, b *fakeBridge, hist History) (http.Handler, *form.Store) {
	t.Helper()
	store := form.NewStore(model.ProtocolTwoSlot, "Zebra LP2824")
	ctrl := form.NewController(store, b, logging.Discard())
	h := NewHandler(ctrl, b, hist, logging.Discard())
	return NewEngine(h, []string{"http://localhost:1420"}), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := newTestEngine(t, &fakeBridge{}, nil)
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestUpdateAndSubmit(t *testing.T) {
	b := &fakeBridge{text: "OK"}
	h, _ := newTestEngine(t, b, nil)

	rec := do(t, h, http.MethodPut, "/api/form", map[string]any{
		"products": []model.ProductEntry{
			{Name: "عصير برتقال", Price: "5.00", Barcode: "622300123456"},
			{Name: "مياه معدنية", Price: "3.50", Barcode: "622300654321"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/form/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var outcome model.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, model.StateSuccess, outcome.State)
	assert.Contains(t, outcome.Message, "OK")

	req, ok := b.last.(model.PrintTwoProductLabelRequest)
	require.True(t, ok)
	assert.Equal(t, "622300123456", req.P1Barcode)
}

func TestSubmit_FailureIsStillOK(t *testing.T) {
	h, store := newTestEngine(t, &fakeBridge{err: errors.New("device offline")}, nil)

	rec := do(t, h, http.MethodPost, "/api/form/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome model.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, model.StateFailure, outcome.State)
	assert.Contains(t, outcome.Message, "device offline")
	assert.Equal(t, model.StateFailure, store.Snapshot().Status.State)
}

func TestUpdateForm_RejectsUnknownVersion(t *testing.T) {
	h, _ := newTestEngine(t, &fakeBridge{}, nil)
	rec := do(t, h, http.MethodPut, "/api/form", map[string]any{"version": "v7"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrCodeInvalidArgument)
}

func TestUpdateForm_SwitchesVersion(t *testing.T) {
	h, store := newTestEngine(t, &fakeBridge{}, nil)
	rec := do(t, h, http.MethodPut, "/api/form", map[string]any{"version": "products", "title": "أسواق ابوعمر", "printer": "Other"})
	require.Equal(t, http.StatusOK, rec.Code)

	snap := store.Snapshot()
	assert.Equal(t, model.ProtocolProducts, snap.Version)
	assert.Equal(t, "أسواق ابوعمر", snap.Title)
	assert.Equal(t, "Other", snap.Printer)
}

func TestRefreshPrinters(t *testing.T) {
	h, store := newTestEngine(t, &fakeBridge{printers: []string{"Kitchen", "Shelf"}}, nil)
	rec := do(t, h, http.MethodPost, "/api/printers/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "Kitchen", store.Printer())
	assert.Contains(t, rec.Body.String(), "Shelf")
}

func TestHistory(t *testing.T) {
	hist := &fakeHistory{entries: []journal.Entry{{Seq: 3, State: model.StateSuccess}}}
	h, _ := newTestEngine(t, &fakeBridge{}, hist)

	rec := do(t, h, http.MethodGet, "/api/history?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, hist.limit)

	var entries []journal.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(3), entries[0].Seq)

	rec = do(t, h, http.MethodGet, "/api/history?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_Disabled(t *testing.T) {
	h, _ := newTestEngine(t, &fakeBridge{}, nil)
	rec := do(t, h, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusConflict, toHTTPStatus(form.ErrSubmissionPending))
	assert.Equal(t, http.StatusBadRequest, toHTTPStatus(ErrInvalid("x")))
	assert.Equal(t, http.StatusInternalServerError, toHTTPStatus(errors.New("boom")))
}
