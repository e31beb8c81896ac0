// Package api exposes the label form over HTTP for a browser front-end.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/form"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/journal"
	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

// History lists recorded submissions, newest first.
type History interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

type Handler struct {
	ctrl    *form.Controller
	lister  form.PrinterLister
	history History
	log     *slog.Logger
}

// NewHandler wires the form controller. history may be nil.
func NewHandler(ctrl *form.Controller, lister form.PrinterLister, history History, log *slog.Logger) *Handler {
	return &Handler{ctrl: ctrl, lister: lister, history: history, log: log}
}

func RegisterRoutes(r gin.IRoutes, h *Handler) {
	r.GET("/form", h.GetForm)
	r.PUT("/form", h.UpdateForm)
	r.POST("/form/submit", h.Submit)
	r.POST("/printers/refresh", h.RefreshPrinters)
	r.GET("/history", h.History)
}

// UpdateFormRequest carries the fields to change; absent fields are kept.
type UpdateFormRequest struct {
	Version  *model.ProtocolVersion `json:"version"`
	Printer  *string                `json:"printer"`
	Title    *string                `json:"title"`
	Products []model.ProductEntry   `json:"products"`
}

func (h *Handler) GetForm(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Store().Snapshot())
}

func (h *Handler) UpdateForm(c *gin.Context) {
	var req UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("invalid json")))
		return
	}
	if req.Version != nil && !req.Version.Valid() {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("unknown protocol version "+strconv.Quote(string(*req.Version)))))
		return
	}

	store := h.ctrl.Store()
	if req.Version != nil {
		store.SetVersion(*req.Version)
	}
	if req.Printer != nil {
		store.SetPrinter(*req.Printer)
	}
	if req.Title != nil {
		store.SetTitle(*req.Title)
	}
	if req.Products != nil {
		store.SetProducts(req.Products)
	}
	c.JSON(http.StatusOK, store.Snapshot())
}

// Submit answers 200 with the outcome for both printed and failed labels;
// only a refused submission is an HTTP error.
func (h *Handler) Submit(c *gin.Context) {
	outcome, err := h.ctrl.Submit(c.Request.Context())
	if err != nil {
		c.JSON(toHTTPStatus(err), newErrDTO(err))
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *Handler) RefreshPrinters(c *gin.Context) {
	form.Discover(c.Request.Context(), h.lister, h.ctrl.Store(), h.log)
	c.JSON(http.StatusOK, h.ctrl.Store().Snapshot())
}

func (h *Handler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, []journal.Entry{})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("limit must be a positive integer")))
		return
	}
	entries, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("failed to read history", "err", err)
		c.JSON(toHTTPStatus(err), newErrDTO(err))
		return
	}
	c.JSON(http.StatusOK, entries)
}
