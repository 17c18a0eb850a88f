package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rental-reconciliation/internal/domain"
	"rental-reconciliation/internal/logging"
)

// Reconciler runs one reconciliation over caller-supplied snapshots.
type Reconciler interface {
	ReconcileRecords(ctx context.Context, transactions []domain.TransactionRecord, inbound []domain.InboundRecord, period domain.Period) (*domain.Report, error)
}

// RunStore reads archived reports.
type RunStore interface {
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)
	Get(ctx context.Context, id string) (*domain.Report, error)
}

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	reconciler Reconciler
	runs       RunStore
}

// MaxReconcileBodyBytes bounds the size of one POST /api/v1/reconcile batch.
const MaxReconcileBodyBytes = 10 << 20

// ReconcileRequest is the body of POST /api/v1/reconcile.
type ReconcileRequest struct {
	Transactions []domain.TransactionRecord `json:"transactions"`
	Inbound      []domain.InboundRecord     `json:"inbound"`
	Period       domain.Period              `json:"period"`
}

// --- helpers ---

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, w, status, map[string]string{"error": msg})
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// --- Reconcile ---

func (h *Handlers) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ReconcileRequest
	body := http.MaxBytesReader(w, r.Body, MaxReconcileBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(ctx, w, http.StatusRequestEntityTooLarge, "request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		writeError(ctx, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := h.reconciler.ReconcileRecords(ctx, req.Transactions, req.Inbound, req.Period)
	switch {
	case errors.Is(err, domain.ErrDuplicateKey):
		writeError(ctx, w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		logging.FromContext(ctx).Error().Err(err).Msg("reconciliation failed")
		writeError(ctx, w, http.StatusInternalServerError, "reconciliation failed")
		return
	}

	writeJSON(ctx, w, http.StatusOK, report)
}

// --- Runs ---

func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.runs == nil {
		writeError(ctx, w, http.StatusServiceUnavailable, "run archive is disabled")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.runs.List(ctx, limit)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("list runs")
		writeError(ctx, w, http.StatusInternalServerError, "could not list runs")
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.runs == nil {
		writeError(ctx, w, http.StatusServiceUnavailable, "run archive is disabled")
		return
	}

	report, err := h.runs.Get(ctx, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(ctx, w, http.StatusNotFound, "run not found")
		return
	case err != nil:
		logging.FromContext(ctx).Error().Err(err).Msg("get run")
		writeError(ctx, w, http.StatusInternalServerError, "could not load run")
		return
	}

	writeJSON(ctx, w, http.StatusOK, report)
}
