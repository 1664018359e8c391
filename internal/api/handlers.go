package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/innosearch/contact-sync/internal/pkg/logger"
	"github.com/innosearch/contact-sync/internal/reconcile"
)

// Handlers holds the reconcilers behind the trigger endpoints. Records is
// nil outside the email_record deployment.
type Handlers struct {
	Marketing *reconcile.Reconciler
	Records   *reconcile.Reconciler
}

// NewHandlers creates the handler set.
func NewHandlers(marketing, records *reconcile.Reconciler) *Handlers {
	return &Handlers{Marketing: marketing, Records: records}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// UpdateEmailMarketing synchronously runs the marketing reconciler and
// returns its plain status string. Intended for a daily cron-style trigger;
// no body, no query parameters, no auth.
func (h *Handlers) UpdateEmailMarketing(w http.ResponseWriter, r *http.Request) {
	h.runReconcile(w, r, h.Marketing)
}

// UpdateEmailRecords is the sibling deployment's trigger.
func (h *Handlers) UpdateEmailRecords(w http.ResponseWriter, r *http.Request) {
	h.runReconcile(w, r, h.Records)
}

func (h *Handlers) runReconcile(w http.ResponseWriter, r *http.Request, rec *reconcile.Reconciler) {
	res, err := rec.Run(r.Context())
	if err != nil {
		logger.Error("reconcile failed",
			"table", rec.Table(),
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		http.Error(w, "reconciliation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, res.Status())
}
