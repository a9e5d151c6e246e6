package service

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/patungan/internal/middleware"
	"github.com/mmynk/patungan/internal/receipt"
	"github.com/mmynk/patungan/internal/storage"
)

// ReceiptHandler serves GET /bills/{billID}/receipt.pdf.
// It expects middleware.BearerAuth to have run.
type ReceiptHandler struct {
	store   storage.Store
	metrics *middleware.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewReceiptHandler creates a receipt handler.
func NewReceiptHandler(store storage.Store, metrics *middleware.Metrics, logger *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{store: store, metrics: metrics, logger: logger, now: time.Now}
}

func (h *ReceiptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	billID := chi.URLParam(r, "billID")
	userID := middleware.GetUserID(r.Context())

	snap, err := h.store.GetSnapshot(r.Context(), billID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, errBillNotFound.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to load bill for receipt", "bill_id", billID, "error", err)
		http.Error(w, "failed to load bill", http.StatusInternalServerError)
		return
	}
	if snap.Bill.OwnerID != userID {
		http.Error(w, errBillNotFound.Error(), http.StatusNotFound)
		return
	}

	_, alloc := summarize(h.metrics, sourceReceipt, snap, false)

	// Render fully before any header is written
	var buf bytes.Buffer
	if err := receipt.Render(&buf, receipt.New(snap.Bill.Title, snap.Participants, alloc, h.now())); err != nil {
		h.logger.Error("Failed to render receipt", "bill_id", billID, "error", err)
		http.Error(w, "failed to render receipt", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, billID))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("Failed to write receipt", "bill_id", billID, "error", err)
	}
}
