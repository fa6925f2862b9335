package handlers

import (
	"net/http"

	"github.com/taiseel/propcore/internal/valuation"
	"github.com/taiseel/propcore/pkg/logger"
)

// ValuationHandler handles the valuation history endpoint
type ValuationHandler struct {
	valuations *valuation.Service
	logger     *logger.Logger
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(valuations *valuation.Service, log *logger.Logger) *ValuationHandler {
	return &ValuationHandler{
		valuations: valuations,
		logger:     log,
	}
}

// History returns the full snapshot history ordered by label. The
// current-period row is resynced first so it reflects the latest unit
// state.
// GET /api/valuation-history
func (h *ValuationHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.valuations.History(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get valuation history")
		respondError(w, http.StatusInternalServerError, codeQueryFailure)
		return
	}

	respondJSON(w, http.StatusOK, history)
}
