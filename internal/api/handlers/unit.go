package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/taiseel/propcore/internal/property"
	"github.com/taiseel/propcore/internal/valuation"
	"github.com/taiseel/propcore/pkg/logger"
	"github.com/taiseel/propcore/pkg/redis"
)

// Error codes for the unit endpoints
const (
	codeInvalidPatch  = "invalid_patch"
	codeInvalidStatus = "invalid_status"
	codeUnitNotFound  = "unit_not_found"
	codeQueryFailure  = "query_failure"
)

// Publisher receives domain events for live subscribers
type Publisher interface {
	Publish(event string, payload any)
}

// UnitHandler handles unit listing, patching and the stats aggregate
type UnitHandler struct {
	units      *property.Repository
	valuations *valuation.Service
	cache      *redis.Cache
	publisher  Publisher
	logger     *logger.Logger
}

// NewUnitHandler creates a new unit handler
func NewUnitHandler(
	units *property.Repository,
	valuations *valuation.Service,
	cache *redis.Cache,
	pub Publisher,
	log *logger.Logger,
) *UnitHandler {
	return &UnitHandler{
		units:      units,
		valuations: valuations,
		cache:      cache,
		publisher:  pub,
		logger:     log,
	}
}

// List returns all units
// GET /api/units
func (h *UnitHandler) List(w http.ResponseWriter, r *http.Request) {
	units, err := h.units.ListUnits(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list units")
		respondError(w, http.StatusInternalServerError, codeQueryFailure)
		return
	}

	respondJSON(w, http.StatusOK, units)
}

// ListByStatus returns units filtered by status
// GET /api/units/status/{status}
func (h *UnitHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := mux.Vars(r)["status"]
	if !property.ValidStatus(status) {
		respondFieldError(w, http.StatusBadRequest, codeInvalidStatus, []string{"status"})
		return
	}

	units, err := h.units.ListUnitsByStatus(r.Context(), status)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list units by status")
		respondError(w, http.StatusInternalServerError, codeQueryFailure)
		return
	}

	respondJSON(w, http.StatusOK, units)
}

// Patch applies a partial update to a unit and resyncs the valuation
// snapshot when value or rent changed
// PATCH /api/units/{id}
func (h *UnitHandler) Patch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondFieldError(w, http.StatusBadRequest, codeInvalidPatch, []string{"id"})
		return
	}

	var patch property.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondFieldError(w, http.StatusBadRequest, codeInvalidPatch, nil)
		return
	}

	unit, err := h.units.UpdateUnit(ctx, id, patch)
	if err != nil {
		var ipe *property.InvalidPatchError
		switch {
		case errors.As(err, &ipe):
			respondFieldError(w, http.StatusBadRequest, codeInvalidPatch, ipe.Fields)
		case errors.Is(err, property.ErrUnitNotFound):
			respondError(w, http.StatusNotFound, codeUnitNotFound)
		default:
			h.logger.WithError(err).Error("Failed to update unit")
			respondError(w, http.StatusInternalServerError, codeQueryFailure)
		}
		return
	}

	// The patch is already durable; a failed resync only leaves the
	// snapshot stale until the next mutation or scheduled run.
	if patch.ChangesValuation() {
		if _, err := h.valuations.Resync(ctx); err != nil {
			h.logger.WithError(err).Warn("Valuation resync after unit patch failed")
		}
	}

	if err := h.cache.Delete(ctx, redis.StatsKey); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate stats cache")
	}

	if h.publisher != nil {
		h.publisher.Publish("unit_updated", unit)
	}

	respondJSON(w, http.StatusOK, unit)
}

// Stats returns the portfolio-wide aggregate
// GET /api/stats
func (h *UnitHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var stats property.Stats
	if found, err := h.cache.Get(ctx, redis.StatsKey, &stats); err == nil && found {
		respondJSON(w, http.StatusOK, stats)
		return
	}

	fresh, err := h.units.Stats(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute stats")
		respondError(w, http.StatusInternalServerError, codeQueryFailure)
		return
	}

	if err := h.cache.Set(ctx, redis.StatsKey, fresh, redis.TTLShort); err != nil {
		h.logger.WithError(err).Warn("Failed to cache stats")
	}

	respondJSON(w, http.StatusOK, fresh)
}
