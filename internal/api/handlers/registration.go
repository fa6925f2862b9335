package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/taiseel/propcore/internal/notify"
	"github.com/taiseel/propcore/internal/registration"
	"github.com/taiseel/propcore/pkg/logger"
)

// Error codes for the registration endpoints
const (
	codeInvalidPayload = "invalid_payload"
	codeDuplicateEmail = "duplicate_email"
	codeStorageFailure = "storage_failure"
	codeReadFailure    = "read_failure"
)

// RegistrationHandler handles lead intake and the admin listing
type RegistrationHandler struct {
	store    *registration.FileStore
	notifier *notify.Service
	logger   *logger.Logger
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(store *registration.FileStore, notifier *notify.Service, log *logger.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		store:    store,
		notifier: notifier,
		logger:   log,
	}
}

// Submit accepts a new registration
// POST /api/register
func (h *RegistrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var raw any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondFieldError(w, http.StatusBadRequest, codeInvalidPayload, nil)
		return
	}

	reg, err := h.store.Register(raw)
	if err != nil {
		var ipe *registration.InvalidPayloadError
		switch {
		case errors.As(err, &ipe):
			respondFieldError(w, http.StatusBadRequest, codeInvalidPayload, ipe.Fields)
		case errors.Is(err, registration.ErrDuplicateEmail):
			respondError(w, http.StatusConflict, codeDuplicateEmail)
		default:
			h.logger.WithError(err).Error("Failed to process registration")
			respondError(w, http.StatusInternalServerError, codeStorageFailure)
		}
		return
	}

	// Notifications are fire-and-forget: delivery failure never blocks or
	// rolls back the accepted registration.
	go h.dispatchNotifications(reg)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Registration successful!",
	})
}

// ListAll returns all registrations for the admin view
// GET /api/admin/registrations
func (h *RegistrationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	regs, err := h.store.ListAll()
	if err != nil {
		h.logger.WithError(err).Error("Failed to read registrations")
		respondError(w, http.StatusInternalServerError, codeReadFailure)
		return
	}

	respondJSON(w, http.StatusOK, regs)
}

// dispatchNotifications sends the lead confirmation and the admin alert.
// Runs detached from the request; outcomes are only logged.
func (h *RegistrationHandler) dispatchNotifications(reg *registration.Registration) {
	if h.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lead := reg.Record()

	if receipt, err := h.notifier.SendLeadConfirmation(ctx, lead); err != nil {
		h.logger.WithError(err).Warn("Lead confirmation delivery failed")
	} else {
		h.logger.WithFields(map[string]interface{}{
			"email":       reg.Email,
			"emailSent":   receipt.EmailSent,
			"messageSent": receipt.MessageSent,
		}).Debug("Lead confirmation dispatched")
	}

	if receipt, err := h.notifier.SendAdminLeadAlert(ctx, lead); err != nil {
		h.logger.WithError(err).Warn("Admin lead alert delivery failed")
	} else {
		h.logger.WithFields(map[string]interface{}{
			"email":       reg.Email,
			"emailSent":   receipt.EmailSent,
			"messageSent": receipt.MessageSent,
		}).Debug("Admin lead alert dispatched")
	}
}
