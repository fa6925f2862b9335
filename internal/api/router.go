package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/taiseel/propcore/internal/api/handlers"
	"github.com/taiseel/propcore/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	regHandler *handlers.RegistrationHandler,
	unitHandler *handlers.UnitHandler,
	valHandler *handlers.ValuationHandler,
	live http.Handler,
	intakeLimiter *rate.Limiter,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API
	api := r.PathPrefix("/api").Subrouter()

	// Registration intake and admin listing
	api.Handle("/register",
		rateLimitMiddleware(intakeLimiter)(http.HandlerFunc(regHandler.Submit)),
	).Methods("POST")
	api.HandleFunc("/admin/registrations", regHandler.ListAll).Methods("GET")

	// Units and portfolio metrics
	api.HandleFunc("/units", unitHandler.List).Methods("GET")
	api.HandleFunc("/units/status/{status}", unitHandler.ListByStatus).Methods("GET")
	api.HandleFunc("/units/{id:[0-9]+}", unitHandler.Patch).Methods("PATCH")
	api.HandleFunc("/stats", unitHandler.Stats).Methods("GET")
	api.HandleFunc("/valuation-history", valHandler.History).Methods("GET")

	// Live updates
	api.Handle("/live", live).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "propcore-api",
	})
}

// rateLimitMiddleware throttles the lead intake endpoint
func rateLimitMiddleware(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "rate_limited",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Call next handler
			next.ServeHTTP(w, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "internal_error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
