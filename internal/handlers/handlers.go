// Package handlers wires the HTTP API onto the storage layer. Each handler
// validates input, calls the store once, and maps errors to the shared
// response shapes.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sofiane-rh/salon-erp/internal/auth"
	"github.com/sofiane-rh/salon-erp/internal/httpx"
	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

// Options are the behavior switches. Everything defaults to off so the
// server accepts what the calendar UI has always sent.
type Options struct {
	RejectOverlaps    bool
	StrictTransitions bool
	AuthRequired      bool
}

type Server struct {
	store  storage.Store
	log    *slog.Logger
	issuer *auth.Issuer
	opts   Options
}

func NewServer(store storage.Store, log *slog.Logger, issuer *auth.Issuer, opts Options) *Server {
	return &Server{store: store, log: log, issuer: issuer, opts: opts}
}

// Routes registers the API on mux. The bearer gate wraps everything under
// /api/ except login; capability checks only bite when the gate is on.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.Handle("POST /api/auth/login", http.HandlerFunc(s.handleLogin))

	api := http.NewServeMux()

	api.HandleFunc("GET /api/profiles", s.handleListProfiles)
	api.HandleFunc("GET /api/profiles/staff", s.handleListStaff)
	api.HandleFunc("GET /api/profiles/{id}", s.handleGetProfile)
	api.Handle("POST /api/profiles", s.catalogGate(s.handleCreateProfile))
	api.Handle("PATCH /api/profiles/{id}", s.catalogGate(s.handleUpdateProfile))
	api.Handle("DELETE /api/profiles/{id}", s.catalogGate(s.handleDeleteProfile))
	api.HandleFunc("GET /api/staff-skills", s.handleListStaffSkills)

	api.HandleFunc("GET /api/service-categories", s.handleListCategories)
	api.HandleFunc("GET /api/services", s.handleListServices)
	api.HandleFunc("GET /api/services/{id}", s.handleGetService)
	api.HandleFunc("GET /api/services/{id}/eligible-staff", s.handleEligibleStaff)
	api.Handle("POST /api/services", s.catalogGate(s.handleCreateService))
	api.Handle("PATCH /api/services/{id}", s.catalogGate(s.handleUpdateService))
	api.Handle("DELETE /api/services/{id}", s.catalogGate(s.handleDeleteService))

	api.HandleFunc("GET /api/clients", s.handleListClients)
	api.HandleFunc("GET /api/clients/{id}", s.handleGetClient)
	api.HandleFunc("GET /api/clients/{id}/appointments", s.handleClientAppointments)
	api.Handle("POST /api/clients", s.calendarGate(s.handleCreateClient))
	api.Handle("PATCH /api/clients/{id}", s.calendarGate(s.handleUpdateClient))
	api.Handle("DELETE /api/clients/{id}", s.calendarGate(s.handleDeleteClient))

	api.HandleFunc("GET /api/appointments", s.handleListAppointments)
	api.Handle("POST /api/appointments", s.calendarGate(s.handleCreateAppointment))
	api.Handle("PATCH /api/appointments/{id}/status", s.calendarGate(s.handleUpdateAppointmentStatus))
	api.Handle("DELETE /api/appointments/{id}", s.calendarGate(s.handleDeleteAppointment))

	api.HandleFunc("GET /api/dashboard/kpis", s.handleKPIs)
	api.HandleFunc("GET /api/dashboard/top-employees", s.handleTopEmployees)
	api.HandleFunc("GET /api/dashboard/top-services", s.handleTopServices)
	api.HandleFunc("GET /api/dashboard/golden-client", s.handleGoldenClient)

	mux.Handle("/api/", auth.WithBearer(s.issuer, s.opts.AuthRequired)(api))
}

func (s *Server) catalogGate(h http.HandlerFunc) http.Handler {
	return auth.RequireCapability(s.opts.AuthRequired, model.Role.CanManageCatalog)(h)
}

func (s *Server) calendarGate(h http.HandlerFunc) http.Handler {
	return auth.RequireCapability(s.opts.AuthRequired, model.Role.CanManageCalendar)(h)
}

// decode parses a JSON body. A body that does not parse is reported through
// the standard validation shape rather than a bare 400.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteValidationError(w, []httpx.FieldError{{Field: "body", Message: "invalid JSON"}})
		return false
	}
	return true
}

// writeStoreError maps storage errors onto the response contract. Anything
// unexpected is logged with the request context and hidden behind a 500.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		httpx.WriteNotFound(w, "")
	case errors.Is(err, storage.ErrDuplicateEmail):
		httpx.WriteError(w, http.StatusConflict, "email already in use")
	default:
		s.log.Error("store error", "method", r.Method, "path", r.URL.Path, "error", err)
		httpx.WriteInternalError(w)
	}
}
