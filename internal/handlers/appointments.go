package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sofiane-rh/salon-erp/internal/httpx"
	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/scheduling"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

type appointmentRequest struct {
	ClientID  string `json:"clientId"`
	StaffID   string `json:"staffId"`
	ServiceID string `json:"serviceId"`
	StartTime string `json:"startTime"`
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	var (
		appts []model.AppointmentDetails
		err   error
	)
	if staffID := r.URL.Query().Get("staff"); staffID != "" {
		appts, err = s.store.GetAppointmentsByStaff(r.Context(), staffID)
	} else {
		appts, err = s.store.GetAppointments(r.Context())
	}
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if appts == nil {
		appts = []model.AppointmentDetails{}
	}
	httpx.WriteJSON(w, http.StatusOK, appts)
}

// handleCreateAppointment books a slot. The end time is derived from the
// service duration here and never supplied by the client. Double-booking is
// allowed unless overlap rejection is switched on.
func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if !decode(w, r, &req) {
		return
	}

	var fields []httpx.FieldError
	if req.ClientID == "" {
		fields = append(fields, httpx.FieldError{Field: "clientId", Message: "clientId is required"})
	}
	if req.StaffID == "" {
		fields = append(fields, httpx.FieldError{Field: "staffId", Message: "staffId is required"})
	}
	if req.ServiceID == "" {
		fields = append(fields, httpx.FieldError{Field: "serviceId", Message: "serviceId is required"})
	}
	var start time.Time
	if req.StartTime == "" {
		fields = append(fields, httpx.FieldError{Field: "startTime", Message: "startTime is required"})
	} else {
		var err error
		start, err = time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			fields = append(fields, httpx.FieldError{Field: "startTime", Message: "startTime must be an RFC 3339 timestamp"})
		}
	}
	if len(fields) > 0 {
		httpx.WriteValidationError(w, fields)
		return
	}

	// Referenced records must exist; a dangling id is a client mistake, not
	// a missing resource, so it reports as 400 against the offending field.
	if _, err := s.store.GetClient(r.Context(), req.ClientID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteValidationError(w, []httpx.FieldError{{Field: "clientId", Message: "unknown client"}})
			return
		}
		s.writeStoreError(w, r, err)
		return
	}
	if _, err := s.store.GetProfile(r.Context(), req.StaffID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteValidationError(w, []httpx.FieldError{{Field: "staffId", Message: "unknown staff member"}})
			return
		}
		s.writeStoreError(w, r, err)
		return
	}
	svc, err := s.store.GetService(r.Context(), req.ServiceID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteValidationError(w, []httpx.FieldError{{Field: "serviceId", Message: "unknown service"}})
			return
		}
		s.writeStoreError(w, r, err)
		return
	}

	end := scheduling.EndTime(start, svc.Duration)
	if s.opts.RejectOverlaps {
		existing, err := s.store.ListActiveAppointmentsByStaff(r.Context(), req.StaffID)
		if err != nil {
			s.writeStoreError(w, r, err)
			return
		}
		if _, clash := scheduling.Conflict(req.StaffID, start, end, existing); clash {
			httpx.WriteError(w, http.StatusConflict, "time slot conflict")
			return
		}
	}

	created, err := s.store.CreateAppointment(r.Context(), model.Appointment{
		ID:        uuid.NewString(),
		ClientID:  req.ClientID,
		StaffID:   req.StaffID,
		ServiceID: req.ServiceID,
		StartTime: start,
		EndTime:   end,
		Status:    model.StatusPending,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	status, ok := model.ParseAppointmentStatus(req.Status)
	if !ok {
		httpx.WriteValidationError(w, []httpx.FieldError{{Field: "status", Message: "unknown status"}})
		return
	}

	id := r.PathValue("id")
	if s.opts.StrictTransitions {
		// Read and update are separate store calls, so two racing PATCHes
		// on the same appointment can both pass the graph check.
		current, err := s.store.GetAppointment(r.Context(), id)
		if err != nil {
			s.writeStoreError(w, r, err)
			return
		}
		if !current.Status.CanTransitionTo(status) {
			httpx.WriteError(w, http.StatusConflict, "invalid status transition")
			return
		}
	}

	updated, err := s.store.UpdateAppointmentStatus(r.Context(), id, status)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAppointment(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
