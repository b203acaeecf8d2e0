package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sofiane-rh/salon-erp/internal/httpx"
	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

type clientRequest struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Notes    *string `json:"notes"`
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.GetClients(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if clients == nil {
		clients = []model.Client{}
	}
	httpx.WriteJSON(w, http.StatusOK, clients)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !decode(w, r, &req) {
		return
	}

	var fields []httpx.FieldError
	if req.FullName == nil || *req.FullName == "" {
		fields = append(fields, httpx.FieldError{Field: "fullName", Message: "fullName is required"})
	}
	if req.Phone == nil || *req.Phone == "" {
		fields = append(fields, httpx.FieldError{Field: "phone", Message: "phone is required"})
	}
	if len(fields) > 0 {
		httpx.WriteValidationError(w, fields)
		return
	}

	c := model.Client{
		ID:       uuid.NewString(),
		FullName: *req.FullName,
		Phone:    *req.Phone,
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}

	created, err := s.store.CreateClient(r.Context(), c)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !decode(w, r, &req) {
		return
	}
	updated, err := s.store.UpdateClient(r.Context(), r.PathValue("id"), storage.ClientUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Notes:    req.Notes,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClientAppointments returns the client's bookings with related
// records embedded, 404 when the client itself does not exist.
func (s *Server) handleClientAppointments(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.GetClient(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteNotFound(w, "client not found")
			return
		}
		s.writeStoreError(w, r, err)
		return
	}

	appts, err := s.store.GetAppointmentsByClient(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if appts == nil {
		appts = []model.AppointmentDetails{}
	}
	httpx.WriteJSON(w, http.StatusOK, appts)
}
