package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sofiane-rh/salon-erp/internal/httpx"
	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/scheduling"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.GetServiceCategories(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, categories)
}

type serviceRequest struct {
	CategoryID *int    `json:"categoryId"`
	Name       *string `json:"name"`
	Price      *int    `json:"price"`
	Duration   *int    `json:"duration"`
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.store.GetServices(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if services == nil {
		services = []model.ServiceWithCategory{}
	}
	httpx.WriteJSON(w, http.StatusOK, services)
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	svc, err := s.store.GetService(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, svc)
}

func (s *Server) categoryExists(r *http.Request, id int) (bool, error) {
	categories, err := s.store.GetServiceCategories(r.Context())
	if err != nil {
		return false, err
	}
	for _, c := range categories {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if !decode(w, r, &req) {
		return
	}

	var fields []httpx.FieldError
	if req.Name == nil || *req.Name == "" {
		fields = append(fields, httpx.FieldError{Field: "name", Message: "name is required"})
	}
	if req.CategoryID == nil {
		fields = append(fields, httpx.FieldError{Field: "categoryId", Message: "categoryId is required"})
	} else if ok, err := s.categoryExists(r, *req.CategoryID); err != nil {
		s.writeStoreError(w, r, err)
		return
	} else if !ok {
		fields = append(fields, httpx.FieldError{Field: "categoryId", Message: "unknown category"})
	}
	if req.Price == nil || *req.Price < 0 {
		fields = append(fields, httpx.FieldError{Field: "price", Message: "price must be a non-negative integer"})
	}
	if req.Duration == nil || *req.Duration <= 0 {
		fields = append(fields, httpx.FieldError{Field: "duration", Message: "duration must be a positive number of minutes"})
	}
	if len(fields) > 0 {
		httpx.WriteValidationError(w, fields)
		return
	}

	created, err := s.store.CreateService(r.Context(), model.Service{
		ID:         uuid.NewString(),
		CategoryID: *req.CategoryID,
		Name:       *req.Name,
		Price:      *req.Price,
		Duration:   *req.Duration,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if !decode(w, r, &req) {
		return
	}

	var fields []httpx.FieldError
	if req.CategoryID != nil {
		ok, err := s.categoryExists(r, *req.CategoryID)
		if err != nil {
			s.writeStoreError(w, r, err)
			return
		}
		if !ok {
			fields = append(fields, httpx.FieldError{Field: "categoryId", Message: "unknown category"})
		}
	}
	if req.Price != nil && *req.Price < 0 {
		fields = append(fields, httpx.FieldError{Field: "price", Message: "price must be a non-negative integer"})
	}
	if req.Duration != nil && *req.Duration <= 0 {
		fields = append(fields, httpx.FieldError{Field: "duration", Message: "duration must be a positive number of minutes"})
	}
	if len(fields) > 0 {
		httpx.WriteValidationError(w, fields)
		return
	}

	updated, err := s.store.UpdateService(r.Context(), r.PathValue("id"), storage.ServiceUpdate{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Price:      req.Price,
		Duration:   req.Duration,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteService(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEligibleStaff answers "who can perform this service": staff or
// reception with a matching skill, plus admins. An empty list is a normal
// answer.
func (s *Server) handleEligibleStaff(w http.ResponseWriter, r *http.Request) {
	svc, err := s.store.GetService(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	roster, err := s.store.GetProfiles(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	skills, err := s.store.GetStaffSkills(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	profiles := make([]model.Profile, 0, len(roster))
	for _, p := range roster {
		profiles = append(profiles, p.Profile)
	}
	eligible := scheduling.EligibleStaff(svc.Service, profiles, skills)
	if eligible == nil {
		eligible = []model.Profile{}
	}
	httpx.WriteJSON(w, http.StatusOK, eligible)
}
