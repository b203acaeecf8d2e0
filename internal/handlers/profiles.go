package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sofiane-rh/salon-erp/internal/auth"
	"github.com/sofiane-rh/salon-erp/internal/httpx"
	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

type profileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	ColorCode *string `json:"colorCode"`
	Skills    *[]int  `json:"skills"`
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.GetProfiles(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []model.ProfileWithSkills{}
	}
	httpx.WriteJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := s.store.GetStaffProfiles(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if staff == nil {
		staff = []model.Profile{}
	}
	httpx.WriteJSON(w, http.StatusOK, staff)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decode(w, r, &req) {
		return
	}

	var fields []httpx.FieldError
	requireString := func(v *string, name string) string {
		if v == nil || *v == "" {
			fields = append(fields, httpx.FieldError{Field: name, Message: name + " is required"})
			return ""
		}
		return *v
	}
	firstName := requireString(req.FirstName, "firstName")
	lastName := requireString(req.LastName, "lastName")
	email := requireString(req.Email, "email")
	password := requireString(req.Password, "password")

	role := model.RoleStaff
	if req.Role != nil && *req.Role != "" {
		parsed, ok := model.ParseRole(*req.Role)
		if !ok {
			fields = append(fields, httpx.FieldError{Field: "role", Message: "unknown role"})
		} else {
			role = parsed
		}
	}
	if len(fields) > 0 {
		httpx.WriteValidationError(w, fields)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.log.Error("password hash failed", "error", err)
		httpx.WriteInternalError(w)
		return
	}

	p := model.Profile{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		ColorCode:    model.DefaultColorCode,
	}
	if req.ColorCode != nil && *req.ColorCode != "" {
		p.ColorCode = *req.ColorCode
	}
	var skills []int
	if req.Skills != nil {
		skills = *req.Skills
	}

	created, err := s.store.CreateProfile(r.Context(), p, skills)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decode(w, r, &req) {
		return
	}

	upd := storage.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		ColorCode: req.ColorCode,
		Skills:    req.Skills,
	}
	if req.Role != nil {
		role, ok := model.ParseRole(*req.Role)
		if !ok {
			httpx.WriteValidationError(w, []httpx.FieldError{{Field: "role", Message: "unknown role"}})
			return
		}
		upd.Role = &role
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.log.Error("password hash failed", "error", err)
			httpx.WriteInternalError(w)
			return
		}
		upd.PasswordHash = &hash
	}

	updated, err := s.store.UpdateProfile(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProfile(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListStaffSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.store.GetStaffSkills(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if skills == nil {
		skills = []model.StaffSkill{}
	}
	httpx.WriteJSON(w, http.StatusOK, skills)
}
