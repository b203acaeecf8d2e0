package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/sofiane-rh/salon-erp/internal/auth"
	"github.com/sofiane-rh/salon-erp/internal/httpx"
	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/storage"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  model.Profile `json:"user"`
	Token string        `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	var fields []httpx.FieldError
	if req.Email == "" {
		fields = append(fields, httpx.FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		fields = append(fields, httpx.FieldError{Field: "password", Message: "password is required"})
	}
	if len(fields) > 0 {
		httpx.WriteValidationError(w, fields)
		return
	}

	p, err := s.store.GetProfileByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.writeStoreError(w, r, err)
		return
	}
	if !auth.CheckPassword(p.PasswordHash, req.Password) {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.issuer.Issue(p, time.Now())
	if err != nil {
		s.log.Error("token issue failed", "error", err)
		httpx.WriteInternalError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResponse{User: p, Token: token})
}
