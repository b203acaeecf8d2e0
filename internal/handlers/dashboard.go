package handlers

import (
	"net/http"
	"time"

	"github.com/sofiane-rh/salon-erp/internal/httpx"
	"github.com/sofiane-rh/salon-erp/internal/reporting"
)

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reporting.ComputeKPIs(snap, time.Now()))
}

func (s *Server) handleTopEmployees(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	out := reporting.TopEmployees(snap, time.Now())
	if out == nil {
		out = []reporting.TopEmployee{}
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleTopServices(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	categories, err := s.store.GetServiceCategories(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	out := reporting.TopServices(snap, time.Now(), categories)
	if out == nil {
		out = []reporting.TopService{}
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// handleGoldenClient returns the month's highest spender, or a JSON null
// when no completed appointments exist yet.
func (s *Server) handleGoldenClient(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reporting.ComputeGoldenClient(snap, time.Now()))
}
