package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sofiane-rh/salon-erp/internal/auth"
	"github.com/sofiane-rh/salon-erp/internal/model"
	"github.com/sofiane-rh/salon-erp/internal/storage/memory"
)

func newTestServer(opts Options) (*http.ServeMux, *memory.Store) {
	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(store, logger, auth.NewIssuer("test-secret"), opts)
	mux := http.NewServeMux()
	srv.Routes(mux)
	return mux, store
}

func do(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func seedProfile(t *testing.T, store *memory.Store, email string, role model.Role, skills []int) model.Profile {
	t.Helper()
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	p, err := store.CreateProfile(context.Background(), model.Profile{
		ID:           "profile-" + email,
		FirstName:    "Test",
		LastName:     strings.SplitN(email, "@", 2)[0],
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		ColorCode:    model.DefaultColorCode,
	}, skills)
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	return p
}

func seedService(t *testing.T, store *memory.Store, id string, categoryID, price, duration int) model.Service {
	t.Helper()
	svc, err := store.CreateService(context.Background(), model.Service{
		ID:         id,
		CategoryID: categoryID,
		Name:       "Service " + id,
		Price:      price,
		Duration:   duration,
	})
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	return svc
}

func seedClient(t *testing.T, store *memory.Store, id, name string) model.Client {
	t.Helper()
	c, err := store.CreateClient(context.Background(), model.Client{ID: id, FullName: name, Phone: "0550000000"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	return c
}

func TestLogin(t *testing.T) {
	mux, store := newTestServer(Options{})
	seedProfile(t, store, "amina@salon.dz", model.RoleAdmin, nil)

	rec := do(t, mux, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "amina@salon.dz", "password": "s3cret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		User  model.Profile `json:"user"`
		Token string        `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Error("empty token")
	}
	if resp.User.Email != "amina@salon.dz" {
		t.Errorf("user email = %q", resp.User.Email)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response leaks password field")
	}

	rec = do(t, mux, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "amina@salon.dz", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", rec.Code)
	}

	rec = do(t, mux, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "nobody@salon.dz", "password": "s3cret",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown email: status = %d, want 401", rec.Code)
	}
}

func TestCreateProfile(t *testing.T) {
	mux, _ := newTestServer(Options{})

	rec := do(t, mux, http.MethodPost, "/api/profiles", map[string]any{
		"firstName": "Lina", "lastName": "B", "email": "lina@salon.dz",
		"password": "s3cret", "role": "staff", "skills": []int{1, 3},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var created model.Profile
	decodeBody(t, rec, &created)
	if created.ID == "" || created.Role != model.RoleStaff {
		t.Errorf("created = %+v", created)
	}
	if created.ColorCode != model.DefaultColorCode {
		t.Errorf("colorCode = %q, want default", created.ColorCode)
	}

	// Same email again conflicts.
	rec = do(t, mux, http.MethodPost, "/api/profiles", map[string]any{
		"firstName": "Other", "lastName": "B", "email": "lina@salon.dz", "password": "x",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate email: status = %d, want 409", rec.Code)
	}

	rec = do(t, mux, http.MethodPost, "/api/profiles", map[string]any{"firstName": "Solo"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: status = %d, want 400", rec.Code)
	}
	var errResp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	decodeBody(t, rec, &errResp)
	if errResp.Error != "validation failed" || len(errResp.Fields) != 3 {
		t.Errorf("validation body = %+v", errResp)
	}

	rec = do(t, mux, http.MethodPost, "/api/profiles", map[string]any{
		"firstName": "Bad", "lastName": "Role", "email": "bad@salon.dz",
		"password": "x", "role": "manager",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown role: status = %d, want 400", rec.Code)
	}
}

func TestProfileSkillsRoundTrip(t *testing.T) {
	mux, store := newTestServer(Options{})
	p := seedProfile(t, store, "nour@salon.dz", model.RoleStaff, []int{2, 1})

	rec := do(t, mux, http.MethodGet, "/api/profiles/"+p.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got model.ProfileWithSkills
	decodeBody(t, rec, &got)
	if len(got.Skills) != 2 || got.Skills[0] != 1 || got.Skills[1] != 2 {
		t.Errorf("skills = %v, want [1 2]", got.Skills)
	}

	// PATCH with skills replaces the whole set.
	rec = do(t, mux, http.MethodPatch, "/api/profiles/"+p.ID, map[string]any{"skills": []int{4}})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want 200", rec.Code)
	}
	rec = do(t, mux, http.MethodGet, "/api/staff-skills", nil)
	var skills []model.StaffSkill
	decodeBody(t, rec, &skills)
	if len(skills) != 1 || skills[0].CategoryID != 4 {
		t.Errorf("staff skills after patch = %v", skills)
	}
}

func TestListStaffFiltersRoles(t *testing.T) {
	mux, store := newTestServer(Options{})
	seedProfile(t, store, "boss@salon.dz", model.RoleSuperadmin, nil)
	seedProfile(t, store, "front@salon.dz", model.RoleReception, nil)
	seedProfile(t, store, "coif@salon.dz", model.RoleStaff, []int{1})

	rec := do(t, mux, http.MethodGet, "/api/profiles/staff", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var staff []model.Profile
	decodeBody(t, rec, &staff)
	if len(staff) != 2 {
		t.Fatalf("len(staff) = %d, want 2 (admins excluded)", len(staff))
	}
	for _, p := range staff {
		if p.Role != model.RoleStaff && p.Role != model.RoleReception {
			t.Errorf("unexpected role %q in staff listing", p.Role)
		}
	}
}

func TestCreateService(t *testing.T) {
	mux, _ := newTestServer(Options{})

	rec := do(t, mux, http.MethodPost, "/api/services", map[string]any{
		"categoryId": 1, "name": "Brushing", "price": 1500, "duration": 45,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	rec = do(t, mux, http.MethodPost, "/api/services", map[string]any{
		"categoryId": 99, "name": "Ghost", "price": 100, "duration": 30,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown category: status = %d, want 400", rec.Code)
	}

	rec = do(t, mux, http.MethodPost, "/api/services", map[string]any{
		"categoryId": 1, "name": "Free", "price": 500, "duration": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero duration: status = %d, want 400", rec.Code)
	}
}

func TestGetServiceEmbedsCategory(t *testing.T) {
	mux, store := newTestServer(Options{})
	seedService(t, store, "svc1", 2, 2000, 60)

	rec := do(t, mux, http.MethodGet, "/api/services/svc1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got model.ServiceWithCategory
	decodeBody(t, rec, &got)
	if got.Category.Name != "Esthétique" {
		t.Errorf("category name = %q, want Esthétique", got.Category.Name)
	}
}

func TestEligibleStaff(t *testing.T) {
	mux, store := newTestServer(Options{})
	admin := seedProfile(t, store, "admin@salon.dz", model.RoleAdmin, nil)
	skilled := seedProfile(t, store, "skilled@salon.dz", model.RoleStaff, []int{1})
	seedProfile(t, store, "other@salon.dz", model.RoleStaff, []int{3})
	seedService(t, store, "cut", 1, 1000, 30)

	rec := do(t, mux, http.MethodGet, "/api/services/cut/eligible-staff", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var eligible []model.Profile
	decodeBody(t, rec, &eligible)
	ids := map[string]bool{}
	for _, p := range eligible {
		ids[p.ID] = true
	}
	if len(eligible) != 2 || !ids[admin.ID] || !ids[skilled.ID] {
		t.Errorf("eligible = %v, want admin + skilled staff", ids)
	}

	rec = do(t, mux, http.MethodGet, "/api/services/missing/eligible-staff", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown service: status = %d, want 404", rec.Code)
	}
}

func TestClientCRUD(t *testing.T) {
	mux, _ := newTestServer(Options{})

	rec := do(t, mux, http.MethodPost, "/api/clients", map[string]any{
		"fullName": "Yasmine K", "phone": "0551234567", "notes": "prefers mornings",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var created model.Client
	decodeBody(t, rec, &created)

	rec = do(t, mux, http.MethodPatch, "/api/clients/"+created.ID, map[string]any{"phone": "0669999999"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want 200", rec.Code)
	}
	var updated model.Client
	decodeBody(t, rec, &updated)
	if updated.Phone != "0669999999" || updated.FullName != "Yasmine K" {
		t.Errorf("updated = %+v", updated)
	}

	rec = do(t, mux, http.MethodDelete, "/api/clients/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	rec = do(t, mux, http.MethodDelete, "/api/clients/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}

	rec = do(t, mux, http.MethodGet, "/api/clients/"+created.ID+"/appointments", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("appointments of deleted client: status = %d, want 404", rec.Code)
	}

	rec = do(t, mux, http.MethodPost, "/api/clients", map[string]any{"fullName": "No Phone"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing phone: status = %d, want 400", rec.Code)
	}
}

func TestDeleteMissingResources(t *testing.T) {
	mux, _ := newTestServer(Options{})
	for _, path := range []string{"/api/services/ghost", "/api/profiles/ghost"} {
		rec := do(t, mux, http.MethodDelete, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("DELETE %s: status = %d, want 404", path, rec.Code)
		}
	}
}

func TestGoldenClientNullWhenNoCompleted(t *testing.T) {
	mux, _ := newTestServer(Options{})
	rec := do(t, mux, http.MethodGet, "/api/dashboard/golden-client", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "null" {
		t.Errorf("body = %q, want null", got)
	}
}

func TestAuthRequiredGate(t *testing.T) {
	mux, store := newTestServer(Options{AuthRequired: true})
	seedProfile(t, store, "admin@salon.dz", model.RoleAdmin, nil)

	rec := do(t, mux, http.MethodGet, "/api/clients", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d, want 401", rec.Code)
	}

	// Login stays open and the returned token unlocks the API.
	rec = do(t, mux, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "admin@salon.dz", "password": "s3cret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", rec.Code)
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Errorf("authenticated: status = %d, want 200 (body %s)", rec2.Code, rec2.Body.String())
	}
}
