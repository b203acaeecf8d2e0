package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sofiane-rh/salon-erp/internal/model"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret")
	p := model.Profile{ID: "p1", Role: model.RoleAdmin}

	token, err := issuer.Issue(p, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "p1" {
		t.Errorf("subject = %q, want p1", claims.Subject)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("role = %q, want admin", claims.Role)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret")
	token, err := issuer.Issue(model.Profile{ID: "p1", Role: model.RoleStaff}, time.Now().Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a").Issue(model.Profile{ID: "p1", Role: model.RoleStaff}, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewIssuer("secret-b").Verify(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestWithBearer(t *testing.T) {
	issuer := NewIssuer("test-secret")
	token, err := issuer.Issue(model.Profile{ID: "p1", Role: model.RoleReception}, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var gotClaims *Claims
	handler := WithBearer(issuer, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := ClaimsFromContext(r.Context()); ok {
			gotClaims = &c
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", rec.Code)
	}
	if gotClaims == nil || gotClaims.Subject != "p1" {
		t.Errorf("claims not propagated: %+v", gotClaims)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", rec.Code)
	}
}

func TestWithBearerOptionalMode(t *testing.T) {
	issuer := NewIssuer("test-secret")
	handler := WithBearer(issuer, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous request in optional mode: status = %d, want 200", rec.Code)
	}
}

func TestRequireCapability(t *testing.T) {
	issuer := NewIssuer("test-secret")
	staffToken, _ := issuer.Issue(model.Profile{ID: "p1", Role: model.RoleStaff}, time.Now())
	adminToken, _ := issuer.Issue(model.Profile{ID: "p2", Role: model.RoleAdmin}, time.Now())

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := WithBearer(issuer, true)(RequireCapability(true, model.Role.CanManageCatalog)(ok))

	req := httptest.NewRequest(http.MethodPost, "/api/services", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("staff on catalog route: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/services", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin on catalog route: status = %d, want 200", rec.Code)
	}
}
