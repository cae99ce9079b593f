package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"tour-guide-service/internal/adapters/tokens"
	"tour-guide-service/internal/domain"

	"github.com/google/uuid"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(JWTConfig{Secret: testSecret, Issuer: "iss", Audience: "aud", Expiration: 3 * time.Hour})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func testUser(role domain.Role) *domain.User {
	return &domain.User{UserID: uuid.New(), UserName: "guide", Role: role}
}

func TestIssueAndValidate(t *testing.T) {
	m := newTestManager(t)
	u := testUser(domain.RoleExcursionist)

	issued, err := m.Issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Validate(issued.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if id, _ := claims.UserID(); id != u.UserID {
		t.Fatalf("subject = %s, want %s", id, u.UserID)
	}
	if claims.UserName != "guide" || len(claims.Roles) != 1 || claims.Roles[0] != "Excursionist" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID != issued.TokenID {
		t.Fatalf("token id = %q, want %q", claims.ID, issued.TokenID)
	}
}

func TestValidateRejects(t *testing.T) {
	m := newTestManager(t)
	issued, err := m.Issue(testUser(domain.RoleTourist))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other, _ := NewJWTManager(JWTConfig{Secret: strings.Repeat("x", 32), Issuer: "iss", Audience: "aud", Expiration: time.Hour})
	if _, err := other.Validate(issued.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: err = %v, want ErrInvalidToken", err)
	}

	wrongAudience, _ := NewJWTManager(JWTConfig{Secret: testSecret, Issuer: "iss", Audience: "elsewhere", Expiration: time.Hour})
	if _, err := wrongAudience.Validate(issued.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong audience: err = %v, want ErrInvalidToken", err)
	}

	m.now = func() time.Time { return time.Now().Add(4 * time.Hour) }
	if _, err := m.Validate(issued.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: err = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if ok, err := CheckPassword(hash, "secret1"); err != nil || !ok {
		t.Fatalf("CheckPassword(correct) = %v, %v", ok, err)
	}
	if ok, err := CheckPassword(hash, "secret2"); err != nil || ok {
		t.Fatalf("CheckPassword(wrong) = %v, %v", ok, err)
	}
}

func TestMiddleware(t *testing.T) {
	m := newTestManager(t)
	denylist := tokens.NewMemoryDenylist()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFrom(r.Context())
		_, _ = w.Write([]byte(p.UserName))
	})
	h := Authenticate(m, denylist)(RequireRoles(domain.RoleExcursionist, domain.RoleAdministrator)(ok))

	do := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}
	if rec := do("garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", rec.Code)
	}

	tourist, _ := m.Issue(testUser(domain.RoleTourist))
	if rec := do(tourist.Token); rec.Code != http.StatusForbidden {
		t.Fatalf("tourist: status = %d, want 403", rec.Code)
	}

	guide, _ := m.Issue(testUser(domain.RoleExcursionist))
	rec := do(guide.Token)
	if rec.Code != http.StatusOK || rec.Body.String() != "guide" {
		t.Fatalf("guide: status = %d body = %q", rec.Code, rec.Body.String())
	}

	if err := denylist.Revoke(context.Background(), guide.TokenID, guide.ExpiresAt); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if rec := do(guide.Token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked: status = %d, want 401", rec.Code)
	}
}
