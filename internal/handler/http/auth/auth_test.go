package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testUser     = "owner@example.com"
	testPassword = "c0rrect-H0rse-battery"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminProvider(t *testing.T) {
	p := NewAdminProvider(testUser, testPassword)

	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{name: "match", creds: Credentials{Username: testUser, Password: testPassword}},
		{name: "wrong password", creds: Credentials{Username: testUser, Password: "nope"}, wantErr: true},
		{name: "wrong user", creds: Credentials{Username: "x@example.com", Password: testPassword}, wantErr: true},
		{name: "empty", creds: Credentials{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.ValidateCredentials(context.Background(), tt.creds)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("unconfigured provider rejects empty login", func(t *testing.T) {
		err := NewAdminProvider("", "").ValidateCredentials(context.Background(), Credentials{})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestValidateAdminCredentials(t *testing.T) {
	policy := DefaultPasswordPolicy()

	tests := []struct {
		name    string
		user    string
		pass    string
		wantErr string
	}{
		{name: "strong", user: "admin", pass: testPassword},
		{name: "empty user", user: "", pass: testPassword, wantErr: "ADMIN_USER must not be empty"},
		{name: "empty password", user: "admin", pass: "", wantErr: "must not be empty"},
		{name: "short", user: "admin", pass: "Sh0rt!", wantErr: "at least 12"},
		{name: "repeated", user: "admin", pass: "aaaaaaaaaaaa", wantErr: "simple numeric pattern"},
		{name: "numeric run", user: "admin", pass: "123456789012", wantErr: "simple numeric pattern"},
		{name: "keyboard", user: "admin", pass: "xxQWERTYxxxx", wantErr: "keyboard pattern"},
		{name: "weak prefix", user: "admin", pass: "password1234", wantErr: "common weak passwords"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminCredentials(tt.user, tt.pass, policy)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.pass != "" {
				assert.NotContains(t, err.Error(), tt.pass)
			}
		})
	}
}

func TestValidateJWTSecret(t *testing.T) {
	assert.Error(t, ValidateJWTSecret(""))
	assert.Error(t, ValidateJWTSecret("short"))
	assert.NoError(t, ValidateJWTSecret(testSecret))
}

func TestTokenHandler(t *testing.T) {
	issuer := NewIssuer([]byte(testSecret), time.Hour)
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }
	h := TokenHandler(NewAdminProvider(testUser, testPassword), issuer)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "valid", body: `{"username":"` + testUser + `","password":"` + testPassword + `"}`, wantCode: http.StatusOK},
		{name: "bad password", body: `{"username":"` + testUser + `","password":"wrong"}`, wantCode: http.StatusUnauthorized},
		{name: "malformed", body: `{"username":`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failuresBefore := testutil.ToFloat64(authRequestsTotal.WithLabelValues("failure"))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				assert.Equal(t, failuresBefore+1, testutil.ToFloat64(authRequestsTotal.WithLabelValues("failure")))
				return
			}

			var resp tokenResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, issued.Add(time.Hour).Unix(), resp.ExpiresAt)

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (any, error) {
				return []byte(testSecret), nil
			}, jwt.WithTimeFunc(func() time.Time { return issued }))
			require.NoError(t, err)
			assert.Equal(t, testUser, claims["sub"])
			assert.Equal(t, RoleAdmin, claims["role"])
		})
	}
}

func TestAuthz(t *testing.T) {
	var seenUser string
	protected := Authz([]byte(testSecret), DefaultPublicEndpoints)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	future := time.Now().Add(time.Hour).Unix()
	valid := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{"sub": testUser, "role": RoleAdmin, "exp": future})

	tests := []struct {
		name     string
		path     string
		authz    string
		wantCode int
		wantUser string
	}{
		{name: "public endpoint", path: "/health", wantCode: http.StatusOK},
		{name: "valid token", path: "/admin/submissions", authz: "Bearer " + valid, wantCode: http.StatusOK, wantUser: testUser},
		{name: "missing token", path: "/admin/submissions", wantCode: http.StatusUnauthorized},
		{name: "not bearer", path: "/admin/submissions", authz: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "wrong secret", path: "/admin/submissions", authz: "Bearer " + signToken(t, strings.Repeat("x", 32), jwt.SigningMethodHS256, jwt.MapClaims{"sub": testUser, "role": RoleAdmin, "exp": future}), wantCode: http.StatusUnauthorized},
		{name: "expired", path: "/admin/submissions", authz: "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{"sub": testUser, "role": RoleAdmin, "exp": time.Now().Add(-time.Minute).Unix()}), wantCode: http.StatusUnauthorized},
		{name: "no exp", path: "/admin/submissions", authz: "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{"sub": testUser, "role": RoleAdmin}), wantCode: http.StatusUnauthorized},
		{name: "other algorithm", path: "/admin/submissions", authz: "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS512, jwt.MapClaims{"sub": testUser, "role": RoleAdmin, "exp": future}), wantCode: http.StatusUnauthorized},
		{name: "non admin role", path: "/admin/submissions", authz: "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{"sub": testUser, "role": "viewer", "exp": future}), wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUser = ""
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authz != "" {
				req.Header.Set("Authorization", tt.authz)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, seenUser)
			if tt.wantCode == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestIsPublicEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/health", true},
		{"/health/", true},
		{"/health/detail", false},
		{"/healthcheck", false},
		{"/swagger/index.html", true},
		{"/contact", true},
		{"/contact/details", true},
		{"/admin/submissions", false},
		{"/admin/submissions/abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPublicEndpoint(tt.path, DefaultPublicEndpoints))
		})
	}
}
