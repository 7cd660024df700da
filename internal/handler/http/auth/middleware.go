package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"contact-pipeline/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxUser ctxKey = "user"

// UserFromContext returns the authenticated subject, or "".
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(ctxUser).(string)
	return user
}

// Authz requires a valid admin bearer token on every request whose path is
// not in publicEndpoints, whatever the method.
func Authz(secret []byte, publicEndpoints []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			defer func() { RecordAuthzCheckDuration(time.Since(start).Seconds()) }()

			if IsPublicEndpoint(r.URL.Path, publicEndpoints) {
				next.ServeHTTP(w, r)
				return
			}

			user, role, err := validateJWT(r.Header.Get("Authorization"), secret)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				respond.SafeError(w, http.StatusUnauthorized, respond.NewAppError(http.StatusUnauthorized, "unauthorized", fmt.Errorf("unauthorized: %w", err)))
				return
			}
			if role != RoleAdmin {
				RecordForbiddenAttempt(role, r.Method)
				respond.SafeError(w, http.StatusForbidden, respond.NewAppError(http.StatusForbidden, "forbidden", nil))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateJWT(authz string, secret []byte) (string, string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return "", "", errors.New("missing bearer token")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(authz, prefix), claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", errors.New("token expired")
		}
		return "", "", errors.New("invalid token")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", "", errors.New("invalid sub claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return "", "", errors.New("invalid role claim")
	}
	return sub, role, nil
}
