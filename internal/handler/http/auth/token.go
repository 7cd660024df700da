package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"contact-pipeline/internal/handler/http/requestid"
	"contact-pipeline/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role this service issues.
const RoleAdmin = "admin"

// Issuer signs HS256 admin tokens.
type Issuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. A non-positive expiry means one hour.
func NewIssuer(secret []byte, expiry time.Duration) *Issuer {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &Issuer{secret: secret, expiry: expiry, now: time.Now}
}

// Issue returns a signed token for subject and its expiry time.
func (i *Issuer) Issue(subject string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.expiry)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": RoleAdmin,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

type loginRequest struct {
	Username string `json:"username" example:"admin@example.com"`
	Password string `json:"password" example:"your_password"`
}

type tokenResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt int64  `json:"expires_at" example:"1718003600"`
}

// TokenHandler exchanges admin credentials for a bearer token.
//
// @Summary      Issue an admin token
// @Description  Authenticates ADMIN_USER / ADMIN_USER_PASSWORD and returns an HS256 JWT for the admin API.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Credentials"
// @Success      200 {object} tokenResponse
// @Failure      400 {object} respond.ErrorBody "Malformed request"
// @Failure      401 {object} respond.ErrorBody "Invalid credentials"
// @Failure      429 {object} respond.ErrorBody "Too many requests"
// @Failure      500 {object} respond.ErrorBody "Token generation failed"
// @Router       /auth/token [post]
func TokenHandler(provider Provider, issuer *Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		fail := func(code int, reason string, err error) {
			logger.Warn("authentication failed",
				slog.String("reason", reason),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			RecordAuthRequest("failure")
			RecordAuthDuration(time.Since(start).Seconds())
			respond.SafeError(w, code, err)
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(http.StatusBadRequest, "invalid_request", errors.New("invalid request body"))
			return
		}

		creds := Credentials{Username: req.Username, Password: req.Password}
		if err := provider.ValidateCredentials(r.Context(), creds); err != nil {
			fail(http.StatusUnauthorized, "invalid_credentials", respond.NewAppError(http.StatusUnauthorized, "unauthorized", nil))
			return
		}

		signed, exp, err := issuer.Issue(req.Username)
		if err != nil {
			logger.Error("token generation failed", slog.Any("error", err))
			fail(http.StatusInternalServerError, "token_generation_failed", err)
			return
		}

		logger.Info("authentication successful",
			slog.String("provider", provider.Name()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		RecordAuthRequest("success")
		RecordAuthDuration(time.Since(start).Seconds())

		respond.JSON(w, http.StatusOK, tokenResponse{Token: signed, ExpiresAt: exp.Unix()})
	}
}
