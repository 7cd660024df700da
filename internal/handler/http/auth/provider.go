// Package auth issues and checks the bearer tokens that protect the admin
// submission listing.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
)

// ErrInvalidCredentials is returned for any username/password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is a login attempt.
type Credentials struct {
	Username string
	Password string
}

// Provider checks login attempts.
type Provider interface {
	ValidateCredentials(ctx context.Context, creds Credentials) error
	Name() string
}

// AdminProvider accepts exactly one configured admin account.
type AdminProvider struct {
	user     string
	password string
}

// NewAdminProvider creates an AdminProvider. Startup should run
// ValidateAdminCredentials on the same values first.
func NewAdminProvider(user, password string) *AdminProvider {
	return &AdminProvider{user: user, password: password}
}

// ValidateCredentials compares in constant time. Both comparisons always
// run so timing does not reveal which half was wrong.
func (p *AdminProvider) ValidateCredentials(_ context.Context, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" || p.user == "" || p.password == "" {
		return ErrInvalidCredentials
	}
	userMatch := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(p.user))
	passMatch := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(p.password))
	if userMatch&passMatch != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func (p *AdminProvider) Name() string { return "admin" }
