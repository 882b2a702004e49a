// Package auth turns an inbound Authorization header into a verified Session
// and guards operations by role.
package auth

import (
	"errors"

	"github.com/rs/zerolog"

	"wishlist/api/internal/apperr"
	"wishlist/api/internal/models"
	"wishlist/api/internal/security"
)

const (
	MsgSignInRequired = "you need to be signed in"
	MsgInvalidToken   = "invalid authentication token"
)

// Session is rebuilt from the bearer token on every request and never stored.
type Session struct {
	UserID string
	Roles  []models.Role
	Token  string
}

type TokenVerifier interface {
	Verify(token string) (security.Claims, error)
}

type Authenticator struct {
	tokens TokenVerifier
	log    zerolog.Logger
}

func NewAuthenticator(tokens TokenVerifier, log zerolog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, log: log}
}

// Authenticate verifies the header and returns the session it proves. Every
// failure is an UNAUTHORIZED apperr.Error; the cause is wrapped for logging.
func (a *Authenticator) Authenticate(header string) (Session, error) {
	token, err := ParseBearer(header)
	switch {
	case errors.Is(err, ErrNoCredentials):
		return Session{}, apperr.Wrap(apperr.CodeUnauthorized, MsgSignInRequired, err)
	case err != nil:
		return Session{}, apperr.Wrap(apperr.CodeUnauthorized, MsgInvalidToken, err)
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		reason := "token_invalid"
		if errors.Is(err, security.ErrTokenExpired) {
			reason = "token_expired"
		}
		a.log.Warn().Err(err).Str("reason", reason).Msg("token rejected")
		return Session{}, apperr.Wrap(apperr.CodeUnauthorized, MsgInvalidToken, err)
	}

	return Session{
		UserID: claims.UserID,
		Roles:  claims.Roles,
		Token:  token,
	}, nil
}
