package auth

import (
	"errors"
	"strings"
)

const bearerPrefix = "Bearer "

var (
	ErrNoCredentials = errors.New("authorization header missing")
	ErrNotBearer     = errors.New("authorization header is not a bearer credential")
)

// ParseBearer extracts the token from an Authorization header value. The
// prefix match is exact and case-sensitive, and the remainder is returned
// untouched.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrNoCredentials
	}
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", ErrNotBearer
	}
	return token, nil
}
