package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	cause := errors.New("token is expired")
	wrapped := fmt.Errorf("authenticate: %w", Wrap(CodeUnauthorized, "invalid authentication token", cause))

	assert.Equal(t, CodeUnauthorized, CodeOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "authenticate: invalid authentication token", wrapped.Error())

	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.True(t, Is(NotFound("gift does not exist"), CodeNotFound))
	assert.False(t, Is(nil, CodeNotFound))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:       http.StatusBadRequest,
		CodeUnauthorized:     http.StatusUnauthorized,
		CodeForbidden:        http.StatusForbidden,
		CodeNotFound:         http.StatusNotFound,
		CodeMethodNotAllowed: http.StatusMethodNotAllowed,
		CodeConflict:         http.StatusConflict,
		CodeRateLimited:      http.StatusTooManyRequests,
		CodeInternal:         http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), code)
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Code("SOMETHING")))
}
