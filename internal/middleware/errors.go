package middleware

import (
	"github.com/gin-gonic/gin"

	"wishlist/api/internal/apperr"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    apperr.Code `json:"code"`
	Details string      `json:"details"`
}

func abortWithError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(apperr.HTTPStatus(code), ErrorBody{Code: code, Details: err.Error()})
}
