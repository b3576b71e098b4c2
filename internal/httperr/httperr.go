package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string         `json:"error_code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

// Respond writes err using its business kind. Unknown errors are reported
// as internal without leaking the underlying message.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		_ = c.Error(err)
		Internal(c, "internal_error", "unexpected error")
		return
	}

	c.JSON(Status(err), HTTPError{
		Code:    be.Code,
		Message: strings.ReplaceAll(be.Code, "_", " "),
		Details: be.Details,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}
