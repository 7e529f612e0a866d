package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPError is the body of every error response, from handlers and
// middleware alike.
type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

// Abort writes the error and stops the handler chain. Middleware uses it.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func Business(c *gin.Context, be BusinessError) {
	Write(c, be.Status(), be.Code, be.Message())
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Unavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}
