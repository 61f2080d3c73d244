package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError maps err onto its apierr status and code, 500 otherwise.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	RespondError(c, ae.Status, ae.Code, ae)
}

func AbortError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{Message: msg, Code: code},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
