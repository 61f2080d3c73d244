package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/http/response"
	"github.com/campusai/teachassist/internal/platform/ctxutil"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// SessionAuth binds bearer tokens to the user_id a request names. Without a
// token the request passes unless Required is set.
type SessionAuth struct {
	log      *logger.Logger
	verifier TokenVerifier
	required bool
}

func NewSessionAuth(log *logger.Logger, verifier TokenVerifier, required bool) *SessionAuth {
	return &SessionAuth{
		log:      log.With("middleware", "SessionAuth"),
		verifier: verifier,
		required: required,
	}
}

func (m *SessionAuth) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if m.required {
				response.AbortError(c, http.StatusUnauthorized, "unauthorized", "missing session token")
				return
			}
			c.Next()
			return
		}
		if m.verifier == nil {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", "session tokens are not enabled")
			return
		}
		sessionID, err := m.verifier.Verify(token)
		if err != nil {
			m.log.Debug("session token rejected", "error", err)
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", "invalid or expired session token")
			return
		}
		if userID := requestUserID(c); userID != "" && userID != sessionID {
			response.AbortError(c, http.StatusForbidden, "forbidden", "token does not match user_id")
			return
		}
		ctx := ctxutil.WithSessionData(c.Request.Context(), &ctxutil.SessionData{
			SessionID: sessionID,
			Verified:  true,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// requestUserID reads user_id from the path first, then the form body.
func requestUserID(c *gin.Context) string {
	if v := strings.TrimSpace(c.Param("user_id")); v != "" {
		return v
	}
	return strings.TrimSpace(c.PostForm("user_id"))
}
