package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/http/response"
)

type SessionIssuer interface {
	Issue() (learning.SessionGrant, error)
}

type SessionHandler struct {
	issuer SessionIssuer
}

func NewSessionHandler(issuer SessionIssuer) *SessionHandler {
	return &SessionHandler{issuer: issuer}
}

func (h *SessionHandler) Create(c *gin.Context) {
	grant, err := h.issuer.Issue()
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "session_issue_failed", err)
		return
	}
	response.RespondOK(c, grant)
}
