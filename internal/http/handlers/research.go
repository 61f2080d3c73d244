package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/assistant"
	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/http/response"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type ResearchHandler struct {
	log      *logger.Logger
	research assistant.ResearchService
}

func NewResearchHandler(log *logger.Logger, research assistant.ResearchService) *ResearchHandler {
	return &ResearchHandler{log: log.With("handler", "ResearchHandler"), research: research}
}

func (h *ResearchHandler) Topic(c *gin.Context) {
	topic, ok := requireField(c, "topic")
	if !ok {
		return
	}
	res, err := h.research.ResearchTopic(c.Request.Context(), topic, boolField(c, "include_papers", true))
	if err != nil {
		h.log.Warn("research failed", "error", err)
		response.RespondOK(c, learning.Errorf("Research failed: %v", err))
		return
	}
	response.RespondOK(c, res)
}

func (h *ResearchHandler) Papers(c *gin.Context) {
	query, ok := requireField(c, "query")
	if !ok {
		return
	}
	response.RespondOK(c, h.research.SearchPapers(c.Request.Context(), query))
}

// Summarize accepts papers as a JSON array; without one it searches the
// topic first.
func (h *ResearchHandler) Summarize(c *gin.Context) {
	topic, ok := requireField(c, "topic")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var papers []learning.Paper
	if raw := strings.TrimSpace(c.PostForm("papers")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &papers); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_field", fmt.Errorf("papers must be a JSON array: %w", err))
			return
		}
	} else {
		papers = h.research.SearchPapers(ctx, topic).Papers
	}
	res, err := h.research.Summarize(ctx, topic, papers)
	if err != nil {
		h.log.Warn("summary failed", "error", err)
		response.RespondOK(c, learning.Errorf("Summary failed: %v", err))
		return
	}
	response.RespondOK(c, res)
}
