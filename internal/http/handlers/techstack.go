package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/assistant"
	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/http/response"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type TechStackHandler struct {
	log  *logger.Logger
	tech assistant.TechStackService
}

func NewTechStackHandler(log *logger.Logger, tech assistant.TechStackService) *TechStackHandler {
	return &TechStackHandler{log: log.With("handler", "TechStackHandler"), tech: tech}
}

func (h *TechStackHandler) respond(c *gin.Context, res learning.TechResult, err error) {
	if err != nil {
		h.log.Warn("tech stack request failed", "path", c.FullPath(), "error", err)
		response.RespondOK(c, learning.Errorf("LLM Error: %v", err))
		return
	}
	response.RespondOK(c, res)
}

func (h *TechStackHandler) Recommend(c *gin.Context) {
	projectType, ok := requireField(c, "project_type")
	if !ok {
		return
	}
	res, err := h.tech.Recommend(c.Request.Context(), projectType, optionalField(c, "requirements", ""))
	h.respond(c, res, err)
}

func (h *TechStackHandler) Compare(c *gin.Context) {
	tech1, ok := requireField(c, "tech1")
	if !ok {
		return
	}
	tech2, ok := requireField(c, "tech2")
	if !ok {
		return
	}
	res, err := h.tech.Compare(c.Request.Context(), tech1, tech2, optionalField(c, "context", ""))
	h.respond(c, res, err)
}

func (h *TechStackHandler) Explain(c *gin.Context) {
	concept, ok := requireField(c, "concept")
	if !ok {
		return
	}
	res, err := h.tech.Explain(c.Request.Context(), concept, optionalField(c, "depth", "intermediate"))
	h.respond(c, res, err)
}

func (h *TechStackHandler) CodeHelp(c *gin.Context) {
	task, ok := requireField(c, "task")
	if !ok {
		return
	}
	technology, ok := requireField(c, "technology")
	if !ok {
		return
	}
	res, err := h.tech.CodeGuide(c.Request.Context(), task, technology)
	h.respond(c, res, err)
}
