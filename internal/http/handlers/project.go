package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/assistant"
	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/http/response"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type ProjectHandler struct {
	log      *logger.Logger
	projects assistant.ProjectService
}

func NewProjectHandler(log *logger.Logger, projects assistant.ProjectService) *ProjectHandler {
	return &ProjectHandler{log: log.With("handler", "ProjectHandler"), projects: projects}
}

func (h *ProjectHandler) Ideas(c *gin.Context) {
	subjects, ok := requireField(c, "subjects")
	if !ok {
		return
	}
	res, err := h.projects.Ideas(c.Request.Context(), subjects)
	if err != nil {
		h.log.Warn("project ideas failed", "error", err)
		response.RespondOK(c, learning.Errorf("Project idea generation failed: %v", err))
		return
	}
	response.RespondOK(c, res)
}

func (h *ProjectHandler) Details(c *gin.Context) {
	title, ok := requireField(c, "project_title")
	if !ok {
		return
	}
	res, err := h.projects.Details(c.Request.Context(), title, optionalField(c, "stage", "detailed"))
	if err != nil {
		h.log.Warn("project details failed", "error", err)
		response.RespondOK(c, learning.Errorf("Project detail generation failed: %v", err))
		return
	}
	response.RespondOK(c, res)
}
