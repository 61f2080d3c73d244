package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/http/response"
	"github.com/campusai/teachassist/internal/progress"
)

type ProgressHandler struct {
	progress progress.Service
}

func NewProgressHandler(svc progress.Service) *ProgressHandler {
	return &ProgressHandler{progress: svc}
}

func (h *ProgressHandler) Track(c *gin.Context) {
	userID, ok := requireField(c, "user_id")
	if !ok {
		return
	}
	topic, ok := requireField(c, "topic")
	if !ok {
		return
	}
	activity, ok := requireField(c, "activity_type")
	if !ok {
		return
	}
	score, ok := optionalInt(c, "score")
	if !ok {
		return
	}
	total, ok := optionalInt(c, "total")
	if !ok {
		return
	}
	ack, err := h.progress.Track(c.Request.Context(), progress.TrackInput{
		UserID: userID, Topic: topic, Activity: activity, Score: score, Total: total,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, ack)
}

func (h *ProgressHandler) Get(c *gin.Context) {
	v, err := h.progress.View(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, v)
}

func (h *ProgressHandler) Recommendations(c *gin.Context) {
	v, err := h.progress.Recommendations(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, v)
}

func (h *ProgressHandler) Analytics(c *gin.Context) {
	v, err := h.progress.Analytics(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, v)
}

func (h *ProgressHandler) Performance(c *gin.Context) {
	v, err := h.progress.Performance(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, v)
}
