package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/assistant"
	"github.com/campusai/teachassist/internal/domain/learning"
	progresstypes "github.com/campusai/teachassist/internal/domain/progress"
	"github.com/campusai/teachassist/internal/http/response"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/progress"
)

type ActivityTracker interface {
	Track(ctx context.Context, in progress.TrackInput) (progresstypes.TrackAck, error)
}

type LearningHandler struct {
	log     *logger.Logger
	tutor   assistant.TutorService
	deep    assistant.DeepResearchService
	tracker ActivityTracker
}

func NewLearningHandler(log *logger.Logger, tutor assistant.TutorService, deep assistant.DeepResearchService, tracker ActivityTracker) *LearningHandler {
	return &LearningHandler{
		log:     log.With("handler", "LearningHandler"),
		tutor:   tutor,
		deep:    deep,
		tracker: tracker,
	}
}

func (h *LearningHandler) Ask(c *gin.Context) {
	question, ok := requireField(c, "question")
	if !ok {
		return
	}
	response.RespondOK(c, h.tutor.Ask(c.Request.Context(), question))
}

func (h *LearningHandler) Lab(c *gin.Context) {
	experiment, ok := requireField(c, "experiment")
	if !ok {
		return
	}
	step := optionalField(c, "step", "explanation")
	response.RespondOK(c, h.tutor.Lab(c.Request.Context(), experiment, step))
}

// trackedStages are recorded against user_id when /learn/ succeeds. Quizzes
// are tracked by the client once scored.
var trackedStages = map[learning.Stage]progresstypes.Activity{
	learning.StageExplain:    progresstypes.ActivityExplain,
	learning.StageDeep:       progresstypes.ActivityDeep,
	learning.StageReferences: progresstypes.ActivityReferences,
}

func (h *LearningHandler) Learn(c *gin.Context) {
	topic, ok := requireField(c, "topic")
	if !ok {
		return
	}
	stage, ok := requireField(c, "stage")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	res := h.tutor.Learn(ctx, topic, stage)

	userID := strings.TrimSpace(c.PostForm("user_id"))
	if activity, tracked := trackedStages[res.Stage]; tracked && userID != "" && h.tracker != nil {
		if _, err := h.tracker.Track(ctx, progress.TrackInput{
			UserID:   userID,
			Topic:    topic,
			Activity: string(activity),
		}); err != nil {
			h.log.Warn("auto-track failed", "user_id", userID, "stage", res.Stage, "error", err)
		}
	}
	response.RespondOK(c, res)
}

func (h *LearningHandler) DeepResearch(c *gin.Context) {
	topic, ok := requireField(c, "topic")
	if !ok {
		return
	}
	res, err := h.deep.DeepResearch(c.Request.Context(), topic)
	if err != nil {
		h.log.Warn("deep research failed", "error", err)
		response.RespondOK(c, learning.Errorf("Deep research failed: %v", err))
		return
	}
	response.RespondOK(c, res)
}
