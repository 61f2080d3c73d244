package learning

import (
	"errors"
	"fmt"
	"strings"
)

// Stage tags every learning payload returned by the backend.
type Stage string

const (
	StageExplain      Stage = "EXPLAIN"
	StageDeep         Stage = "DEEP"
	StageReferences   Stage = "REFERENCES"
	StageQuiz         Stage = "QUIZ"
	StageError        Stage = "ERROR"
	StageNotFound     Stage = "NOT_FOUND"
	StageDeepResearch Stage = "DEEP_RESEARCH"

	StageAnswer      Stage = "ANSWER"
	StageExplanation Stage = "EXPLANATION"
	StagePseudocode  Stage = "PSEUDOCODE"
	StageViva        Stage = "VIVA"

	StageResearch  Stage = "RESEARCH"
	StagePapers    Stage = "PAPERS"
	StageSummary   Stage = "SUMMARY"
	StageIdeas     Stage = "IDEAS"
	StageDetailed  Stage = "DETAILED"
	StageRoadmap   Stage = "ROADMAP"
	StageConcepts  Stage = "CONCEPTS"
	StageRecommend Stage = "RECOMMEND"
	StageCompare   Stage = "COMPARE"
	StageCodeGuide Stage = "CODE_GUIDE"
	StageChat      Stage = "CHAT"
)

// Failed reports whether the backend declared the request unsuccessful.
func (s Stage) Failed() bool {
	return s == StageError || s == StageNotFound
}

// StageResult is the tagged payload shared by /learn/, /lab/, /ask/ and /chat/.
type StageResult struct {
	Stage     Stage      `json:"stage"`
	Content   string     `json:"content,omitempty"`
	Next      string     `json:"next,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

func Errorf(format string, args ...any) StageResult {
	return StageResult{Stage: StageError, Content: fmt.Sprintf(format, args...)}
}

func NotFound(msg string) StageResult {
	return StageResult{Stage: StageNotFound, Content: msg}
}

func (r StageResult) Failed() bool { return r.Stage.Failed() }

var (
	ErrMissingStage   = errors.New("payload has no stage")
	ErrMissingContent = errors.New("payload has no content")
)

// Validate checks the shape a successful payload must have: quizzes carry a
// valid question set, everything else carries content.
func (r StageResult) Validate() error {
	switch {
	case strings.TrimSpace(string(r.Stage)) == "":
		return ErrMissingStage
	case r.Stage == StageQuiz:
		return ValidateQuestions(r.Questions)
	case r.Failed():
		return nil
	case strings.TrimSpace(r.Content) == "":
		return ErrMissingContent
	}
	return nil
}

// Message is the text a caller should show for a failed payload.
func (r StageResult) Message() string {
	if msg := strings.TrimSpace(r.Content); msg != "" {
		return msg
	}
	if r.Stage == StageNotFound {
		return "not found"
	}
	return "request failed"
}
