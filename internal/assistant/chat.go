package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/rag"
)

// Chat actions.
const (
	ActionAsk      = "ask"
	ActionSimplify = "simplify"
	ActionExample  = "example"
	ActionQuiz     = "quiz"
)

const (
	chatQuizQuestions  = 3
	maxConversationLen = 4000
)

type ChatRequest struct {
	Topic   string
	Message string
	// Conversation is the prior exchange as plain text, newest last.
	Conversation string
	Action       string
}

// ChatService answers follow-up questions inside a topic.
type ChatService interface {
	Chat(ctx context.Context, req ChatRequest) learning.StageResult
}

type chatService struct {
	log       *logger.Logger
	answerer  *Answerer
	retriever Retriever
	topK      int
}

func NewChatService(baseLog *logger.Logger, answerer *Answerer, retriever Retriever, topK int) ChatService {
	if topK <= 0 {
		topK = rag.DefaultTopK
	}
	return &chatService{
		log:       baseLog.With("service", "ChatService"),
		answerer:  answerer,
		retriever: retriever,
		topK:      topK,
	}
}

func (s *chatService) Chat(ctx context.Context, req ChatRequest) learning.StageResult {
	action := normalize(req.Action)
	if action == "" {
		action = ActionAsk
	}
	var template string
	switch action {
	case ActionAsk:
		template = chatAskPrompt
	case ActionSimplify:
		template = chatSimplifyPrompt
	case ActionExample:
		template = chatExamplePrompt
	case ActionQuiz:
	default:
		return learning.Errorf("Invalid action specified")
	}
	ctx = llm.WithPurpose(ctx, "chat."+action)

	hits, err := s.retriever.Retrieve(ctx, strings.TrimSpace(req.Topic+" "+req.Message), s.topK)
	if err != nil {
		s.log.Warn("chat retrieval failed", "error", err)
	}
	background := rag.JoinContents(hits)

	if action == ActionQuiz {
		if background == "" {
			background = "Topic: " + req.Topic
		}
		qs, err := generateQuiz(ctx, s.answerer, chatQuizQuestions, req.Topic, truncate(background, 2000))
		if err != nil {
			return learning.Errorf("Quiz generation failed: %v", err)
		}
		return learning.StageResult{Stage: learning.StageQuiz, Questions: qs}
	}

	conversation := strings.TrimSpace(req.Conversation)
	if r := []rune(conversation); len(r) > maxConversationLen {
		conversation = string(r[len(r)-maxConversationLen:])
	}
	if conversation == "" {
		conversation = "(none)"
	}
	prompt := fmt.Sprintf(template, req.Topic, conversation, req.Message)
	text, err := s.answerer.Mentor(ctx, orGeneral(background, generalKnowledge), prompt)
	if err != nil {
		return learning.Errorf("LLM Error: %v", err)
	}
	return learning.StageResult{Stage: learning.StageChat, Content: text}
}
