package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/assistant"
	"github.com/campusai/teachassist/internal/http/response"
)

type ChatHandler struct {
	chat assistant.ChatService
}

func NewChatHandler(chat assistant.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	topic, ok := requireField(c, "topic")
	if !ok {
		return
	}
	action := optionalField(c, "action", assistant.ActionAsk)
	message := optionalField(c, "message", "")
	// a quiz is generated from the topic alone
	if message == "" && action != assistant.ActionQuiz {
		if _, ok := requireField(c, "message"); !ok {
			return
		}
	}
	response.RespondOK(c, h.chat.Chat(c.Request.Context(), assistant.ChatRequest{
		Topic:        topic,
		Message:      message,
		Conversation: c.PostForm("context"),
		Action:       action,
	}))
}
