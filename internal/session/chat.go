package session

import (
	"slices"
	"strings"
	"time"
)

const (
	MaxChatEntries = 50
	// contextEntries is how much of the history is sent as chat context.
	contextEntries = 10
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatEntry struct {
	Role    string    `yaml:"role"`
	Content string    `yaml:"content"`
	At      time.Time `yaml:"at"`
}

// ChatHistory keeps the newest MaxChatEntries messages.
type ChatHistory struct {
	entries []ChatEntry
	now     func() time.Time
}

func NewChatHistory(entries []ChatEntry) *ChatHistory {
	h := &ChatHistory{entries: slices.Clone(entries), now: time.Now}
	h.trim()
	return h
}

func (h *ChatHistory) Add(role, content string) {
	h.entries = append(h.entries, ChatEntry{Role: role, Content: content, At: h.now().UTC()})
	h.trim()
}

func (h *ChatHistory) trim() {
	if over := len(h.entries) - MaxChatEntries; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
	}
}

func (h *ChatHistory) Entries() []ChatEntry { return slices.Clone(h.entries) }

func (h *ChatHistory) Len() int { return len(h.entries) }

func (h *ChatHistory) Clear() { h.entries = nil }

// Context renders the latest messages as "role: content" lines.
func (h *ChatHistory) Context() string {
	recent := h.entries
	if len(recent) > contextEntries {
		recent = recent[len(recent)-contextEntries:]
	}
	var b strings.Builder
	for i, e := range recent {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Role)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(e.Content))
	}
	return b.String()
}
