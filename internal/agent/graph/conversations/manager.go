package conversations

import (
	"context"
	"strings"

	"github.com/chat-governanca/server/internal/agent/model"
	errx "github.com/chat-governanca/server/internal/core/error"

	"github.com/cloudwego/eino/schema"
)

// MessagesManager turns the stored chat log into model context. The chat
// shell owns writes to the log; the agent graph only reads it.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	maxMessages      int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	turns := config.HistoryTurns
	if turns <= 0 {
		turns = 10
	}
	return &MessagesManager{
		conversationRepo: conversationRepo,
		maxMessages:      turns * 2,
	}
}

// BuildContext returns the system prompt followed by the recent dialogue. The
// query is appended when the log does not already end with it.
func (cm *MessagesManager) BuildContext(ctx context.Context, conversationID, query, systemPrompt string) ([]*schema.Message, error) {
	var dialogue []*schema.Message
	if cm.conversationRepo != nil && conversationID != "" {
		history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		dialogue = dialogueOnly(history.Messages)
	}

	if n := len(dialogue); n == 0 || dialogue[n-1].Role != schema.User || dialogue[n-1].Content != query {
		dialogue = append(dialogue, schema.UserMessage(query))
	}

	recent := trimTail(dialogue, cm.maxMessages)
	// models expect the dialogue to open with a user turn
	for len(recent) > 0 && recent[0].Role != schema.User {
		recent = recent[1:]
	}

	messages := make([]*schema.Message, 0, len(recent)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, recent...)
	return messages, nil
}

// dialogueOnly keeps user and assistant text, dropping displayed error entries.
func dialogueOnly(messages []*schema.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case schema.User:
			out = append(out, schema.UserMessage(msg.Content))
		case schema.Assistant:
			if errx.IsDisplayError(msg.Content) {
				continue
			}
			out = append(out, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return out
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxMessages int) []*schema.Message {
	if maxMessages <= 0 || len(messages) <= maxMessages {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxMessages:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
