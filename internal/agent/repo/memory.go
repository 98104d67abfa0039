package repo

import (
	"context"
	"sync"

	"github.com/chat-governanca/server/internal/agent/model"
	"github.com/cloudwego/eino/schema"
)

// MemoryConversationRepository keeps conversations in process memory. It is
// used when no Redis URL is configured.
type MemoryConversationRepository struct {
	mu    sync.RWMutex
	convs map[string][]*schema.Message
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{convs: make(map[string][]*schema.Message)}
}

func (r *MemoryConversationRepository) AddMessage(_ context.Context, conversationID string, message *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.convs[conversationID] = append(r.convs[conversationID], message)
	return nil
}

func (r *MemoryConversationRepository) LoadHistory(_ context.Context, conversationID string) (*model.ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.convs[conversationID]
	msgs := make([]*schema.Message, len(src))
	copy(msgs, src)
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

func (r *MemoryConversationRepository) ClearHistory(_ context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.convs, conversationID)
	return nil
}

func (r *MemoryConversationRepository) GetMessageCount(_ context.Context, conversationID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.convs[conversationID]), nil
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)
