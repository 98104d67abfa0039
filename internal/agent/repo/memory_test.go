package repo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chat-governanca/server/internal/agent/model"
)

func TestMemoryConversationRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()

	require.NoError(t, r.AddMessage(ctx, "c1", schema.UserMessage("oi")))
	require.NoError(t, r.AddMessage(ctx, "c1", schema.AssistantMessage("olá", nil)))
	require.NoError(t, r.AddMessage(ctx, "c2", schema.UserMessage("outro")))

	h, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, h.Messages, 2)
	assert.Equal(t, schema.User, h.Messages[0].Role)
	assert.Equal(t, "olá", h.Messages[1].Content)

	// the returned slice is a copy
	h.Messages[0] = nil
	n, err := r.GetMessageCount(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	again, _ := r.LoadHistory(ctx, "c1")
	assert.NotNil(t, again.Messages[0])

	require.NoError(t, r.ClearHistory(ctx, "c1"))
	n, _ = r.GetMessageCount(ctx, "c1")
	assert.Zero(t, n)
	n, _ = r.GetMessageCount(ctx, "c2")
	assert.Equal(t, 1, n)
}

func TestMemoryConversationRepositoryConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.AddMessage(ctx, "c", schema.UserMessage("x"))
		}()
	}
	wg.Wait()

	n, err := r.GetMessageCount(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestRedisConversationKey(t *testing.T) {
	r := NewRedisConversationRepository(nil, 0)
	assert.Equal(t, "chat-governanca:session:abc:messages", r.conversationKey("abc"))
}

func TestStoredMessageKeepsReasoning(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := schema.AssistantMessage("A média é 42.", nil)
	msg.Extra = map[string]any{model.ExtraReasoning: "describe_table({})"}

	s := toStored(msg, at)
	assert.Equal(t, schema.Assistant, s.Role)
	assert.Equal(t, "describe_table({})", s.Reasoning)
	assert.Equal(t, at, s.At)

	back := s.message()
	assert.Equal(t, "A média é 42.", back.Content)
	assert.Equal(t, "describe_table({})", back.Extra[model.ExtraReasoning])

	plain := toStored(schema.UserMessage("oi"), at).message()
	assert.Nil(t, plain.Extra)
}
