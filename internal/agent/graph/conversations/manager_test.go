package conversations

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chat-governanca/server/internal/agent/model"
	"github.com/chat-governanca/server/internal/agent/repo"
)

func TestBuildContextFromLog(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemoryConversationRepository()
	for _, m := range []*schema.Message{
		schema.AssistantMessage("Olá! Eu sou um agente de dados.", nil),
		schema.UserMessage("quantas linhas?"),
		schema.AssistantMessage("❌ **Erro inesperado:** boom", nil),
		schema.UserMessage("quantas linhas?"),
		schema.AssistantMessage("São 10 linhas.", nil),
		schema.UserMessage("e colunas?"),
	} {
		require.NoError(t, r.AddMessage(ctx, "s1", m))
	}

	mm := NewMessagesManager(r, model.ConversationConfig{HistoryTurns: 10})
	msgs, err := mm.BuildContext(ctx, "s1", "e colunas?", "SYS")
	require.NoError(t, err)

	require.Len(t, msgs, 5)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "SYS", msgs[0].Content)
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, "São 10 linhas.", msgs[3].Content)
	assert.Equal(t, "e colunas?", msgs[4].Content)
}

func TestBuildContextAppendsQueryAndTrims(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemoryConversationRepository()
	for i := 0; i < 5; i++ {
		require.NoError(t, r.AddMessage(ctx, "s1", schema.UserMessage(fmt.Sprintf("q%d", i))))
		require.NoError(t, r.AddMessage(ctx, "s1", schema.AssistantMessage(fmt.Sprintf("a%d", i), nil)))
	}

	mm := NewMessagesManager(r, model.ConversationConfig{HistoryTurns: 2})
	msgs, err := mm.BuildContext(ctx, "s1", "nova", "SYS")
	require.NoError(t, err)

	// the 4-message window starts at a3, dropped so the dialogue opens on a user turn
	var contents []string
	for _, m := range msgs[1:] {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"q4", "a4", "nova"}, contents)
}

func TestBuildContextWithoutRepository(t *testing.T) {
	mm := NewMessagesManager(nil, model.ConversationConfig{})
	msgs, err := mm.BuildContext(context.Background(), "", "oi", "SYS")
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, "oi", msgs[1].Content)
}
