package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchTopicsExactKeyword(t *testing.T) {
	kb := DefaultKnowledgeBase()

	for _, msg := range []string{"regras da lgpd para clientes", "LGPD", "a LGPD se aplica?"} {
		got := kb.MatchTopics(msg)
		require.NotEmpty(t, got, msg)
		assert.Equal(t, TopicMatch{Topic: "lgpd", Score: 1.0}, got[0], msg)
	}
}

func TestMatchTopicsTiesKeepDeclarationOrder(t *testing.T) {
	kb := DefaultKnowledgeBase()

	got := kb.MatchTopics("preciso entender a lgpd")

	require.Len(t, got, 2)
	assert.Equal(t, "lgpd", got[0].Topic)
	assert.Equal(t, "qualidade_dados", got[1].Topic)
}

func TestMatchTopicsSimilarityFallback(t *testing.T) {
	kb := DefaultKnowledgeBase()

	got := kb.MatchTopics("lgp")

	require.Len(t, got, 1)
	assert.Equal(t, "lgpd", got[0].Topic)
	assert.InDelta(t, 6.0/7.0, got[0].Score, 1e-9)
}

func TestMatchTopicsLongMessageMissesSimilarity(t *testing.T) {
	kb := DefaultKnowledgeBase()

	assert.Empty(t, kb.MatchTopics("xyz123 random text"))
}

func TestMatchTopicsDeterministic(t *testing.T) {
	kb := DefaultKnowledgeBase()
	msg := "auditoria de acesso e conformidade com a política de privacidade"

	first := kb.MatchTopics(msg)
	second := kb.MatchTopics(msg)

	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 0.75, Similarity("abcd", "bcde"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("LGPD", "lgpd"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
}

func TestExtractIntent(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"Olá", IntentGreeting},
		{"Bom dia, tudo bem", IntentGreeting},
		{"O que é LGPD?", IntentQuestion},
		{"explicar o conceito", IntentExplanation},
		{"passo a passo", IntentProcedure},
		{"deu erro no relatório", IntentProblem},
		{"tchau", IntentFarewell},
		{"socorro", IntentHelp},
		{"xyz123 random text", IntentGeneral},
		{"E aí, tudo certo", IntentGreeting},
		{"o que ainda falta na lgpd", IntentGeneral},
		{"porque ainda", IntentQuestion},
		{"tenho uma duvida", IntentHelp},
		{"tenho uma duvida sobre isso", IntentHelp},
		{"tenho uma dúvida", IntentProblem},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractIntent(tt.message), tt.message)
	}
}
