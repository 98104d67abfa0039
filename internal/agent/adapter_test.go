package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chat-governanca/server/internal/agent/graph"
	"github.com/chat-governanca/server/internal/agent/model"
	errx "github.com/chat-governanca/server/internal/core/error"
)

type fakeRunner struct {
	answer *graph.Answer
	err    error
	wait   bool
	got    model.QueryInput
}

func (f *fakeRunner) Invoke(ctx context.Context, in model.QueryInput) (*graph.Answer, error) {
	f.got = in
	if f.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.answer, f.err
}

func TestAnswerSplitsCodeBlock(t *testing.T) {
	r := &fakeRunner{answer: &graph.Answer{
		Content: "A média é 42.\n\n```python\ndf['idade'].mean()\n```",
		Trace:   "describe_table({})\n→ {}",
	}}
	a := NewWithRunner(r, time.Second)

	answer, reasoning, err := a.Answer(context.Background(), "s1", "qual a média?")

	require.NoError(t, err)
	assert.Equal(t, "A média é 42.", answer)
	assert.Equal(t, "df['idade'].mean()", reasoning)
	assert.Equal(t, "s1", r.got.ConversationID)
}

func TestAnswerFallsBackToTraceThenPlaceholder(t *testing.T) {
	a := NewWithRunner(&fakeRunner{answer: &graph.Answer{Content: "São 3.", Trace: "head_rows({})\n→ {}"}}, 0)
	_, reasoning := a.GenerateAnswer(context.Background(), "quantas?")
	assert.Equal(t, "head_rows({})\n→ {}", reasoning)

	a = NewWithRunner(&fakeRunner{answer: &graph.Answer{Content: "Olá!"}}, 0)
	answer, reasoning := a.GenerateAnswer(context.Background(), "oi")
	assert.Equal(t, "Olá!", answer)
	assert.Equal(t, NoReasoningPlaceholder, reasoning)
}

func TestAnswerEmptyContent(t *testing.T) {
	a := NewWithRunner(&fakeRunner{answer: &graph.Answer{Trace: "x"}}, 0)

	answer, _ := a.GenerateAnswer(context.Background(), "q")

	assert.Equal(t, emptyAnswer, answer)
}

func TestAnswerFailureMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   errx.Kind
		prefix string
	}{
		{"quota", errors.New("error, status code: 429, message: You exceeded your current quota"), errx.KindAgentQuota, errx.GlyphWarning},
		{"gemini quota", errors.New("Error 429, Status: RESOURCE_EXHAUSTED"), errx.KindAgentQuota, errx.GlyphWarning},
		{"auth", errors.New("error, status code: 401, message: Incorrect API key provided"), errx.KindAgentAuth, errx.GlyphKey},
		{"permission", errors.New("rpc error: PERMISSION_DENIED"), errx.KindAgentAuth, errx.GlyphKey},
		{"generic", errors.New("connection reset by peer"), errx.KindAgentGeneric, errx.GlyphError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewWithRunner(&fakeRunner{err: tt.err}, 0)

			answer, reasoning, err := a.Answer(context.Background(), "s", "q")

			require.Error(t, err)
			assert.Equal(t, tt.kind, errx.KindOf(err))
			assert.True(t, strings.HasPrefix(answer, tt.prefix), answer)
			assert.True(t, errx.IsDisplayError(answer))
			assert.Empty(t, reasoning)
		})
	}
}

func TestGenericFailureEmbedsOriginalText(t *testing.T) {
	a := NewWithRunner(&fakeRunner{err: errors.New("boom")}, 0)

	answer, _ := a.GenerateAnswer(context.Background(), "q")

	assert.Equal(t, "❌ **Erro ao processar a pergunta:** boom", answer)
}

func TestAnswerTimeout(t *testing.T) {
	a := NewWithRunner(&fakeRunner{wait: true}, 10*time.Millisecond)

	answer, _, err := a.Answer(context.Background(), "s", "q")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, strings.HasPrefix(answer, errx.GlyphError))
	assert.Contains(t, answer, "tempo limite")
}

func TestParseFailureSalvagesFinalAnswer(t *testing.T) {
	err := errors.New("An output parsing error occurred. Could not parse LLM output: `Thought: somei a coluna\nFinal Answer: O total é 1.234.`")
	a := NewWithRunner(&fakeRunner{err: err}, 0)

	answer, reasoning, gotErr := a.Answer(context.Background(), "s", "q")

	assert.Equal(t, errx.KindAgentParse, errx.KindOf(gotErr))
	assert.Equal(t, "O total é 1.234.", answer)
	assert.Empty(t, reasoning)
}

func TestParseFailureSalvagesCode(t *testing.T) {
	err := errors.New("could not parse LLM output: `Vou calcular:\n```python\ndf['x'].mean()\n```\nA média é 3.`")

	answer, reasoning, kind := failureAnswer(err)

	assert.Equal(t, errx.KindAgentParse, kind)
	assert.Equal(t, "Vou calcular:\n\nA média é 3.", answer)
	assert.Equal(t, "df['x'].mean()", reasoning)
}

func TestParseFailureSalvagesActionInput(t *testing.T) {
	err := errors.New("Parsing error: could not parse LLM output: `Action: python_repl\nAction Input: df.shape[0]\nObservation:`")

	answer, reasoning, _ := failureAnswer(err)

	assert.Equal(t, "Action: python_repl\nAction Input: df.shape[0]\nObservation:", answer)
	assert.Equal(t, "df.shape[0]", reasoning)
}

func TestParseFailureFromToolArguments(t *testing.T) {
	err := errors.New("[NodeRunError] could not parse LLM output: invalid tool arguments for head_rows: `n=3`")

	answer, reasoning, kind := failureAnswer(err)

	assert.Equal(t, errx.KindAgentParse, kind)
	assert.Equal(t, unparsedAnswer, answer)
	assert.Equal(t, "head_rows(n=3)", reasoning)
}

func TestSplitCode(t *testing.T) {
	answer, code := SplitCode("sem código")
	assert.Equal(t, "sem código", answer)
	assert.Empty(t, code)

	answer, code = SplitCode("a\n```\nx = 1\n```\nb\n```sql\nselect 1\n```")
	assert.Equal(t, "a\n\nb", answer)
	assert.Equal(t, "x = 1\n\nselect 1", code)
}

func TestBuildFailureIsReturnedAsAnswer(t *testing.T) {
	var cfg model.ProviderConfig
	cfg.Provider = "openai"

	a := New(context.Background(), Config{Provider: cfg})
	require.Error(t, a.Err())

	answer, reasoning := a.GenerateAnswer(context.Background(), "q")
	assert.True(t, strings.HasPrefix(answer, errx.GlyphKey), answer)
	assert.Empty(t, reasoning)
}
