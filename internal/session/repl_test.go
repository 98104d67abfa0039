package session

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runREPL(t *testing.T, a Answerer, input string) string {
	t.Helper()
	s, _ := newTestShell(t, a)
	var out bytes.Buffer
	err := NewREPL(s, strings.NewReader(input), &out).Run(context.Background())
	require.NoError(t, err)
	return out.String()
}

func TestREPLAnswersUntilExitWord(t *testing.T) {
	a := &fakeAnswerer{answer: "resposta"}
	out := runREPL(t, a, "pergunta\nsair\nnunca lida\n")

	assert.Contains(t, out, DefaultWelcome)
	assert.Contains(t, out, "resposta")
	assert.Contains(t, out, goodbye)
	assert.Equal(t, "pergunta", a.gotQ)
}

func TestREPLExitWordsAreCaseInsensitive(t *testing.T) {
	for _, word := range []string{"EXIT", "Fim", "sair"} {
		a := &fakeAnswerer{answer: "x"}
		out := runREPL(t, a, word+"\n")
		assert.Contains(t, out, goodbye, word)
		assert.Empty(t, a.gotQ, word)
	}
}

func TestREPLEndOfInputSaysGoodbye(t *testing.T) {
	out := runREPL(t, &fakeAnswerer{answer: "x"}, "")
	assert.Contains(t, out, goodbye)
}

func TestREPLShowsReasoning(t *testing.T) {
	a := &fakeAnswerer{answer: "A média é 42.", reasoning: "describe_table({})"}
	out := runREPL(t, a, "média?\n/raciocinio\n/raciocinio 2\n/raciocinio 0\n/raciocinio abc\n")

	assert.Equal(t, 2, strings.Count(out, "describe_table({})"))
	assert.Contains(t, out, "Nenhum raciocínio registrado")
	assert.Contains(t, out, "Índice inválido: abc")
}

func TestREPLHistoryAndUnknownCommand(t *testing.T) {
	a := &fakeAnswerer{answer: "resposta"}
	out := runREPL(t, a, "pergunta\n/historico\n/ajuda\n")

	assert.Equal(t, 2, strings.Count(out, "resposta"))
	assert.Contains(t, out, "Comandos:")
}

func TestREPLRendersErrorAnswers(t *testing.T) {
	a := &fakeAnswerer{answer: "⚠️ **Limite de uso atingido**"}
	out := runREPL(t, a, "pergunta\n")
	assert.Contains(t, out, "⚠️ **Limite de uso atingido**")
}
