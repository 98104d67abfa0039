package agent

import (
	"fmt"
	"regexp"
	"strings"

	errx "github.com/chat-governanca/server/internal/core/error"
)

// NoReasoningPlaceholder is shown as the reasoning of answers that carry
// neither code nor tool calls.
const NoReasoningPlaceholder = "O agente respondeu diretamente, sem gerar código nem consultar a tabela."

const (
	quotaMessage = errx.GlyphWarning + " **Limite de uso da API atingido.**\n\n" +
		"Você pode:\n" +
		"1. Aguardar alguns minutos e tentar novamente;\n" +
		"2. Verificar o plano e os limites de cobrança no painel do provedor;\n" +
		"3. Trocar de provedor em `LLM_PROVIDER` (por exemplo `ollama`, gratuito e local);\n" +
		"4. Usar um modelo menor em `OPENAI_MODEL` ou `GEMINI_MODEL`."
	authMessage = errx.GlyphKey + " **Erro de autenticação com o provedor LLM.**\n\n" +
		"Verifique se a chave de API (`OPENAI_API_KEY` ou `GOOGLE_API_KEY`) está correta, ativa e com permissão para o modelo configurado."
	genericFormat  = errx.GlyphError + " **Erro ao processar a pergunta:** %s"
	emptyAnswer    = "Não consegui chegar a uma resposta final dentro do limite de iterações. Tente reformular a pergunta de forma mais específica."
	unparsedAnswer = "Não consegui interpretar a resposta do modelo. Tente reformular a pergunta."
)

var (
	parseMarkers = []string{"could not parse llm output", "output parsing", "parsing error", "invalid tool arguments"}
	quotaMarkers = []string{"rate limit", "quota", "429", "resource_exhausted", "too many requests"}
	authMarkers  = []string{"api key", "api_key", "authentication", "unauthorized", "401", "permission_denied", "403"}
)

// classify maps a failure text to an agent error kind by substring.
func classify(text string) errx.Kind {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, parseMarkers):
		return errx.KindAgentParse
	case containsAny(lower, quotaMarkers):
		return errx.KindAgentQuota
	case containsAny(lower, authMarkers):
		return errx.KindAgentAuth
	}
	return errx.KindAgentGeneric
}

var (
	fenceRe       = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*[ \\t]*\\n?(.*?)```")
	finalAnswerRe = regexp.MustCompile(`(?is)final answer:\s*(.+)`)
	rawOutputRe   = regexp.MustCompile("(?is)could not parse llm output:\\s*`(.+)`")
	toolArgsRe    = regexp.MustCompile("(?is)invalid tool arguments for (\\S+):\\s*`(.*)`")
	actionInputRe = regexp.MustCompile(`(?is)action input:\s*(.+?)(?:\n\s*(?:observation|thought|final answer)\s*:|$)`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
)

// SplitCode removes fenced code blocks from raw and returns the remaining
// text and the blocks' contents, joined by blank lines.
func SplitCode(raw string) (answer, code string) {
	var blocks []string
	for _, m := range fenceRe.FindAllStringSubmatch(raw, -1) {
		if b := strings.TrimSpace(m[1]); b != "" {
			blocks = append(blocks, b)
		}
	}
	if !fenceRe.MatchString(raw) {
		return strings.TrimSpace(raw), ""
	}
	answer = fenceRe.ReplaceAllString(raw, "")
	answer = blankLinesRe.ReplaceAllString(answer, "\n\n")
	return strings.TrimSpace(answer), strings.Join(blocks, "\n\n")
}

// salvage recovers an answer and any code fragment from the text of an
// output-parsing failure.
func salvage(text string) (answer, code string) {
	if m := toolArgsRe.FindStringSubmatch(text); m != nil {
		return unparsedAnswer, fmt.Sprintf("%s(%s)", m[1], m[2])
	}

	body := text
	if m := rawOutputRe.FindStringSubmatch(text); m != nil {
		body = m[1]
	}

	candidate := ""
	if m := finalAnswerRe.FindStringSubmatch(body); m != nil {
		candidate = m[1]
	} else if body != text {
		candidate = body
	}

	answer, code = SplitCode(candidate)
	if code == "" {
		if m := actionInputRe.FindStringSubmatch(body); m != nil {
			code = strings.Trim(strings.TrimSpace(m[1]), "`")
		}
	}
	if answer == "" {
		answer = unparsedAnswer
	}
	return answer, code
}

// failureAnswer converts an agent failure into an answer and a reasoning trace.
func failureAnswer(err error) (answer, reasoning string, kind errx.Kind) {
	text := err.Error()
	kind = classify(text)
	switch kind {
	case errx.KindAgentParse:
		answer, reasoning = salvage(text)
	case errx.KindAgentQuota:
		answer = quotaMessage
	case errx.KindAgentAuth:
		answer = authMessage
	default:
		answer = fmt.Sprintf(genericFormat, text)
	}
	return answer, reasoning, kind
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
