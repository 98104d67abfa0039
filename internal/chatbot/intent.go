package chatbot

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Intent is the coarse purpose of a user message.
type Intent string

const (
	IntentGreeting    Intent = "saudacao"
	IntentQuestion    Intent = "pergunta"
	IntentExplanation Intent = "explicacao"
	IntentProcedure   Intent = "procedimento"
	IntentProblem     Intent = "problema"
	IntentFarewell    Intent = "despedida"
	IntentHelp        Intent = "ajuda"
	IntentGeneral     Intent = "geral"
)

type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules are evaluated in order; the first rule with a hit wins.
var intentRules = []intentRule{
	{IntentGreeting, []string{"ola", "oi", "hello", "hi", "bom dia", "boa tarde", "boa noite", "e aí", "eai"}},
	{IntentQuestion, []string{"como", "what", "quando", "onde", "por que", "porque", "qual", "quais", "?"}},
	{IntentExplanation, []string{"explicar", "explica", "o que é", "definir", "significa", "conceito"}},
	{IntentProcedure, []string{"como fazer", "passo a passo", "processo", "implementar", "aplicar", "executar"}},
	{IntentProblem, []string{"problema", "erro", "falha", "não funciona", "nao funciona", "dificuldade", "dúvida"}},
	{IntentFarewell, []string{"tchau", "bye", "até logo", "obrigado", "obrigada", "valeu"}},
	{IntentHelp, []string{"ajuda", "help", "dúvida", "duvida", "não sei", "nao sei", "socorro"}},
}

// ExtractIntent returns the first intent whose keyword list has a hit in the
// message, or IntentGeneral. A keyword hits when it is contained in the
// lower-cased message or in its diacritic-free form, so "Olá" matches "ola".
// Keywords themselves are never folded: "e aí" must not match "que ainda".
func ExtractIntent(message string) Intent {
	lower := strings.ToLower(message)
	folded := fold(message)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) || strings.Contains(folded, kw) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}

// fold lower-cases s and strips combining marks ("Olá" -> "ola").
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
