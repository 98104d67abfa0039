package chatbot

import (
	"strings"
)

// MaxContextLength is the number of characters of conversation kept as context.
const MaxContextLength = 1000

// TrimContext keeps the last MaxContextLength characters of a context string.
func TrimContext(context string) string {
	r := []rune(context)
	if len(r) <= MaxContextLength {
		return context
	}
	return string(r[len(r)-MaxContextLength:])
}

// AppendTurn adds one exchange to a context string.
func AppendTurn(context, message, response string) string {
	var b strings.Builder
	b.Grow(len(context) + len(message) + len(response) + 16)
	b.WriteString(context)
	b.WriteString("User: ")
	b.WriteString(message)
	b.WriteString("\nBot: ")
	b.WriteString(response)
	b.WriteString("\n")
	return b.String()
}

// contextualReply returns the follow-up reply implied by an ongoing topic.
func contextualReply(context string) (string, bool) {
	if context == "" {
		return "", false
	}
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "lgpd"):
		return continueLGPDReply, true
	case strings.Contains(lower, "qualidade"):
		return continueQualityReply, true
	}
	return "", false
}
