package session

import (
	"context"
	"sync"

	"github.com/chat-governanca/server/internal/chatbot"
)

// HeuristicAnswerer serves the session from the keyword responder. It owns the
// conversation context string between turns.
type HeuristicAnswerer struct {
	responder *chatbot.Responder

	mu      sync.Mutex
	context string
}

func NewHeuristicAnswerer(r *chatbot.Responder) *HeuristicAnswerer {
	return &HeuristicAnswerer{responder: r}
}

// Answer never fails and never carries a reasoning trace.
func (h *HeuristicAnswerer) Answer(_ context.Context, _ string, question string) (string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	reply, updated := h.responder.Respond(question, h.context)
	h.context = updated
	return reply, "", nil
}

// Context returns the current conversation context.
func (h *HeuristicAnswerer) Context() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.context
}

var _ Answerer = (*HeuristicAnswerer)(nil)
