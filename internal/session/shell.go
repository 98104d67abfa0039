// Package session holds one chat session: the append-only message log, the
// reasoning trace recorded per assistant message and the terminal loop.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/chat-governanca/server/internal/agent/model"
	errx "github.com/chat-governanca/server/internal/core/error"
	logx "github.com/chat-governanca/server/pkg/logger"
)

// DefaultWelcome is the first assistant message of every session.
const DefaultWelcome = "Olá! Eu sou um agente de dados. Pergunte-me algo sobre o DataFrame acima!"

const unexpectedErrorFormat = "%s **Erro inesperado:** %v"

// Answerer produces the answer for one question of a conversation.
type Answerer interface {
	Answer(ctx context.Context, conversationID, question string) (answer, reasoning string, err error)
}

// Turn is the outcome of one submitted prompt.
type Turn struct {
	Index     int
	Answer    string
	Reasoning string
}

// Shell is a single chat session.
type Shell struct {
	id       string
	repo     model.ConversationRepository
	answerer Answerer
	welcome  string

	mu        sync.Mutex
	reasoning map[int]string
}

// Option configures a Shell.
type Option func(*Shell)

// WithWelcome overrides the welcome message. An empty text seeds nothing.
func WithWelcome(text string) Option {
	return func(s *Shell) { s.welcome = text }
}

// WithID fixes the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Shell) { s.id = id }
}

// NewShell starts a session and seeds the welcome message.
func NewShell(ctx context.Context, repo model.ConversationRepository, answerer Answerer, opts ...Option) (*Shell, error) {
	s := &Shell{
		id:        uuid.NewString(),
		repo:      repo,
		answerer:  answerer,
		welcome:   DefaultWelcome,
		reasoning: make(map[int]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.repo == nil {
		return nil, fmt.Errorf("session: conversation repository is required")
	}
	if s.answerer == nil {
		return nil, fmt.Errorf("session: answerer is required")
	}

	if s.welcome != "" {
		if err := s.repo.AddMessage(ctx, s.id, schema.AssistantMessage(s.welcome, nil)); err != nil {
			return nil, fmt.Errorf("seed welcome message: %w", err)
		}
	}
	logx.Info().Str("session_id", s.id).Msg("session started")
	return s, nil
}

// ID returns the session id.
func (s *Shell) ID() string {
	return s.id
}

// Submit records the prompt, asks the answerer and records its answer. Any
// answerer error or panic is turned into a displayed error entry. The returned
// error only reports a failing conversation store.
func (s *Shell) Submit(ctx context.Context, prompt string) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.AddMessage(ctx, s.id, schema.UserMessage(prompt)); err != nil {
		return Turn{}, fmt.Errorf("store user message: %w", err)
	}

	answer, reasoning := s.ask(ctx, prompt)

	index, err := s.repo.GetMessageCount(ctx, s.id)
	if err != nil {
		return Turn{}, fmt.Errorf("count messages: %w", err)
	}

	msg := schema.AssistantMessage(answer, nil)
	if reasoning != "" {
		msg.Extra = map[string]any{model.ExtraReasoning: reasoning}
	}
	if err := s.repo.AddMessage(ctx, s.id, msg); err != nil {
		return Turn{}, fmt.Errorf("store answer: %w", err)
	}
	if reasoning != "" {
		s.reasoning[index] = reasoning
	}

	return Turn{Index: index, Answer: answer, Reasoning: reasoning}, nil
}

func (s *Shell) ask(ctx context.Context, prompt string) (answer, reasoning string) {
	defer func() {
		if rec := recover(); rec != nil {
			logx.Error().Str("session_id", s.id).Msgf("answerer panicked: %v", rec)
			answer, reasoning = fmt.Sprintf(unexpectedErrorFormat, errx.GlyphError, rec), ""
		}
	}()

	answer, reasoning, err := s.answerer.Answer(ctx, s.id, prompt)
	if err != nil {
		logx.Warn().Err(err).Str("session_id", s.id).Msg("answerer failed")
		if answer == "" {
			return fmt.Sprintf(unexpectedErrorFormat, errx.GlyphError, err), ""
		}
	}
	return answer, reasoning
}

// Messages returns the full log in order.
func (s *Shell) Messages(ctx context.Context) ([]*schema.Message, error) {
	history, err := s.repo.LoadHistory(ctx, s.id)
	if err != nil {
		return nil, err
	}
	return history.Messages, nil
}

// Recent returns at most the last n messages.
func (s *Shell) Recent(ctx context.Context, n int) ([]*schema.Message, error) {
	msgs, err := s.Messages(ctx)
	if err != nil {
		return nil, err
	}
	return trimTail(msgs, n), nil
}

// Reasoning returns the trace recorded for the message at index.
func (s *Shell) Reasoning(index int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reasoning[index]
	return r, ok
}

// LatestReasoning returns the trace of the most recent message that has one.
func (s *Shell) LatestReasoning() (int, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := -1
	for i := range s.reasoning {
		if i > best {
			best = i
		}
	}
	if best < 0 {
		return 0, "", false
	}
	return best, s.reasoning[best], true
}

func trimTail(msgs []*schema.Message, n int) []*schema.Message {
	if n <= 0 || len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
