// Package agent answers questions about the loaded table through an LLM
// agent and turns every failure into an answer-shaped message.
package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chat-governanca/server/internal/agent/graph"
	"github.com/chat-governanca/server/internal/agent/model"
	"github.com/chat-governanca/server/internal/agent/providers"
	errx "github.com/chat-governanca/server/internal/core/error"
	"github.com/chat-governanca/server/internal/dataset"
	logx "github.com/chat-governanca/server/pkg/logger"
)

// Config wires the adapter.
type Config struct {
	Provider         model.ProviderConfig
	Agent            model.AgentConfig
	Conversation     model.ConversationConfig
	Table            *dataset.Table
	ConversationRepo model.ConversationRepository
}

// Adapter runs the agent graph for one provider. A construction failure is
// kept and returned as the answer to every question.
type Adapter struct {
	runner         graph.Runner
	buildErr       error
	timeout        time.Duration
	provider       string
	conversationID string
}

// New builds the provider and the agent graph once. It never fails: see Err.
func New(ctx context.Context, cfg Config) *Adapter {
	a := &Adapter{
		timeout:        cfg.Agent.Timeout,
		provider:       cfg.Provider.Provider,
		conversationID: uuid.NewString(),
	}

	p, err := providers.New(ctx, cfg.Provider)
	if err != nil {
		a.buildErr = err
		return a
	}
	a.provider = p.Name()

	cm, err := p.NewChatModel(ctx)
	if err != nil {
		a.buildErr = errx.ProviderConfig(err, fmt.Sprintf("%s **Erro ao configurar o modelo:** %v", errx.GlyphError, err))
		return a
	}

	runner, err := graph.BuildAgentGraph(ctx, graph.Config{
		ChatModel:        cm,
		ModelName:        p.Model(),
		Table:            cfg.Table,
		Agent:            cfg.Agent,
		Conversation:     cfg.Conversation,
		ConversationRepo: cfg.ConversationRepo,
	})
	if err != nil {
		logx.Error().Err(err).Msg("failed to build agent graph")
		a.buildErr = errx.ProviderConfig(err, fmt.Sprintf("%s **Erro ao configurar o agente:** %v", errx.GlyphError, err))
		return a
	}
	a.runner = runner
	return a
}

// NewWithRunner wraps an already built runner.
func NewWithRunner(runner graph.Runner, timeout time.Duration) *Adapter {
	return &Adapter{runner: runner, timeout: timeout, conversationID: uuid.NewString()}
}

// Err returns the construction failure, if any.
func (a *Adapter) Err() error {
	return a.buildErr
}

// GenerateAnswer answers question in the adapter's own conversation.
func (a *Adapter) GenerateAnswer(ctx context.Context, question string) (finalAnswer, reasoningTrace string) {
	finalAnswer, reasoningTrace, _ = a.Answer(ctx, a.conversationID, question)
	return finalAnswer, reasoningTrace
}

// Answer runs one question against the agent. Failures are converted into
// the returned answer; the error is informational and carries the failure kind.
func (a *Adapter) Answer(ctx context.Context, conversationID, question string) (string, string, error) {
	if a.buildErr != nil {
		return errx.MessageOf(a.buildErr), "", a.buildErr
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := a.runner.Invoke(ctx, model.QueryInput{ConversationID: conversationID, Query: question})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("o agente excedeu o tempo limite de %s: %w", a.timeout, err)
		}
		answer, reasoning, kind := failureAnswer(err)
		logx.Warn().
			Err(err).
			Str("provider", a.provider).
			Str("kind", string(kind)).
			Dur("elapsed", time.Since(start)).
			Msg("agent run failed")
		return answer, reasoning, &errx.AppError{Err: err, Status: http.StatusBadGateway, Kind: kind, Message: answer}
	}

	answer, code := SplitCode(out.Content)
	reasoning := code
	if reasoning == "" {
		reasoning = strings.TrimSpace(out.Trace)
	}
	if reasoning == "" {
		reasoning = NoReasoningPlaceholder
	}
	if answer == "" {
		answer = emptyAnswer
	}

	logx.Info().
		Str("provider", a.provider).
		Dur("elapsed", time.Since(start)).
		Float64("cost_usd", out.CostUSD).
		Msg("agent answered")
	return answer, reasoning, nil
}
