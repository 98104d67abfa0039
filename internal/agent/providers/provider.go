// Package providers builds the chat model behind the data agent. Each LLM
// backend implements Provider; New selects one from configuration and fails
// fast when it cannot be used.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/chat-governanca/server/internal/agent/model"
	errx "github.com/chat-governanca/server/internal/core/error"
	logx "github.com/chat-governanca/server/pkg/logger"
)

const (
	OpenAI = "openai"
	Ollama = "ollama"
	Gemini = "gemini"
)

// Provider is one configured LLM backend.
type Provider interface {
	Name() string
	Model() string
	// NewChatModel returns a fresh tool-calling chat model.
	NewChatModel(ctx context.Context) (einomodel.ChatModel, error)
}

// New builds the provider named by cfg.Provider. Errors are errx.AppError
// values of kind provider_config whose message can be shown as an answer.
func New(ctx context.Context, cfg model.ProviderConfig) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = OpenAI
	}

	var (
		p   Provider
		err error
	)
	switch name {
	case OpenAI:
		p, err = newOpenAIProvider(ctx, cfg)
	case Ollama:
		p, err = newOllamaProvider(ctx, cfg)
	case Gemini:
		p, err = newGeminiProvider(ctx, cfg)
	default:
		err = errx.ProviderConfig(
			fmt.Errorf("unknown provider %q", cfg.Provider),
			fmt.Sprintf("%s **Provedor LLM desconhecido:** `%s`. Use `openai`, `ollama` ou `gemini` em `LLM_PROVIDER`.", errx.GlyphError, cfg.Provider),
		)
	}
	if err != nil {
		logx.Error().Err(err).Str("provider", name).Msg("failed to build llm provider")
		return nil, err
	}

	logx.Info().Str("provider", p.Name()).Str("model", p.Model()).Msg("llm provider ready")
	return p, nil
}

// Warnings lists startup notices for the configured provider, shown before
// the first question.
func Warnings(cfg model.ProviderConfig) []string {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case OpenAI, "":
		if cfg.OpenAI.APIKey == "" {
			return []string{errx.GlyphWarning + " A chave `OPENAI_API_KEY` não foi encontrada. Configure no ambiente ou no arquivo `.env`"}
		}
	case Gemini:
		if cfg.Gemini.APIKey == "" {
			return []string{errx.GlyphWarning + " A chave `GOOGLE_API_KEY` não foi encontrada. Configure no ambiente ou obtenha uma em: https://makersuite.google.com/app/apikey"}
		}
	case Ollama:
		return []string{"✅ Usando Ollama (gratuito). Certifique-se de que o Ollama está rodando: `ollama serve`"}
	}
	return nil
}

func missingKey(env string) error {
	return errx.ProviderConfig(
		fmt.Errorf("%s is not set", env),
		fmt.Sprintf("%s **Chave de API ausente:** defina `%s` no ambiente ou no arquivo `.env`.", errx.GlyphKey, env),
	)
}

func unknownModel(provider, name string, err error) error {
	return errx.ProviderConfig(
		fmt.Errorf("verify model %q: %w", name, err),
		fmt.Sprintf("%s **Modelo não encontrado:** `%s` não está disponível no provedor %s.", errx.GlyphError, name, provider),
	)
}

// toolParameters renders the JSON schema of a tool's parameters.
func toolParameters(info *schema.ToolInfo) (json.RawMessage, error) {
	if info.ParamsOneOf == nil {
		return json.RawMessage(`{"type":"object","properties":{}}`), nil
	}
	js, err := info.ParamsOneOf.ToJSONSchema()
	if err != nil {
		return nil, fmt.Errorf("tool %s schema: %w", info.Name, err)
	}
	b, err := json.Marshal(js)
	if err != nil {
		return nil, fmt.Errorf("tool %s schema: %w", info.Name, err)
	}
	return b, nil
}

func usage(prompt, completion int) *schema.ResponseMeta {
	return &schema.ResponseMeta{
		Usage: &schema.TokenUsage{
			PromptTokens:     prompt,
			CompletionTokens: completion,
			TotalTokens:      prompt + completion,
		},
	}
}
