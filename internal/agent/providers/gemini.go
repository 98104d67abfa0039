package providers

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/chat-governanca/server/internal/agent/model"
	logx "github.com/chat-governanca/server/pkg/logger"
)

type geminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
}

func newGeminiProvider(ctx context.Context, cfg model.ProviderConfig) (*geminiProvider, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, missingKey("GOOGLE_API_KEY")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Gemini.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.Gemini.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	if cfg.VerifyModel {
		if _, err := client.Models.Get(ctx, cfg.Gemini.Model, nil); err != nil {
			return nil, unknownModel(Gemini, cfg.Gemini.Model, err)
		}
	}

	return &geminiProvider{
		client:      client,
		model:       cfg.Gemini.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (p *geminiProvider) Name() string  { return Gemini }
func (p *geminiProvider) Model() string { return p.model }

func (p *geminiProvider) NewChatModel(ctx context.Context) (einomodel.ChatModel, error) {
	temperature, maxTokens := p.temperature, p.maxTokens
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      p.client,
		Model:       p.model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini chat model")
		return nil, fmt.Errorf("error creating Gemini chat model: %w", err)
	}
	return cm, nil
}
