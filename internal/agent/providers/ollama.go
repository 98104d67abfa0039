package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/ollama/ollama/api"

	"github.com/chat-governanca/server/internal/agent/model"
	errx "github.com/chat-governanca/server/internal/core/error"
	logx "github.com/chat-governanca/server/pkg/logger"
)

type ollamaProvider struct {
	client      *api.Client
	baseURL     string
	model       string
	temperature float32
	maxTokens   int
}

func newOllamaProvider(ctx context.Context, cfg model.ProviderConfig) (*ollamaProvider, error) {
	base, err := url.Parse(cfg.Ollama.BaseURL)
	if err != nil || base.Host == "" {
		return nil, errx.ProviderConfig(
			fmt.Errorf("parse OLLAMA_BASE_URL %q: %v", cfg.Ollama.BaseURL, err),
			fmt.Sprintf("%s **URL do Ollama inválida:** `%s`.", errx.GlyphError, cfg.Ollama.BaseURL),
		)
	}
	client := api.NewClient(base, http.DefaultClient)

	if err := client.Heartbeat(ctx); err != nil {
		return nil, errx.ProviderConfig(
			fmt.Errorf("ollama heartbeat: %w", err),
			fmt.Sprintf("%s **Ollama não está acessível em** `%s`. Certifique-se de que o Ollama está rodando: `ollama serve`", errx.GlyphError, cfg.Ollama.BaseURL),
		)
	}

	if cfg.VerifyModel {
		if _, err := client.Show(ctx, &api.ShowRequest{Model: cfg.Ollama.Model}); err != nil {
			return nil, unknownModel(Ollama, cfg.Ollama.Model, err)
		}
	}

	return &ollamaProvider{
		client:      client,
		baseURL:     cfg.Ollama.BaseURL,
		model:       cfg.Ollama.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (p *ollamaProvider) Name() string  { return Ollama }
func (p *ollamaProvider) Model() string { return p.model }

func (p *ollamaProvider) NewChatModel(_ context.Context) (einomodel.ChatModel, error) {
	return &ollamaChatModel{
		client:      p.client,
		model:       p.model,
		temperature: p.temperature,
		maxTokens:   p.maxTokens,
	}, nil
}

// ollamaChatModel adapts the Ollama chat endpoint to an eino chat model.
// Ollama does not return tool call ids; the agent graph assigns them.
type ollamaChatModel struct {
	client      *api.Client
	model       string
	temperature float32
	maxTokens   int
	tools       api.Tools
}

func (m *ollamaChatModel) BindTools(tools []*schema.ToolInfo) error {
	converted, err := toOllamaTools(tools)
	if err != nil {
		return err
	}
	m.tools = converted
	return nil
}

func (m *ollamaChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	options := einomodel.GetCommonOptions(&einomodel.Options{
		Model:       &m.model,
		Temperature: &m.temperature,
		MaxTokens:   &m.maxTokens,
	}, opts...)

	tools := m.tools
	if len(options.Tools) > 0 {
		converted, err := toOllamaTools(options.Tools)
		if err != nil {
			return nil, err
		}
		tools = converted
	}

	stream := false
	req := &api.ChatRequest{
		Model:    *options.Model,
		Messages: toOllamaMessages(input),
		Stream:   &stream,
		Tools:    tools,
		Options:  map[string]any{},
	}
	if options.Temperature != nil {
		req.Options["temperature"] = *options.Temperature
	}
	if options.MaxTokens != nil {
		req.Options["num_predict"] = *options.MaxTokens
	}

	var last api.ChatResponse
	err := m.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		last = resp
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("model", req.Model).Msg("ollama chat failed")
		return nil, fmt.Errorf("ollama chat: %w", err)
	}

	out := &schema.Message{
		Role:         schema.Assistant,
		Content:      last.Message.Content,
		ResponseMeta: usage(last.PromptEvalCount, last.EvalCount),
	}
	out.ResponseMeta.FinishReason = last.DoneReason
	for _, tc := range last.Message.ToolCalls {
		args, err := json.Marshal(tc.Function.Arguments)
		if err != nil {
			return nil, fmt.Errorf("ollama tool arguments: %w", err)
		}
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			Type: "function",
			Function: schema.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: string(args),
			},
		})
	}
	return out, nil
}

func (m *ollamaChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func toOllamaTools(tools []*schema.ToolInfo) (api.Tools, error) {
	out := make(api.Tools, 0, len(tools))
	for _, info := range tools {
		params, err := toolParameters(info)
		if err != nil {
			return nil, err
		}
		t := api.Tool{Type: "function"}
		t.Function.Name = info.Name
		t.Function.Description = info.Desc
		if err := json.Unmarshal(params, &t.Function.Parameters); err != nil {
			return nil, fmt.Errorf("tool %s parameters: %w", info.Name, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func toOllamaMessages(in []*schema.Message) []api.Message {
	out := make([]api.Message, 0, len(in))
	for _, m := range in {
		if m == nil {
			continue
		}
		msg := api.Message{Role: string(m.Role), Content: m.Content}
		for _, tc := range m.ToolCalls {
			var args api.ToolCallFunctionArguments
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				logx.Warn().Err(err).Str("tool", tc.Function.Name).Msg("dropping unparsable tool arguments from history")
			}
			call := api.ToolCall{}
			call.Function.Name = tc.Function.Name
			call.Function.Arguments = args
			msg.ToolCalls = append(msg.ToolCalls, call)
		}
		out = append(out, msg)
	}
	return out
}

var _ einomodel.ChatModel = (*ollamaChatModel)(nil)
