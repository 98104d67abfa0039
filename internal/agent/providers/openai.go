package providers

import (
	"context"
	"errors"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"

	"github.com/chat-governanca/server/internal/agent/model"
	logx "github.com/chat-governanca/server/pkg/logger"
)

type openAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func newOpenAIProvider(ctx context.Context, cfg model.ProviderConfig) (*openAIProvider, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, missingKey("OPENAI_API_KEY")
	}

	clientCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAI.BaseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	if cfg.VerifyModel {
		if _, err := client.GetModel(ctx, cfg.OpenAI.Model); err != nil {
			return nil, unknownModel(OpenAI, cfg.OpenAI.Model, err)
		}
	}

	return &openAIProvider{
		client:      client,
		model:       cfg.OpenAI.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (p *openAIProvider) Name() string  { return OpenAI }
func (p *openAIProvider) Model() string { return p.model }

func (p *openAIProvider) NewChatModel(_ context.Context) (einomodel.ChatModel, error) {
	return &openAIChatModel{
		client:      p.client,
		model:       p.model,
		temperature: p.temperature,
		maxTokens:   p.maxTokens,
	}, nil
}

// openAIChatModel adapts the chat completions API to an eino chat model.
type openAIChatModel struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	tools       []openai.Tool
}

func (m *openAIChatModel) BindTools(tools []*schema.ToolInfo) error {
	converted, err := toOpenAITools(tools)
	if err != nil {
		return err
	}
	m.tools = converted
	return nil
}

func (m *openAIChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	options := einomodel.GetCommonOptions(&einomodel.Options{
		Model:       &m.model,
		Temperature: &m.temperature,
		MaxTokens:   &m.maxTokens,
	}, opts...)

	tools := m.tools
	if len(options.Tools) > 0 {
		converted, err := toOpenAITools(options.Tools)
		if err != nil {
			return nil, err
		}
		tools = converted
	}

	req := openai.ChatCompletionRequest{
		Model:    *options.Model,
		Messages: toOpenAIMessages(input),
		Tools:    tools,
	}
	if options.Temperature != nil {
		req.Temperature = *options.Temperature
	}
	if options.MaxTokens != nil {
		req.MaxTokens = *options.MaxTokens
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		logx.Error().Err(err).Str("model", req.Model).Msg("openai chat completion failed")
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai chat completion: empty choices")
	}

	choice := resp.Choices[0]
	out := &schema.Message{
		Role:         schema.Assistant,
		Content:      choice.Message.Content,
		ResponseMeta: usage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
	}
	out.ResponseMeta.FinishReason = string(choice.FinishReason)
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			ID:   tc.ID,
			Type: string(tc.Type),
			Function: schema.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return out, nil
}

func (m *openAIChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func toOpenAITools(tools []*schema.ToolInfo) ([]openai.Tool, error) {
	out := make([]openai.Tool, 0, len(tools))
	for _, info := range tools {
		params, err := toolParameters(info)
		if err != nil {
			return nil, err
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        info.Name,
				Description: info.Desc,
				Parameters:  params,
			},
		})
	}
	return out, nil
}

func toOpenAIMessages(in []*schema.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(in))
	for _, m := range in {
		if m == nil {
			continue
		}
		msg := openai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		out = append(out, msg)
	}
	return out
}

var _ einomodel.ChatModel = (*openAIChatModel)(nil)
