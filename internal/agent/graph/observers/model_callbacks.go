package observers

import (
	"context"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/chat-governanca/server/pkg/logger"
)

const (
	argsPreview   = 200
	resultPreview = 300
	answerPreview = 500
)

// newModelHandler logs the question going into each model call and what the
// model decided: tool calls by name, or the answer.
func newModelHandler() *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ev := logx.Debug().Str("name", info.Name)
			if input != nil {
				ev = ev.Int("messages", len(input.Messages)).Int("tools", len(input.Tools))
				if q := lastUserContent(input.Messages); q != "" {
					ev = ev.Str("question", preview(q, argsPreview))
				}
			}
			ev.Msg("model start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			if output == nil || output.Message == nil {
				return ctx
			}
			ev := logx.Debug().Str("name", info.Name)
			if output.TokenUsage != nil {
				ev = ev.Int("prompt_tokens", output.TokenUsage.PromptTokens).Int("completion_tokens", output.TokenUsage.CompletionTokens)
			}
			if calls := toolNames(output.Message.ToolCalls); len(calls) > 0 {
				ev.Strs("tool_calls", calls).Msg("model requested tools")
				return ctx
			}
			ev.Str("answer", preview(output.Message.Content, answerPreview)).Msg("model answered")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("name", info.Name).Msg("model error")
			return ctx
		},
	}
}

func lastUserContent(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if m := msgs[i]; m != nil && m.Role == schema.User {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}

func toolNames(calls []schema.ToolCall) []string {
	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, c.Function.Name)
	}
	return names
}

// preview trims s and cuts it to at most n runes.
func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
