package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/chat-governanca/server/pkg/logger"
)

// newPromptHandler logs the rendered agent system prompt.
func newPromptHandler() *callbackHelper.PromptCallbackHandler {
	return &callbackHelper.PromptCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *prompt.CallbackInput) context.Context {
			if input != nil {
				ev := logx.Debug().Str("name", info.Name)
				if src, ok := input.Variables["Source"].(string); ok {
					ev = ev.Str("table", src)
				}
				if rows, ok := input.Variables["Rows"].(int); ok {
					ev = ev.Int("rows", rows)
				}
				ev.Msg("rendering agent prompt")
			}
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
			if output == nil {
				return ctx
			}
			chars := 0
			for _, m := range output.Result {
				if m != nil {
					chars += len([]rune(m.Content))
				}
			}
			logx.Debug().Str("name", info.Name).Int("messages", len(output.Result)).Int("chars", chars).Msg("agent prompt rendered")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("name", info.Name).Msg("agent prompt render failed")
			return ctx
		},
	}
}
