package observers

import (
	"context"
	"encoding/json"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/tool"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/chat-governanca/server/pkg/logger"
)

// newToolHandler logs every table tool call. Table tools report bad columns
// or operators in an "error" field of their output instead of failing, so
// those are surfaced here as warnings.
func newToolHandler() *callbackHelper.ToolCallbackHandler {
	return &callbackHelper.ToolCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *tool.CallbackInput) context.Context {
			ev := logx.Debug().Str("tool", info.Name)
			if input != nil {
				ev = ev.Str("arguments", preview(input.ArgumentsInJSON, argsPreview))
			}
			ev.Msg("tool start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *tool.CallbackOutput) context.Context {
			if output == nil {
				return ctx
			}
			if msg := toolError(output.Response); msg != "" {
				logx.Warn().Str("tool", info.Name).Str("tool_error", msg).Msg("tool rejected arguments")
				return ctx
			}
			logx.Debug().
				Str("tool", info.Name).
				Int("response_bytes", len(output.Response)).
				Str("response", preview(output.Response, resultPreview)).
				Msg("tool end")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("tool", info.Name).Msg("tool execution failed")
			return ctx
		},
	}
}

// toolError extracts the "error" field of a tool response, if any.
func toolError(response string) string {
	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(response), &out); err != nil {
		return ""
	}
	return out.Error
}
