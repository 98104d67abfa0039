package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/chat-governanca/server/internal/agent/graph/conversations"
	"github.com/chat-governanca/server/internal/agent/graph/prompts"
	"github.com/chat-governanca/server/internal/agent/model"
	"github.com/chat-governanca/server/internal/dataset"
	logx "github.com/chat-governanca/server/pkg/logger"
)

const (
	NodeInputConverter = "InputConverter"
	NodeChatModel      = "ChatModel"
	NodeToolExecutor   = "ToolExecutor"
)

// NewInputConverterPreHandler creates the pre-handler for InputConverter node
func NewInputConverterPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		if s.ConversationID == "" {
			s.ConversationID = in.ConversationID
		}
		// Reset per-query counters
		s.ToolCallCount = 0
		s.ToolCallLimitReached = false
		s.ToolCallIDSeq = 0
		s.Trace = nil
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewInputConverterNode creates the InputConverter node: system prompt with the
// table schema and sample rows, followed by the recent dialogue.
func NewInputConverterNode(
	mm *conversations.MessagesManager,
	table *dataset.Table,
	agentCfg model.AgentConfig,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) ([]*schema.Message, error) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, fmt.Errorf("empty query")
		}

		// Generate system prompt via Eino prompt component (enables prompt callbacks)
		systemPrompt, err := prompts.RenderAgentSystem(ctx, table, agentCfg.SampleRows, normalizeMaxToolCalls(agentCfg.MaxIterations))
		if err != nil {
			return nil, fmt.Errorf("render agent system prompt: %w", err)
		}

		messages, err := mm.BuildContext(ctx, input.ConversationID, input.Query, systemPrompt)
		if err != nil {
			return nil, fmt.Errorf("error getting conversation context: %w", err)
		}
		return messages, nil
	})
}

// NewChatModelPreHandler creates the pre-handler for the ChatModel node
func NewChatModelPreHandler(maxToolCalls int) func(context.Context, []*schema.Message, *model.AppState) ([]*schema.Message, error) {
	return func(ctx context.Context, in []*schema.Message, state *model.AppState) ([]*schema.Message, error) {
		// Tool results must carry the id of the call they answer
		for _, msg := range in {
			if msg != nil && msg.Role == schema.Tool && strings.TrimSpace(msg.ToolCallID) == "" {
				if id := lastToolCallID(state.History); id != "" {
					msg.ToolCallID = id
				}
			}
		}

		state.History = append(state.History, in...)

		if checkAndMarkToolLimit(state, maxToolCalls) {
			maxToolCalls = normalizeMaxToolCalls(maxToolCalls)
			wrapUp := &schema.Message{
				Role: schema.System,
				Content: fmt.Sprintf(
					"SYSTEM NOTICE: You have reached the maximum tool call limit (%d). "+
						"Answer now using the information you've already gathered, without calling tools. "+
						"Acknowledge any limitations in your response if you couldn't complete all necessary tool calls.",
					maxToolCalls,
				),
			}
			state.History = append(state.History, wrapUp)
		}

		logx.Debug().Str("conversation_id", state.ConversationID).Int("messages", len(state.History)).Msg("AI thinking...")

		return state.History, nil
	}
}

// NewChatModelPostHandler creates the post-handler for the ChatModel node
func NewChatModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if out == nil {
			return nil, fmt.Errorf("chat model returned no message")
		}

		// Compute usage cost if available
		if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			pricing := model.ResolvePricing(modelName)
			inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra[model.ExtraUsageCost] = map[string]any{
				"currency":          "USD",
				"model":             modelName,
				"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
				"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
				"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
				"input_cost":        inC,
				"output_cost":       outC,
				"total_cost":        totalC,
			}
			logx.Debug().
				Str("conversation_id", state.ConversationID).
				Str("node", NodeChatModel).
				Str("model", modelName).
				Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
				Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
				Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
				Float64("input_cost_usd", inC).
				Float64("output_cost_usd", outC).
				Float64("total_cost_usd", totalC).
				Msg("LLM usage")

			state.TotalCostUSD += totalC
			out.Extra["usage_cost_total_usd"] = state.TotalCostUSD
		}

		// Normalize tool calls: some providers (Ollama, Gemini OpenAI-compat) omit tool_call IDs.
		for i := range out.ToolCalls {
			if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
				state.ToolCallIDSeq++
				out.ToolCalls[i].ID = fmt.Sprintf("call_%d", state.ToolCallIDSeq)
			}
		}

		state.History = append(state.History, out)

		if len(out.ToolCalls) > 0 && !state.ToolCallLimitReached {
			logx.Debug().Int("tool_count", len(out.ToolCalls)).Msg("Calling tools")
			return out, nil
		}

		logx.Debug().Int("trace_steps", len(state.Trace)).Msg("AI response ready")
		if len(state.Trace) > 0 {
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra[model.ExtraReasoning] = strings.Join(state.Trace, "\n\n")
		}
		return out, nil
	}
}

// NewToolExecutorCondition creates the condition function for tool execution routing
func NewToolExecutorCondition() func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, input *schema.Message) (string, error) {
		var limitReached bool
		_ = compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			limitReached = state.ToolCallLimitReached
			return nil
		})

		if limitReached {
			logx.Debug().Msg("Tool limit reached previously - routing to end")
			return compose.END, nil
		}

		if len(input.ToolCalls) > 0 {
			logx.Debug().Int("tool_count", len(input.ToolCalls)).Msg("Routing to ToolExecutor")
			return NodeToolExecutor, nil
		}

		logx.Debug().Msg("No tool calls - continuing to end")
		return compose.END, nil
	}
}

// NewToolExecutorPreHandler creates the pre-handler for ToolExecutor node
func NewToolExecutorPreHandler(maxToolCalls int) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, in *schema.Message, state *model.AppState) (*schema.Message, error) {
		exceeded := incrementToolCallAndCheck(state, maxToolCalls)

		logx.Debug().
			Int("tool_call_count", state.ToolCallCount).
			Str("conversation_id", state.ConversationID).
			Msg("Tool execution attempt")

		if exceeded {
			logx.Warn().
				Int("tool_call_count", state.ToolCallCount).
				Int("max_tool_calls", normalizeMaxToolCalls(maxToolCalls)).
				Str("conversation_id", state.ConversationID).
				Msg("Tool call limit exceeded - flagging and continuing")
		}
		return in, nil
	}
}

// NewToolExecutorPostHandler records each executed call and its result in the trace.
func NewToolExecutorPostHandler() func(context.Context, []*schema.Message, *model.AppState) ([]*schema.Message, error) {
	return func(ctx context.Context, out []*schema.Message, state *model.AppState) ([]*schema.Message, error) {
		calls := toolCallsByID(state.History)
		for _, msg := range out {
			if msg == nil {
				continue
			}
			state.Trace = append(state.Trace, traceEntry(calls[msg.ToolCallID], msg))
		}
		return out, nil
	}
}
