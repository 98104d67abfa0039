package nodes

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/chat-governanca/server/internal/agent/model"
)

const DefaultMaxToolCalls = 10

// maxObservationLen bounds the tool output kept in a trace entry.
const maxObservationLen = 800

// ===== Small helpers to keep handlers simple/readable =====
// normalizeMaxToolCalls returns a sane default when the provided value is invalid.
func normalizeMaxToolCalls(n int) int {
	if n <= 0 {
		return DefaultMaxToolCalls
	}
	return n
}

// checkAndMarkToolLimit evaluates whether another tool call would exceed the
// limit and, if so, marks the state accordingly. Returns true when marked now.
func checkAndMarkToolLimit(state *model.AppState, max int) bool {
	max = normalizeMaxToolCalls(max)
	if !state.ToolCallLimitReached && state.ToolCallCount >= max {
		state.ToolCallLimitReached = true
		return true
	}
	return false
}

// incrementToolCallAndCheck increments the count and marks the state if it
// exceeds the limit after incrementing. Returns true when exceeded.
func incrementToolCallAndCheck(state *model.AppState, max int) bool {
	max = normalizeMaxToolCalls(max)
	state.ToolCallCount++
	if state.ToolCallCount > max {
		state.ToolCallLimitReached = true
		return true
	}
	return false
}

// lastToolCallID returns the id of the latest tool call requested by the assistant.
func lastToolCallID(history []*schema.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg == nil || msg.Role != schema.Assistant || len(msg.ToolCalls) == 0 {
			continue
		}
		return strings.TrimSpace(msg.ToolCalls[len(msg.ToolCalls)-1].ID)
	}
	return ""
}

// toolCallsByID indexes the tool calls of the latest assistant message.
func toolCallsByID(history []*schema.Message) map[string]schema.ToolCall {
	out := make(map[string]schema.ToolCall)
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg == nil || msg.Role != schema.Assistant || len(msg.ToolCalls) == 0 {
			continue
		}
		for _, tc := range msg.ToolCalls {
			out[tc.ID] = tc
		}
		break
	}
	return out
}

// traceEntry formats one executed tool call as "name(args)\n→ observation".
func traceEntry(call schema.ToolCall, result *schema.Message) string {
	name := call.Function.Name
	if name == "" {
		name = "tool"
	}
	args := strings.TrimSpace(call.Function.Arguments)
	if args == "" {
		args = "{}"
	}
	obs := strings.TrimSpace(result.Content)
	if r := []rune(obs); len(r) > maxObservationLen {
		obs = string(r[:maxObservationLen]) + "…"
	}
	return fmt.Sprintf("%s(%s)\n→ %s", name, args, obs)
}
