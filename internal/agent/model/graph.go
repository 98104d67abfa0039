package model

import (
	"github.com/cloudwego/eino/schema"
)

// AppState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
type AppState struct {
	ConversationID       string
	History              []*schema.Message // mutated only inside Eino state handlers
	ToolCallCount        int               // maintained in handlers (reset/increment)
	ToolCallLimitReached bool              // set when tool call limit is exceeded
	ToolCallIDSeq        int               // local sequence to synthesize tool_call_id when provider omits

	// Trace lists each executed tool call and its observation, in order.
	Trace []string

	// Accumulated total LLM cost (USD) across model invocations for this query
	TotalCostUSD float64
}

// QueryInput represents the input for processing user queries.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}
