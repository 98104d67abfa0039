// Package observers logs the agent run through eino callbacks: the prompt
// render, every model call and every table tool call.
package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks returns one handler covering prompt, model and tool events.
func NewAllCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		Prompt(newPromptHandler()).
		ChatModel(newModelHandler()).
		Tool(newToolHandler()).
		Handler()
}
