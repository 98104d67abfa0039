package observers

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestToolError(t *testing.T) {
	assert.Equal(t, `unknown column: "salario"`, toolError(`{"error":"unknown column: \"salario\""}`))
	assert.Empty(t, toolError(`{"rows":[],"total":0}`))
	assert.Empty(t, toolError("not json"))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", preview("  abc \n", 5))
	assert.Equal(t, "ação…", preview("açãozinha", 4))
}

func TestLastUserContentAndToolNames(t *testing.T) {
	msgs := []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage(" primeira "),
		schema.AssistantMessage("ok", nil),
		schema.UserMessage(" segunda "),
		nil,
	}
	assert.Equal(t, "segunda", lastUserContent(msgs))
	assert.Empty(t, lastUserContent(nil))

	calls := []schema.ToolCall{{Function: schema.FunctionCall{Name: "head_rows"}}, {Function: schema.FunctionCall{Name: "value_counts"}}}
	assert.Equal(t, []string{"head_rows", "value_counts"}, toolNames(calls))
}

func TestNewAllCallbacks(t *testing.T) {
	assert.NotNil(t, NewAllCallbacks())
}
