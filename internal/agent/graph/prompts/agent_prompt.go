// Package prompts renders the agent system prompt.
package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/chat-governanca/server/internal/agent/graph/tools"
	"github.com/chat-governanca/server/internal/dataset"
)

//go:embed template/agent_prompt.txt
var agentSystemPrompt string

// RenderAgentSystem renders the system prompt for t via the Eino prompt
// component (Go template), which also emits prompt callbacks.
func RenderAgentSystem(ctx context.Context, t *dataset.Table, sampleRows, maxIterations int) (string, error) {
	if t == nil {
		return "", fmt.Errorf("table is nil")
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(agentSystemPrompt),
	)
	vars := map[string]any{
		"Source":          t.Source,
		"Rows":            t.Rows(),
		"Columns":         t.Columns,
		"Sample":          MarkdownTable(t.ColumnNames(), t.Head(sampleRows)),
		"MaxIterations":   maxIterations,
		"DescribeTool":    tools.ToolDescribeTable,
		"HeadTool":        tools.ToolHeadRows,
		"ValueCountsTool": tools.ToolValueCounts,
		"FilterTool":      tools.ToolFilterRows,
		"GroupTool":       tools.ToolGroupAggregate,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("agent prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("agent prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// MarkdownTable renders rows as a Markdown table with the given column order.
// Columns missing from header but present in rows are appended sorted.
func MarkdownTable(header []string, rows []map[string]string) string {
	cols := append([]string(nil), header...)
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c] = true
	}
	var extra []string
	for _, r := range rows {
		for k := range r {
			if !known[k] {
				known[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	cols = append(cols, extra...)
	if len(cols) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(cols)) + "\n")
	for _, r := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = strings.ReplaceAll(r[c], "|", `\|`)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
