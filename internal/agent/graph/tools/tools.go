// Package tools exposes the loaded table to the agent as read-only tools.
package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/chat-governanca/server/internal/dataset"
)

const (
	ToolDescribeTable  = "describe_table"
	ToolHeadRows       = "head_rows"
	ToolValueCounts    = "value_counts"
	ToolFilterRows     = "filter_rows"
	ToolGroupAggregate = "group_aggregate"
)

// GetQueryTools returns every table tool bound to t.
func GetQueryTools(t *dataset.Table) []tool.BaseTool {
	return []tool.BaseTool{
		createDescribeTableTool(t),
		createHeadRowsTool(t),
		createValueCountsTool(t),
		createFilterRowsTool(t),
		createGroupAggregateTool(t),
	}
}

// GetToolInfos collects the schema of each tool for model binding.
func GetToolInfos(ctx context.Context, tools []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
