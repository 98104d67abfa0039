package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/chat-governanca/server/internal/dataset"
)

// Tool failures are reported in the output so the model can correct its call.

type DescribeTableInput struct{}

type DescribeTableOutput struct {
	Rows    int                     `json:"rows"`
	Columns []dataset.ColumnSummary `json:"columns"`
}

func createDescribeTableTool(t *dataset.Table) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name:        ToolDescribeTable,
			Desc:        "Describe the table: number of rows and, for every column, its type, non-empty count, missing count, distinct values, and mean/std/min/max for numeric columns or the most frequent value for text columns. Call this first when you do not know the columns.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, _ *DescribeTableInput) (*DescribeTableOutput, error) {
			return &DescribeTableOutput{Rows: t.Rows(), Columns: t.Describe()}, nil
		},
	)
}

type HeadRowsInput struct {
	N int `json:"n"`
}

type RowsOutput struct {
	Rows  []map[string]string `json:"rows,omitempty"`
	Total int                 `json:"total"`
	Error string              `json:"error,omitempty"`
}

func createHeadRowsTool(t *dataset.Table) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolHeadRows,
			Desc: "Return the first n rows of the table (at most 50).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"n": {
					Type: schema.Integer,
					Desc: "Number of rows to return, 1 to 50. Defaults to 5.",
				},
			}),
		},
		func(ctx context.Context, in *HeadRowsInput) (*RowsOutput, error) {
			n := in.N
			if n <= 0 {
				n = 5
			}
			return &RowsOutput{Rows: t.Head(n), Total: t.Rows()}, nil
		},
	)
}

type ValueCountsInput struct {
	Column string `json:"column"`
	Limit  int    `json:"limit"`
}

type ValueCountsOutput struct {
	Column string               `json:"column"`
	Counts []dataset.ValueCount `json:"counts,omitempty"`
	Error  string               `json:"error,omitempty"`
}

func createValueCountsTool(t *dataset.Table) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolValueCounts,
			Desc: "Count how many times each distinct value appears in a column, most frequent first.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"column": {
					Type:     schema.String,
					Desc:     "Exact column name from describe_table.",
					Required: true,
				},
				"limit": {
					Type: schema.Integer,
					Desc: "Maximum number of values to return, 1 to 50. Defaults to 10.",
				},
			}),
		},
		func(ctx context.Context, in *ValueCountsInput) (*ValueCountsOutput, error) {
			limit := in.Limit
			if limit <= 0 {
				limit = 10
			}
			counts, err := t.ValueCounts(in.Column, limit)
			if err != nil {
				return &ValueCountsOutput{Column: in.Column, Error: err.Error()}, nil
			}
			return &ValueCountsOutput{Column: in.Column, Counts: counts}, nil
		},
	)
}

type FilterRowsInput struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	Limit    int    `json:"limit"`
}

func createFilterRowsTool(t *dataset.Table) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolFilterRows,
			Desc: "Return rows where <column> <operator> <value> holds, and the total number of matching rows. Numeric comparison is used for numeric columns; text equality ignores case.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"column": {
					Type:     schema.String,
					Desc:     "Exact column name from describe_table.",
					Required: true,
				},
				"operator": {
					Type:     schema.String,
					Desc:     "Comparison operator.",
					Enum:     []string{"==", "!=", ">", ">=", "<", "<=", "contains"},
					Required: true,
				},
				"value": {
					Type:     schema.String,
					Desc:     "Value to compare against, as text (e.g. \"42\" or \"São Paulo\").",
					Required: true,
				},
				"limit": {
					Type: schema.Integer,
					Desc: "Maximum number of rows to return, 1 to 50. Defaults to 20. The total is always reported.",
				},
			}),
		},
		func(ctx context.Context, in *FilterRowsInput) (*RowsOutput, error) {
			limit := in.Limit
			if limit <= 0 {
				limit = 20
			}
			rows, total, err := t.Filter(in.Column, in.Operator, in.Value, limit)
			if err != nil {
				return &RowsOutput{Error: err.Error()}, nil
			}
			return &RowsOutput{Rows: rows, Total: total}, nil
		},
	)
}

type GroupAggregateInput struct {
	GroupBy string `json:"group_by"`
	Column  string `json:"column"`
	Agg     string `json:"agg"`
}

type GroupAggregateOutput struct {
	Groups []dataset.GroupResult `json:"groups,omitempty"`
	Error  string                `json:"error,omitempty"`
}

func createGroupAggregateTool(t *dataset.Table) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGroupAggregate,
			Desc: "Group rows by a column and aggregate another column. Results are sorted by the aggregated value, largest first (at most 50 groups).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"group_by": {
					Type:     schema.String,
					Desc:     "Column whose distinct values form the groups.",
					Required: true,
				},
				"column": {
					Type: schema.String,
					Desc: "Numeric column to aggregate. Ignored for count.",
				},
				"agg": {
					Type:     schema.String,
					Desc:     "Aggregation function.",
					Enum:     []string{"count", "sum", "mean", "min", "max"},
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *GroupAggregateInput) (*GroupAggregateOutput, error) {
			groups, err := t.GroupAggregate(in.GroupBy, in.Column, in.Agg)
			if err != nil {
				return &GroupAggregateOutput{Error: err.Error()}, nil
			}
			return &GroupAggregateOutput{Groups: groups}, nil
		},
	)
}
