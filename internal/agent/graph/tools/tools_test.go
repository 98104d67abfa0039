package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chat-governanca/server/internal/dataset"
)

const csvData = `produto,categoria,preco
caneta,papelaria,2.5
caderno,papelaria,15
mouse,informatica,80
teclado,informatica,120
`

func invoke(t *testing.T, name, args string) map[string]any {
	t.Helper()
	tbl, err := dataset.Read(strings.NewReader(csvData))
	require.NoError(t, err)

	for _, bt := range GetQueryTools(tbl) {
		info, err := bt.Info(context.Background())
		require.NoError(t, err)
		if info.Name != name {
			continue
		}
		it, ok := bt.(tool.InvokableTool)
		require.True(t, ok)
		out, err := it.InvokableRun(context.Background(), args)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &m))
		return m
	}
	t.Fatalf("tool %s not registered", name)
	return nil
}

func TestGetToolInfos(t *testing.T) {
	tbl, err := dataset.Read(strings.NewReader(csvData))
	require.NoError(t, err)

	infos, err := GetToolInfos(context.Background(), GetQueryTools(tbl))
	require.NoError(t, err)

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{ToolDescribeTable, ToolHeadRows, ToolValueCounts, ToolFilterRows, ToolGroupAggregate}, names)
}

func TestDescribeTableTool(t *testing.T) {
	out := invoke(t, ToolDescribeTable, `{}`)

	assert.EqualValues(t, 4, out["rows"])
	assert.Len(t, out["columns"], 3)
}

func TestFilterRowsTool(t *testing.T) {
	out := invoke(t, ToolFilterRows, `{"column":"preco","operator":">","value":"50"}`)

	assert.EqualValues(t, 2, out["total"])
	assert.Len(t, out["rows"], 2)
}

func TestToolErrorsAreReturnedToTheModel(t *testing.T) {
	out := invoke(t, ToolValueCounts, `{"column":"nao_existe"}`)

	assert.Contains(t, out["error"], "unknown column")
}

func TestGroupAggregateTool(t *testing.T) {
	out := invoke(t, ToolGroupAggregate, `{"group_by":"categoria","column":"preco","agg":"sum"}`)

	groups := out["groups"].([]any)
	require.Len(t, groups, 2)
	first := groups[0].(map[string]any)
	assert.Equal(t, "informatica", first["group"])
	assert.EqualValues(t, 200, first["value"])
}

func TestSanitizeArguments(t *testing.T) {
	got, err := SanitizeArguments(context.Background(), ToolFilterRows, `{"column":" preco ","value":50,"limit":"3"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"column":"preco","value":"50","limit":3}`, got)

	got, err = SanitizeArguments(context.Background(), ToolDescribeTable, "")
	require.NoError(t, err)
	assert.Equal(t, "{}", got)

	_, err = SanitizeArguments(context.Background(), ToolHeadRows, `n=3`)
	require.Error(t, err)
	assert.Contains(t, strings.ToLower(err.Error()), "could not parse llm output")
}

func TestUnknownTool(t *testing.T) {
	out, err := UnknownTool(context.Background(), "run_python", "{}")
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "unknown_tool", m["error"])
	assert.Len(t, m["available"], 5)
}
