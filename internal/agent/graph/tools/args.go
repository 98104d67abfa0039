package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SanitizeArguments normalises tool call arguments before execution: text
// fields are trimmed, numbers sent for text fields are stringified and numeric
// fields sent as text are parsed. Arguments that are not a JSON object cannot
// be executed and are reported as an unparsable model output.
func SanitizeArguments(_ context.Context, name, arguments string) (string, error) {
	if strings.TrimSpace(arguments) == "" {
		return "{}", nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(arguments), &m); err != nil {
		return "", fmt.Errorf("could not parse LLM output: invalid tool arguments for %s: `%s`", name, arguments)
	}

	for _, key := range []string{"column", "operator", "value", "group_by", "agg"} {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch vv := v.(type) {
		case string:
			m[key] = strings.TrimSpace(vv)
		case nil:
			delete(m, key)
		default:
			m[key] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	for _, key := range []string{"n", "limit"} {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch vv := v.(type) {
		case float64:
			m[key] = int(vv)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(vv)); err == nil {
				m[key] = n
			} else {
				delete(m, key)
			}
		default:
			delete(m, key)
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return arguments, nil
	}
	return string(b), nil
}

// UnknownTool answers a call to a tool that does not exist.
func UnknownTool(_ context.Context, name, _ string) (string, error) {
	return fmt.Sprintf(`{"error":"unknown_tool","name":%q,"available":[%q,%q,%q,%q,%q]}`,
		name, ToolDescribeTable, ToolHeadRows, ToolValueCounts, ToolFilterRows, ToolGroupAggregate), nil
}
