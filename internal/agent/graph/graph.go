// Package graph composes the tool-calling data agent as an eino graph:
// InputConverter -> ChatModel -> (ToolExecutor -> ChatModel)* -> END.
package graph

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/chat-governanca/server/internal/agent/graph/conversations"
	"github.com/chat-governanca/server/internal/agent/graph/nodes"
	"github.com/chat-governanca/server/internal/agent/graph/observers"
	"github.com/chat-governanca/server/internal/agent/graph/tools"
	"github.com/chat-governanca/server/internal/agent/model"
	"github.com/chat-governanca/server/internal/dataset"
	logx "github.com/chat-governanca/server/pkg/logger"
)

// Answer is the outcome of one agent run.
type Answer struct {
	Content string
	// Trace lists the executed tool calls and their observations.
	Trace   string
	CostUSD float64
}

// Runner is a thin wrapper to execute the compiled graph with the public QueryInput.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (*Answer, error)
}

// Config holds everything needed to compose the agent graph end-to-end.
type Config struct {
	ChatModel        einomodel.ChatModel
	ModelName        string
	Table            *dataset.Table
	Agent            model.AgentConfig
	Conversation     model.ConversationConfig
	ConversationRepo model.ConversationRepository
}

// GraphBuilder handles the construction of the agent graph
type GraphBuilder struct {
	config *Config
	mm     *conversations.MessagesManager
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (*Answer, error) {
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return &Answer{}, nil
	}

	ans := &Answer{Content: out.Content}
	if trace, ok := out.Extra[model.ExtraReasoning].(string); ok {
		ans.Trace = trace
	}
	if total, ok := out.Extra["usage_cost_total_usd"].(float64); ok {
		ans.CostUSD = total
	}
	return ans, nil
}

// BuildAgentGraph builds the graph for cfg and returns a Runner.
func BuildAgentGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ChatModel == nil {
		return nil, fmt.Errorf("chat model is nil")
	}
	if cfg.Table == nil {
		return nil, fmt.Errorf("table is nil")
	}

	builder := &GraphBuilder{
		config: &cfg,
		mm:     conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation),
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.setupTools(ctx); err != nil {
		return nil, err
	}
	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	runnable, err := builder.compile(ctx)
	if err != nil {
		return nil, err
	}
	logx.Debug().Str("model", cfg.ModelName).Msg("Agent graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// setupTools binds the table tools to the chat model and adds the tools node
func (b *GraphBuilder) setupTools(ctx context.Context) error {
	tableTools := tools.GetQueryTools(b.config.Table)
	toolInfos, err := tools.GetToolInfos(ctx, tableTools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to get tool infos")
		return fmt.Errorf("failed to get tool infos: %w", err)
	}

	if err := b.config.ChatModel.BindTools(toolInfos); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools to chat model")
		return fmt.Errorf("failed to bind tools to chat model: %w", err)
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:                tableTools,
		ExecuteSequentially:  true,
		UnknownToolsHandler:  tools.UnknownTool,
		ToolArgumentsHandler: tools.SanitizeArguments,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return fmt.Errorf("failed to create tools node: %w", err)
	}

	return b.graph.AddToolsNode(nodes.NodeToolExecutor, toolsNode,
		compose.WithStatePreHandler(nodes.NewToolExecutorPreHandler(b.config.Agent.MaxIterations)),
		compose.WithStatePostHandler(nodes.NewToolExecutorPostHandler()),
	)
}

// addNodes adds the processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	if err := b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(b.mm, b.config.Table, b.config.Agent),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
	); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodeInputConverter, err)
	}

	if err := b.graph.AddChatModelNode(nodes.NodeChatModel,
		b.config.ChatModel,
		compose.WithStatePreHandler(nodes.NewChatModelPreHandler(b.config.Agent.MaxIterations)),
		compose.WithStatePostHandler(nodes.NewChatModelPostHandler(b.config.ModelName)),
	); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodeChatModel, err)
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeChatModel},
		{nodes.NodeToolExecutor, nodes.NodeChatModel},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	decisionBranch := compose.NewGraphBranch(
		nodes.NewToolExecutorCondition(),
		map[string]bool{
			nodes.NodeToolExecutor: true,
			compose.END:            true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeChatModel, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return fmt.Errorf("error adding decision branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Limit total run steps to avoid infinite loops in branching or tool retries
	maxSteps := 10 + b.config.Agent.MaxIterations*2
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Int("max_steps", maxSteps).Msg("Graph compiled successfully")
	return runnable, nil
}
