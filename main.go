package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/chat-governanca/server/internal/agent"
	"github.com/chat-governanca/server/internal/agent/graph/prompts"
	"github.com/chat-governanca/server/internal/agent/model"
	"github.com/chat-governanca/server/internal/agent/providers"
	"github.com/chat-governanca/server/internal/agent/repo"
	"github.com/chat-governanca/server/internal/chatbot"
	"github.com/chat-governanca/server/internal/core"
	"github.com/chat-governanca/server/internal/dataset"
	"github.com/chat-governanca/server/internal/session"
	logx "github.com/chat-governanca/server/pkg/logger"
	pkgredis "github.com/chat-governanca/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the chat, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	ChatMode    string `envconfig:"CHAT_MODE" default:"heuristic"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis   pkgredis.Config
	Dataset dataset.Config

	// Agent configs
	Provider     model.ProviderConfig
	Agent        model.AgentConfig
	Conversation model.ConversationConfig
}

var (
	envFile  string
	modeFlag string
)

var rootCmd = &cobra.Command{
	Use:   "chat-governanca",
	Short: "Chat Governança - perguntas sobre dados e governança de dados",
	Long: `Chat Governança answers questions in a terminal session.

In heuristic mode it answers data-governance questions (LGPD, data quality,
security, compliance, cataloguing) from a static knowledge base. In agent mode
an LLM (openai, ollama or gemini) answers questions about the loaded CSV table.

Type "sair", "exit" or "fim" to end the session.`,
	SilenceUsage: true,
	RunE:         runChat,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path of the .env file to load")
	rootCmd.PersistentFlags().StringVarP(&modeFlag, "mode", "m", "", "Answer path: heuristic or agent (overrides CHAT_MODE)")
	rootCmd.AddCommand(askCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is everything a session needs, built once per process.
type app struct {
	cfg      AppConfig
	mode     core.Mode
	table    *dataset.Table
	repo     model.ConversationRepository
	answerer session.Answerer
	closers  []io.Closer
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func loadConfig() (AppConfig, error) {
	var cfg AppConfig
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", envFile, err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("process environment config: %w", err)
	}
	if modeFlag != "" {
		cfg.ChatMode = modeFlag
	}
	return cfg, nil
}

func bootstrap(ctx context.Context, out io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logx.Init(logx.LoggerOpts{
		Environment: core.ParseEnvironment(cfg.Environment),
		Level:       cfg.LogLevel,
	})

	mode, ok := core.ParseMode(cfg.ChatMode)
	if !ok {
		return nil, fmt.Errorf("unknown CHAT_MODE %q (use heuristic or agent)", cfg.ChatMode)
	}

	table, err := dataset.Load(ctx, cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	a := &app{cfg: cfg, mode: mode, table: table}

	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New()
		if err != nil {
			return nil, fmt.Errorf("initialise redis client: %w", err)
		}
		a.closers = append(a.closers, rdb)
		a.repo = repo.NewRedisConversationRepository(rdb, cfg.Conversation.TTL)
		logx.Info().Msg("conversation history stored in redis")
	} else {
		a.repo = repo.NewMemoryConversationRepository()
	}

	switch mode {
	case core.ModeAgent:
		for _, w := range providers.Warnings(cfg.Provider) {
			fmt.Fprintln(out, w)
		}
		adapter := agent.New(ctx, agent.Config{
			Provider:         cfg.Provider,
			Agent:            cfg.Agent,
			Conversation:     cfg.Conversation,
			Table:            table,
			ConversationRepo: a.repo,
		})
		if err := adapter.Err(); err != nil {
			logx.Warn().Err(err).Msg("agent unavailable, questions will return the configuration error")
		}
		a.answerer = adapter
	default:
		responder, err := chatbot.New()
		if err != nil {
			a.Close()
			return nil, err
		}
		a.answerer = session.NewHeuristicAnswerer(responder)
	}

	logx.Info().
		Str("mode", string(mode)).
		Str("provider", cfg.Provider.Provider).
		Msg("chat configured")
	return a, nil
}

func printDataset(out io.Writer, a *app) {
	fmt.Fprintf(out, "Dados carregados de %s: %d linhas, %d colunas\n\n",
		a.table.Source, a.table.Rows(), len(a.table.Columns))
	fmt.Fprintln(out, prompts.MarkdownTable(a.table.ColumnNames(), a.table.Head(a.cfg.Agent.SampleRows)))
	fmt.Fprintln(out)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	a, err := bootstrap(ctx, out)
	if err != nil {
		return err
	}
	defer a.Close()

	printDataset(out, a)

	shell, err := session.NewShell(ctx, a.repo, a.answerer)
	if err != nil {
		return err
	}
	err = session.NewREPL(shell, cmd.InOrStdin(), out).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	a, err := bootstrap(ctx, out)
	if err != nil {
		return err
	}
	defer a.Close()

	shell, err := session.NewShell(ctx, a.repo, a.answerer, session.WithWelcome(""))
	if err != nil {
		return err
	}
	turn, err := shell.Submit(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, turn.Answer)
	if turn.Reasoning != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, turn.Reasoning)
	}
	return nil
}
