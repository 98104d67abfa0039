package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cloudwego/eino/schema"

	errx "github.com/chat-governanca/server/internal/core/error"
)

const (
	promptLabel = "Você: "
	answerLabel = "Chat Governança: "
	goodbye     = "Chat Governança: Encerrando sessão. Até logo!"

	cmdReasoning = "/raciocinio"
	cmdHistory   = "/historico"

	historySize = 10
)

var exitWords = map[string]struct{}{"sair": {}, "exit": {}, "fim": {}}

var (
	errorColor  = lipgloss.Color("#e53935")
	accentColor = lipgloss.Color("#8BC34A")
	mutedColor  = lipgloss.Color("#9E9E9E")

	errorStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	reasonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

// REPL drives a Shell from a line-oriented reader.
type REPL struct {
	shell *Shell
	in    io.Reader
	out   io.Writer
}

func NewREPL(shell *Shell, in io.Reader, out io.Writer) *REPL {
	return &REPL{shell: shell, in: in, out: out}
}

// Run prints the log so far and then serves prompts until an exit word, end
// of input or context cancellation.
func (r *REPL) Run(ctx context.Context) error {
	msgs, err := r.shell.Messages(ctx)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		r.printMessage(m)
	}

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, labelStyle.Render(promptLabel))
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, goodbye)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, ok := exitWords[strings.ToLower(line)]; ok {
			fmt.Fprintln(r.out, goodbye)
			return nil
		}
		if strings.HasPrefix(line, "/") {
			if err := r.command(ctx, line); err != nil {
				return err
			}
			continue
		}

		turn, err := r.shell.Submit(ctx, line)
		if err != nil {
			return err
		}
		r.printAnswer(turn.Answer)
		if turn.Reasoning != "" {
			fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf("(raciocínio disponível: %s %d)", cmdReasoning, turn.Index)))
		}
	}
}

func (r *REPL) command(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case cmdReasoning:
		r.showReasoning(fields[1:])
	case cmdHistory:
		msgs, err := r.shell.Recent(ctx, historySize)
		if err != nil {
			return err
		}
		for _, m := range msgs {
			r.printMessage(m)
		}
	default:
		fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf("Comandos: %s [n], %s, sair", cmdReasoning, cmdHistory)))
	}
	return nil
}

func (r *REPL) showReasoning(args []string) {
	var (
		index int
		trace string
		ok    bool
	)
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf("%s Índice inválido: %s", errx.GlyphError, args[0])))
			return
		}
		index = n
		trace, ok = r.shell.Reasoning(n)
	} else {
		index, trace, ok = r.shell.LatestReasoning()
	}
	if !ok {
		fmt.Fprintln(r.out, mutedStyle.Render("Nenhum raciocínio registrado para esta mensagem."))
		return
	}
	fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf("Raciocínio da mensagem %d:", index)))
	fmt.Fprintln(r.out, reasonStyle.Render(trace))
}

func (r *REPL) printMessage(m *schema.Message) {
	switch m.Role {
	case schema.User:
		fmt.Fprintln(r.out, labelStyle.Render(promptLabel)+m.Content)
	case schema.Assistant:
		r.printAnswer(m.Content)
	}
}

func (r *REPL) printAnswer(text string) {
	if errx.IsDisplayError(text) {
		text = errorStyle.Render(text)
	}
	fmt.Fprintln(r.out, labelStyle.Render(answerLabel)+text)
}
