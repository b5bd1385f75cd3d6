// Package chat is the interactive terminal front end of the assistant.
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
)

const (
	Title   = "🛍️ Smart Shopping Assistant"
	Caption = "Ask about electronics by brand, budget or type. Commands: /history, /reset, /forget, /quit"

	cmdHistory = "/history"
	cmdReset   = "/reset"
	cmdForget  = "/forget"
	cmdQuit    = "/quit"
)

type styles struct {
	title     lipgloss.Style
	caption   lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	pending   lipgloss.Style
	err       lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff00")),
		caption:   r.NewStyle().Foreground(lipgloss.Color("#808080")),
		user:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5fafff")),
		assistant: r.NewStyle().Foreground(lipgloss.Color("#ffffff")),
		pending:   r.NewStyle().Italic(true).Foreground(lipgloss.Color("#808080")),
		err:       r.NewStyle().Foreground(lipgloss.Color("#ff5f5f")),
	}
}

type Chat struct {
	runner    contractx.TurnRunner
	sessions  contractx.SessionKeeper
	sessionID string

	in    *bufio.Scanner
	out   io.Writer
	style styles

	resetNext bool
}

// New builds a chat bound to one session. sessions may be nil, which disables
// the /history and /forget commands.
func New(runner contractx.TurnRunner, sessions contractx.SessionKeeper, sessionID string, in io.Reader, out io.Writer) (*Chat, error) {
	if runner == nil {
		return nil, errors.New("turn runner is required")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}

	return &Chat{
		runner:    runner,
		sessions:  sessions,
		sessionID: sessionID,
		in:        bufio.NewScanner(in),
		out:       out,
		style:     newStyles(lipgloss.NewRenderer(out)),
	}, nil
}

// Run reads lines until /quit, end of input or ctx is done. A failed turn is
// printed and the chat goes on.
func (c *Chat) Run(ctx context.Context) error {
	c.println(c.style.title.Render(Title))
	c.println(c.style.caption.Render(Caption))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(c.out, c.style.user.Render("you> "))
		if !c.in.Scan() {
			c.println("")
			return c.in.Err()
		}

		line := strings.TrimSpace(c.in.Text())
		switch line {
		case "":
			continue
		case cmdQuit:
			return nil
		case cmdReset:
			c.resetNext = true
			c.println(c.style.caption.Render("Memory will be cleared with your next message."))
			continue
		case cmdHistory:
			c.printHistory(ctx)
			continue
		case cmdForget:
			c.forget(ctx)
			continue
		}

		c.turn(ctx, line)
	}
}

func (c *Chat) turn(ctx context.Context, text string) {
	c.println(c.style.user.Render("🧑 "+text))
	c.println(c.style.pending.Render("Searching..."))

	out, err := c.runner.HandleMessage(ctx, contractx.TurnRequest{
		SessionID: c.sessionID,
		Text:      text,
		Reset:     c.resetNext,
	})
	if err != nil {
		c.println(c.style.err.Render("⚠️ " + err.Error()))
		return
	}
	c.resetNext = false
	c.println(c.style.assistant.Render("🤖 " + out.Reply))
}

func (c *Chat) printHistory(ctx context.Context) {
	if c.sessions == nil {
		c.println(c.style.caption.Render("History is not available."))
		return
	}
	entries, err := c.sessions.History(ctx, c.sessionID)
	if err != nil {
		c.println(c.style.err.Render("⚠️ " + err.Error()))
		return
	}

	shown := 0
	for _, e := range entries {
		switch e.Role {
		case "user":
			c.println(c.style.user.Render("🧑 " + e.Content))
		case "assistant":
			c.println(c.style.assistant.Render("🤖 " + e.Content))
		default:
			continue
		}
		shown++
	}
	if shown == 0 {
		c.println(c.style.caption.Render("No messages yet."))
	}
}

func (c *Chat) forget(ctx context.Context) {
	if c.sessions == nil {
		c.println(c.style.caption.Render("Forgetting is not available."))
		return
	}
	if err := c.sessions.Forget(ctx, c.sessionID); err != nil {
		c.println(c.style.err.Render("⚠️ " + err.Error()))
		return
	}
	c.resetNext = false
	c.println(c.style.caption.Render("Conversation forgotten."))
}

func (c *Chat) println(s string) {
	fmt.Fprintln(c.out, s)
}
