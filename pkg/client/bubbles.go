package client

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/integrail/askgpt/pkg/llm"
)

const maxMessages = 10

type (
	errMsg error

	answerMsg struct {
		question string
		answer   string
		err      error
		duration time.Duration
	}
)

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF88")).Background(lipgloss.Color("#444444"))

type Config struct {
	System      string  `json:"system" yaml:"system"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	OutDir      string  `json:"outDir" yaml:"outDir"` // answers are saved here when set
}

// CliClient is an interactive prompt. Every question is sent on its own;
// earlier questions and answers are never replayed to the model.
type CliClient struct {
	viewport       viewport.Model
	messages       []string
	textarea       textarea.Model
	senderStyle    lipgloss.Style
	responseStyle  lipgloss.Style
	errorStyle     lipgloss.Style
	err            error
	llm            llm.Client
	ctx            context.Context
	loader         spinner.Model
	inProgress     bool
	history        []string
	historyPointer int
	answered       int
	lastDuration   time.Duration
	cfg            Config
}

func BubbleClient(ctx context.Context, cfg Config, client llm.Client) *CliClient {
	ta := textarea.New()
	ta.Placeholder = "Ask a question... (or press Ctrl^C to exit, use Up and Down to navigate)"
	ta.Focus()

	ta.Prompt = "┃ "
	ta.CharLimit = 4096

	ta.SetWidth(128)
	ta.SetHeight(4)

	// Remove cursor line styling
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(160, 30)
	vp.SetContent(fmt.Sprintf("Asking %s. Type a question and press Enter to send.", cfg.Model))

	return &CliClient{
		ctx:           ctx,
		llm:           client,
		textarea:      ta,
		messages:      []string{},
		viewport:      vp,
		senderStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		responseStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		errorStyle:    lipgloss.NewStyle().Background(lipgloss.Color("#330000")).Foreground(lipgloss.Color("#FF3333")),
		loader: spinner.New(
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("205"))),
			spinner.WithSpinner(spinner.Dot),
		),
		cfg: cfg,
	}
}

func (m *CliClient) Init() tea.Cmd {
	return textarea.Blink
}

func (m *CliClient) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	if m.ctx.Err() != nil {
		return m, tea.Quit
	}
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.inProgress {
			return m, nil
		}
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	case answerMsg:
		m.processAnswer(msg)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.historyPointer < len(m.history) {
				m.historyPointer++
				m.textarea.SetValue(m.history[len(m.history)-m.historyPointer])
			}
			return m, nil
		case tea.KeyDown:
			if m.historyPointer > 1 {
				m.historyPointer--
				m.textarea.SetValue(m.history[len(m.history)-m.historyPointer])
			} else {
				m.historyPointer = 0
				m.textarea.SetValue("")
			}
			return m, nil
		case tea.KeyEnter:
			question := strings.TrimSpace(m.textarea.Value())
			if m.inProgress || question == "" {
				return m, nil
			}
			m.inProgress = true
			m.history = append(m.history, question)
			m.historyPointer = 0
			m.messages = append(m.messages, m.senderStyle.Render("You: ")+question)
			m.textarea.Reset()
			m.updateMessages()
			return m, tea.Batch(m.loader.Tick, m.ask(question))
		}

	// We handle errors just like any other message
	case errMsg:
		m.err = msg
		return m, nil
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *CliClient) ask(question string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		answer, err := m.llm.AskQuestion(m.ctx, m.cfg.System, question, m.cfg.Model, m.cfg.Temperature)
		return answerMsg{
			question: question,
			answer:   answer,
			err:      err,
			duration: time.Since(start),
		}
	}
}

func (m *CliClient) updateMessages() {
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
	m.viewport.SetContent(strings.Join(m.messages, "\n"))
	m.viewport.GotoBottom()
}

func (m *CliClient) processAnswer(msg answerMsg) {
	defer m.updateMessages()
	m.inProgress = false
	m.lastDuration = msg.duration
	if msg.err != nil {
		m.err = msg.err
		m.messages = append(m.messages, m.errorStyle.Render("ERROR: "+msg.err.Error()))
		return
	}
	m.err = nil
	m.answered++
	m.messages = append(m.messages, m.responseStyle.Render(m.cfg.Model+": ")+msg.answer)
	if m.cfg.OutDir != "" {
		m.saveAnswer(msg)
	}
}

func (m *CliClient) saveAnswer(msg answerMsg) {
	fileName := filepath.Join(m.cfg.OutDir, fmt.Sprintf("answer-%d.md", m.answered))
	report, err := SaveAnswer(fileName, fmt.Sprintf("# %s\n\n%s\n", msg.question, msg.answer))
	if err != nil {
		m.messages = append(m.messages, m.errorStyle.Render("ERROR: "+err.Error()))
		return
	}
	m.messages = append(m.messages, m.responseStyle.Render("askgpt: ")+report)
}

func (m *CliClient) Err() error {
	return m.err
}

func (m *CliClient) View() string {
	dialogView := m.textarea.View()
	if m.inProgress {
		dialogView = m.loader.View() + " waiting for " + m.cfg.Model
	}
	header := headerStyle.Render(fmt.Sprintf("Model: %s; temperature: %v", m.cfg.Model, m.cfg.Temperature))
	header += lo.Ternary(m.lastDuration > 0, headerStyle.Render(fmt.Sprintf("; last answer: %.1fs", m.lastDuration.Seconds())), "")
	return header + fmt.Sprintf(
		"\n\n%s\n\n%s",
		m.viewport.View(),
		dialogView,
	) + "\n\n"
}
