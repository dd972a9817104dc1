// Package review provides the Bubble Tea front end that drives the
// review state machine for one incoming message.
package review

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orenp/quill/internal/compose"
	"github.com/orenp/quill/internal/mailbox"
	reviewfsm "github.com/orenp/quill/internal/review"
	"github.com/orenp/quill/internal/style"
	"github.com/orenp/quill/internal/textutil"
)

const generateTimeout = 2 * time.Minute

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	draftTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// draftReadyMsg carries a generated draft (or the generation error)
// back into the update loop.
type draftReadyMsg struct {
	draft string
	err   error
}

// Model is the per-message review UI. It owns a review.Machine and
// regenerates drafts until the operator accepts or skips.
type Model struct {
	message  mailbox.Message
	composer *compose.Composer
	profile  *style.Profile
	machine  *reviewfsm.Machine

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	generating bool
	editing    bool
	err        error
	width      int
	height     int
}

// New creates a review model for one incoming message.
func New(
	msg mailbox.Message,
	composer *compose.Composer,
	profile *style.Profile,
) Model {
	ta := textarea.New()
	ta.Placeholder = "Instructions for this reply (optional)..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.CharLimit = 1000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(78, 18)

	return Model{
		message:    msg,
		composer:   composer,
		profile:    profile,
		machine:    reviewfsm.NewMachine(""),
		viewport:   vp,
		input:      ta,
		spinner:    sp,
		generating: true,
	}
}

// Outcome returns the final state, the accepted draft text, and the
// number of generation attempts. Meaningful once the program has
// finished.
func (m Model) Outcome() (reviewfsm.State, string, int) {
	return m.machine.State(), m.machine.Draft(), m.machine.Attempts()
}

// Init kicks off the first generation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.generateCmd())
}

// generateCmd calls the composer off the UI loop.
func (m Model) generateCmd() tea.Cmd {
	req := compose.ReplyRequest{
		Subject:           m.message.Subject,
		Body:              m.message.Body,
		SenderName:        m.message.SenderName,
		AdditionalContext: m.machine.Instructions(),
	}
	composer := m.composer
	profile := m.profile

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(
			context.Background(), generateTimeout,
		)
		defer cancel()

		draft, err := composer.GenerateReply(ctx, req, profile)
		return draftReadyMsg{draft: draft, err: err}
	}
}

// Update handles messages for the review UI.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.input.SetWidth(msg.Width - 4)
		vpHeight := msg.Height - 10
		if vpHeight < 4 {
			vpHeight = 4
		}
		m.viewport.Height = vpHeight
		return m, nil

	case draftReadyMsg:
		m.generating = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if err := m.machine.SetDraft(msg.draft); err != nil {
			m.err = err
			return m, nil
		}
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleKeyMsg routes key presses depending on whether the operator is
// editing instructions or judging a draft.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "esc":
			m.editing = false
			m.input.Blur()
			return m, nil
		case "ctrl+d", "enter":
			instructions := strings.TrimSpace(m.input.Value())
			m.editing = false
			m.input.Blur()
			if err := m.machine.Apply(
				reviewfsm.DecisionEdit, instructions,
			); err != nil {
				m.err = err
				return m, nil
			}
			m.generating = true
			return m, tea.Batch(m.spinner.Tick, m.generateCmd())
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.generating {
		if msg.String() == "ctrl+c" {
			_ = m.machine.Apply(reviewfsm.DecisionSkip, "")
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "a":
		if m.machine.Draft() == "" {
			return m, nil
		}
		if err := m.machine.Apply(reviewfsm.DecisionAccept, ""); err != nil {
			m.err = err
			return m, nil
		}
		return m, tea.Quit

	case "r":
		if err := m.machine.Apply(reviewfsm.DecisionRetry, ""); err != nil {
			m.err = err
			return m, nil
		}
		m.generating = true
		return m, tea.Batch(m.spinner.Tick, m.generateCmd())

	case "e":
		m.editing = true
		m.input.SetValue(m.machine.Instructions())
		m.input.Focus()
		return m, textarea.Blink

	case "s", "q", "ctrl+c":
		if err := m.machine.Apply(reviewfsm.DecisionSkip, ""); err != nil {
			m.err = err
			return m, nil
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// renderContent renders the incoming message preview and the current
// draft into the viewport.
func (m Model) renderContent() string {
	var sb strings.Builder

	preview := textutil.Ellipsis(m.message.Body, 500)
	sb.WriteString(labelStyle.Render("--- incoming message ---"))
	sb.WriteString("\n")
	sb.WriteString(preview)
	sb.WriteString("\n\n")
	sb.WriteString(draftTitleStyle.Render("--- draft reply ---"))
	sb.WriteString("\n")
	sb.WriteString(m.machine.Draft())

	return sb.String()
}

// View renders the review UI.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Review draft reply"))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("From: "))
	sb.WriteString(m.message.Sender())
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Subject: "))
	sb.WriteString(m.message.Subject)
	sb.WriteString("\n\n")

	switch {
	case m.generating:
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Generating reply...")
		sb.WriteString("\n")

	case m.editing:
		sb.WriteString("New instructions (enter to regenerate, esc to cancel):\n")
		sb.WriteString(m.input.View())
		sb.WriteString("\n")

	default:
		sb.WriteString(borderStyle.Render(m.viewport.View()))
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render(
			"[a]ccept  [r]etry  [e]dit instructions  [s]kip",
		))
		sb.WriteString("\n")
	}

	if m.err != nil {
		sb.WriteString(errStyle.Render("error: " + m.err.Error()))
		sb.WriteString("\n")
		sb.WriteString(hintStyle.Render("[r]etry  [s]kip"))
		sb.WriteString("\n")
	}

	return sb.String()
}
