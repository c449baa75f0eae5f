// Package rewrite provides the interactive progress view for rewrite runs.
package rewrite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quizforge/corpus-cli/internal/adapters/driving/tui/styles"
	"github.com/quizforge/corpus-cli/internal/core/ports/driving"
)

// pollInterval is how often the view samples coordinator status.
const pollInterval = 200 * time.Millisecond

// tickMsg drives status polling.
type tickMsg time.Time

// doneMsg carries the run outcome into the view.
type doneMsg struct {
	summary *driving.RewriteSummary
	err     error
}

// Model is the bubbletea model for a rewrite run in progress.
type Model struct {
	coordinator driving.RewriteCoordinator
	styles      *styles.Styles
	spinner     spinner.Model
	bar         progress.Model

	status  driving.RewriteStatus
	summary *driving.RewriteSummary
	err     error
	done    bool
	quit    bool
}

// NewModel creates a progress view for a coordinator.
func NewModel(coordinator driving.RewriteCoordinator) Model {
	s := styles.DefaultStyles()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spin.Style.Foreground(s.Theme().Primary)

	return Model{
		coordinator: coordinator,
		styles:      s,
		spinner:     spin,
		bar:         progress.New(progress.WithDefaultGradient()),
	}
}

// Init starts the spinner and the status poll.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles polling, completion and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.status = m.coordinator.Status()
		return m, tick()

	case doneMsg:
		m.done = true
		m.summary = msg.summary
		m.err = msg.err
		m.status = m.coordinator.Status()
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current run state.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Rewriting corpus"))
	b.WriteString("\n\n")

	if m.done {
		if m.err != nil {
			b.WriteString(m.styles.Error.Render(fmt.Sprintf("Run failed: %v", m.err)))
			b.WriteString("\n")
			return b.String()
		}
		b.WriteString(m.styles.Success.Render(fmt.Sprintf(
			"Done: %d attempted, %d succeeded, %d failed",
			m.summary.Attempted, m.summary.Succeeded, m.summary.Failed)))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s Batch %d/%d\n", m.spinner.View(), m.status.BatchIndex, m.status.BatchCount)
	b.WriteString(m.bar.ViewAs(m.percent()))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%d attempted  %s  %s\n",
		m.status.Attempted,
		m.styles.Success.Render(fmt.Sprintf("%d ok", m.status.Succeeded)),
		m.styles.Error.Render(fmt.Sprintf("%d failed", m.status.Failed)))
	b.WriteString(m.styles.Muted.Render("press q to abort"))
	b.WriteString("\n")
	return b.String()
}

// percent is batch-level progress; batches are equal-sized except the last.
func (m Model) percent() float64 {
	if m.status.BatchCount == 0 {
		return 0
	}
	return float64(m.status.BatchIndex) / float64(m.status.BatchCount)
}

// Run executes the coordinator under the progress view and returns its
// summary. Quitting the view cancels the run.
func Run(ctx context.Context, coordinator driving.RewriteCoordinator) (*driving.RewriteSummary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewModel(coordinator))

	type runResult struct {
		summary *driving.RewriteSummary
		err     error
	}
	resultCh := make(chan runResult, 1)
	go func() {
		summary, err := coordinator.Run(ctx)
		resultCh <- runResult{summary, err}
		program.Send(doneMsg{summary: summary, err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}

	if model, ok := final.(Model); ok && model.quit && !model.done {
		// The user aborted; stop the run and wait for it to settle.
		cancel()
		<-resultCh
		return nil, context.Canceled
	}

	result := <-resultCh
	return result.summary, result.err
}
