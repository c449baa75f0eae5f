package rewrite

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/corpus-cli/internal/core/ports/driving"
)

// mockCoordinator implements driving.RewriteCoordinator for testing.
type mockCoordinator struct {
	status driving.RewriteStatus
}

func (m *mockCoordinator) Run(_ context.Context) (*driving.RewriteSummary, error) {
	return &driving.RewriteSummary{}, nil
}

func (m *mockCoordinator) Status() driving.RewriteStatus {
	return m.status
}

func TestModel_TickPollsStatus(t *testing.T) {
	coordinator := &mockCoordinator{status: driving.RewriteStatus{
		Running:    true,
		BatchIndex: 2,
		BatchCount: 5,
		Attempted:  42,
		Succeeded:  40,
		Failed:     2,
	}}
	model := NewModel(coordinator)

	updated, cmd := model.Update(tickMsg{})

	m, ok := updated.(Model)
	require.True(t, ok)
	assert.Equal(t, 42, m.status.Attempted)
	assert.NotNil(t, cmd, "polling must reschedule itself")

	view := m.View()
	assert.Contains(t, view, "Batch 2/5")
	assert.Contains(t, view, "42 attempted")
	assert.Contains(t, view, "2 failed")
}

func TestModel_DoneQuits(t *testing.T) {
	model := NewModel(&mockCoordinator{})

	updated, cmd := model.Update(doneMsg{
		summary: &driving.RewriteSummary{Attempted: 3, Succeeded: 3},
	})

	m := updated.(Model)
	assert.True(t, m.done)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Done: 3 attempted")
}

func TestModel_DoneWithErrorShowsFailure(t *testing.T) {
	model := NewModel(&mockCoordinator{})

	updated, _ := model.Update(doneMsg{err: errors.New("backend unreachable")})

	m := updated.(Model)
	assert.Contains(t, m.View(), "Run failed")
	assert.Contains(t, m.View(), "backend unreachable")
}

func TestModel_QuitKey(t *testing.T) {
	model := NewModel(&mockCoordinator{})

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	m := updated.(Model)
	assert.True(t, m.quit)
	require.NotNil(t, cmd)
}

func TestModel_PercentHandlesZeroBatches(t *testing.T) {
	model := NewModel(&mockCoordinator{})

	assert.Zero(t, model.percent())

	model.status = driving.RewriteStatus{BatchIndex: 1, BatchCount: 4}
	assert.InDelta(t, 0.25, model.percent(), 1e-9)
}
