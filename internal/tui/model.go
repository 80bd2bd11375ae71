package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"imgbake/internal/engine"
)

type Model struct {
	updates    <-chan engine.ProgressUpdate
	started    time.Time
	width      int
	total      int
	processed  int
	won        int
	kept       int
	skipped    int
	errors     int
	bytesSaved int64
	quitting   bool
}

type doneMsg struct{}

type updateMsg engine.ProgressUpdate

func NewModel(updates <-chan engine.ProgressUpdate) Model {
	return Model{updates: updates, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total += msg.TotalDelta
		m.processed += msg.ProcessedDelta
		m.won += msg.WonDelta
		m.kept += msg.KeptDelta
		m.skipped += msg.SkippedDelta
		m.errors += msg.ErrorDelta
		m.bytesSaved += msg.BytesSavedDelta
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.processed) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	bar := renderBar(barWidth, ratio)
	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("imgbake 🔥"),
		labelStyle.Render(fmt.Sprintf("Images: %d/%d", m.processed, m.total)) + dimStyle.Render(fmt.Sprintf("  errors:%d", m.errors)),
		labelStyle.Render(fmt.Sprintf("Baked: %d  kept: %d  skipped: %d", m.won, m.kept, m.skipped)),
		labelStyle.Render(fmt.Sprintf("Bytes saved: %s", engine.FormatBytes(m.bytesSaved))),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		barStyle.Render(bar),
	}

	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan engine.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
