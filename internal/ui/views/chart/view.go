package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"okr/internal/modules/okr/dto"
	"okr/internal/ui/theme"
)

// statusOrder is the legend order, best band first.
var statusOrder = []string{"Overachieved", "On Track", "In Progress", "At Risk", "Off Track"}

// Model renders the visible objectives as a horizontal bar chart with a
// summary header.
type Model struct {
	board  dto.DashboardOutput
	vp     viewport.Model
	width  int
	height int
}

func New() Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1, 2)
	return Model{vp: vp}
}

func (m *Model) SetBoard(board dto.DashboardOutput) {
	m.board = board
	m.vp.SetContent(Render(board, m.barWidth()))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.vp.Width = size.Width
		m.vp.Height = size.Height
		m.vp.SetContent(Render(m.board, m.barWidth()))
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.vp.View()
}

func (m Model) barWidth() int {
	// label column + percentage column + padding
	return max(m.width-40, 10)
}

// Render draws the summary and one bar per chart entry. Bars are scaled to
// the largest progress shown, or 100% when nothing exceeds it.
func Render(board dto.DashboardOutput, barWidth int) string {
	var sb strings.Builder
	s := board.Summary
	sb.WriteString(theme.Title.Render("Progress by objective") + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d shown of %d  ·  average %d%%", s.Total, board.TotalCount, s.AverageProgress)) + "\n\n")

	if len(board.Chart) == 0 {
		sb.WriteString(theme.Muted.Render("nothing to chart"))
		return sb.String()
	}

	scale := 100
	for _, e := range board.Chart {
		scale = max(scale, e.Progress)
	}
	for _, e := range board.Chart {
		filled := max(e.Progress, 0) * barWidth / scale
		color := theme.StatusColor(e.Status)
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
		sb.WriteString(fmt.Sprintf("%-23s %s %4d%%  %s\n",
			e.Label,
			bar+strings.Repeat(" ", barWidth-filled),
			e.Progress,
			theme.Muted.Render(fmt.Sprintf("%s · %d KRs", e.Category, e.KeyResultCount))))
	}

	sb.WriteString("\n" + theme.Title.Render("By status") + "\n")
	for _, status := range statusOrder {
		if n := s.ByStatus[status]; n > 0 {
			sb.WriteString(fmt.Sprintf("  %s %d\n", theme.Badge(status), n))
		}
	}

	sb.WriteString("\n" + theme.Title.Render("By category") + "\n")
	categories := make([]string, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		sb.WriteString(fmt.Sprintf("  %-14s %d\n", c, s.ByCategory[c]))
	}
	return sb.String()
}
