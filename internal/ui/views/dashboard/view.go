package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"okr/internal/modules/okr/dto"
	"okr/internal/ui/theme"
)

const progressBarWidth = 20

// ─── list item ───────────────────────────────────────────────────────────────

type objectiveItem struct {
	objective dto.ObjectiveOutput
}

func (i objectiveItem) Title() string { return i.objective.Title }
func (i objectiveItem) Description() string {
	return fmt.Sprintf("%s  %d%%  %s  %d KRs", theme.Badge(i.objective.Status), i.objective.Progress, categoryLabel(i.objective.Category), len(i.objective.KeyResults))
}
func (i objectiveItem) FilterValue() string { return i.objective.Title }

// ─── model ───────────────────────────────────────────────────────────────────

// Model shows the filtered objectives on the left and the selected
// objective's key results on the right. Data is pushed in with SetBoard.
type Model struct {
	list    list.Model
	board   dto.DashboardOutput
	detail  viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Objectives"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{list: l, detail: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetBoard replaces the shown objectives, keeping the selection on the same
// objective when it is still visible.
func (m *Model) SetBoard(board dto.DashboardOutput) tea.Cmd {
	selected, _ := m.SelectedObjective()
	m.loading = false
	m.board = board
	m.list.Title = fmt.Sprintf("Objectives %d/%d", len(board.Objectives), board.TotalCount)

	items := make([]list.Item, len(board.Objectives))
	keep := 0
	for i, o := range board.Objectives {
		items[i] = objectiveItem{objective: o}
		if o.ID == selected.ID {
			keep = i
		}
	}
	cmd := m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(keep)
	}
	m.refreshDetail()
	return cmd
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.refreshDetail()
		}

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading objectives…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedObjective returns the highlighted objective, if any.
func (m Model) SelectedObjective() (dto.ObjectiveOutput, bool) {
	if item, ok := m.list.SelectedItem().(objectiveItem); ok {
		return item.objective, true
	}
	return dto.ObjectiveOutput{}, false
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m *Model) refreshDetail() {
	m.detail.SetContent(m.renderDetail())
	m.detail.GotoTop()
}

func (m Model) renderDetail() string {
	o, ok := m.SelectedObjective()
	if !ok {
		if m.board.TotalCount > 0 {
			return theme.Muted.Render("No objectives match the filter. Try : reset")
		}
		return theme.Muted.Render("No objectives yet. Try : add <title>")
	}
	return RenderObjective(o)
}

// RenderObjective is the detail pane content for one objective.
func RenderObjective(o dto.ObjectiveOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(o.Title) + "  " + theme.Badge(o.Status) + "\n\n")
	if o.Description != "" {
		sb.WriteString(o.Description + "\n\n")
	}
	sb.WriteString(theme.Muted.Render("category: ") + categoryLabel(o.Category) + "\n")
	sb.WriteString(theme.Muted.Render("dates:    ") + dash(o.StartDate) + " → " + dash(o.EndDate) + "\n")
	sb.WriteString(theme.Muted.Render("progress: ") + ProgressBar(o.Progress, progressBarWidth, o.Status) + fmt.Sprintf(" %d%%\n", o.Progress))
	sb.WriteString(theme.Muted.Render("id:       ") + o.ID + "\n\n")

	if len(o.KeyResults) == 0 {
		sb.WriteString(theme.Muted.Render("No key results. Try : kr <title> [target]"))
		return sb.String()
	}
	sb.WriteString(theme.Title.Render("Key results") + "\n")
	for i, k := range o.KeyResults {
		mark := "○"
		if k.Done {
			mark = lipgloss.NewStyle().Foreground(theme.Green).Render("●")
		}
		sb.WriteString(fmt.Sprintf("\n%s %d. %s\n", mark, i+1, k.Title))
		sb.WriteString("   " + ProgressBar(k.Progress, progressBarWidth, k.Status) +
			fmt.Sprintf(" %s/%s  %d%%  ", formatNumber(k.Current), formatNumber(k.Target), k.Progress) +
			lipgloss.NewStyle().Foreground(theme.StatusColor(k.Status)).Render(k.Status) + "\n")
		for _, h := range k.Recent {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("     %s  %s", h.Date, formatNumber(h.Value))) + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("s: set progress  : palette"))
	return sb.String()
}

// ProgressBar fills width cells in proportion to progress, capped at 100%,
// in the color of status.
func ProgressBar(progress, width int, status string) string {
	filled := min(max(progress, 0), 100) * width / 100
	fill := lipgloss.NewStyle().Foreground(theme.StatusColor(status)).Render(strings.Repeat("█", filled))
	return fill + theme.Muted.Render(strings.Repeat("░", width-filled))
}

func categoryLabel(category string) string {
	if category == "" {
		return "Uncategorized"
	}
	return category
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
