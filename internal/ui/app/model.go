package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"okr/internal/modules/okr/dto"
	"okr/internal/ui/components"
	"okr/internal/ui/theme"
	chartview "okr/internal/ui/views/chart"
	dashboardview "okr/internal/ui/views/dashboard"
)

// ─── port ────────────────────────────────────────────────────────────────────

type okrPort interface {
	Dashboard(ctx context.Context, filter dto.FilterInput) (dto.DashboardOutput, error)
	SaveObjective(ctx context.Context, input dto.SaveObjectiveInput) (dto.SaveObjectiveOutput, error)
	DeleteObjective(ctx context.Context, id string) (dto.DeleteObjectiveOutput, error)
	AddKeyResult(ctx context.Context, objectiveID, title string, target, current float64) (dto.KeyResultMutationOutput, error)
	RemoveKeyResult(ctx context.Context, objectiveID, keyResultID string) (dto.KeyResultMutationOutput, error)
	SetProgress(ctx context.Context, objectiveID, keyResultID, value string) (dto.KeyResultMutationOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabChart
	tabCount
)

var tabLabels = [tabCount]string{"Dashboard", "Chart"}

// ─── async messages ───────────────────────────────────────────────────────────

type boardLoadedMsg struct {
	filter dto.FilterInput
	board  dto.DashboardOutput
	err    error
}

// mutatedMsg reports a finished mutation; the board is reloaded afterwards.
type mutatedMsg struct {
	status    string
	persisted bool
	err       error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Reload  key.Binding
	Add     key.Binding
	AddKR   key.Binding
	Set     key.Binding
	Reset   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add objective")),
		AddKR:   key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "add key result")),
		Set:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "set progress")),
		Reset:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset filters")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Reload, k.Reset},
		{k.Add, k.AddKR, k.Set},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns the filter state, tab routing,
// the help overlay and the command palette. Every change goes through the
// port and ends with a board reload.
type Model struct {
	okr okrPort

	dashView  dashboardview.Model
	chartView chartview.Model

	filter    dto.FilterInput
	applied   dto.FilterInput
	board     dto.DashboardOutput
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(okr okrPort) Model {
	return Model{
		okr:       okr,
		dashView:  dashboardview.New(),
		chartView: chartview.New(),
		activeTab: tabDashboard,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.dashView.Init(), m.loadBoardCmd())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case boardLoadedMsg:
		if msg.err != nil {
			m.status = "filter: " + msg.err.Error()
			m.filter = m.applied
			return m, nil
		}
		m.applied = msg.filter
		m.board = msg.board
		m.chartView.SetBoard(msg.board)
		if msg.board.Warning != "" {
			m.status = msg.board.Warning
		}
		return m, m.dashView.SetBoard(msg.board)

	case mutatedMsg:
		switch {
		case msg.err != nil:
			m.status = msg.err.Error()
			return m, nil
		case !msg.persisted:
			m.status = msg.status + " (not saved)"
		default:
			m.status = msg.status
		}
		return m, m.loadBoardCmd()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			return m, m.palette.Open()
		case "a":
			return m, m.palette.OpenWith("add ")
		case "k":
			return m, m.palette.OpenWith("kr ")
		case "s":
			if o, ok := m.dashView.SelectedObjective(); ok && len(o.KeyResults) > 0 {
				return m, m.palette.OpenWith("set 1 ")
			}
			m.status = "no key result to update"
			return m, nil
		case "x":
			return m.executePalette("reset")
		case "r":
			return m, m.loadBoardCmd()
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabDashboard:
		m.dashView, tabCmd = m.dashView.Update(msg)
	case tabChart:
		m.chartView, tabCmd = m.chartView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabChart:
		content = m.chartView.View()
	default:
		content = m.dashView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "okr  " + strings.Join(parts, sep) + "  " + theme.Muted.Render(describeFilter(m.board.Filter))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.board.Warning != "" && left == m.board.Warning {
		left = theme.Warn.Render(left)
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func describeFilter(f dto.FilterOutput) string {
	parts := []string{}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", f.Search))
	}
	parts = append(parts, "category="+f.Category, "status="+f.Status)
	if f.From == "" && f.To == "" {
		parts = append(parts, "range=all")
	} else {
		parts = append(parts, "range="+orOpen(f.From)+".."+orOpen(f.To))
	}
	return strings.Join(parts, " ")
}

func orOpen(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), parts[0]))
	selected, hasSelected := m.dashView.SelectedObjective()

	switch parts[0] {
	case "search":
		m.filter.Search = rest
		m.status = "search: " + orNone(rest)
		return m, m.loadBoardCmd()

	case "category":
		m.filter.Category = rest
		m.status = "category: " + orNone(rest)
		return m, m.loadBoardCmd()

	case "status":
		m.filter.Status = rest
		m.status = "status: " + orNone(rest)
		return m, m.loadBoardCmd()

	case "range":
		switch {
		case len(parts) == 2 && parts[1] == "all":
			m.filter.AllDates = true
			m.filter.From, m.filter.To = "", ""
		case len(parts) == 3:
			m.filter.AllDates = false
			m.filter.From, m.filter.To = parts[1], parts[2]
		default:
			m.status = "usage: range <from> <to> | range all"
			return m, nil
		}
		m.status = "range: " + rest
		return m, m.loadBoardCmd()

	case "reset":
		m.filter = dto.FilterInput{}
		m.status = "filters reset"
		return m, m.loadBoardCmd()

	case "add":
		if rest == "" {
			m.status = "usage: add <title>"
			return m, nil
		}
		return m, m.mutateCmd(func(ctx context.Context) (string, bool, error) {
			out, err := m.okr.SaveObjective(ctx, dto.SaveObjectiveInput{Title: rest})
			return "created " + out.Objective.Title, out.Persisted, err
		})

	case "kr":
		if !hasSelected {
			m.status = "no objective selected"
			return m, nil
		}
		title, target := rest, 0.0
		if len(parts) >= 3 {
			if v, err := strconv.ParseFloat(parts[len(parts)-1], 64); err == nil {
				target = v
				title = strings.TrimSpace(strings.TrimSuffix(rest, parts[len(parts)-1]))
			}
		}
		return m, m.mutateCmd(func(ctx context.Context) (string, bool, error) {
			out, err := m.okr.AddKeyResult(ctx, selected.ID, title, target, 0)
			return "added " + out.KeyResult.Title, out.Persisted, err
		})

	case "set":
		if !hasSelected || len(parts) < 3 {
			m.status = "usage: set <kr#|id> <value>"
			return m, nil
		}
		krID := resolveKeyResult(selected, parts[1])
		value := strings.TrimSpace(strings.TrimPrefix(rest, parts[1]))
		return m, m.mutateCmd(func(ctx context.Context) (string, bool, error) {
			out, err := m.okr.SetProgress(ctx, selected.ID, krID, value)
			return fmt.Sprintf("%s → %s (%d%%)", out.KeyResult.Title, formatNumber(out.KeyResult.Current), out.KeyResult.Progress), out.Persisted, err
		})

	case "rmkr":
		if !hasSelected || len(parts) < 2 {
			m.status = "usage: rmkr <kr#|id>"
			return m, nil
		}
		krID := resolveKeyResult(selected, parts[1])
		return m, m.mutateCmd(func(ctx context.Context) (string, bool, error) {
			out, err := m.okr.RemoveKeyResult(ctx, selected.ID, krID)
			return "removed " + out.KeyResult.Title, out.Persisted, err
		})

	case "delete":
		if !hasSelected {
			m.status = "no objective selected"
			return m, nil
		}
		return m, m.mutateCmd(func(ctx context.Context) (string, bool, error) {
			out, err := m.okr.DeleteObjective(ctx, selected.ID)
			return "deleted " + out.Title, out.Persisted, err
		})

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// resolveKeyResult turns a 1-based position into the key result's id. Any
// other reference is passed through for id or prefix matching.
func resolveKeyResult(o dto.ObjectiveOutput, ref string) string {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(o.KeyResults) {
		return o.KeyResults[n-1].ID
	}
	return ref
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.dashView, _ = m.dashView.Update(sz)
	m.chartView, _ = m.chartView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadBoardCmd() tea.Cmd {
	filter := m.filter
	return func() tea.Msg {
		board, err := m.okr.Dashboard(context.Background(), filter)
		return boardLoadedMsg{filter: filter, board: board, err: err}
	}
}

func (m Model) mutateCmd(run func(ctx context.Context) (string, bool, error)) tea.Cmd {
	return func() tea.Msg {
		status, persisted, err := run(context.Background())
		return mutatedMsg{status: status, persisted: persisted, err: err}
	}
}
