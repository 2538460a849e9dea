// Package statsui provides the Bubble Tea history viewer.
package statsui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/calmtype/internal/model"
	"github.com/verte-zerg/calmtype/internal/stats"
)

const (
	tabOverview = iota
	tabCharTable
)

const recentRuns = 8

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#A8C5A0"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E08A7E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// LoadFunc builds a report for the given filters.
type LoadFunc func(ctx context.Context, cfg model.StatsConfig) (stats.Report, error)

// Model implements the Bubble Tea history viewer.
type Model struct {
	load LoadFunc
	cfg  model.StatsConfig
	now  func() time.Time

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	charTable table.Model

	width  int
	height int
}

// NewModel constructs a history viewer and loads the first report.
func NewModel(load LoadFunc, cfg model.StatsConfig, now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	m := &Model{
		load:     load,
		cfg:      cfg,
		now:      now,
		tabs:     []string{"Overview", "Char Table"},
		overview: viewport.New(80, 20),
		charTable: table.New(
			table.WithColumns(charColumns()),
			table.WithHeight(10),
		),
	}
	m.charTable.SetStyles(charTableStyles())
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h", "right", "l", "tab":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			if m.activeTab == tabCharTable {
				m.charTable.Focus()
			} else {
				m.charTable.Blur()
			}
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabCharTable {
			m.charTable, cmd = m.charTable.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	parts := []string{m.renderTabs(), m.renderFilterSummary()}
	switch {
	case m.errMsg != "":
		parts = append(parts, errorStyle.Render(m.errMsg))
	case m.activeTab == tabCharTable && len(m.report.CharAggsWindow) == 0:
		parts = append(parts, "No character stats found.")
	case m.activeTab == tabCharTable:
		parts = append(parts, m.charTable.View())
	default:
		parts = append(parts, m.overview.View())
	}
	parts = append(parts, headerStyle.Render("Tabs: ←/→  Scroll: ↑/↓  Window: -/=  Reload: r  Quit: q"))
	return strings.Join(parts, "\n")
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	tabsHeight := lipgloss.Height(m.renderTabs())
	bodyHeight := max(1, m.height-tabsHeight-2)
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.charTable.SetWidth(m.width)
	m.charTable.SetHeight(max(1, bodyHeight-1))
}

func (m *Model) refreshReport() {
	report, err := m.load(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("Failed to load stats: %v", err)
		return
	}
	m.errMsg = ""
	m.report = report
	m.charTable.SetRows(charRows(report.CharAggsWindow))
	m.renderOverview()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFilterSummary() string {
	source := m.cfg.Source
	if source == "" {
		source = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = fmt.Sprintf("%d", m.cfg.Last)
	}
	return headerStyle.Render(fmt.Sprintf("source=%s  since=%s  last=%s  window=%d", source, since, last, m.cfg.CurveWindow))
}

func (m *Model) renderOverview() {
	m.overview.SetContent(renderOverview(m.report, m.cfg.CurveWindow, m.now()))
}

func renderOverview(report stats.Report, window int, now time.Time) string {
	sessions := report.Sessions
	if len(sessions) == 0 {
		return "No sessions found. Finish a practice run to start your history."
	}
	var totalWPM, totalAcc, best float64
	var practiced int64
	for _, s := range sessions {
		wpm, acc := stats.SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalWPM += wpm
		totalAcc += acc
		best = max(best, wpm)
		practiced += s.DurationMs
	}
	count := float64(len(sessions))
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Sessions", fmt.Sprintf("%d", len(sessions))),
		metricCard("Practice", stats.FormatDuration(practiced)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", totalWPM/count)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", best)),
		metricCard("Avg Accuracy", fmt.Sprintf("%.1f%%", totalAcc/count*100)),
	)

	wpms, accs := stats.Curves(sessions, window)
	lines := []string{
		cards,
		"",
		"WPM      " + stats.Sparkline(wpms),
		"Accuracy " + stats.Sparkline(accs),
		"",
		"Recent",
	}
	for i := len(sessions) - 1; i >= 0 && i >= len(sessions)-recentRuns; i-- {
		s := sessions[i]
		lines = append(lines, fmt.Sprintf("  %-16s %3d WPM  %3d%%  %s",
			humanize.RelTime(s.EndedAt, now, "ago", "from now"), s.WPM, s.Accuracy, s.Source))
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 8},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg Latency (ms)", Width: 17},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
	}
}

func charRows(aggs []model.CharAggregate) []table.Row {
	formatted := stats.CharRows(aggs)
	rows := make([]table.Row, len(formatted))
	for i, r := range formatted {
		rows[i] = table.Row(r)
	}
	return rows
}

func charTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

var curveWindows = []int{1, 5, 10, 20, 50, 100}

func nextCurveWindow(n int) int {
	for _, w := range curveWindows {
		if w > n {
			return w
		}
	}
	return curveWindows[len(curveWindows)-1]
}

func prevCurveWindow(n int) int {
	for i := len(curveWindows) - 1; i >= 0; i-- {
		if curveWindows[i] < n {
			return curveWindows[i]
		}
	}
	return curveWindows[0]
}
