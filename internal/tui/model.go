// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/cbroglie/mustache"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/calmtype/internal/model"
	"github.com/verte-zerg/calmtype/internal/session"
	"github.com/verte-zerg/calmtype/internal/source"
	"github.com/verte-zerg/calmtype/internal/stats"
)

// DefaultFinishMessage is the completion message template.
const DefaultFinishMessage = `Practice complete!

Final WPM: {{wpm}}
Accuracy: {{accuracy}}%

Take a deep breath and continue when you're ready.`

const tickInterval = time.Second

// Recorder persists finished runs.
type Recorder interface {
	InsertSession(ctx context.Context, rec model.SessionRecord, chars []model.CharStats) (int64, error)
}

// Options configures a practice Model.
type Options struct {
	Text source.Text
	// Recorder is optional; nil keeps runs out of history.
	Recorder      Recorder
	FinishMessage string

	Now  func() time.Time
	Load func(path string) (source.Text, error)
	Copy func(string) error
}

type tickMsg struct {
	gen int
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	opts Options
	text source.Text
	sess session.Session

	// tickGen invalidates ticks scheduled for a replaced or finished session.
	tickGen int
	focused bool

	width  int
	height int

	keys      keyMap
	help      help.Model
	prompt    textinput.Model
	prompting bool

	result string
	status string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8C5A0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E08A7E"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C8B88A"))
	cursorStyle      = currentWordStyle.Underline(true)
	missStyle        = incorrectStyle.Underline(true)
	statStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	modalStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#A8C5A0")).
				Padding(1, 2)
)

// NewModel constructs a practice model for opts.Text, which must already be
// a valid session text.
func NewModel(opts Options) (*Model, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Load == nil {
		opts.Load = source.LoadFile
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if strings.TrimSpace(opts.FinishMessage) == "" {
		opts.FinishMessage = DefaultFinishMessage
	}
	prompt := textinput.New()
	prompt.Prompt = "file: "
	prompt.Placeholder = "path/to/text.txt"
	prompt.CharLimit = 4096

	m := &Model{
		opts:   opts,
		keys:   defaultKeyMap(),
		help:   help.New(),
		prompt: prompt,
	}
	if err := m.setText(opts.Text); err != nil {
		return nil, err
	}
	return m, nil
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
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if msg.gen != m.tickGen || !m.sess.Active {
			return m, nil
		}
		m.sess = session.Apply(m.sess, session.TickEvent{TimeMillis: m.nowMillis()})
		return m, m.scheduleTick()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Restart):
		m.restart()
		return m, nil
	case key.Matches(msg, m.keys.NewText):
		m.prompting = true
		m.prompt.SetValue("")
		return m, m.prompt.Focus()
	}

	if m.sess.IsFinished() {
		if key.Matches(msg, m.keys.Copy) {
			m.copyResult()
		}
		return m, nil
	}
	if !m.focused {
		if key.Matches(msg, m.keys.Resume) {
			m.focused = true
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Pause):
		m.focused = false
		return m, nil
	case key.Matches(msg, m.keys.Undo):
		m.sess = session.Apply(m.sess, session.BackspaceEvent{})
		return m, nil
	}
	switch msg.Type {
	case tea.KeySpace:
		return m, m.handleRunes([]rune{' '})
	case tea.KeyRunes:
		if msg.Paste {
			return m, nil
		}
		return m, m.handleRunes(msg.Runes)
	default:
		return m, nil
	}
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.prompt.Value())
		if path == "" {
			return m, nil
		}
		text, err := m.opts.Load(expandHome(path))
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		if err := m.setText(text); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleRunes feeds typed runes to the session. The first keystroke starts
// the tick; the last one finishes the run.
func (m *Model) handleRunes(runes []rune) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range runes {
		if m.sess.IsFinished() {
			break
		}
		wasStarted := m.sess.Started
		m.sess = session.Apply(m.sess, session.KeystrokeEvent{Rune: r, TimeMillis: m.nowMillis()})
		if !wasStarted && m.sess.Started {
			cmd = m.scheduleTick()
		}
		if m.sess.IsFinished() {
			m.finishSession()
			return nil
		}
	}
	return cmd
}

func (m *Model) scheduleTick() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m *Model) setText(text source.Text) error {
	sess, err := session.Start(text.Body)
	if err != nil {
		return err
	}
	m.text = text
	m.sess = sess
	m.tickGen++
	m.focused = true
	m.result = ""
	m.status = ""
	return nil
}

func (m *Model) restart() {
	sess, err := session.Start(m.text.Body)
	if err != nil {
		// The text was accepted once already.
		m.status = err.Error()
		return
	}
	m.sess = sess
	m.tickGen++
	m.focused = true
	m.result = ""
	m.status = ""
}

func (m *Model) finishSession() {
	m.tickGen++
	snap := session.Snapshot(m.sess, m.nowMillis())
	started := time.UnixMilli(m.sess.StartedAtMillis)
	ended := time.UnixMilli(m.sess.EndedAtMillis)
	rec := model.SessionRecord{
		RunID:      uuid.NewString(),
		StartedAt:  started,
		EndedAt:    ended,
		Source:     m.text.Label,
		TextLen:    m.sess.Len(),
		Correct:    m.sess.Cursor,
		Errors:     m.sess.ErrorCount,
		Keystrokes: len(m.sess.Log),
		DurationMs: ended.Sub(started).Milliseconds(),
		WPM:        snap.WPM,
		Accuracy:   snap.Accuracy,
	}
	m.result = m.renderResult(rec, snap)

	if m.opts.Recorder == nil {
		return
	}
	chars := stats.CharStatsFromLog(m.sess.Log)
	if _, err := m.opts.Recorder.InsertSession(context.Background(), rec, chars); err != nil {
		logErrf("failed to save session: %v\n", err)
		m.status = "history not saved"
	}
}

func (m *Model) renderResult(rec model.SessionRecord, snap session.Stats) string {
	data := map[string]any{
		"wpm":      snap.WPM,
		"accuracy": snap.Accuracy,
		"elapsed":  stats.FormatDuration(rec.DurationMs),
		"seconds":  snap.ElapsedSeconds,
		"chars":    rec.Correct,
		"errors":   rec.Errors,
		"source":   rec.Source,
	}
	out, err := mustache.Render(m.opts.FinishMessage, data)
	if err != nil {
		logErrf("failed to render finish message: %v\n", err)
		out, _ = mustache.Render(DefaultFinishMessage, data)
	}
	return strings.TrimSpace(out)
}

func (m *Model) copyResult() {
	if m.result == "" {
		return
	}
	if err := m.opts.Copy(m.result); err != nil {
		logErrf("failed to copy result: %v\n", err)
		m.status = "clipboard unavailable"
		return
	}
	m.status = "result copied"
}

func (m *Model) nowMillis() int64 {
	return m.opts.Now().UnixMilli()
}

// View implements tea.Model.
func (m *Model) View() string {
	body := m.renderText()
	if m.width > 0 {
		contentWidth := max(1, int(float64(m.width)*0.70))
		body = lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(m.styledText(), contentWidth))
	}
	switch {
	case m.prompting:
		body = modalStyle.Render("Load a new text\n\n" + m.prompt.View())
	case m.result != "":
		body = modalStyle.Render(m.result)
	}

	sections := []string{m.renderStats(), body, m.renderFooter()}
	if m.width == 0 || m.height == 0 {
		return strings.Join(sections, "\n\n")
	}
	header := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, sections[0])
	footer := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, sections[2])
	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	return header + "\n" + lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body) + "\n" + footer
}

func (m *Model) renderStats() string {
	snap := session.Snapshot(m.sess, m.nowMillis())
	timer := "∞"
	if snap.Started {
		timer = fmt.Sprintf("%ds", snap.ElapsedSeconds)
	}
	return statStyle.Render(fmt.Sprintf("WPM %d · Accuracy %d%% · Time %s", snap.WPM, snap.Accuracy, timer))
}

func (m *Model) renderText() string {
	return renderStyledRunes(m.styledText())
}

func (m *Model) styledText() []styledRune {
	typed, current, remaining := m.sess.Segments()
	return buildStyledRunes(typed, current, remaining, m.sess.LastAttemptWrong(), m.focused)
}

func (m *Model) renderFooter() string {
	segments := []string{m.text.Describe()}
	if !m.focused && !m.sess.IsFinished() {
		segments = append(segments, "paused")
	}
	if m.status != "" {
		segments = append(segments, m.status)
	}
	line := footerStyle.Render(strings.Join(segments, "  ·  "))
	return line + "\n" + m.help.ShortHelpView(m.keys.bindingsFor(m.focused, m.sess.IsFinished()))
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + strings.TrimPrefix(path, "~")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
