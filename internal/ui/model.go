package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/feedwatch/feedwatch/internal/ingest"
	"github.com/feedwatch/feedwatch/internal/ledger"
	"github.com/feedwatch/feedwatch/internal/series"
)

// recentFlagCount is how many of the newest flags the view lists.
const recentFlagCount = 5

// tickMsg drives the refresh timer.
type tickMsg time.Time

// Model is the bubbletea model for the monitor view.
type Model struct {
	store  *series.Store
	ledger *ledger.Ledger
	bridge *ingest.Bridge

	refresh    time.Duration
	plotWindow int
	feedPath   string

	styles Styles
	input  textinput.Model

	width  int
	height int

	// entering is true while the flag description prompt is open.
	entering bool
	flagErr  string

	delta   ingest.Delta
	deltaOK bool
}

// New creates the monitor model.
func New(store *series.Store, lg *ledger.Ledger, bridge *ingest.Bridge, feedPath string, refresh time.Duration, plotWindow int) Model {
	ti := textinput.New()
	ti.Placeholder = "flag description"
	ti.CharLimit = 200
	ti.Width = 48

	return Model{
		store:      store,
		ledger:     lg,
		bridge:     bridge,
		refresh:    refresh,
		plotWindow: plotWindow,
		feedPath:   feedPath,
		styles:     DefaultStyles(),
		input:      ti,
		width:      80,
		height:     24,
	}
}

// Init schedules the first refresh.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if d, _, ok := m.bridge.Latest(); ok {
			m.delta = d
			m.deltaOK = true
		}
		return m, m.tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.entering {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.entering {
		switch msg.String() {
		case "esc":
			m.entering = false
			m.flagErr = ""
			m.input.Reset()
			return m, nil
		case "enter":
			// Flag creation is rare and small, so it runs synchronously
			// here; the ledger fsyncs before returning.
			_, err := m.ledger.Create(m.input.Value())
			if err != nil {
				// Keep the text so the operator can correct and retry.
				m.flagErr = err.Error()
				return m, nil
			}
			m.entering = false
			m.flagErr = ""
			m.input.Reset()
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "f":
		m.entering = true
		m.flagErr = ""
		return m, m.input.Focus()
	}
	return m, nil
}

// View renders the monitor.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("feedwatch — " + m.feedPath))
	b.WriteString("\n\n")

	plotWidth := m.width - 2
	if plotWidth < 10 {
		plotWidth = 10
	}
	window := m.plotWindow
	if window > plotWidth {
		window = plotWidth
	}
	tail := m.store.Tail(window)
	values := make([]float64, len(tail))
	for i, s := range tail {
		values[i] = s.Value
	}
	b.WriteString(m.styles.Plot.Render(Sparkline(values, plotWidth)))
	b.WriteString("\n\n")

	b.WriteString(m.statsView())
	b.WriteString("\n")

	b.WriteString(m.flagsView())
	b.WriteString("\n")

	if m.entering {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.flagErr != "" {
			b.WriteString(m.styles.Error.Render(m.flagErr))
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Help.Render("enter: save flag • esc: cancel"))
	} else {
		b.WriteString(m.styles.Help.Render("f: flag latest sample • q: quit"))
	}

	return b.String()
}

func (m Model) statsView() string {
	kv := func(k, v string) string {
		return m.styles.StatKey.Render(k+" ") + m.styles.StatVal.Render(v)
	}

	latest := "—"
	if s, ok := m.store.Latest(); ok {
		latest = fmt.Sprintf("%.3f @ t=%.2f", s.Value, s.Time)
	}

	mean := "—"
	if v, ok := m.store.RollingMean(); ok {
		mean = fmt.Sprintf("%.3f (n=%d)", v, m.store.Window())
	}

	stats := m.store.Stats()
	session := fmt.Sprintf("%d samples", stats.Count)
	if stats.Count > 0 {
		session = fmt.Sprintf("%d samples  min %.3f  max %.3f", stats.Count, stats.Min, stats.Max)
		if stats.P50 != nil && stats.P95 != nil {
			session += fmt.Sprintf("  p50 %.3f  p95 %.3f", *stats.P50, *stats.P95)
		}
	}

	lines := []string{
		kv("latest", latest),
		kv("rolling mean", mean),
		kv("session", session),
	}

	if m.deltaOK {
		lines = append(lines, kv("last poll",
			fmt.Sprintf("%s  +%d/-%d", m.delta.PolledAt.Format("15:04:05"), m.delta.Accepted, m.delta.Rejected)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) flagsView() string {
	flags := m.ledger.Flags()
	if len(flags) == 0 {
		return m.styles.StatKey.Render("no flags")
	}

	start := 0
	if len(flags) > recentFlagCount {
		start = len(flags) - recentFlagCount
	}

	var lines []string
	lines = append(lines, m.styles.StatKey.Render(fmt.Sprintf("flags (%d)", len(flags))))
	for _, f := range flags[start:] {
		lines = append(lines,
			m.styles.FlagTime.Render(fmt.Sprintf("  t=%-10.2f ", f.Time))+
				m.styles.Flag.Render(f.Description))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
