package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/devinventory/pkg/monitor"
)

var (
	gaugeFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	gaugeHighStyle  = lipgloss.NewStyle().Foreground(colorRed)
	gaugeEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	gaugeLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(8)
)

const (
	gaugeWidth    = 30
	highThreshold = 85.0
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// =============================================================================
// MonitorModel - Live resource monitor
// =============================================================================

// sampleMsg carries one sample from the session channel.
type sampleMsg monitor.Sample

// monitorDoneMsg signals that the session channel closed.
type monitorDoneMsg struct{}

// MonitorModel is the bubbletea model for the live monitor. It renders
// from its own history and only reads samples from the session channel.
type MonitorModel struct {
	Session *monitor.Session
	Samples <-chan monitor.Sample
	Points  int
	History []monitor.Sample
	Done    bool
}

// NewMonitorModel creates a model that shows at most points samples.
func NewMonitorModel(s *monitor.Session, samples <-chan monitor.Sample, points int) MonitorModel {
	if points <= 0 {
		points = monitor.DefaultCapacity
	}
	return MonitorModel{Session: s, Samples: samples, Points: points}
}

// waitForSample blocks on the channel in a tea command goroutine.
func waitForSample(ch <-chan monitor.Sample) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return monitorDoneMsg{}
		}
		return sampleMsg(s)
	}
}

func (m MonitorModel) Init() tea.Cmd {
	return waitForSample(m.Samples)
}

func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.Session != nil {
				m.Session.Stop()
			}
			m.Done = true
			return m, tea.Quit
		}
	case sampleMsg:
		m.History = append(m.History, monitor.Sample(msg))
		if len(m.History) > m.Points {
			m.History = m.History[len(m.History)-m.Points:]
		}
		return m, waitForSample(m.Samples)
	case monitorDoneMsg:
		m.Done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m MonitorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Resource Monitor"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n\n")

	if len(m.History) == 0 {
		b.WriteString(StyleDim.Render("waiting for first sample..."))
		b.WriteString("\n")
		return b.String()
	}

	last := m.History[len(m.History)-1]
	series := func(pick func(monitor.Sample) float64) []float64 {
		out := make([]float64, len(m.History))
		for i, s := range m.History {
			out[i] = pick(s)
		}
		return out
	}

	rows := []struct {
		label string
		value float64
		hist  []float64
	}{
		{"CPU", last.CPU, series(func(s monitor.Sample) float64 { return s.CPU })},
		{"Memory", last.Memory, series(func(s monitor.Sample) float64 { return s.Memory })},
		{"Disk", last.Disk, series(func(s monitor.Sample) float64 { return s.Disk })},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s %5.1f%%  %s\n",
			gaugeLabelStyle.Render(r.label), gauge(r.value, gaugeWidth), r.value, StyleDim.Render(sparkline(r.hist)))
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d samples · last %s", len(m.History), m.Points, last.Time.Format("15:04:05"))))
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// gauge draws pct as a horizontal bar of width cells.
func gauge(pct float64, width int) string {
	filled := int(clampPct(pct) / 100 * float64(width))
	style := gaugeFullStyle
	if pct >= highThreshold {
		style = gaugeHighStyle
	}
	return style.Render(strings.Repeat("█", filled)) + gaugeEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// sparkline maps percentages onto block characters.
func sparkline(values []float64) string {
	out := make([]rune, len(values))
	top := len(sparkLevels) - 1
	for i, v := range values {
		out[i] = sparkLevels[int(clampPct(v)/100*float64(top)+0.5)]
	}
	return string(out)
}

func clampPct(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
