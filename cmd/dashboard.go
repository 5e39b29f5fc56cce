// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/balboabridge/spaclient/internal/balboa"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Terminal UI showing live spa state",
	Long: `dashboard renders the session's live SpaState, SpaConfig, SpaFaultLog
and SpaFilterSettings, plus a scrolling event log, in a full-screen
terminal UI.

Supports both serial and WebSocket connections.`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

type dashboardLogEntry struct {
	timestamp time.Time
	message   string
}

// dashboardSnapshotMsg carries a copy of the session's decoded state;
// the TUI model never touches the Session directly, since the reader
// goroutine owns it.
type dashboardSnapshotMsg struct {
	state          balboa.SpaState
	haveState      bool
	config         balboa.SpaConfig
	haveConfig     bool
	faultLog       balboa.SpaFaultLog
	haveFaultLog   bool
	filterSettings balboa.SpaFilterSettings
	haveFilters    bool
}

type dashboardEventMsg struct {
	topic string
	value string
}

type dashboardConnLostMsg struct{}

type dashboardModel struct {
	connInfo string
	snapshot dashboardSnapshotMsg

	log   []dashboardLogEntry
	vp    viewport.Model
	width int

	connLost bool
	quitting bool
}

func initialDashboardModel(connInfo string) dashboardModel {
	return dashboardModel{
		connInfo: connInfo,
		vp:       viewport.New(80, 10),
		width:    80,
	}
}

func (m dashboardModel) Init() tea.Cmd { return nil }

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.vp.Width = m.width - 4
		m.vp.Height = msg.Height/2 - 4

	case dashboardSnapshotMsg:
		m.snapshot = msg
		return m, nil

	case dashboardEventMsg:
		m.addLogEntry(fmt.Sprintf("%s = %s", msg.topic, msg.value))
		return m, nil

	case dashboardConnLostMsg:
		m.connLost = true
		m.addLogEntry("connection lost")
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *dashboardModel) addLogEntry(message string) {
	m.log = append(m.log, dashboardLogEntry{timestamp: time.Now(), message: message})
	if len(m.log) > 200 {
		m.log = m.log[len(m.log)-200:]
	}
	var b strings.Builder
	for _, e := range m.log {
		fmt.Fprintf(&b, "%s  %s\n", e.timestamp.Format("15:04:05.000"), e.message)
	}
	m.vp.SetContent(b.String())
	m.vp.GotoBottom()
}

func (m dashboardModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("SPACLIENT DASHBOARD"))
	s.WriteString(" ")
	connStatus := m.connInfo
	if m.connLost {
		connStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("CONNECTION LOST")
	}
	s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(fmt.Sprintf("| %s | q=quit", connStatus)))
	s.WriteString("\n\n")

	s.WriteString(boxStyle.Width(m.width - 4).Render(m.renderState(labelStyle, valueStyle)))
	s.WriteString("\n")
	s.WriteString(boxStyle.Width(m.width - 4).Render(m.renderFaultAndFilters(labelStyle, valueStyle)))
	s.WriteString("\n")
	s.WriteString(boxStyle.Width(m.width-4).Render(labelStyle.Render("EVENTS") + "\n" + m.vp.View()))

	return s.String()
}

func (m dashboardModel) renderState(label, value lipgloss.Style) string {
	if !m.snapshot.haveState {
		return label.Render("State: ") + value.Render("(none yet)")
	}
	st := m.snapshot.state

	scale := "F"
	if m.snapshot.haveConfig && m.snapshot.config.TempScale == balboa.Celsius {
		scale = "C"
	}

	return fmt.Sprintf(
		"%s %s   %s %s   %s %s\n%s %s   %s %s   %s %s   %s %s",
		label.Render("Set:"), value.Render(fmt.Sprintf("%.2f%s", st.SetTemp, scale)),
		label.Render("Current:"), value.Render(fmt.Sprintf("%.2f%s", st.CurrentTemp, scale)),
		label.Render("Clock:"), value.Render(fmt.Sprintf("%02d:%02d", st.Hour, st.Minute)),
		label.Render("Mode:"), value.Render(st.HeatingMode.String()),
		label.Render("Jets:"), value.Render(fmt.Sprintf("%v/%v", st.Jet1, st.Jet2)),
		label.Render("Circ/Blower:"), value.Render(fmt.Sprintf("%v/%v", st.Circ, st.Blower)),
		label.Render("Light:"), value.Render(fmt.Sprintf("%v", st.Light)),
	)
}

func (m dashboardModel) renderFaultAndFilters(label, value lipgloss.Style) string {
	var b strings.Builder
	if m.snapshot.haveFaultLog {
		fl := m.snapshot.faultLog
		fmt.Fprintf(&b, "%s %s (%d of %d), %s\n",
			label.Render("Last fault:"), value.Render(fl.Message), fl.CurrentEntry, fl.TotalEntries,
			value.Render(fmt.Sprintf("%dd ago at %02d:%02d", fl.DaysAgo, fl.Hour, fl.Minute)))
	} else {
		fmt.Fprintf(&b, "%s %s\n", label.Render("Last fault:"), value.Render("(none yet)"))
	}

	if m.snapshot.haveFilters {
		fs := m.snapshot.filterSettings
		fmt.Fprintf(&b, "%s %s\n", label.Render("Filter 1:"), value.Render(balboa.FormatFilterCycle(fs.Filter1)))
		if fs.Filter2Enabled {
			fmt.Fprintf(&b, "%s %s", label.Render("Filter 2:"), value.Render(balboa.FormatFilterCycle(fs.Filter2)))
		}
	} else {
		fmt.Fprintf(&b, "%s %s", label.Render("Filters:"), value.Render("(none yet)"))
	}

	return b.String()
}

func runDashboard(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	m := initialDashboardModel(connInfo)
	p := tea.NewProgram(m, tea.WithAltScreen())

	sess := balboa.NewSession(balboa.PublisherFunc(func(topic, value string) {
		p.Send(dashboardEventMsg{topic: topic, value: value})
	}))

	go func() {
		buf := make([]byte, 128)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				p.Send(dashboardConnLostMsg{})
				return
			}
			changed := false
			for i := 0; i < n; i++ {
				if outbound := sess.OnByte(buf[i]); outbound != nil {
					conn.Write(outbound)
				}
				changed = true
			}
			if changed {
				snap := dashboardSnapshotMsg{}
				snap.state, snap.haveState = sess.State()
				snap.config, snap.haveConfig = sess.Config()
				snap.faultLog, snap.haveFaultLog = sess.FaultLog()
				snap.filterSettings, snap.haveFilters = sess.FilterSettings()
				p.Send(snap)
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}
