// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Thermoquad/airostat/pkg/airobot"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

//////////////////////////////////////////////////////////////
// Constants
//////////////////////////////////////////////////////////////

const (
	maxLogEntries     = 100
	visibleLogEntries = 8

	// setpointStep is one +/- key press
	setpointStep = 0.5
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

type controlKeyMap struct {
	Refresh   key.Binding
	Mode      key.Binding
	Up        key.Binding
	Down      key.Binding
	ChildLock key.Binding
	Boost     key.Binding
	Rename    key.Binding
	Quit      key.Binding
}

func (k controlKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Mode, k.Up, k.Down, k.ChildLock, k.Boost, k.Rename, k.Quit}
}

func (k controlKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var controlKeys = controlKeyMap{
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "home/away")),
	Up:        key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "warmer")),
	Down:      key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "cooler")),
	ChildLock: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "child lock")),
	Boost:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "boost")),
	Rename:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "rename")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// controlModel is the Bubble Tea model for the control TUI
type controlModel struct {
	dev      thermostat
	connInfo string
	timeout  time.Duration

	// Last readings
	status      *airobot.Status
	settings    *airobot.Settings
	lastRefresh time.Time

	// A request is in flight
	busy    bool
	spinner spinner.Model

	// Rename
	nameInput textinput.Model
	renaming  bool

	// Refresh outcomes; warnings wait in pending until their refresh completes
	stats           *airobot.Statistics
	pendingWarnings []airobot.ValidationError

	eventLog      []eventLogEntry
	maxLogEntries int

	keys controlKeyMap
	help help.Model

	// UI state
	width    int
	height   int
	quitting bool
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type refreshMsg struct {
	status   *airobot.Status
	settings *airobot.Settings
	err      error
}

type commandDoneMsg struct {
	action string
	err    error
}

type validationWarningMsg airobot.ValidationError

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialControlModel(dev thermostat, connInfo string, timeout time.Duration) controlModel {
	ti := textinput.New()
	ti.Placeholder = "Living Room"
	ti.CharLimit = airobot.NameMaxLength
	ti.Width = airobot.NameMaxLength + 2

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	if timeout <= 0 {
		timeout = airobot.DefaultTimeout
	}

	return controlModel{
		dev:           dev,
		connInfo:      connInfo,
		timeout:       timeout,
		busy:          true,
		spinner:       sp,
		nameInput:     ti,
		stats:         airobot.NewStatistics(),
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: maxLogEntries,
		keys:          controlKeys,
		help:          help.New(),
		width:         80,
		height:        24,
	}
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m controlModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd())
}

func (m controlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshMsg:
		m.busy = false
		m.stats.Update(msg.err, m.pendingWarnings)
		m.pendingWarnings = nil
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("Refresh failed: %v", msg.err), true)
			return m, nil
		}
		m.status = msg.status
		m.settings = msg.settings
		m.lastRefresh = time.Now()
		m.addLogEntry("Refreshed", false)

	case commandDoneMsg:
		if msg.err != nil {
			m.busy = false
			m.addLogEntry(fmt.Sprintf("%s failed: %v", msg.action, msg.err), true)
			return m, nil
		}
		m.addLogEntry(msg.action, false)
		return m, m.refreshCmd()

	case validationWarningMsg:
		m.pendingWarnings = append(m.pendingWarnings, airobot.ValidationError(msg))
		m.addLogEntry(msg.Message, false)
	}

	if m.renaming {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m controlModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.renaming {
		return m.handleRenameKey(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	// One request at a time
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.refreshCmd())

	case key.Matches(msg, m.keys.Mode):
		if !m.requireSettings() {
			return m, nil
		}
		mode := airobot.ModeAway
		if m.settings.IsAwayMode() {
			mode = airobot.ModeHome
		}
		return m.send(fmt.Sprintf("Mode set to %s", mode), func(ctx context.Context) error {
			return m.dev.SetMode(ctx, mode)
		})

	case key.Matches(msg, m.keys.Up):
		return m.adjustSetpoint(setpointStep)

	case key.Matches(msg, m.keys.Down):
		return m.adjustSetpoint(-setpointStep)

	case key.Matches(msg, m.keys.ChildLock):
		if !m.requireSettings() {
			return m, nil
		}
		enabled := !m.settings.Flags.ChildLockEnabled
		return m.send(fmt.Sprintf("Child lock %s", onOff(enabled)), func(ctx context.Context) error {
			return m.dev.SetChildLock(ctx, enabled)
		})

	case key.Matches(msg, m.keys.Boost):
		if !m.requireSettings() {
			return m, nil
		}
		enabled := !m.settings.Flags.BoostEnabled
		return m.send(fmt.Sprintf("Boost %s", onOff(enabled)), func(ctx context.Context) error {
			return m.dev.SetBoostMode(ctx, enabled)
		})

	case key.Matches(msg, m.keys.Rename):
		if !m.requireSettings() {
			return m, nil
		}
		m.renaming = true
		m.nameInput.SetValue(m.settings.DeviceName)
		m.nameInput.CursorEnd()
		cmd := m.nameInput.Focus()
		return m, cmd
	}

	return m, nil
}

func (m controlModel) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEsc:
		m.renaming = false
		m.nameInput.Blur()
		return m, nil

	case tea.KeyEnter:
		m.renaming = false
		m.nameInput.Blur()
		name := m.nameInput.Value()
		if m.busy {
			m.addLogEntry("Busy - rename not sent", true)
			return m, nil
		}
		return m.send(fmt.Sprintf("Renamed to %q", name), func(ctx context.Context) error {
			return m.dev.SetDeviceName(ctx, name)
		})
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m controlModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	focusedBoxStyle := boxStyle.
		BorderForeground(lipgloss.Color("12"))

	// Header
	s.WriteString(titleStyle.Render("AIROSTAT CONTROL"))
	s.WriteString(" ")
	refreshed := "never"
	if !m.lastRefresh.IsZero() {
		refreshed = m.lastRefresh.Format("15:04:05")
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | refreshed %s", m.connInfo, refreshed)))
	if m.busy {
		s.WriteString(" ")
		s.WriteString(m.spinner.View())
	}
	s.WriteString("\n\n")

	// Status | Settings
	panelWidth := (m.width - 6) / 2
	if panelWidth < 30 {
		panelWidth = 30
	}
	statusPanel := boxStyle.Width(panelWidth).Render(m.renderStatus(labelStyle, valueStyle, errorStyle, headerStyle))
	settingsPanel := boxStyle.Width(panelWidth).Render(m.renderSettings(labelStyle, valueStyle, warningStyle, headerStyle))
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, statusPanel, " ", settingsPanel))
	s.WriteString("\n")

	if m.renaming {
		prompt := fmt.Sprintf("%s %s  %s",
			labelStyle.Render("Name:"),
			m.nameInput.View(),
			headerStyle.Render("enter=save esc=cancel"))
		s.WriteString(focusedBoxStyle.Width(m.width - 4).Render(prompt))
		s.WriteString("\n")
	}

	s.WriteString(m.renderStatisticsBar(labelStyle, valueStyle, errorStyle, boxStyle))
	s.WriteString("\n")
	s.WriteString(m.renderEventLog(labelStyle, warningStyle, boxStyle))
	s.WriteString("\n")
	s.WriteString(m.help.View(m.keys))

	return s.String()
}

//////////////////////////////////////////////////////////////
// View Helpers
//////////////////////////////////////////////////////////////

func (m controlModel) renderStatus(labelStyle, valueStyle, errorStyle, headerStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("STATUS"))
	s.WriteString("\n")

	st := m.status
	if st == nil {
		s.WriteString(headerStyle.Render("No data"))
		return s.String()
	}

	row := func(label, value string) {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label), valueStyle.Render(value)))
	}

	row("Air:", optionalFloat(st.TempAir, "°C"))
	row("Floor:", optionalFloat(st.TempFloor, "°C"))
	row("Humidity:", optionalFloat(st.HumAir, "%"))
	row("Setpoint:", fmt.Sprintf("%.1f°C", st.SetpointTemp))
	row("CO2:", optionalInt(st.CO2, " ppm"))
	row("AQI:", optionalInt(st.AQI, ""))
	row("Heating:", onOff(st.IsHeating()))
	row("Window:", map[bool]string{true: "open", false: "closed"}[st.Flags.WindowOpenDetected])
	row("Uptime:", airobot.FormatUptime(st.DeviceUptime))

	if st.HasError() {
		s.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("0x%02X", st.Errors))))
	} else {
		row("Errors:", "none")
	}

	return strings.TrimRight(s.String(), "\n")
}

func (m controlModel) renderSettings(labelStyle, valueStyle, warningStyle, headerStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("SETTINGS"))
	s.WriteString("\n")

	st := m.settings
	if st == nil {
		s.WriteString(headerStyle.Render("No data"))
		return s.String()
	}

	row := func(label, value string) {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label), valueStyle.Render(value)))
	}

	// Marks the setpoint +/- changes
	active := func(on bool) string {
		if on {
			return warningStyle.Render(" *")
		}
		return ""
	}

	row("Name:", st.DeviceName)
	row("Mode:", st.Mode.String())
	s.WriteString(fmt.Sprintf("%s %s%s\n", labelStyle.Render("Home:"),
		valueStyle.Render(fmt.Sprintf("%.1f°C", st.SetpointTemp)), active(!st.IsAwayMode())))
	s.WriteString(fmt.Sprintf("%s %s%s\n", labelStyle.Render("Away:"),
		valueStyle.Render(fmt.Sprintf("%.1f°C", st.SetpointTempAway)), active(st.IsAwayMode())))
	row("Hysteresis:", fmt.Sprintf("%.1f°C", st.HysteresisBand))
	row("Child lock:", onOff(st.Flags.ChildLockEnabled))
	row("Boost:", onOff(st.Flags.BoostEnabled))
	row("Valve exercise:", onOff(!st.Flags.ActuatorExerciseDisabled))

	return strings.TrimRight(s.String(), "\n")
}

func (m controlModel) renderStatisticsBar(labelStyle, valueStyle, errorStyle, boxStyle lipgloss.Style) string {
	st := m.stats

	var content strings.Builder
	content.WriteString(labelStyle.Render("STATS"))
	content.WriteString(" | ")
	content.WriteString(fmt.Sprintf("%s %s  ", labelStyle.Render("Refreshes:"), valueStyle.Render(fmt.Sprintf("%d", st.TotalReads))))
	content.WriteString(fmt.Sprintf("%s %s  ", labelStyle.Render("Clean:"), valueStyle.Render(fmt.Sprintf("%d", st.CleanReads))))

	warnStyle := valueStyle
	if st.RangeWarnings > 0 {
		warnStyle = errorStyle
	}
	content.WriteString(fmt.Sprintf("%s %s  ", labelStyle.Render("Warnings:"), warnStyle.Render(fmt.Sprintf("%d", st.RangeWarnings))))

	failStyle := valueStyle
	if st.FailedReads+st.MalformedReads > 0 {
		failStyle = errorStyle
	}
	content.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Failed:"), failStyle.Render(fmt.Sprintf("%d", st.FailedReads+st.MalformedReads))))

	return boxStyle.Width(m.width - 4).Render(content.String())
}

func (m controlModel) renderEventLog(labelStyle, warningStyle, boxStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("EVENTS"))
	s.WriteString("\n")

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyleLocal := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	startIdx := len(m.eventLog) - visibleLogEntries
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		s.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			icon := "i"
			style := warningStyle
			if entry.isError {
				icon = "x"
				style = errorStyleLocal
			}
			s.WriteString(fmt.Sprintf("%s %s %s\n",
				headerStyle.Render(timestamp),
				style.Render(icon),
				entry.message))
		}
	}

	return boxStyle.Width(m.width - 4).Render(strings.TrimRight(s.String(), "\n"))
}

//////////////////////////////////////////////////////////////
// Commands
//////////////////////////////////////////////////////////////

func (m controlModel) refreshCmd() tea.Cmd {
	dev, timeout := m.dev, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
		defer cancel()

		status, err := dev.GetStatuses(ctx)
		if err != nil {
			return refreshMsg{err: err}
		}
		settings, err := dev.GetSettings(ctx)
		if err != nil {
			return refreshMsg{err: err}
		}
		return refreshMsg{status: status, settings: settings}
	}
}

// send marks the model busy and runs fn in the background
func (m controlModel) send(action string, fn func(ctx context.Context) error) (tea.Model, tea.Cmd) {
	m.busy = true
	timeout := m.timeout
	request := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return commandDoneMsg{action: action, err: fn(ctx)}
	}
	return m, tea.Batch(m.spinner.Tick, request)
}

func (m controlModel) adjustSetpoint(delta float64) (tea.Model, tea.Cmd) {
	if !m.requireSettings() {
		return m, nil
	}

	current := m.settings.ActiveSetpoint()
	target := math.Max(airobot.SetpointMin, math.Min(airobot.SetpointMax, current+delta))
	target = airobot.FromTenths(airobot.ToTenths(target))
	if target == current {
		m.addLogEntry(fmt.Sprintf("Setpoint already at %.1f°C", current), true)
		return m, nil
	}

	if m.settings.IsAwayMode() {
		return m.send(fmt.Sprintf("Away setpoint %.1f°C", target), func(ctx context.Context) error {
			return m.dev.SetAwayTemperature(ctx, target)
		})
	}
	return m.send(fmt.Sprintf("Home setpoint %.1f°C", target), func(ctx context.Context) error {
		return m.dev.SetHomeTemperature(ctx, target)
	})
}

//////////////////////////////////////////////////////////////
// Helpers
//////////////////////////////////////////////////////////////

func (m *controlModel) addLogEntry(message string, isError bool) {
	entry := eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m *controlModel) requireSettings() bool {
	if m.settings == nil {
		m.addLogEntry("Settings not loaded - press r to refresh", true)
		return false
	}
	return true
}

func optionalFloat(v *float64, unit string) string {
	if v == nil {
		return "not attached"
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}

func optionalInt(v *int, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d%s", *v, unit)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
