package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/tkrish/gesturearm/pkg/arm"
	"github.com/tkrish/gesturearm/pkg/control"
	"github.com/tkrish/gesturearm/pkg/link"
	"github.com/tkrish/gesturearm/pkg/session"
	"github.com/tkrish/gesturearm/pkg/vision"
)

type RunCommand struct {
	Port   string `long:"port" description:"Actuator serial port (overrides config)"`
	Camera int    `long:"camera" default:"-1" description:"Camera index (overrides config)"`
	Hz     int    `long:"hz" description:"Control loop frequency (overrides config)"`
	DryRun bool   `long:"dry-run" description:"Skip the actuator, compute angles only"`
	Record string `long:"record" description:"Record commanded angles to this SQLite file"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Joint colors - distinct colors for each joint
var jointColors = map[arm.Joint]string{
	arm.Shoulder: "196", // red
	arm.Elbow:    "226", // yellow
	arm.Wrist:    "51",  // cyan
	arm.Hand:     "201", // magenta
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type runModel struct {
	ctrl       *control.Controller
	chart      *streamlinechart.Model
	width      int      // terminal width
	height     int      // terminal height
	logs       []string // last N log messages
	quitting   bool
	connected  bool
	lastAngles arm.Angles
}

func (m *runModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type snapshotMsg control.Snapshot
type logMsg string

func waitForSnapshot(ctrl *control.Controller) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *control.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *runModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *runModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialRunModel(ctrl *control.Controller) runModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(arm.MinAngle, arm.MaxAngle),
	)

	// Set up data set styles for each joint
	for _, j := range arm.AllJoints() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[j]))
		chart.SetDataSetStyles(j.String(), runes.ThinLineStyle, style)
	}

	return runModel{
		ctrl:  ctrl,
		chart: &chart,
	}
}

func (m runModel) Init() tea.Cmd {
	// Start listening for snapshot and log updates
	return tea.Batch(
		waitForSnapshot(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.ctrl.ResetToRest()
			return m, nil
		}

	case snapshotMsg:
		snap := control.Snapshot(msg)
		m.connected = snap.Connected
		// Only redraw when the commanded angles moved (freeze when idle)
		if snap.Angles != m.lastAngles {
			for _, j := range arm.AllJoints() {
				m.chart.PushDataSet(j.String(), snap.Angles[j])
			}
			m.chart.DrawAll()
			m.lastAngles = snap.Angles
		}
		return m, waitForSnapshot(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m runModel) View() string {
	if m.quitting {
		return "Gesture control stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("GestureArm"))
	sb.WriteString(fmt.Sprintf(" - %d Hz", m.ctrl.Hz()))
	if m.connected {
		sb.WriteString(statusStyle.Render("  [connected]"))
	} else {
		sb.WriteString(statusStyle.Render("  [no actuator]"))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend(m.lastAngles))
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'r' to reset to rest, 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend(angles arm.Angles) string {
	var items []string
	for _, j := range arm.AllJoints() {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[j])).Bold(true)
		item := colorStyle.Render("━━") + fmt.Sprintf(" %s %3.0f°", j, angles[j])
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

func (c *RunCommand) Execute(args []string) error {
	cfg, err := arm.LoadConfig()
	if err != nil {
		if !arm.ConfigExists() {
			fmt.Fprintln(os.Stderr, "No configuration found. Run 'gesturearm setup' first, or pass --port.")
			cfg2 := arm.DefaultConfig()
			cfg = &cfg2
		} else {
			return fmt.Errorf("load config: %w", err)
		}
	}

	// Flag overrides
	if c.Port != "" {
		cfg.Port = c.Port
	}
	if c.Camera >= 0 {
		cfg.CameraID = c.Camera
	}
	if c.Hz > 0 {
		cfg.Hz = c.Hz
	}
	if cfg.Port == "" && !c.DryRun {
		fmt.Fprintln(os.Stderr, "No actuator port configured. Run 'gesturearm setup' or pass --port (or --dry-run).")
		os.Exit(1)
	}

	detector, err := newDetector(cfg, c.DryRun)
	if err != nil {
		return err
	}
	defer detector.Close()

	actuator := link.New(link.Config{
		Port:        cfg.Port,
		BaudRate:    cfg.BaudRate,
		SettleDelay: cfg.SettleDelay(),
	})

	ctrlCfg := control.Config{
		Detector:  detector,
		Link:      actuator,
		Mapper:    vision.NewMapper(cfg),
		Hz:        cfg.Hz,
		Alpha:     cfg.Alpha,
		Limits:    cfg.Limits,
		RestPose:  cfg.RestPose,
		DryRun:    c.DryRun,
		Reconnect: cfg.ReconnectInterval(),
	}

	if c.Record != "" {
		rec, err := session.Open(c.Record)
		if err != nil {
			return fmt.Errorf("open recording: %w", err)
		}
		defer rec.Close()
		ctrlCfg.Recorder = rec
		fmt.Printf("Recording session %s to %s\n", rec.SessionID(), c.Record)
	}

	ctrl, err := control.New(ctrlCfg)
	if err != nil {
		return err
	}

	// Start controller in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrlErr := make(chan error, 1)
	go func() {
		ctrlErr <- ctrl.Start(ctx)
	}()

	// Run TUI
	p := tea.NewProgram(initialRunModel(ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	// Quit requested: cancel and let the controller drain to rest.
	cancel()
	select {
	case err := <-ctrlErr:
		if err != nil && err != context.Canceled {
			return err
		}
	case <-time.After(5 * time.Second):
		fmt.Fprintln(os.Stderr, "Timed out waiting for the arm to return to rest.")
	}

	return nil
}

// newDetector sets up the landmark bridge. Only a dry run may fall back
// to the scripted mock when the helper is not installed; with a live
// actuator, fabricated poses must never drive the arm.
func newDetector(cfg *arm.Config, dryRun bool) (vision.Detector, error) {
	dcfg := vision.DefaultDetectorConfig()
	dcfg.CameraID = cfg.CameraID

	bridge, err := vision.NewBridgeDetector(dcfg)
	if err == nil {
		return bridge, nil
	}
	if !dryRun {
		return nil, fmt.Errorf("hand bridge unavailable: %w (install scripts/hand_bridge.py or pass --dry-run)", err)
	}

	log.Printf("Hand bridge not available (%v), using mock detector", err)
	mock := vision.NewMockDetector()
	mock.SetPoses(vision.OpenPalmPose())
	return mock, nil
}
