package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"gridmark/config"
	"gridmark/coords"
	"gridmark/mcpserver"
	"gridmark/packet"
	"gridmark/ui/editor"
	"gridmark/ui/header"
	mapview "gridmark/ui/map"
	"gridmark/ui/msgbar"
	"gridmark/ui/sidebar"
)

var (
	configPath   string
	debug        bool
	mcpMode      bool
	annotatePath string
	version      bool

	buildVersion = "0.1.0"
)

func init() {
	flag.StringVar(&configPath, "config", config.DefaultPath, "Path to the TOML configuration file")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&mcpMode, "mcp", false, "Serve the detection tools over MCP on stdio instead of starting the TUI")
	flag.StringVar(&annotatePath, "annotate", "", "Annotate FILE (- for stdin), print the result and exit")
	flag.BoolVar(&version, "version", false, "Display version information")
}

// --- Constants for Layout ---
const (
	sidebarWidth    = 34
	minEditorHeight = 8
)

type focus int

const (
	focusEditor focus = iota
	focusMap
)

func (f focus) String() string {
	if f == focusMap {
		return "map"
	}
	return "editor"
}

// feedClosedMsg reports that the feed client stopped delivering packets.
type feedClosedMsg struct{}

// model holds the application's state
type model struct {
	width  int
	height int
	config config.Config

	detector *coords.Detector

	headerModel  header.Model
	mapModel     mapview.Model
	sidebarModel sidebar.Model
	editorModel  editor.Model
	msgbarModel  msgbar.Model
	focus        focus

	packetClient PacketClient // nil without a feed
	packetChan   chan *packet.Packet
	autoApply    *rate.Limiter // nil unless feed.autoapply is set

	err error
}

// initialModel creates the starting model
func initialModel(conf config.Config, client PacketClient, pChan chan *packet.Packet) model {
	mapMod, err := mapview.New(conf.Map.Basemap, conf)
	if err != nil {
		return model{err: err}
	}

	m := model{
		width:  80,
		height: 40,
		config: conf,
		detector: coords.New(
			coords.WithPalette(conf.Annotate.Palette),
			coords.WithHighlighter(editor.Highlight),
			coords.WithLogger(slog.Default()),
		),
		headerModel:  header.New(),
		mapModel:     mapMod,
		sidebarModel: sidebar.New(),
		editorModel:  editor.New(),
		msgbarModel:  msgbar.New(),
		packetClient: client,
		packetChan:   pChan,
	}
	if client != nil && conf.Feed.AutoApply {
		m.autoApply = newAutoApplyLimiter(conf.Feed.MinInterval)
	}
	m.editorModel.Focus()
	m.updateStatus()
	return m
}

// listenForPackets is a tea.Cmd that waits for the next packet
func (m model) listenForPackets() tea.Cmd {
	return func() tea.Msg {
		pkt, ok := <-m.packetChan
		if !ok {
			return feedClosedMsg{}
		}
		return pkt
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.editorModel.Init()}
	if m.packetClient != nil {
		go m.packetClient.Start(m.packetChan)
		cmds = append(cmds, m.listenForPackets())
	}
	return tea.Batch(cmds...)
}

// apply runs the detector over text and hands the result to every pane.
func (m *model) apply(text string) tea.Cmd {
	res := m.detector.Detect(text)
	m.mapModel.SetPoints(res.Points)
	m.sidebarModel.SetPoints(res.Points)
	m.editorModel.SetPreview(res.Annotated)
	slog.Info("applied",
		"points", len(res.Points),
		"rejected", len(res.Rejected))
	return m.msgbarModel.Notify(res.Summary())
}

func (m *model) updateStatus() {
	feed := m.config.Feed.Type
	if feed == config.FeedNone || m.packetClient == nil {
		feed = "off"
	}
	m.headerModel.SetStatus(fmt.Sprintf("feed: %s · focus: %s (tab)", feed, m.focus))
}

// layout hands every pane its share of the window.
func (m *model) layout() tea.Cmd {
	headerHeight := 1
	editorHeight := max(m.height/3, minEditorHeight)

	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.headerModel, cmd = m.headerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: headerHeight})
	cmds = append(cmds, cmd)
	m.editorModel, cmd = m.editorModel.Update(tea.WindowSizeMsg{Width: m.width, Height: editorHeight})
	cmds = append(cmds, cmd)
	m.msgbarModel, cmd = m.msgbarModel.Update(tea.WindowSizeMsg{Width: m.width, Height: m.msgbarModel.Height()})
	cmds = append(cmds, cmd)

	mainHeight := max(m.height-headerHeight-m.editorModel.Height()-m.msgbarModel.Height(), 3)
	m.sidebarModel, cmd = m.sidebarModel.Update(tea.WindowSizeMsg{Width: sidebarWidth, Height: mainHeight})
	cmds = append(cmds, cmd)
	m.mapModel, cmd = m.mapModel.Update(tea.WindowSizeMsg{Width: max(m.width-sidebarWidth, 3), Height: mainHeight})
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}

	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case *packet.Packet:
		m.editorModel.AppendLine(msg.String())
		m.msgbarModel, cmd = m.msgbarModel.Update(msg)
		cmds = append(cmds, cmd)
		if m.autoApply != nil && m.autoApply.Allow() {
			cmds = append(cmds, m.apply(m.editorModel.Value()))
		}
		cmds = append(cmds, m.listenForPackets())

	case feedClosedMsg:
		slog.Warn("feed closed", "type", m.config.Feed.Type)
		m.packetClient = nil
		m.updateStatus()
		cmds = append(cmds, m.msgbarModel.Notify("Feed closed"))

	case editor.ApplyMsg:
		cmds = append(cmds, m.apply(msg.Text))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cmds = append(cmds, m.layout())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.focus == focusEditor {
				m.focus = focusMap
				m.editorModel.Blur()
			} else {
				m.focus = focusEditor
				cmds = append(cmds, m.editorModel.Focus())
			}
			m.updateStatus()
		case "ctrl+s":
			m.editorModel, cmd = m.editorModel.Update(msg)
			cmds = append(cmds, cmd)
		case "ctrl+t":
			m.editorModel, cmd = m.editorModel.Update(msg)
			cmds = append(cmds, cmd, m.layout())
		default:
			if m.focus == focusMap {
				if s := msg.String(); s == "q" || s == "esc" {
					return m, tea.Quit
				}
				m.mapModel, cmd = m.mapModel.Update(msg)
			} else {
				m.editorModel, cmd = m.editorModel.Update(msg)
			}
			cmds = append(cmds, cmd)
		}

	default:
		m.editorModel, cmd = m.editorModel.Update(msg)
		cmds = append(cmds, cmd)
		m.msgbarModel, cmd = m.msgbarModel.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Border(lipgloss.DoubleBorder(), true).
			BorderForeground(lipgloss.Color("9")).
			Padding(1).
			Align(lipgloss.Center, lipgloss.Center)
		return errorStyle.Render(
			"Error:\n\n" + m.err.Error() +
				"\n\nPress any key to quit.",
		)
	}

	middleStack := lipgloss.JoinHorizontal(lipgloss.Top,
		m.sidebarModel.View(),
		m.mapModel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerModel.View(),
		middleStack,
		m.editorModel.View(),
		m.msgbarModel.View(),
	)
}

// newLogger builds the process logger. The TUI owns the terminal, so in
// that mode records go to the configured file.
func newLogger(conf config.Config, w io.Writer) *slog.Logger {
	level, _ := conf.LogLevel()
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// annotate runs one apply over the contents of path ("-" for stdin) and
// writes the annotated text followed by the summary.
func annotate(conf config.Config, path string, in io.Reader, out io.Writer) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	highlight := coords.HTMLMark
	if conf.Annotate.Style == config.StyleTerminal {
		highlight = editor.Highlight
	}
	d := coords.New(
		coords.WithPalette(conf.Annotate.Palette),
		coords.WithHighlighter(highlight),
		coords.WithLogger(slog.Default()),
	)

	res := d.Detect(string(data))
	_, err = fmt.Fprintf(out, "%s\n\n%s\n", strings.TrimSpace(res.Annotated), res.Summary())
	return err
}

func showVersion() {
	fmt.Printf("gridmark version %s\n", buildVersion)
}

func main() {
	flag.Parse()

	if version {
		showVersion()
		return
	}

	conf, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", configPath, err)
		os.Exit(1)
	}

	switch {
	case mcpMode:
		logger := newLogger(conf, os.Stderr)
		slog.SetDefault(logger)

		srv, err := mcpserver.NewServer(conf.Annotate.Palette, logger)
		if err != nil {
			logger.Error("failed to create server", "error", err)
			os.Exit(1)
		}
		logger.Info("server initialized, waiting for requests")
		if err := srv.Run(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}

	case annotatePath != "":
		slog.SetDefault(newLogger(conf, os.Stderr))
		if err := annotate(conf, annotatePath, os.Stdin, os.Stdout); err != nil {
			slog.Error("annotate failed", "error", err)
			os.Exit(1)
		}

	default:
		logFile, err := os.OpenFile(conf.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		slog.SetDefault(newLogger(conf, logFile))

		packetClient, err := connectFeed(conf)
		if err != nil {
			slog.Error("failed to connect feed", "type", conf.Feed.Type, "error", err)
			fmt.Fprintf(os.Stderr, "Failed to connect to feed: %v\n", err)
			os.Exit(1)
		}
		if packetClient != nil {
			defer packetClient.Close()
		}

		packetChan := make(chan *packet.Packet)

		p := tea.NewProgram(initialModel(conf, packetClient, packetChan), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			slog.Error("program error", "error", err)
			fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
			os.Exit(1)
		}
	}
}
