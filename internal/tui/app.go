// Package tui implements the brandkit wizard terminal user interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/brandkit/internal/models"
	"github.com/opencode-ai/brandkit/internal/reveal"
	"github.com/opencode-ai/brandkit/internal/tui/components"
	"github.com/opencode-ai/brandkit/internal/tui/styles"
	"github.com/opencode-ai/brandkit/internal/wizard"
)

// SessionFactory builds a fresh, unstarted wizard session. It is called
// once at launch and again on every restart.
type SessionFactory func() (*wizard.Session, error)

// Options configures Run.
type Options struct {
	NewSession SessionFactory
	Styles     styles.Styles
}

// Result describes how the program ended.
type Result struct {
	Status reveal.Status
	Saved  *models.BrandPack
}

// Run launches the wizard TUI and blocks until the user quits.
func Run(ctx context.Context, opts Options) (*Result, error) {
	m, err := newModel(ctx, opts)
	if err != nil {
		return nil, err
	}

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, err
	}

	done, ok := final.(model)
	if !ok {
		done = m
	}
	done.session.Cancel()
	<-done.sessionDone()
	return &Result{Status: done.session.State().Status, Saved: done.saved}, nil
}

const (
	minWidth      = 70
	minHeight     = 20
	cursorBlink   = 500 * time.Millisecond
	chatWidthPct  = 55
	chromeHeight  = 4
	scrollPageLen = 5
)

type model struct {
	ctx        context.Context
	newSession SessionFactory
	session    *wizard.Session
	state      reveal.State
	styles     styles.Styles
	spinner    spinner.Model
	chat       *components.ChatView
	width      int
	height     int
	cursorOn   bool
	saved      *models.BrandPack
	note       string
}

func newModel(ctx context.Context, opts Options) (model, error) {
	if opts.NewSession == nil {
		return model{}, fmt.Errorf("session factory is required")
	}
	session, err := opts.NewSession()
	if err != nil {
		return model{}, err
	}
	styleSet := opts.Styles
	if styleSet.Theme.Name == "" {
		styleSet = styles.DefaultStyles()
	}

	return model{
		ctx:        ctx,
		newSession: opts.NewSession,
		session:    session,
		state:      session.State(),
		styles:     styleSet,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleSet.Accent)),
		chat:       components.NewChatView(),
		cursorOn:   true,
	}, nil
}

type startedMsg struct {
	session *wizard.Session
	err     error
}

type stateMsg struct {
	session *wizard.Session
	state   reveal.State
}

type sessionClosedMsg struct {
	session *wizard.Session
}

type savedMsg struct {
	pack *models.BrandPack
	err  error
}

type blinkMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), m.spinner.Tick, blinkCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutChat()
		return m, nil

	case startedMsg:
		if msg.session != m.session {
			return m, nil
		}
		if errors.Is(msg.err, wizard.ErrCancelled) {
			m.state = m.session.State()
			m.refreshChat()
			return m, nil
		}
		if msg.err != nil {
			m.note = msg.err.Error()
			return m, nil
		}
		return m, waitForState(m.session)

	case stateMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.state = msg.state
		m.refreshChat()
		return m, waitForState(m.session)

	case sessionClosedMsg:
		if msg.session == m.session {
			m.state = m.session.State()
			m.refreshChat()
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.note = "Save failed: " + msg.err.Error()
			return m, nil
		}
		m.saved = msg.pack
		m.note = fmt.Sprintf("Saved brand pack %s", msg.pack.ID)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case blinkMsg:
		m.cursorOn = !m.cursorOn
		m.refreshChat()
		return m, blinkCmd()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.session.Cancel()
		return m, tea.Quit

	case "x":
		m.session.Cancel()
		m.note = "Stopped."
		return m, nil

	case "r":
		session, err := m.newSession()
		if err != nil {
			m.note = "Restart failed: " + err.Error()
			return m, nil
		}
		m.session.Cancel()
		m.session = session
		m.state = session.State()
		m.saved = nil
		m.note = ""
		m.chat = components.NewChatView()
		m.layoutChat()
		return m, m.startCmd()

	case "s":
		switch {
		case m.saved != nil:
			m.note = "Already saved."
		case m.state.Status != reveal.StatusCompleted:
			m.note = "Wait for the brand pack to finish before saving."
		default:
			return m, m.saveCmd()
		}
		return m, nil

	case "up", "k":
		m.chat.ScrollUp(1)
	case "down", "j":
		m.chat.ScrollDown(1)
	case "pgup":
		m.chat.ScrollUp(scrollPageLen)
	case "pgdown":
		m.chat.ScrollDown(scrollPageLen)
	case "end", "G":
		m.chat.ScrollToBottom()
	}
	return m, nil
}

func (m model) startCmd() tea.Cmd {
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		return startedMsg{session: session, err: session.Start(ctx)}
	}
}

func (m model) saveCmd() tea.Cmd {
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		pack, err := session.Save(ctx)
		return savedMsg{pack: pack, err: err}
	}
}

func waitForState(session *wizard.Session) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-session.Updates()
		if !ok {
			return sessionClosedMsg{session: session}
		}
		return stateMsg{session: session, state: state}
	}
}

func blinkCmd() tea.Cmd {
	return tea.Tick(cursorBlink, func(t time.Time) tea.Msg {
		return blinkMsg(t)
	})
}

func (m model) sessionDone() <-chan struct{} {
	if !m.session.Started() {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return m.session.Done()
}

func (m model) chatWidth() int {
	if m.width <= 0 {
		return 60
	}
	return m.width * chatWidthPct / 100
}

func (m model) layoutChat() {
	m.chat.Width = m.chatWidth() - 4
	if m.height > 0 {
		m.chat.Height = m.height - chromeHeight - 3
	}
	m.refreshChat()
}

func (m model) refreshChat() {
	m.chat.SetMessages(m.styles, m.session.Transcript(m.state), m.cursorOn)
}

func (m model) View() string {
	if m.width > 0 && m.height > 0 {
		if m.width < minWidth || m.height < minHeight {
			return fmt.Sprintf("%s\n", strings.Join(m.smallViewLines(), "\n"))
		}
	}

	brief := m.session.Brief()
	title := m.styles.Title.Render("brandkit") + m.styles.Muted.Render(" · "+brief.Brand)
	if brief.Industry != "" {
		title += m.styles.Muted.Render(" · " + brief.Industry)
	}

	chatWidth := m.chatWidth()
	previewWidth := m.width - chatWidth
	if m.width <= 0 {
		previewWidth = 40
	}

	chat := components.RenderChatPanel(m.styles, m.chat, "Assistant", chatWidth-2)
	body := lipgloss.JoinHorizontal(lipgloss.Top, chat, m.previewView(previewWidth))

	progress := wizard.Progress(m.session.Script(), m.state)
	note := m.note
	if note == "" && m.state.Status == reveal.StatusRunning {
		note = fmt.Sprintf("%d%%", int(progress*100))
	}
	status := components.RenderStatusBar(m.styles, m.state.Status, m.saved != nil, note, m.width)

	return fmt.Sprintf("%s\n\n%s\n%s\n", title, body, status)
}

func (m model) previewView(width int) string {
	draft := m.session.Draft()
	panels := make([]string, 0, len(models.Sections))
	for _, section := range models.Sections {
		panel := components.SectionPanel{
			Section: section,
			Pack:    draft,
			Ready:   wizard.SectionReady(m.state, section),
			Spinner: m.spinner.View(),
		}
		panels = append(panels, panel.Render(m.styles, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (m model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Muted.Render("Press q to quit."),
	}
}
