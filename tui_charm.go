package main

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	maxColumns   = 3
	minCardWidth = 30
)

type inputMode int

const (
	inputNone inputMode = iota
	inputExportOPML
)

type spinnerTickMsg struct{}

type autoRefreshMsg struct{}

type refreshResultMsg struct {
	cycle   uint64
	applied bool
	err     error
}

type tuiModel struct {
	ctx           context.Context
	app           *App
	width         int
	height        int
	input         textinput.Model
	inputMode     inputMode
	showHelp      bool
	spinnerIndex  int
	spinnerFrames []string
	scroll        int
}

var (
	teaNewProgram = tea.NewProgram
	runTeaProgram = func(program *tea.Program) (tea.Model, error) { return program.Run() }
)

func RunTUI(ctx context.Context, app *App) error {
	model := newTUIModel(ctx, app)
	program := teaNewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := runTeaProgram(program)
	return err
}

func newTUIModel(ctx context.Context, app *App) tuiModel {
	input := textinput.New()
	input.Placeholder = ""
	input.CharLimit = 256
	input.Width = 50
	input.Prompt = "> "
	return tuiModel{
		ctx:           ctx,
		app:           app,
		input:         input,
		spinnerFrames: []string{"|", "/", "-", "\\"},
	}
}

func (m tuiModel) Init() tea.Cmd {
	cmds := []tea.Cmd{spinnerTick(), m.startRefresh()}
	if tick := autoRefreshTick(m.app.config.RefreshIntervalMinutes); tick != nil {
		cmds = append(cmds, tick)
	}
	return tea.Batch(cmds...)
}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func autoRefreshTick(minutes int) tea.Cmd {
	if minutes <= 0 {
		return nil
	}
	return tea.Tick(time.Duration(minutes)*time.Minute, func(time.Time) tea.Msg {
		return autoRefreshMsg{}
	})
}

// startRefresh opens a new cycle. The app is a shared pointer, so the pending
// counter survives the value copy of the model.
func (m tuiModel) startRefresh() tea.Cmd {
	cycle := m.app.board.NextCycle()
	m.app.refreshPending++
	m.app.refreshStatus = "Refreshing feeds..."
	return refreshCmd(m.ctx, m.app.board, cycle)
}

func refreshCmd(ctx context.Context, board *Board, cycle uint64) tea.Cmd {
	return func() tea.Msg {
		snapshot, applied := board.Refresh(ctx, cycle)
		return refreshResultMsg{cycle: cycle, applied: applied, err: snapshot.Err}
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case spinnerTickMsg:
		if len(m.spinnerFrames) > 0 {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(m.spinnerFrames)
		}
		return m, spinnerTick()
	case autoRefreshMsg:
		return m, tea.Batch(m.startRefresh(), autoRefreshTick(m.app.config.RefreshIntervalMinutes))
	case refreshResultMsg:
		if m.app.refreshPending > 0 {
			m.app.refreshPending--
		}
		m.app.applySnapshot()
		return m, nil
	case tea.KeyMsg:
		key := msg.String()
		if m.showHelp {
			if key == "/" || key == "esc" || key == "q" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.inputMode != inputNone {
			var cmd tea.Cmd
			switch key {
			case "esc":
				m.inputMode = inputNone
				m.input.Blur()
				m.input.SetValue("")
				return m, nil
			case "enter":
				m = m.commitInput()
				return m, nil
			}
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			m.showHelp = true
		case "j", "down", "l", "right", "tab":
			m.app.MoveSelection(1)
			m.followSelection()
		case "k", "up", "h", "left", "shift+tab":
			m.app.MoveSelection(-1)
			m.followSelection()
		case "enter", "o":
			if err := m.app.OpenSelected(); err != nil {
				m.app.status = "Open failed: " + err.Error()
			}
		case "p":
			if err := m.app.OpenLatestPost(); err != nil {
				m.app.status = "Open failed: " + err.Error()
			}
		case "y":
			if err := m.app.CopySelectedURL(); err != nil {
				m.app.status = "Copy failed: " + err.Error()
			}
		case "r":
			return m, m.startRefresh()
		case "w":
			m = m.startInput(inputExportOPML, "Export OPML path")
		case "pgup", "ctrl+u":
			m.adjustScroll(-(m.boardHeight() / 2))
		case "pgdown", "ctrl+d":
			m.adjustScroll(m.boardHeight() / 2)
		case "home", "g":
			m.scroll = 0
		case "end", "G":
			m.scroll = 1 << 30
		}
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	base := m.renderLayout()
	if m.inputMode != inputNone {
		return m.renderInputOverlay(base)
	}
	return base
}

func (m tuiModel) boardHeight() int {
	height := m.height - 2
	if height < 4 {
		height = 4
	}
	return height
}

func (m tuiModel) renderLayout() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1).Render("NewsTerminal")
	lines, _, _ := m.renderBoard(m.width)
	scroll := m.scroll
	visible := visibleLines(lines, m.boardHeight(), &scroll)
	status := m.renderStatusBar(m.width)
	return lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(visible, "\n"), status)
}

// renderBoard lays out every category section and returns its lines along
// with the line span of the selected card.
func (m tuiModel) renderBoard(width int) ([]string, int, int) {
	snapshot := m.app.Snapshot()
	if len(snapshot.Groups) == 0 {
		message := "No feeds yet."
		if snapshot.Err != nil {
			message = "Could not load feeds. Press r to retry."
		} else if snapshot.Cycle == 0 {
			message = "Loading feeds..."
		}
		return []string{lipgloss.NewStyle().Padding(1, 1).Render(message)}, 0, 0
	}
	columns := clamp(width/minCardWidth, 1, maxColumns)
	cardWidth := width/columns - 2
	now := m.app.now()
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")).Padding(0, 1)

	lines := []string{}
	selTop, selBottom := 0, 0
	n := 0
	for _, group := range snapshot.Groups {
		lines = append(lines, sectionStyle.Render(group.Category.Name))
		for start := 0; start < len(group.Feeds); start += columns {
			end := min(start+columns, len(group.Feeds))
			cards := make([]string, 0, end-start)
			rowHasSelection := false
			for _, view := range group.Feeds[start:end] {
				selected := n == m.app.selectedIndex
				rowHasSelection = rowHasSelection || selected
				cards = append(cards, renderCard(view, cardWidth, selected, now))
				n++
			}
			row := strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, cards...), "\n")
			if rowHasSelection {
				selTop = len(lines)
				selBottom = len(lines) + len(row)
			}
			lines = append(lines, row...)
		}
	}
	return lines, selTop, selBottom
}

func renderCard(view FeedView, width int, selected bool, now time.Time) string {
	border := lipgloss.Color("240")
	if selected {
		border = lipgloss.Color("205")
	}
	inner := width - 2
	if inner < 10 {
		inner = 10
	}
	style := lipgloss.NewStyle().Width(inner).Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	textWidth := inner - 2
	nameStyle := lipgloss.NewStyle().Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	newStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("160"))

	lines := []string{
		nameStyle.Render(ansi.Truncate(valueOrFallback(view.Feed.Name, "Untitled"), textWidth, "…")),
		metaStyle.Render(ansi.Truncate(siteHost(view.Feed.URL), textWidth, "…")),
		metaStyle.Render("Last post " + view.LastUpdated.Relative(now)),
		"",
	}
	if view.Err != nil {
		lines = append(lines, errStyle.Render(ansi.Truncate("Posts unavailable", textWidth, "…")))
	}
	for i, post := range view.Posts {
		if i == cardPosts {
			break
		}
		title := ansi.Truncate("· "+valueOrFallback(post.Title, "Untitled"), textWidth, "…")
		if IsNewPost(view.Feed, post, now) {
			title = newStyle.Render(title)
		}
		lines = append(lines, title)
	}
	for len(lines) < cardPosts+4 {
		lines = append(lines, "")
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m tuiModel) renderStatusBar(width int) string {
	style := lipgloss.NewStyle().Width(width).Padding(0, 1).Foreground(lipgloss.Color("241"))
	status := m.app.status
	if m.app.refreshPending > 0 {
		spinner := ""
		if len(m.spinnerFrames) > 0 {
			spinner = m.spinnerFrames[m.spinnerIndex] + " "
		}
		status = spinner + m.app.refreshStatus
	} else if status == "" {
		status = "Ready"
	}
	tip := m.tooltipText()
	padding := width - ansi.StringWidth(status) - ansi.StringWidth(tip) - 2
	if padding < 1 {
		padding = 1
	}
	return style.Render(status + strings.Repeat(" ", padding) + tip)
}

func (m tuiModel) renderHelpOverlay() string {
	style := lipgloss.NewStyle().Width(m.width).Height(m.height)
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).BorderForeground(lipgloss.Color("63"))
	content := []string{
		"Quick Commands",
		"",
		"arrows/hjkl    - select feed",
		"enter or o     - open feed site",
		"p              - open latest post",
		"y              - copy feed url",
		"r              - refresh",
		"w              - export OPML",
		"pgup/pgdn      - scroll",
		"/ or esc       - close",
		"q              - quit",
	}
	center := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box.Render(strings.Join(content, "\n")))
	return style.Render(center)
}

func (m tuiModel) renderInputOverlay(base string) string {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).BorderForeground(lipgloss.Color("62"))
	content := m.inputPrompt() + "\n\n" + m.input.View()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box.Render(content))
}

func (m tuiModel) inputPrompt() string {
	switch m.inputMode {
	case inputExportOPML:
		return "Export OPML"
	default:
		return "Input"
	}
}

func (m tuiModel) tooltipText() string {
	if m.inputMode != inputNone {
		return "Enter to confirm, Esc to cancel"
	}
	return "Press / for help"
}

func (m tuiModel) startInput(mode inputMode, placeholder string) tuiModel {
	m.inputMode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m tuiModel) commitInput() tuiModel {
	mode := m.inputMode
	value := strings.TrimSpace(m.input.Value())
	m.inputMode = inputNone
	m.input.Blur()
	m.input.SetValue("")

	if value == "" {
		m.app.status = "Input cancelled"
		return m
	}
	switch mode {
	case inputExportOPML:
		if err := m.app.ExportOPML(value); err != nil {
			m.app.status = "Export failed: " + err.Error()
		}
	}
	return m
}

// followSelection scrolls just enough to bring the selected card on screen.
func (m *tuiModel) followSelection() {
	if m.width == 0 {
		return
	}
	_, top, bottom := m.renderBoard(m.width)
	height := m.boardHeight()
	if bottom > m.scroll+height {
		m.scroll = bottom - height
	}
	if top < m.scroll {
		m.scroll = top
	}
}

func (m *tuiModel) adjustScroll(delta int) {
	m.scroll += delta
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func visibleLines(lines []string, height int, scroll *int) []string {
	if height <= 0 {
		return []string{}
	}
	if len(lines) <= height {
		padded := append([]string{}, lines...)
		for len(padded) < height {
			padded = append(padded, "")
		}
		return padded
	}
	maxScroll := len(lines) - height
	if *scroll > maxScroll {
		*scroll = maxScroll
	}
	if *scroll < 0 {
		*scroll = 0
	}
	return lines[*scroll : *scroll+height]
}
