package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gosuda/tigress/parser"
)

type model struct {
	cfg     appConfig
	input   textinput.Model
	lines   []transcriptLine
	pending []string
	running bool
	status  string
	width   int
	height  int
}

var (
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
)

func newModel(cfg appConfig) model {
	ti := textinput.New()
	ti.Prompt = promptMain
	ti.CharLimit = 4096
	ti.Focus()
	return model{
		cfg:    cfg,
		input:  ti,
		status: "ready",
		width:  80,
		height: 24,
	}
}

// evalCmd runs the program off the UI goroutine. Tracing is discarded since
// stderr belongs to the terminal UI.
func evalCmd(cfg appConfig, src string) tea.Cmd {
	return func() tea.Msg {
		cfg.Verbose = false
		return evalDoneMsg{src: src, out: evaluate(cfg, newLogger(io.Discard, false), "<tui>", src)}
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case evalDoneMsg:
		m.running = false
		m.status = "ready"
		if msg.out.typ != "" {
			m.push(lineInfo, "type = "+msg.out.typ)
		}
		if msg.out.err != nil {
			m.status = "failed"
			m.push(lineError, msg.out.err.Error())
		} else if msg.out.ran {
			m.push(lineResult, "result = "+msg.out.result)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlL:
			m.lines = nil
			return m, nil
		case tea.KeyEnter:
			if m.running {
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit collects the input line and starts an evaluation once the
// collected lines parse or fail for a reason other than ending early.
func (m model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.SetValue("")
	m.push(lineInput, m.input.Prompt+line)
	m.pending = append(m.pending, line)
	src := strings.Join(m.pending, "\n")
	if strings.TrimSpace(src) == "" {
		m.pending = nil
		return m, nil
	}
	if _, err := parser.Parse(src); parser.IsIncomplete(err) {
		m.input.Prompt = promptCont
		return m, nil
	}
	m.pending = nil
	m.input.Prompt = promptMain
	m.running = true
	m.status = "running"
	return m, evalCmd(m.cfg, src)
}

func (m *model) push(kind lineKind, text string) {
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		m.lines = append(m.lines, transcriptLine{text: l, kind: kind})
	}
}

func (m model) View() string {
	room := max(m.height-2, 1)
	start := max(len(m.lines)-room, 0)
	var b strings.Builder
	for _, l := range m.lines[start:] {
		b.WriteString(renderLine(l))
		b.WriteByte('\n')
	}
	for i := len(m.lines) - start; i < room; i++ {
		b.WriteByte('\n')
	}
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(statusStyle.Render("tigress: " + m.status + "  (esc quits, ctrl+l clears)"))
	return b.String()
}

func renderLine(l transcriptLine) string {
	switch l.kind {
	case lineResult:
		return resultStyle.Render(l.text)
	case lineError:
		return errStyle.Render(l.text)
	case lineInfo:
		return infoStyle.Render(l.text)
	default:
		return inputStyle.Render(l.text)
	}
}
