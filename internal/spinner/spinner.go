// Package spinner renders a single-line terminal status for a preview
// session: a spinner, the current phase, and the latest log line, updated
// in place without polluting the terminal buffer.
package spinner

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultWidth = 80

var phaseStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))

// Spinner displays a spinner with phase and log line updates.
// Phase, Line and Stop may be called from any goroutine once Run has started.
type Spinner struct {
	program *tea.Program
}

// New creates a Spinner that draws to output (os.Stderr when nil).
func New(output io.Writer) *Spinner {
	if output == nil {
		output = os.Stderr
	}

	return &Spinner{
		program: tea.NewProgram(newModel(terminalWidth()),
			tea.WithOutput(output),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(), // Let parent handle signals
		),
	}
}

// Run draws the spinner until Stop is called. It blocks.
func (s *Spinner) Run() error {
	_, err := s.program.Run()
	return err
}

// Phase sets the label shown next to the spinner.
func (s *Spinner) Phase(label string) {
	s.program.Send(phaseMsg(label))
}

// Line sets the status line shown after the phase.
func (s *Spinner) Line(line string) {
	s.program.Send(lineMsg(line))
}

// Stop clears the spinner line and ends Run.
func (s *Spinner) Stop() {
	s.program.Quit()
}

func terminalWidth() int {
	if fd := int(os.Stderr.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}

type (
	phaseMsg string
	lineMsg  string
)

type model struct {
	spinner  spinner.Model
	phase    string
	line     string
	width    int
	quitting bool
}

func newModel(width int) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{spinner: s, width: width}
}

// Init implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case phaseMsg:
		m.phase = string(msg)
	case lineMsg:
		m.line = string(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.QuitMsg:
		m.quitting = true
	}
	return m, nil
}

// View implements tea.Model.
//
//nolint:gocritic // hugeParam: tea.Model interface requires value receiver
func (m model) View() string {
	if m.quitting {
		return ""
	}

	head := m.spinner.View() + " "
	if m.phase != "" {
		head += phaseStyle.Render(m.phase) + " "
	}

	room := max(m.width-lipgloss.Width(head), 10)
	return head + truncate(m.line, room)
}

// truncate shortens s to maxWidth runes, ending in "..." when cut.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxWidth {
		return s
	}
	return string(r[:maxWidth-3]) + "..."
}
