package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DoneMsg stops a running spinner program.
type DoneMsg struct{}

type SpinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

func NewSpinner(text string) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)
	return SpinnerModel{spinner: s, text: text}
}

func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	case DoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m SpinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

// WithSpinner shows a spinner while fn runs. A ctrl+c during fn calls
// interrupt, which should make fn return early.
func WithSpinner(text string, interrupt func(), fn func() error) error {
	p := tea.NewProgram(NewSpinner(text))

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
		p.Send(DoneMsg{})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(SpinnerModel); ok && m.quitting && interrupt != nil {
		select {
		case err := <-errCh:
			return err
		default:
			interrupt()
		}
	}
	return <-errCh
}
