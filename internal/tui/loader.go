package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type loadDoneMsg struct {
	text string
	err  error
}

type loaderModel struct {
	label   string
	loadFn  func(ctx context.Context) (string, error)
	spinner spinner.Model
	result  string
	err     error
	done    bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doLoad(), m.spinner.Tick)
}

func (m loaderModel) doLoad() tea.Cmd {
	loadFn := m.loadFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		text, err := loadFn(ctx)
		return loadDoneMsg{text: text, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.result = msg.text
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = errors.New("cancelled")
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner while loadFn runs, typically text extraction of
// the CV given on the command line. It renders inline (no alt screen).
func RunLoader(label string, loadFn func(ctx context.Context) (string, error)) (string, error) {
	m := loaderModel{
		label:   label,
		loadFn:  loadFn,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
