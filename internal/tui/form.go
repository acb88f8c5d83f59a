package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thejatinbaghel/JobReady-AI/internal/export"
	"github.com/thejatinbaghel/JobReady-AI/internal/model"
	"github.com/thejatinbaghel/JobReady-AI/internal/orchestrator"
)

// outcomeMsg carries a slot transition from the orchestrator subscription.
type outcomeMsg struct {
	outcome model.Outcome
}

// runErrMsg is sent when Run did not apply an outcome (busy or abandoned).
type runErrMsg struct {
	kind model.TaskKind
	err  error
}

// savedMsg is sent when the tailored application has been written to disk.
type savedMsg struct {
	path string
	err  error
}

type focusField int

const (
	focusCV focusField = iota
	focusJob
	focusEnhance
	focusCount
)

var taskTitles = map[model.TaskKind]string{
	model.TaskTailor:  "Tailored application",
	model.TaskEnhance: "Enhanced bullet points",
	model.TaskPredict: "Interview questions",
}

var taskKeys = map[model.TaskKind]string{
	model.TaskTailor:  "alt+t",
	model.TaskEnhance: "alt+e",
	model.TaskPredict: "alt+p",
}

type formModel struct {
	orch      *orchestrator.Orchestrator
	exportDir string

	cvInput      textarea.Model
	jobInput     textarea.Model
	enhanceInput textinput.Model
	focus        focusField

	results  viewport.Model
	spinner  spinner.Model
	spinning bool

	outcomes    map[model.TaskKind]model.Outcome
	lastSuccess map[model.TaskKind]model.Outcome
	notice      string

	width  int
	height int
	ready  bool
}

func newFormModel(orch *orchestrator.Orchestrator, cvText, exportDir string) formModel {
	cv := textarea.New()
	cv.Placeholder = "Paste your CV, or start with --cv resume.pdf"
	cv.CharLimit = 0
	cv.MaxHeight = 0
	cv.ShowLineNumbers = false
	cv.SetValue(cvText)
	cv.Focus()

	job := textarea.New()
	job.Placeholder = "Paste the job description"
	job.CharLimit = 0
	job.MaxHeight = 0
	job.ShowLineNumbers = false

	enhance := textinput.New()
	enhance.Placeholder = "A sentence from your CV to turn into STAR bullets"
	enhance.Prompt = "› "

	m := formModel{
		orch:         orch,
		exportDir:    exportDir,
		cvInput:      cv,
		jobInput:     job,
		enhanceInput: enhance,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		outcomes:     make(map[model.TaskKind]model.Outcome),
		lastSuccess:  make(map[model.TaskKind]model.Outcome),
	}
	for _, kind := range model.TaskKinds {
		slot := orch.Slot(kind)
		m.outcomes[kind] = slot.Snapshot()
		if last, ok := slot.LastSuccess(); ok {
			m.lastSuccess[kind] = last
		}
	}
	return m
}

func (m formModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case outcomeMsg:
		o := msg.outcome
		m.outcomes[o.Kind] = o
		if o.Status == model.StatusSuccess {
			m.lastSuccess[o.Kind] = o
		}
		m.refreshResults()
		if o.Status == model.StatusLoading && !m.spinning {
			m.spinning = true
			return m, m.spinner.Tick
		}
		return m, nil

	case spinner.TickMsg:
		if !m.anyLoading() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshResults()
		return m, cmd

	case runErrMsg:
		switch {
		case errors.Is(msg.err, model.ErrSlotBusy):
			m.notice = fmt.Sprintf("%s is already running", taskTitles[msg.kind])
		case errors.Is(msg.err, orchestrator.ErrAbandoned):
			m.notice = fmt.Sprintf("%s cancelled", taskTitles[msg.kind])
		default:
			m.notice = msg.err.Error()
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("save failed: %v", msg.err)
		} else {
			m.notice = "saved " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m.updateFocused(msg)
}

func (m formModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		return m, m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case "alt+t":
		return m, m.runCmd(model.TaskTailor)
	case "alt+e":
		return m, m.runCmd(model.TaskEnhance)
	case "alt+p":
		return m, m.runCmd(model.TaskPredict)
	case "alt+s":
		return m, m.saveCmd()
	case "alt+x":
		orch := m.orch
		return m, func() tea.Msg {
			orch.Close()
			return nil
		}
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	return m.updateFocused(msg)
}

func (m formModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusCV:
		m.cvInput, cmd = m.cvInput.Update(msg)
	case focusJob:
		m.jobInput, cmd = m.jobInput.Update(msg)
	case focusEnhance:
		m.enhanceInput, cmd = m.enhanceInput.Update(msg)
	}
	return m, cmd
}

func (m *formModel) setFocus(f focusField) tea.Cmd {
	m.focus = f
	m.cvInput.Blur()
	m.jobInput.Blur()
	m.enhanceInput.Blur()
	switch f {
	case focusCV:
		return m.cvInput.Focus()
	case focusJob:
		return m.jobInput.Focus()
	default:
		return m.enhanceInput.Focus()
	}
}

// request builds a fresh request from the current field values.
func (m formModel) request(kind model.TaskKind) model.AnalysisRequest {
	if kind == model.TaskEnhance {
		return model.AnalysisRequest{Kind: kind, SourceText: m.enhanceInput.Value()}
	}
	return model.AnalysisRequest{Kind: kind, SourceText: m.cvInput.Value(), JobText: m.jobInput.Value()}
}

// runCmd runs the request off the event loop. Outcomes arrive through the
// subscription as outcomeMsg, so only rejections are reported here.
func (m formModel) runCmd(kind model.TaskKind) tea.Cmd {
	orch := m.orch
	req := m.request(kind)
	return func() tea.Msg {
		if _, err := orch.Run(context.Background(), req); err != nil {
			return runErrMsg{kind: kind, err: err}
		}
		return nil
	}
}

func (m formModel) saveCmd() tea.Cmd {
	last, ok := m.lastSuccess[model.TaskTailor]
	if !ok {
		return func() tea.Msg {
			return savedMsg{err: errors.New("nothing to save yet, run alt+t first")}
		}
	}
	res := last.Result.(model.TailorResult)
	dir := m.exportDir
	return func() tea.Msg {
		path, err := export.Save(dir, res)
		return savedMsg{path: path, err: err}
	}
}

func (m formModel) anyLoading() bool {
	for _, o := range m.outcomes {
		if o.Status == model.StatusLoading {
			return true
		}
	}
	return false
}

func (m *formModel) recalcLayout() {
	// Left column: two bordered text areas plus the enhance input.
	leftWidth := max(m.width/2-2, 20)
	rightWidth := max(m.width-leftWidth-6, 20)

	// Title (1) + status bar (1) + three labels (3) + borders (6) + input (1).
	areaHeight := max((m.height-12)/2, 3)

	m.cvInput.SetWidth(leftWidth)
	m.cvInput.SetHeight(areaHeight)
	m.jobInput.SetWidth(leftWidth)
	m.jobInput.SetHeight(areaHeight)
	m.enhanceInput.Width = leftWidth - 3

	resultsHeight := max(m.height-4, 5)
	if !m.ready {
		m.results = viewport.New(rightWidth, resultsHeight)
		m.ready = true
	} else {
		m.results.Width = rightWidth
		m.results.Height = resultsHeight
	}
	m.refreshResults()
}

func (m *formModel) refreshResults() {
	if !m.ready {
		return
	}
	m.results.SetContent(renderResults(m.outcomes, m.lastSuccess, m.spinner.View(), m.results.Width))
}

func (m formModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	field := func(label string, f focusField, view string) string {
		ls, bs := labelStyle, inactiveBorderStyle
		if m.focus == f {
			ls, bs = focusedLabelStyle, activeBorderStyle
		}
		return ls.Render(label) + "\n" + bs.Render(view)
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		field("CV", focusCV, m.cvInput.View()),
		field("Job description", focusJob, m.jobInput.View()),
		field("Enhance a sentence", focusEnhance, m.enhanceInput.View()),
	)
	right := activeBorderStyle.Render(m.results.View())

	status := "tab switch field  alt+t tailor  alt+e enhance  alt+p predict  alt+s save  alt+x cancel  esc quit"
	if m.notice != "" {
		status = m.notice + "  |  " + status
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("JobReady"),
		lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right),
		statusBarStyle.Width(max(m.width, 1)).Render(truncate(status, max(m.width-2, 1))),
	)
}

func renderResults(outcomes, lastSuccess map[model.TaskKind]model.Outcome, spin string, width int) string {
	var b strings.Builder
	wrap := lipgloss.NewStyle().Width(max(width-2, 10))

	for _, kind := range model.TaskKinds {
		b.WriteString(sectionStyle.Render(taskTitles[kind]))
		b.WriteString("\n")

		o := outcomes[kind]
		switch o.Status {
		case model.StatusIdle:
			b.WriteString(hintStyle.Render("press " + taskKeys[kind] + " to run"))
		case model.StatusLoading:
			b.WriteString(spin + " working...")
		case model.StatusFailure:
			b.WriteString(errorStyle.Render(wrap.Render(o.Message())))
			if last, ok := lastSuccess[kind]; ok {
				b.WriteString("\n" + hintStyle.Render("previous result:") + "\n")
				b.WriteString(renderResult(last.Result, wrap))
			}
		case model.StatusSuccess:
			b.WriteString(renderResult(o.Result, wrap))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderResult(r model.Result, wrap lipgloss.Style) string {
	var b strings.Builder
	switch r := r.(type) {
	case model.TailorResult:
		b.WriteString(scoreStyle.Render(fmt.Sprintf("ATS match: %d/100", r.DisplayScore())))
		b.WriteString("\n")
		for _, s := range r.Suggestions {
			b.WriteString(wrap.Render("• "+s) + "\n")
		}
		b.WriteString(labelStyle.Render("Tailored CV") + "\n")
		b.WriteString(bodyStyle.Render(wrap.Render(r.TailoredCV)) + "\n")
		b.WriteString(labelStyle.Render("Cover letter") + "\n")
		b.WriteString(bodyStyle.Render(wrap.Render(r.CoverLetter)))
	case model.EnhanceResult:
		b.WriteString(bodyStyle.Render(wrap.Render(strings.Join(r.Bullets(), "\n"))))
	case model.PredictResult:
		cats := r.Categories()
		if len(cats) == 0 {
			b.WriteString(hintStyle.Render("no questions returned"))
		}
		for i, c := range cats {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(labelStyle.Render(c.Name) + "\n")
			for j, q := range c.Questions {
				b.WriteString(wrap.Render(fmt.Sprintf("%d. %s", j+1, q)) + "\n")
			}
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// Run starts the interactive form in the alt screen. cvText pre-fills the CV
// field. In-flight requests are cancelled when the form exits.
func Run(orch *orchestrator.Orchestrator, cvText, exportDir string) error {
	p := tea.NewProgram(newFormModel(orch, cvText, exportDir), tea.WithAltScreen())

	unsubscribe := orch.SubscribeAll(func(o model.Outcome) {
		p.Send(outcomeMsg{outcome: o})
	})
	defer func() {
		unsubscribe()
		orch.Close()
	}()

	_, err := p.Run()
	return err
}
