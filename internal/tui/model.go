package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"ragqa/internal/controller"
)

// HealthChecker checks that the backend is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Options configures the TUI.
type Options struct {
	AllowedTypes []string
	StartDir     string
	// Preselect is loaded as the selected file on start when set.
	Preselect string
	BaseURL   string
}

type mode int

const (
	modeQuestion mode = iota
	modePicker
)

type fileLoadedMsg struct {
	path string
	data []byte
	err  error
}

type healthMsg struct{ err error }

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	ctx      context.Context
	ctrl     *controller.Controller
	health   HealthChecker
	opts     Options
	keys     keyMap
	help     help.Model
	input    textinput.Model
	viewport viewport.Model
	picker   filepicker.Model
	spinner  spinner.Model
	mode     mode
	backend  string
	notice   string
	question string
	ready    bool
}

// New creates a new TUI model instance.
func New(ctx context.Context, ctrl *controller.Controller, health HealthChecker, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholderNoDocument
	ti.Focus()
	ti.CharLimit = 0

	fp := filepicker.New()
	fp.AllowedTypes = opts.AllowedTypes
	fp.CurrentDirectory = opts.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory = "."
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		health:   health,
		opts:     opts,
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    ti,
		viewport: viewport.New(0, 0),
		picker:   fp,
		spinner:  sp,
		backend:  "checking " + opts.BaseURL,
	}
}

// Init starts the cursor blink and spinner, checks backend health and loads a preselected file.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, m.checkHealth()}
	if m.opts.Preselect != "" {
		cmds = append(cmds, loadFile(m.opts.Preselect))
	}
	return tea.Batch(cmds...)
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.ctrl.Update(msg) {
		m.syncQuestion()
		m.refresh()
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.resize(msg.Width, msg.Height)
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		m.refresh()
		return m, cmd
	case healthMsg:
		if msg.err != nil {
			m.backend = "backend unreachable: " + msg.err.Error()
		} else {
			m.backend = "backend ok " + m.opts.BaseURL
		}
		return m, nil
	case fileLoadedMsg:
		if msg.err != nil {
			m.notice = "Could not read file: " + msg.err.Error()
			return m, nil
		}
		m.notice = ""
		m.ctrl.SelectFile(msg.data, filepath.Base(msg.path))
		m.syncQuestion()
		m.refresh()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.busy() {
			m.refresh()
		}
		return m, cmd
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.mode == modePicker {
			return m.updatePicker(msg)
		}
		return m.updateQuestion(msg)
	}

	// directory listings and other picker-internal messages
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Open):
		m.mode = modePicker
		m.input.Blur()
		return m, m.picker.Init()
	case key.Matches(msg, m.keys.Upload):
		cmd := m.ctrl.Upload()
		m.refresh()
		return m, cmd
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
		m.syncQuestion()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Ask):
		cmd := m.ctrl.Ask(m.input.Value())
		m.question = m.ctrl.State().Interaction.Question
		m.refresh()
		return m, cmd
	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.closePicker()
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.closePicker()
		return m, tea.Batch(cmd, loadFile(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.notice = "Unsupported file type: " + filepath.Base(path)
	}
	return m, cmd
}

func (m *Model) closePicker() {
	m.mode = modeQuestion
	m.input.Focus()
}

// syncQuestion mirrors controller resets into the input field without
// clobbering text the user is still typing.
func (m *Model) syncQuestion() {
	q := m.ctrl.State().Interaction.Question
	if q != m.question {
		m.question = q
		m.input.SetValue(q)
	}
}

func (m *Model) refresh() {
	st := m.ctrl.State()
	if st.Document.Indexed() {
		m.input.Placeholder = placeholderIndexed
	} else {
		m.input.Placeholder = placeholderNoDocument
	}
	m.viewport.SetContent(renderAnswerPane(st, m.spinner.View()))
}

func (m *Model) resize(width, height int) {
	_, rh := resultBoxStyle.GetFrameSize()
	_, qh := queryBoxStyle.GetFrameSize()
	// header, document line, actions, error/notice, status, help
	reserved := 6 + qh + 1
	vh := height - reserved
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = max(20, width-2)
	m.viewport.Height = max(3, vh-rh)
	m.input.Width = max(10, width-8)
	m.help.Width = width
}

func (m Model) busy() bool {
	in := m.ctrl.State().Interaction
	return in.IsUploading || in.IsAnswering
}

func (m Model) checkHealth() tea.Cmd {
	if m.health == nil {
		return nil
	}
	ctx, hc := m.ctx, m.health
	return func() tea.Msg {
		return healthMsg{err: hc.Health(ctx)}
	}
}

func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		path = strings.TrimSpace(path)
		data, err := os.ReadFile(path)
		return fileLoadedMsg{path: path, data: data, err: err}
	}
}
