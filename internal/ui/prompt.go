package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotconnect/internal/shared"
	"github.com/mattn/go-isatty"
)

// PromptCharLimit bounds a pasted line. Redirect URLs carry the code and state, so they run long.
const PromptCharLimit = 2048

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type keyMap struct {
	submit key.Binding
	cancel key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.submit, k.cancel}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// PromptModel reads a single line, such as an authorization code or a pasted redirect URL.
type PromptModel struct {
	title     string
	input     textinput.Model
	help      help.Model
	keys      keyMap
	done      bool
	cancelled bool
}

// NewPromptModel creates a focused prompt under title.
func NewPromptModel(title, placeholder string) PromptModel {
	ti := textinput.New()
	ti.Prompt = MarkArrow + " "
	ti.Placeholder = placeholder
	ti.CharLimit = PromptCharLimit
	ti.Focus()

	return PromptModel{
		title: title,
		input: ti,
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update submits on enter once the line is non-blank and quits on esc or ctrl+c.
func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.submit):
			if m.Value() == "" {
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.cancel):
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PromptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n%s\n", m.title, m.input.View(), m.help.View(m.keys))
}

// Value returns the entered line without surrounding space.
func (m PromptModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Cancelled reports whether the user left the prompt without submitting.
func (m PromptModel) Cancelled() bool {
	return m.cancelled
}

type waitDoneMsg struct {
	value string
	err   error
}

// WaitModel shows a spinner next to label until wait returns.
type WaitModel struct {
	label   string
	spinner spinner.Model
	keys    keyMap
	wait    func() (string, error)
	value   string
	err     error
	done    bool
}

// NewWaitModel creates a spinner that runs wait in the background.
func NewWaitModel(label string, wait func() (string, error)) WaitModel {
	return WaitModel{
		label:   label,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:    newKeyMap(),
		wait:    wait,
	}
}

func (m WaitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m WaitModel) run() tea.Msg {
	value, err := m.wait()
	return waitDoneMsg{value: value, err: err}
}

func (m WaitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case waitDoneMsg:
		m.value, m.err, m.done = msg.value, msg.err, true
		return m, tea.Quit
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.cancel) {
			m.err, m.done = fmt.Errorf("%w: waiting for authorization", shared.ErrCancelled), true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m WaitModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.label)
}

// Result returns what wait produced, or the cancellation error.
func (m WaitModel) Result() (string, error) {
	return m.value, m.err
}

// Prompt runs a [PromptModel] on in and out and returns the submitted line.
func Prompt(ctx context.Context, in io.Reader, out io.Writer, title, placeholder string) (string, error) {
	final, err := run(ctx, in, out, NewPromptModel(title, placeholder))
	if err != nil {
		return "", err
	}

	m := final.(PromptModel)
	if m.Cancelled() {
		return "", fmt.Errorf("%w: authorization code prompt", shared.ErrCancelled)
	}
	return m.Value(), nil
}

// Wait runs a [WaitModel] on in and out. Pressing esc abandons the wait; the caller is expected to
// cancel whatever wait is blocked on.
func Wait(ctx context.Context, in io.Reader, out io.Writer, label string, wait func() (string, error)) (string, error) {
	final, err := run(ctx, in, out, NewWaitModel(label, wait))
	if err != nil {
		return "", err
	}
	return final.(WaitModel).Result()
}

func run(ctx context.Context, in io.Reader, out io.Writer, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running prompt: %w", err)
	}
	return final, nil
}
