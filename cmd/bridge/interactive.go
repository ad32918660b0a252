package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-bridge/bridge"
	"github.com/wippyai/wasm-bridge/transfer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	err      error
	app      *app
	result   string
	exports  []*bridge.Export
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type callResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(a *app) *interactiveModel {
	return &interactiveModel{
		app:     a,
		exports: a.registry.Exports(),
		state:   stateSelectFunc,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.exports)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				if len(m.exports) == 0 {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callExport
				}
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				return m, m.callExport

			case stateShowResult:
				m.reset()
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}
			return m, nil

		case "esc":
			if m.state != stateSelectFunc {
				m.reset()
			}
			return m, nil
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		cmds := make([]tea.Cmd, 0, len(m.inputs))
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectFunc
	m.inputs = nil
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInputs() {
	e := m.exports[m.selected]
	m.inputs = make([]textinput.Model, len(e.Signature.Params))
	for i, p := range e.Signature.Params {
		ti := textinput.New()
		ti.Placeholder = bridge.TypeString(p.Type)
		ti.Prompt = p.Name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) values() []string {
	raw := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		raw[i] = input.Value()
	}
	return raw
}

func (m *interactiveModel) callExport() tea.Msg {
	e := m.exports[m.selected]
	result, err := e.Invoke(context.Background(), parseArgs(e.Signature, m.values())...)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: formatResult(result)}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.app.bridge.Namespace()))
	b.WriteString(" ")
	b.WriteString(helpStyle.Render("engine " + transfer.VersionString(m.app.adapter.Version())))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select an export to call:\n\n")
		for i, e := range m.exports {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + formatExport(e)))
			} else {
				b.WriteString("  " + formatExport(e))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		e := m.exports[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(e.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(bridge.TypeString(e.Signature.Params[i].Type)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		e := m.exports[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(e.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func formatExport(e *bridge.Export) string {
	params := make([]string, 0, len(e.Signature.Params))
	for _, p := range e.Signature.Params {
		params = append(params, p.Name+": "+typeStyle.Render(bridge.TypeString(p.Type)))
	}
	result := ""
	if len(e.Signature.Results) > 0 {
		result = " -> " + typeStyle.Render(bridge.TypeString(e.Signature.Results[0]))
	}
	return funcStyle.Render(e.Name) + "(" + strings.Join(params, ", ") + ")" + result
}

func runInteractive(a *app) error {
	p := tea.NewProgram(newInteractiveModel(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
