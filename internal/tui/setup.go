// Package tui provides terminal user interface components for fproj.
package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fproj/fproj/internal/config"
	"github.com/fproj/fproj/internal/constants"
)

// setup wizard field indices
const (
	fieldPath = iota
	fieldDepth
	fieldCount
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	descStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	focusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
)

// SetupWizard collects the first search root interactively.
type SetupWizard struct {
	pathInput  textinput.Model
	depthInput textinput.Model
	focus      int
	errMsg     string
	root       config.Root
	done       bool
	cancelled  bool
}

// SetupResult contains the result of the setup wizard.
type SetupResult struct {
	Root      config.Root
	Cancelled bool
}

// NewSetupWizard creates a new setup wizard with the default root
// prefilled.
func NewSetupWizard() *SetupWizard {
	pi := textinput.New()
	pi.Placeholder = constants.DefaultRootPath
	pi.CharLimit = 300
	pi.SetValue(constants.DefaultRootPath)
	pi.CursorEnd()
	pi.Focus()

	di := textinput.New()
	di.Placeholder = strconv.Itoa(constants.DefaultRootDepth)
	di.CharLimit = 2
	di.SetValue(strconv.Itoa(constants.DefaultRootDepth))
	di.CursorEnd()

	return &SetupWizard{
		pathInput:  pi,
		depthInput: di,
		focus:      fieldPath,
	}
}

// Init initializes the setup wizard.
func (m *SetupWizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m *SetupWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit

		case "tab", "down":
			m.blurCurrent()
			m.focus = (m.focus + 1) % fieldCount
			m.focusCurrent()
			return m, nil

		case "shift+tab", "up":
			m.blurCurrent()
			m.focus = (m.focus - 1 + fieldCount) % fieldCount
			m.focusCurrent()
			return m, nil

		case "enter":
			root, err := m.validate()
			if err != "" {
				m.errMsg = err
				return m, nil
			}
			m.root = root
			m.done = true
			return m, tea.Quit
		}
		m.errMsg = ""
	}

	// Everything else, cursor blinks included, goes to the focused input.
	var cmd tea.Cmd
	switch m.focus {
	case fieldPath:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case fieldDepth:
		m.depthInput, cmd = m.depthInput.Update(msg)
	}
	return m, cmd
}

// validate checks the form fields, returning the root or a message
// describing the first problem.
func (m *SetupWizard) validate() (config.Root, string) {
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		return config.Root{}, "root path cannot be empty"
	}

	depth, err := strconv.Atoi(strings.TrimSpace(m.depthInput.Value()))
	if err != nil || depth < 1 {
		return config.Root{}, "depth must be a positive integer"
	}

	return config.Root{Path: path, Depth: depth}, ""
}

func (m *SetupWizard) blurCurrent() {
	switch m.focus {
	case fieldPath:
		m.pathInput.Blur()
	case fieldDepth:
		m.depthInput.Blur()
	}
}

func (m *SetupWizard) focusCurrent() {
	switch m.focus {
	case fieldPath:
		m.pathInput.Focus()
		m.pathInput.CursorEnd()
	case fieldDepth:
		m.depthInput.Focus()
		m.depthInput.CursorEnd()
	}
}

// View renders the setup wizard.
func (m *SetupWizard) View() string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("fproj setup"))
	sb.WriteString("\n\n")
	sb.WriteString("Where do your projects live?\n")
	sb.WriteString(descStyle.Render("The search root is scanned for project directories."))
	sb.WriteString("\n\n")

	sb.WriteString(m.fieldLabel("Root:", m.focus == fieldPath))
	sb.WriteString(" ")
	sb.WriteString(m.pathInput.View())
	sb.WriteString("\n")

	sb.WriteString(m.fieldLabel("Depth:", m.focus == fieldDepth))
	sb.WriteString(" ")
	sb.WriteString(m.depthInput.View())
	sb.WriteString("\n\n")

	sb.WriteString(descStyle.Render("Depth 1 lists immediate subdirectories; 2 suits host/owner layouts."))
	sb.WriteString("\n")

	if m.errMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(errStyle.Render(m.errMsg))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(descStyle.Render("Enter: save  Tab: next field  Esc: cancel"))

	return sb.String()
}

func (m *SetupWizard) fieldLabel(label string, focused bool) string {
	style := labelStyle
	if focused {
		style = focusStyle
	}
	return style.Width(6).Render(label)
}

// Result returns the setup result.
func (m *SetupWizard) Result() SetupResult {
	return SetupResult{
		Root:      m.root,
		Cancelled: m.cancelled,
	}
}

// RunSetupWizard runs the setup wizard and returns the result.
func RunSetupWizard() (*SetupResult, error) {
	m := NewSetupWizard()
	p := tea.NewProgram(m)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	wizard := finalModel.(*SetupWizard)
	result := wizard.Result()
	return &result, nil
}
