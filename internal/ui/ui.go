// Package ui provides the interactive control centre using Bubble Tea.
package ui

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-mission/internal/version"
)

// Styles for the control centre
var (
	keyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#9D4EDD"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E84A27"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
)

// actionDoneMsg carries the captured output of a finished action.
type actionDoneMsg struct {
	key    string
	output string
	err    error
}

// Model is the root Bubble Tea model.
type Model struct {
	menu Menu

	width  int
	height int

	active  string // key of the last action run
	running bool
	output  string
	status  string
}

// New creates the control-centre model for menu.
func New(menu Menu) Model {
	return Model{menu: menu}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c", "q", m.menu.QuitKey:
			return m, tea.Quit
		}
		if m.running {
			return m, nil
		}
		action, ok := m.menu.Lookup(key)
		if !ok {
			// Unknown choices are ignored.
			return m, nil
		}
		m.active = action.Key
		m.running = true
		m.status = ""
		return m, runAction(action)

	case actionDoneMsg:
		m.running = false
		m.active = msg.key
		m.output = msg.output
		m.status = errorText(msg.err)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func runAction(a Action) tea.Cmd {
	return func() tea.Msg {
		var buf bytes.Buffer
		err := a.Run(&buf)
		return actionDoneMsg{key: a.Key, output: buf.String(), err: err}
	}
}

// Output returns the text produced by the last action.
func (m Model) Output() string {
	return m.output
}

// Status returns the error line of the last action, if any.
func (m Model) Status() string {
	return m.status
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString(m.renderMenu())
	b.WriteString("\n")

	if m.output != "" {
		b.WriteString(m.renderOutput())
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTitle() string {
	var b strings.Builder
	b.WriteString("\n  ")

	runes := []rune(m.menu.Title)
	for col, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, len(runes))))
		b.WriteString(style.Render(string(r)))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  ls-mission v%s", version.Version)))
	b.WriteString("\n\n")
	return b.String()
}

func (m Model) renderMenu() string {
	var b strings.Builder
	for _, a := range m.menu.Actions {
		label := fmt.Sprintf("%s. %s", keyStyle.Render(a.Key), a.Label)
		if a.Key == m.active {
			label = activeStyle.Render(fmt.Sprintf("%s. %s", a.Key, a.Label))
		}
		b.WriteString("  " + label + "\n")
	}
	b.WriteString(fmt.Sprintf("  %s. %s\n", keyStyle.Render(m.menu.QuitKey), m.menu.QuitLabel))
	return b.String()
}

func (m Model) renderOutput() string {
	content := strings.TrimRight(m.output, "\n")
	if m.height > 0 {
		// Keep the panel inside the window: title, menu and footer take
		// roughly a dozen lines.
		maxLines := m.height - len(m.menu.Actions) - 12
		if maxLines < 3 {
			maxLines = 3
		}
		lines := strings.Split(content, "\n")
		if len(lines) > maxLines {
			lines = append(lines[:maxLines-1], dimStyle.Render(fmt.Sprintf("… %d lignes de plus", len(lines)-maxLines+1)))
		}
		content = strings.Join(lines, "\n")
	}
	return panelStyle.Render(content) + "\n"
}

func (m Model) renderFooter() string {
	var b strings.Builder
	if m.status != "" {
		b.WriteString("  " + errorStyle.Render(m.status) + "\n")
	}
	hint := fmt.Sprintf("Votre choix : 1-%d | %s/q: quitter", len(m.menu.Actions), m.menu.QuitKey)
	if m.running {
		hint = "En cours..."
	}
	b.WriteString("  " + dimStyle.Render(hint))
	return b.String()
}

// gradientColor returns a hex color for a position in the title gradient:
// blue -> purple -> magenta -> pink.
func gradientColor(col, width int) string {
	xRatio := 0.0
	if width > 1 {
		xRatio = float64(col) / float64(width-1)
	}

	var r, g, b float64
	if xRatio < 0.33 {
		// Blue to Purple
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		// Purple to Magenta
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		// Magenta to Pink
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	i := int(v)
	if i > 255 {
		return 255
	}
	if i < 0 {
		return 0
	}
	return i
}
