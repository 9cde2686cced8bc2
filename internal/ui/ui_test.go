package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-mission/internal/control"
)

// testMenu records which actions ran.
func testMenu(ran *[]string) Menu {
	action := func(key, out string, err error) Action {
		return Action{
			Key:   key,
			Label: "action " + key,
			Run: func(w io.Writer) error {
				*ran = append(*ran, key)
				fmt.Fprint(w, out)
				return err
			},
		}
	}
	return Menu{
		Title:     "TEST",
		QuitKey:   "0",
		QuitLabel: "Quitter",
		Actions: []Action{
			action("1", "missions report\n", nil),
			action("2", "Fichier introuvable : journal\n", control.ErrNoData),
			action("3", "", errors.New("disk on fire")),
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command, if any, back through
// Update.
func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	next, cmd := m.Update(keyMsg(key))
	m = next.(Model)
	if cmd != nil {
		msg := cmd()
		if _, quit := msg.(tea.QuitMsg); quit {
			t.Fatalf("key %q quit unexpectedly", key)
		}
		next, _ = m.Update(msg)
		m = next.(Model)
	}
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_RunsAction(t *testing.T) {
	var ran []string
	m := press(t, New(testMenu(&ran)), "1")

	if len(ran) != 1 || ran[0] != "1" {
		t.Errorf("ran = %v, want [1]", ran)
	}
	if m.Output() != "missions report\n" {
		t.Errorf("Output() = %q", m.Output())
	}
	if m.Status() != "" {
		t.Errorf("Status() = %q, want empty", m.Status())
	}
	if m.running {
		t.Error("model still running after action completed")
	}
}

func TestModel_ReportedErrorsStayQuiet(t *testing.T) {
	var ran []string
	m := press(t, New(testMenu(&ran)), "2")

	if !strings.Contains(m.Output(), "Fichier introuvable") {
		t.Errorf("Output() = %q", m.Output())
	}
	if m.Status() != "" {
		t.Errorf("ErrNoData should not add a status line, got %q", m.Status())
	}
}

func TestModel_OtherErrorsShown(t *testing.T) {
	var ran []string
	m := press(t, New(testMenu(&ran)), "3")

	if !strings.Contains(m.Status(), "disk on fire") {
		t.Errorf("Status() = %q", m.Status())
	}
	// The menu keeps running after a failed action.
	m = press(t, m, "1")
	if len(ran) != 2 {
		t.Errorf("ran = %v, want two actions", ran)
	}
	if m.Status() != "" {
		t.Error("status should clear on the next successful action")
	}
}

func TestModel_UnknownChoiceIsNoOp(t *testing.T) {
	var ran []string
	m := New(testMenu(&ran))

	for _, key := range []string{"9", "x", "42"} {
		next, cmd := m.Update(keyMsg(key))
		if cmd != nil {
			t.Errorf("key %q returned a command", key)
		}
		if got := next.(Model); got.Output() != m.Output() || got.active != m.active {
			t.Errorf("key %q changed the model", key)
		}
	}
	if len(ran) != 0 {
		t.Errorf("ran = %v, want nothing", ran)
	}
}

func TestModel_Quit(t *testing.T) {
	var ran []string
	m := New(testMenu(&ran))

	for _, msg := range []tea.KeyMsg{keyMsg("0"), keyMsg("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		if !isQuit(cmd) {
			t.Errorf("%q should quit", msg.String())
		}
	}
}

func TestModel_IgnoresKeysWhileRunning(t *testing.T) {
	var ran []string
	m := New(testMenu(&ran))

	next, cmd := m.Update(keyMsg("1"))
	if cmd == nil {
		t.Fatal("expected an action command")
	}
	m = next.(Model)
	if _, cmd := m.Update(keyMsg("2")); cmd != nil {
		t.Error("second action started while the first was running")
	}
}

func TestModel_View(t *testing.T) {
	var ran []string
	m := New(testMenu(&ran))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = press(t, next.(Model), "1")

	view := m.View()
	for _, want := range []string{"action 1", "action 3", "Quitter", "missions report"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_ViewTruncatesLongOutput(t *testing.T) {
	menu := Menu{
		Title:   "TEST",
		QuitKey: "0",
		Actions: []Action{{Key: "1", Label: "long", Run: func(w io.Writer) error {
			for i := 0; i < 200; i++ {
				fmt.Fprintf(w, "line %d\n", i)
			}
			return nil
		}}},
	}
	next, _ := New(menu).Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m := press(t, next.(Model), "1")

	view := m.View()
	if strings.Contains(view, "line 199") {
		t.Error("View() should not render past the window height")
	}
	if !strings.Contains(view, "lignes de plus") {
		t.Error("View() should say how many lines were cut")
	}
}

func TestGradientColor(t *testing.T) {
	if got := gradientColor(0, 10); got != "#3B82F6" {
		t.Errorf("gradientColor(0) = %s, want #3B82F6", got)
	}
	if got := gradientColor(9, 10); !strings.HasPrefix(got, "#E") {
		t.Errorf("gradientColor(end) = %s, want a pink hue", got)
	}
	if got := gradientColor(0, 1); !strings.HasPrefix(got, "#") || len(got) != 7 {
		t.Errorf("gradientColor(single) = %s", got)
	}
}
