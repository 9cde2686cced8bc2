package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/litescript/ls-mission/internal/control"
)

// Action is one menu entry.
type Action struct {
	Key   string
	Label string
	Run   func(w io.Writer) error
}

// Menu is the control-centre command table.
type Menu struct {
	Title     string
	QuitKey   string
	QuitLabel string
	Actions   []Action
}

// ControlCentre returns the standard menu over center.
func ControlCentre(center *control.Center) Menu {
	return Menu{
		Title:     "CENTRE DE CONTRÔLE DE MISSION",
		QuitKey:   "0",
		QuitLabel: "Quitter",
		Actions: []Action{
			{Key: "1", Label: "Afficher toutes les missions", Run: center.Missions},
			{Key: "2", Label: "Journal de bord", Run: center.Journal},
			{Key: "3", Label: "Télémétrie", Run: center.Telemetry},
		},
	}
}

// Lookup returns the action bound to key.
func (m Menu) Lookup(key string) (Action, bool) {
	for _, a := range m.Actions {
		if a.Key == key {
			return a, true
		}
	}
	return Action{}, false
}

// Lines returns the menu entries as "key. label" lines, quit last.
func (m Menu) Lines() []string {
	lines := make([]string, 0, len(m.Actions)+1)
	for _, a := range m.Actions {
		lines = append(lines, fmt.Sprintf("%s. %s", a.Key, a.Label))
	}
	if m.QuitKey != "" {
		lines = append(lines, fmt.Sprintf("%s. %s", m.QuitKey, m.QuitLabel))
	}
	return lines
}

// errorText returns what to show for an action error, or "" when the
// action already reported it.
func errorText(err error) string {
	if err == nil || errors.Is(err, control.ErrNoData) {
		return ""
	}
	return "Erreur : " + err.Error()
}

// RunLines runs the menu as a plain prompt loop, for when stdin is not a
// terminal. It returns when the quit key is entered or input ends. Unknown
// choices are ignored, and action errors are printed without ending the
// loop.
func RunLines(in io.Reader, out io.Writer, menu Menu) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "\n%s\n", menu.Title)
		for _, l := range menu.Lines() {
			fmt.Fprintf(out, "  %s\n", l)
		}
		fmt.Fprint(out, "\nVotre choix : ")

		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		choice := strings.TrimSpace(sc.Text())
		if choice == menu.QuitKey {
			return nil
		}
		action, ok := menu.Lookup(choice)
		if !ok {
			continue
		}
		if msg := errorText(action.Run(out)); msg != "" {
			fmt.Fprintln(out, msg)
		}
	}
}
