// Package report renders mission data as printable text tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/litescript/ls-mission/internal/mission"
	"github.com/litescript/ls-mission/internal/telemetry"
	"github.com/litescript/ls-mission/internal/workspace"
)

// Styles for report output
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E84A27"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))
)

const ruleWidth = 78

// Numbers use comma thousands separators, like "12,500.5".
var printer = message.NewPrinter(language.English)

// FormatNumber groups thousands and keeps at most two decimals.
func FormatNumber(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

func rule(w io.Writer) {
	fmt.Fprintln(w, mutedStyle.Render(strings.Repeat("─", ruleWidth)))
}

// WriteJournal writes the log summary and its alert lines.
func WriteJournal(w io.Writer, entries int, alerts []string, alertsPath string) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Journal de bord : %d entrées", entries)))
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("--- Alertes détectées (%d) ---", len(alerts))))
	for _, a := range alerts {
		fmt.Fprintln(w, alertStyle.Render(strings.TrimSpace(a)))
	}
	if alertsPath != "" {
		fmt.Fprintf(w, "Fichier %s créé.\n", alertsPath)
	}
}

// WriteFiles writes the data directory listing and the subdirectories that
// were just created.
func WriteFiles(w io.Writer, root string, files []workspace.File, created []string) {
	fmt.Fprintln(w, titleStyle.Render("Contenu de "+root))
	if len(files) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  (aucun fichier)"))
	}
	for _, f := range files {
		fmt.Fprintf(w, "  %-24s (%.1f Ko)\n", f.Name, f.SizeKiB())
	}
	for _, name := range created {
		fmt.Fprintf(w, "  %s/ [créé]\n", name)
	}
}

// MissionLine formats one catalog entry.
func MissionLine(m mission.Mission) string {
	return fmt.Sprintf("[%s] %s → %s | %s jours | Équipage : %d | Budget : %s M$",
		m.ID, m.Name, m.Destination, FormatNumber(m.DurationDays), len(m.Crew), FormatNumber(m.BudgetMillionsUSD))
}

// WriteMissions writes every mission followed by the catalog aggregates.
func WriteMissions(w io.Writer, c *mission.Catalog) {
	fmt.Fprintln(w, titleStyle.Render("Catalogue des missions"))
	rule(w)

	if c == nil || len(c.Missions) == 0 {
		fmt.Fprintln(w, "Aucune mission")
		return
	}
	for _, m := range c.Missions {
		fmt.Fprintln(w, MissionLine(m))
	}
	rule(w)
	WriteSummary(w, mission.Aggregate(c))
}

// WriteSummary writes the budget total and duration extremes.
func WriteSummary(w io.Writer, s mission.Summary) {
	fmt.Fprintf(w, "Budget total : %s M$\n", FormatNumber(s.TotalBudget))
	if s.Longest != nil {
		fmt.Fprintf(w, "Mission la plus longue : %s (%s jours)\n", s.Longest.Name, FormatNumber(s.Longest.DurationDays))
	}
	if s.Shortest != nil {
		fmt.Fprintf(w, "Mission la plus courte : %s (%s jours)\n", s.Shortest.Name, FormatNumber(s.Shortest.DurationDays))
	}
}

// WriteTelemetry writes one row per reading. Readings without alerts show
// "-" in the last column.
func WriteTelemetry(w io.Writer, feed *telemetry.Feed) {
	header := fmt.Sprintf("%-20s | %15s | %10s | %9s | %s", "Phase", "Altitude", "Vitesse", "Carburant", "Alertes")
	fmt.Fprintln(w, headerStyle.Render(header))
	fmt.Fprintf(w, "%s|%s|%s|%s|%s\n",
		strings.Repeat("-", 21), strings.Repeat("-", 17), strings.Repeat("-", 12), strings.Repeat("-", 11), strings.Repeat("-", 8))

	if feed == nil || len(feed.Readings) == 0 {
		fmt.Fprintln(w, "Aucun relevé")
		return
	}

	for _, r := range feed.Readings {
		alerts := "-"
		if names := r.Alerts(); len(names) > 0 {
			alerts = alertStyle.Render(strings.Join(names, ", "))
		}
		fmt.Fprintf(w, "%-20s | %15s | %10s | %9s | %s\n",
			truncateStr(r.Phase, 20),
			FormatNumber(r.AltitudeKm)+" km",
			FormatNumber(r.SpeedKmS)+" km/s",
			FormatNumber(r.FuelPct)+"%",
			alerts,
		)
	}
}

// WriteArchive reports a completed archive copy.
func WriteArchive(w io.Writer, dest string) {
	fmt.Fprintf(w, "Copie archivée : %s\n", dest)
}

// WriteMissionAdded reports a successful add.
func WriteMissionAdded(w io.Writer, id mission.ID) {
	fmt.Fprintf(w, "Mission %s ajoutée.\n", id)
}

// WriteMissionRemoved reports a remove. Removing nothing is still reported.
func WriteMissionRemoved(w io.Writer, id mission.ID, removed int) {
	if removed == 0 {
		fmt.Fprintf(w, "Mission %s absente, catalogue inchangé.\n", id)
		return
	}
	fmt.Fprintf(w, "Mission %s supprimée.\n", id)
}

// WriteDistance reports the distance between two bodies.
func WriteDistance(w io.Writer, a, b string, mkm float64) {
	fmt.Fprintf(w, "Distance %s ↔ %s : %s millions de km\n", a, b, FormatNumber(mkm))
}

// WriteTravelTime reports a travel time.
func WriteTravelTime(w io.Writer, mkm, speedKmS, days float64) {
	fmt.Fprintf(w, "Trajet de %s millions de km à %s km/s : %s jours\n",
		FormatNumber(mkm), FormatNumber(speedKmS), FormatNumber(days))
}

// WriteWeight reports a surface weight. body may be empty when the gravity
// was given directly.
func WriteWeight(w io.Writer, massKg, gravity, newtons float64, body string) {
	where := fmt.Sprintf("sous %s m/s²", FormatNumber(gravity))
	if body != "" {
		where = fmt.Sprintf("sur %s (%s m/s²)", body, FormatNumber(gravity))
	}
	fmt.Fprintf(w, "Poids de %s kg %s : %s N\n", FormatNumber(massKg), where, FormatNumber(newtons))
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
