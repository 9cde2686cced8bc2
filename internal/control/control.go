// Package control runs the mission-control tasks over a configured data
// root: reports, archiving, catalog edits and navigation figures.
//
// Loader failures stop at this boundary. They are turned into a message on
// the task's writer and the task returns ErrNoData, so an interactive loop
// can keep going while a one-shot command can still exit non-zero.
package control

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/litescript/ls-mission/internal/config"
	"github.com/litescript/ls-mission/internal/journal"
	"github.com/litescript/ls-mission/internal/logging"
	"github.com/litescript/ls-mission/internal/mission"
	"github.com/litescript/ls-mission/internal/nav"
	"github.com/litescript/ls-mission/internal/report"
	"github.com/litescript/ls-mission/internal/safeload"
	"github.com/litescript/ls-mission/internal/telemetry"
	"github.com/litescript/ls-mission/internal/workspace"
)

// ErrNoData is returned by a task whose input could not be loaded. The
// reason has already been written to the task's output.
var ErrNoData = errors.New("no data")

// Center runs tasks against one data root.
type Center struct {
	cfg    config.Config
	logger *logging.Logger
	now    func() time.Time
}

// Option configures a Center.
type Option func(*Center)

// WithClock sets the clock used for archive dates.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		c.now = now
	}
}

// New creates a Center for cfg.
func New(cfg config.Config, logger *logging.Logger, opts ...Option) *Center {
	c := &Center{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c
}

// Config returns the configuration the center runs with.
func (c *Center) Config() config.Config {
	return c.cfg
}

// Store returns the mission store for the configured catalog.
func (c *Center) Store() *mission.Store {
	return mission.NewStore(c.cfg.MissionsPath())
}

// Journal reports the log entry count and its alert lines, and writes the
// alert lines to the alerts file.
func (c *Center) Journal(w io.Writer) error {
	path := c.cfg.JournalPath()
	lines, err := journal.Read(path)
	if err != nil {
		return c.reportLoadError(w, path, err)
	}

	alerts := journal.Alerts(lines)
	alertsPath := c.cfg.AlertsPath()
	if err := journal.WriteAlerts(alertsPath, alerts); err != nil {
		return err
	}
	c.logger.Debug("Journal: %d lines, %d alerts written to %s", len(lines), len(alerts), alertsPath)

	report.WriteJournal(w, len(lines), alerts, alertsPath)
	return nil
}

// Explore lists the data root and creates the reports and archives
// directories when missing.
func (c *Center) Explore(w io.Writer) error {
	files, err := workspace.List(c.cfg.Root)
	if err != nil {
		if errors.Is(err, safeload.ErrNotFound) {
			fmt.Fprintf(w, "Dossier introuvable : %s\n", c.cfg.Root)
			return ErrNoData
		}
		return err
	}

	created, err := workspace.EnsureDirs(c.cfg.Root, c.cfg.Dirs.Reports, c.cfg.Dirs.Archives)
	for _, name := range created {
		c.logger.Info("Created %s", c.cfg.Path(name))
	}
	report.WriteFiles(w, c.cfg.Root, files, created)
	return err
}

// Missions prints the catalog and its aggregates.
func (c *Center) Missions(w io.Writer) error {
	path := c.cfg.MissionsPath()
	catalog, err := c.Store().Load()
	if err != nil {
		return c.reportLoadError(w, path, err)
	}
	c.logger.Debug("Loaded %d missions from %s", len(catalog.Missions), path)

	report.WriteMissions(w, catalog)
	return nil
}

// Telemetry prints the telemetry table.
func (c *Center) Telemetry(w io.Writer) error {
	path := c.cfg.TelemetryPath()
	feed, err := telemetry.Load(path)
	if err != nil {
		return c.reportLoadError(w, path, err)
	}
	if degraded := feed.Degraded(); len(degraded) > 0 {
		c.logger.Warn("Telemetry: %d of %d readings report degraded subsystems", len(degraded), len(feed.Readings))
	}

	report.WriteTelemetry(w, feed)
	return nil
}

// Archive copies the log into the archives directory under today's date.
func (c *Center) Archive(w io.Writer) (string, error) {
	src := c.cfg.JournalPath()
	dest, err := journal.Archive(src, c.cfg.ArchivesPath(), c.now())
	if err != nil {
		return "", c.reportLoadError(w, src, err)
	}
	c.logger.Info("Archived %s to %s", src, dest)

	report.WriteArchive(w, dest)
	return dest, nil
}

// AddMission appends m to the catalog file. ErrDuplicateID is returned to
// the caller untouched.
func (c *Center) AddMission(w io.Writer, m mission.Mission) error {
	if _, err := c.Store().Add(m); err != nil {
		if isLoadError(err) {
			return c.reportLoadError(w, c.cfg.MissionsPath(), err)
		}
		return err
	}
	c.logger.Info("Mission %s added to %s", m.ID, c.cfg.MissionsPath())

	report.WriteMissionAdded(w, m.ID)
	return nil
}

// RemoveMission deletes every mission with the given id from the catalog
// file. An unknown id is not an error.
func (c *Center) RemoveMission(w io.Writer, id mission.ID) error {
	_, removed, err := c.Store().Remove(id)
	if err != nil {
		if isLoadError(err) {
			return c.reportLoadError(w, c.cfg.MissionsPath(), err)
		}
		return err
	}
	c.logger.Info("Mission %s: %d record(s) removed from %s", id, removed, c.cfg.MissionsPath())

	report.WriteMissionRemoved(w, id, removed)
	return nil
}

// Bodies returns the celestial body dataset: the configured file when it
// exists and loads, the built-in dataset otherwise.
func (c *Center) Bodies() nav.Bodies {
	path := c.cfg.BodiesPath()
	if path == "" {
		return nav.DefaultBodies
	}

	bodies, err := nav.LoadBodies(path)
	switch {
	case err == nil:
		c.logger.Debug("Loaded %d bodies from %s", len(bodies), path)
		return bodies
	case errors.Is(err, safeload.ErrNotFound):
		c.logger.Debug("No body dataset at %s, using built-in bodies", path)
	default:
		c.logger.Warn("Ignoring body dataset: %v", err)
	}
	return nav.DefaultBodies
}

// Distance prints the distance between bodies a and b.
func (c *Center) Distance(w io.Writer, a, b string) (float64, error) {
	d, err := nav.Distance(a, b, c.Bodies())
	if err != nil {
		return 0, err
	}
	report.WriteDistance(w, a, b, d)
	return d, nil
}

// TravelTime prints the days needed to cover distanceMkm at speedKmS.
func (c *Center) TravelTime(w io.Writer, distanceMkm, speedKmS float64) (float64, error) {
	days, err := nav.TravelTime(distanceMkm, speedKmS)
	if err != nil {
		return 0, err
	}
	report.WriteTravelTime(w, distanceMkm, speedKmS, days)
	return days, nil
}

// Weight prints the weight of massKg under gravity.
func (c *Center) Weight(w io.Writer, massKg, gravity float64) float64 {
	newtons := nav.SurfaceWeight(massKg, gravity)
	report.WriteWeight(w, massKg, gravity, newtons, "")
	return newtons
}

// WeightOn prints the weight of massKg on the named body.
func (c *Center) WeightOn(w io.Writer, massKg float64, name string) (float64, error) {
	body, err := c.Bodies().Lookup(name)
	if err != nil {
		return 0, err
	}
	newtons := nav.SurfaceWeight(massKg, body.SurfaceGravity)
	report.WriteWeight(w, massKg, body.SurfaceGravity, newtons, body.Name)
	return newtons, nil
}

func isLoadError(err error) bool {
	return errors.Is(err, safeload.ErrNotFound) ||
		errors.Is(err, safeload.ErrEmptyContent) ||
		errors.Is(err, safeload.ErrMalformedContent)
}

// reportLoadError writes the user-facing message for a loader failure and
// returns ErrNoData. Other errors pass through unchanged.
func (c *Center) reportLoadError(w io.Writer, path string, err error) error {
	var malformed *safeload.MalformedError
	switch {
	case errors.Is(err, safeload.ErrNotFound):
		fmt.Fprintf(w, "Fichier introuvable : %s\n", path)
	case safeload.IsSoft(err):
		fmt.Fprintf(w, "Fichier vide : %s\n", path)
	case errors.As(err, &malformed) && malformed.HasPosition():
		fmt.Fprintf(w, "JSON invalide dans %s : %s (ligne %d, colonne %d)\n",
			path, malformed.Msg, malformed.Line, malformed.Column)
	case errors.As(err, &malformed):
		fmt.Fprintf(w, "JSON invalide dans %s : %s\n", path, malformed.Msg)
	default:
		return err
	}
	c.logger.Debug("Load %s: %v", path, err)
	return ErrNoData
}
