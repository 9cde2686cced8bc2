package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/litescript/ls-mission/internal/safeload"
)

const sampleFeed = `{
  "releves": [
    {"phase": "Lancement", "altitude_km": 0, "vitesse_km_s": 0, "carburant_pct": 100,
     "systemes": {"propulsion": "nominal", "navigation": "nominal"}},
    {"phase": "Orbite basse", "altitude_km": 408, "vitesse_km_s": 7.66, "carburant_pct": 62.5,
     "systemes": {"propulsion": "nominal", "thermique": "degrade", "communication": "panne"}}
  ]
}`

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "telemetrie.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	feed, err := Load(writeFeed(t, sampleFeed))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(feed.Readings) != 2 {
		t.Fatalf("Readings = %d, want 2", len(feed.Readings))
	}

	r := feed.Readings[1]
	if r.Phase != "Orbite basse" || r.AltitudeKm != 408 || r.SpeedKmS != 7.66 || r.FuelPct != 62.5 {
		t.Errorf("reading = %+v", r)
	}
}

func TestReading_Alerts(t *testing.T) {
	feed, err := Load(writeFeed(t, sampleFeed))
	if err != nil {
		t.Fatal(err)
	}

	if got := feed.Readings[0].Alerts(); len(got) != 0 {
		t.Errorf("nominal reading alerts = %v, want none", got)
	}
	want := []string{"communication", "thermique"}
	if diff := cmp.Diff(want, feed.Readings[1].Alerts()); diff != "" {
		t.Errorf("Alerts() mismatch (-want +got):\n%s", diff)
	}
}

func TestFeed_Degraded(t *testing.T) {
	feed, err := Load(writeFeed(t, sampleFeed))
	if err != nil {
		t.Fatal(err)
	}
	degraded := feed.Degraded()
	if len(degraded) != 1 || degraded[0].Phase != "Orbite basse" {
		t.Errorf("Degraded() = %+v", degraded)
	}

	var nilFeed *Feed
	if nilFeed.Degraded() != nil {
		t.Error("Degraded() on nil feed should be nil")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"empty", "", safeload.ErrEmptyContent},
		{"malformed", "{invalid", safeload.ErrMalformedContent},
		{"missing key", `{"readings": []}`, safeload.ErrMalformedContent},
		{"bad reading", `{"releves": [{"phase": 3}]}`, safeload.ErrMalformedContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFeed(t, tt.content))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, safeload.ErrNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrNotFound", err)
	}
}

func TestLoad_NullReadings(t *testing.T) {
	feed, err := Load(writeFeed(t, `{"releves": null}`))
	if err != nil {
		t.Fatalf("Load() error = %v, want an empty feed", err)
	}
	if len(feed.Readings) != 0 {
		t.Errorf("Readings = %+v, want none", feed.Readings)
	}
}
