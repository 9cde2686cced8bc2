// Package telemetry models the flight telemetry feed.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/litescript/ls-mission/internal/safeload"
)

// StatusNominal is the only subsystem status that does not raise an alert.
const StatusNominal = "nominal"

// Reading is one telemetry sample.
type Reading struct {
	Phase      string            `json:"phase"`
	AltitudeKm float64           `json:"altitude_km"`
	SpeedKmS   float64           `json:"vitesse_km_s"`
	FuelPct    float64           `json:"carburant_pct"`
	Systems    map[string]string `json:"systemes"` // subsystem -> status
}

// Alerts returns the subsystems whose status is not nominal, sorted by name.
func (r Reading) Alerts() []string {
	var alerts []string
	for name, status := range r.Systems {
		if status != StatusNominal {
			alerts = append(alerts, name)
		}
	}
	sort.Strings(alerts)
	return alerts
}

// Feed is the telemetry document: {"releves": [...]}.
type Feed struct {
	Readings []Reading
}

// UnmarshalJSON implements json.Unmarshaler. A document without a
// "releves" key is rejected; "releves": null is an empty feed.
func (f *Feed) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	list, ok := raw["releves"]
	if !ok {
		return errors.New(`telemetry has no "releves" key`)
	}

	var readings []Reading
	if err := json.Unmarshal(list, &readings); err != nil {
		return fmt.Errorf("releves: %w", err)
	}
	f.Readings = readings
	return nil
}

// Load reads the feed at path. Errors carry the safeload classification.
func Load(path string) (*Feed, error) {
	var f Feed
	if err := safeload.LoadInto(path, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Degraded returns the readings with at least one alert, in feed order.
func (f *Feed) Degraded() []Reading {
	if f == nil {
		return nil
	}
	var out []Reading
	for _, r := range f.Readings {
		if len(r.Alerts()) > 0 {
			out = append(out, r)
		}
	}
	return out
}
