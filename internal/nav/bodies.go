// Package nav provides navigation arithmetic between solar-system bodies:
// heliocentric distance differences, travel time at constant speed and
// surface weight.
package nav

import (
	"errors"
	"fmt"

	"github.com/litescript/ls-mission/internal/safeload"
)

// ErrUnknownBody is returned when a body name is not in the dataset.
var ErrUnknownBody = errors.New("unknown celestial body")

// Body is a solar-system reference body.
type Body struct {
	Name               string  `json:"nom"`
	DistanceFromSunMkm float64 `json:"distance_soleil_mkm"` // mean, millions of km
	SurfaceGravity     float64 `json:"gravite_m_s2"`        // m/s²
}

// Bodies is an ordered reference dataset. Lookups return the first match.
type Bodies []Body

// DefaultBodies is the built-in dataset. Satellites carry their primary's
// distance from the Sun.
var DefaultBodies = Bodies{
	{Name: "Mercury", DistanceFromSunMkm: 57.9, SurfaceGravity: 3.7},
	{Name: "Venus", DistanceFromSunMkm: 108.2, SurfaceGravity: 8.87},
	{Name: "Earth", DistanceFromSunMkm: 149.6, SurfaceGravity: 9.81},
	{Name: "Moon", DistanceFromSunMkm: 149.6, SurfaceGravity: 1.62},
	{Name: "Mars", DistanceFromSunMkm: 227.9, SurfaceGravity: 3.71},
	{Name: "Jupiter", DistanceFromSunMkm: 778.5, SurfaceGravity: 24.79},
	{Name: "Saturn", DistanceFromSunMkm: 1432.0, SurfaceGravity: 10.44},
	{Name: "Uranus", DistanceFromSunMkm: 2867.0, SurfaceGravity: 8.69},
	{Name: "Neptune", DistanceFromSunMkm: 4515.0, SurfaceGravity: 11.15},
	{Name: "Pluto", DistanceFromSunMkm: 5906.4, SurfaceGravity: 0.62},
}

// Lookup returns the first body with the given name. Names match exactly.
func (b Bodies) Lookup(name string) (Body, error) {
	for _, body := range b {
		if body.Name == name {
			return body, nil
		}
	}
	return Body{}, fmt.Errorf("%w: %q", ErrUnknownBody, name)
}

// Names returns body names in dataset order.
func (b Bodies) Names() []string {
	names := make([]string, len(b))
	for i, body := range b {
		names[i] = body.Name
	}
	return names
}

// bodiesFile is the on-disk shape of a body dataset: {"corps": [...]}.
type bodiesFile struct {
	Bodies Bodies `json:"corps"`
}

// LoadBodies reads a body dataset from path. The error keeps the safeload
// classification so callers can fall back to DefaultBodies when the file
// is absent or empty.
func LoadBodies(path string) (Bodies, error) {
	var f bodiesFile
	if err := safeload.LoadInto(path, &f); err != nil {
		return nil, err
	}
	if len(f.Bodies) == 0 {
		return nil, fmt.Errorf("%s: no bodies in dataset", path)
	}
	return f.Bodies, nil
}
