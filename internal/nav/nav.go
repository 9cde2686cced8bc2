package nav

import (
	"errors"
	"fmt"
	"math"
)

// ErrDivisionByZero is returned by TravelTime for a speed that is zero or
// negative.
var ErrDivisionByZero = errors.New("speed must be positive")

const (
	kmPerMillionKm = 1e6
	secondsPerDay  = 86400
)

// Distance returns the absolute difference between the Sun distances of
// bodies a and b, in millions of km. This is the distance at closest
// alignment, not an orbital transfer length.
func Distance(a, b string, bodies Bodies) (float64, error) {
	bodyA, err := bodies.Lookup(a)
	if err != nil {
		return 0, err
	}
	bodyB, err := bodies.Lookup(b)
	if err != nil {
		return 0, err
	}
	return math.Abs(bodyA.DistanceFromSunMkm - bodyB.DistanceFromSunMkm), nil
}

// TravelTime returns the days needed to cover distanceMkm (millions of km)
// at a constant speedKmS (km/s).
func TravelTime(distanceMkm, speedKmS float64) (float64, error) {
	if speedKmS <= 0 {
		return 0, fmt.Errorf("%w: got %g km/s", ErrDivisionByZero, speedKmS)
	}
	seconds := distanceMkm * kmPerMillionKm / speedKmS
	return seconds / secondsPerDay, nil
}

// SurfaceWeight returns the weight in newtons of massKg under gravity
// (m/s²). Signs are not checked.
func SurfaceWeight(massKg, gravity float64) float64 {
	return massKg * gravity
}

// WeightOn returns the weight of massKg on the named body.
func WeightOn(massKg float64, name string, bodies Bodies) (float64, error) {
	body, err := bodies.Lookup(name)
	if err != nil {
		return 0, err
	}
	return SurfaceWeight(massKg, body.SurfaceGravity), nil
}
