package core

import "fmt"

// Tolerance is a signed, possibly asymmetric mass window around a center
// value, expressed either in absolute daltons or in parts per million.
// Exactly one of Da or Ppm must be set; the pair is [lower, upper] and the
// lower bound is normally negative.
//
// The JSON form matches the request wire format:
//
//	{"da": [-1000.0, 1.25]}
//	{"ppm": [-10.0, 10.0]}
type Tolerance struct {
	Da  *[2]float64 `json:"da,omitempty"`
	Ppm *[2]float64 `json:"ppm,omitempty"`
}

// DaTolerance builds an absolute-mass tolerance window.
func DaTolerance(lo, hi float64) Tolerance {
	return Tolerance{Da: &[2]float64{lo, hi}}
}

// PpmTolerance builds a relative tolerance window in parts per million.
func PpmTolerance(lo, hi float64) Tolerance {
	return Tolerance{Ppm: &[2]float64{lo, hi}}
}

// Validate checks that exactly one unit is set and the bounds are ordered.
// Violations wrap ErrInput.
func (t Tolerance) Validate() error {
	switch {
	case t.Da == nil && t.Ppm == nil:
		return fmt.Errorf("%w: tolerance has no unit", ErrInput)
	case t.Da != nil && t.Ppm != nil:
		return fmt.Errorf("%w: tolerance has both da and ppm bounds", ErrInput)
	}
	lo, hi := t.raw()
	if lo > hi {
		return fmt.Errorf("%w: tolerance lower bound %g exceeds upper bound %g", ErrInput, lo, hi)
	}
	return nil
}

func (t Tolerance) raw() (lo, hi float64) {
	if t.Da != nil {
		return t.Da[0], t.Da[1]
	}
	if t.Ppm != nil {
		return t.Ppm[0], t.Ppm[1]
	}
	return 0, 0
}

// Bounds returns the absolute [lo, hi] window around center. For a ppm
// tolerance the window scales with the center mass.
func (t Tolerance) Bounds(center float64) (lo, hi float64) {
	if t.Ppm != nil {
		return center * (1 + t.Ppm[0]*1e-6), center * (1 + t.Ppm[1]*1e-6)
	}
	l, h := t.raw()
	return center + l, center + h
}

// Contains reports whether value falls inside the window around center.
func (t Tolerance) Contains(center, value float64) bool {
	lo, hi := t.Bounds(center)
	return value >= lo && value <= hi
}

func (t Tolerance) String() string {
	if t.Ppm != nil {
		return fmt.Sprintf("ppm [%g, %g]", t.Ppm[0], t.Ppm[1])
	}
	if t.Da != nil {
		return fmt.Sprintf("da [%g, %g]", t.Da[0], t.Da[1])
	}
	return "unset"
}
