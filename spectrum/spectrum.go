package spectrum

import (
	"fmt"
	"math"
	"sort"

	"github.com/proteoform/thyme/core"
)

// Raw is an observed spectrum as received from a caller or a peak list
// file: parallel m/z and intensity arrays that need not be sorted.
// One Raw exists per request or per stored scan; it is never shared.
type Raw struct {
	ScanID          int       `json:"scan"`
	FileID          core.ID   `json:"file_id"`
	Title           string    `json:"title,omitempty"`
	PrecursorMz     float64   `json:"precursor_mz"`
	PrecursorCharge int       `json:"precursor_charge"`
	RT              float64   `json:"rt"`
	Mz              []float64 `json:"mz"`
	Intensity       []float64 `json:"intensity"`
}

// Validate checks the request-level invariants. Violations wrap
// core.ErrInput; a spectrum with zero peaks is valid and simply produces an
// empty result downstream.
func (r *Raw) Validate() error {
	if len(r.Mz) != len(r.Intensity) {
		return fmt.Errorf("%w: mz and intensity lengths differ (%d vs %d)",
			core.ErrInput, len(r.Mz), len(r.Intensity))
	}
	if r.PrecursorCharge <= 0 {
		return fmt.Errorf("%w: precursor charge must be positive, got %d", core.ErrInput, r.PrecursorCharge)
	}
	if r.PrecursorMz <= 0 || math.IsNaN(r.PrecursorMz) || math.IsInf(r.PrecursorMz, 0) {
		return fmt.Errorf("%w: precursor m/z must be a positive finite number, got %g", core.ErrInput, r.PrecursorMz)
	}
	for i, mz := range r.Mz {
		if mz <= 0 || math.IsNaN(mz) || math.IsInf(mz, 0) {
			return fmt.Errorf("%w: peak %d has invalid m/z %g", core.ErrInput, i, mz)
		}
	}
	return nil
}

// Processed is a preprocessed spectrum ready for matching: peaks hold
// neutral fragment masses, strictly sorted, with a precomputed intensity
// total for the matched-intensity feature.
type Processed struct {
	ScanID          int         `json:"scan"`
	FileID          core.ID     `json:"file_id"`
	PrecursorMz     float64     `json:"precursor_mz"`
	PrecursorCharge int         `json:"precursor_charge"`
	RT              float64     `json:"rt"`
	Peaks           []core.Peak `json:"peaks"`
	TotalIntensity  float64     `json:"total_intensity"`
}

// PrecursorMass returns the neutral monoisotopic mass implied by the
// precursor m/z and charge.
func (p *Processed) PrecursorMass() float64 {
	return core.MzToNeutralMass(p.PrecursorMz, p.PrecursorCharge)
}

// ClosestPeak returns the index of the peak nearest to mass among those
// inside the tolerance window, or false when no peak qualifies. Peaks must
// be sorted by mass ascending.
func ClosestPeak(peaks []core.Peak, mass float64, tol core.Tolerance) (int, bool) {
	lo, hi := tol.Bounds(mass)
	start := sort.Search(len(peaks), func(i int) bool { return peaks[i].Mass >= lo })

	best, found := -1, false
	for i := start; i < len(peaks) && peaks[i].Mass <= hi; i++ {
		if !found || math.Abs(peaks[i].Mass-mass) < math.Abs(peaks[best].Mass-mass) {
			best, found = i, true
		}
	}
	return best, found
}
