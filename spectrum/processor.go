package spectrum

import (
	"sort"

	"github.com/proteoform/thyme/core"
)

// deisotopeTolPpm is the window used to pair peaks into an isotope envelope.
const deisotopeTolPpm = 10.0

// Processor turns a Raw spectrum into a Processed one. The zero value is not
// useful; construct with NewProcessor.
type Processor struct {
	// TakeTopN bounds the number of peaks kept, most intense first.
	TakeTopN int
	// MinFragmentMz and MaxFragmentMz bound the m/z window peaks are kept in.
	MinFragmentMz float64
	MaxFragmentMz float64
	// Deisotope collapses isotope envelopes to their monoisotopic peak.
	Deisotope bool
}

// NewProcessor builds a Processor with the given peak budget, fragment m/z
// window, and deisotoping policy.
func NewProcessor(takeTopN int, minMz, maxMz float64, deisotope bool) Processor {
	return Processor{
		TakeTopN:      takeTopN,
		MinFragmentMz: minMz,
		MaxFragmentMz: maxMz,
		Deisotope:     deisotope,
	}
}

type rawPeak struct {
	mz        float64
	intensity float64
	charge    int
	absorbed  bool
}

// Process validates and preprocesses a raw spectrum. The input is never
// mutated. With deisotoping disabled, every in-window peak of the input
// survives (up to the TakeTopN budget).
func (p Processor) Process(r *Raw) (*Processed, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	peaks := make([]rawPeak, 0, len(r.Mz))
	for i := range r.Mz {
		if r.Mz[i] < p.MinFragmentMz || r.Mz[i] > p.MaxFragmentMz {
			continue
		}
		peaks = append(peaks, rawPeak{mz: r.Mz[i], intensity: r.Intensity[i], charge: 1})
	}
	sort.Slice(peaks, func(i, j int) bool { return peaks[i].mz < peaks[j].mz })

	if p.Deisotope {
		deisotope(peaks, r.PrecursorCharge)
	}

	out := make([]core.Peak, 0, len(peaks))
	for _, pk := range peaks {
		if pk.absorbed {
			continue
		}
		out = append(out, core.Peak{
			Mass:      core.MzToNeutralMass(pk.mz, pk.charge),
			Intensity: pk.intensity,
		})
	}

	if p.TakeTopN > 0 && len(out) > p.TakeTopN {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Intensity > out[j].Intensity })
		out = out[:p.TakeTopN]
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mass < out[j].Mass })

	total := 0.0
	for _, pk := range out {
		total += pk.Intensity
	}

	return &Processed{
		ScanID:          r.ScanID,
		FileID:          r.FileID,
		PrecursorMz:     r.PrecursorMz,
		PrecursorCharge: r.PrecursorCharge,
		RT:              r.RT,
		Peaks:           out,
		TotalIntensity:  total,
	}, nil
}

// deisotope walks the m/z-sorted peaks and folds isotope envelopes into
// their monoisotopic peak: chains of peaks spaced by one neutron over the
// envelope charge, with non-increasing intensity. Absorbed peaks keep their
// intensity contribution; the monoisotopic peak records the envelope charge
// for neutral-mass conversion.
func deisotope(peaks []rawPeak, maxCharge int) {
	if maxCharge < 1 {
		maxCharge = 1
	}
	for i := range peaks {
		if peaks[i].absorbed {
			continue
		}
		for z := maxCharge; z >= 1; z-- {
			if chain := absorbEnvelope(peaks, i, z); chain {
				peaks[i].charge = z
				break
			}
		}
	}
}

// absorbEnvelope tries to extend an isotope chain from peak i at charge z.
// It reports whether at least one isotope peak was absorbed.
func absorbEnvelope(peaks []rawPeak, i, z int) bool {
	spacing := core.Neutron / float64(z)
	cur := i
	absorbed := false
	for {
		next, ok := findIsotope(peaks, cur, spacing)
		if !ok || peaks[next].intensity > peaks[cur].intensity {
			return absorbed
		}
		peaks[next].absorbed = true
		peaks[i].intensity += peaks[next].intensity
		cur = next
		absorbed = true
	}
}

// findIsotope locates the unabsorbed peak closest to peaks[cur].mz + spacing
// within the deisotoping tolerance.
func findIsotope(peaks []rawPeak, cur int, spacing float64) (int, bool) {
	target := peaks[cur].mz + spacing
	window := target * deisotopeTolPpm * 1e-6

	best, found := -1, false
	for j := cur + 1; j < len(peaks); j++ {
		if peaks[j].mz > target+window {
			break
		}
		if peaks[j].absorbed || peaks[j].mz < target-window {
			continue
		}
		if !found || abs(peaks[j].mz-target) < abs(peaks[best].mz-target) {
			best, found = j, true
		}
	}
	return best, found
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
