package search

import (
	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/spectrum"
)

// AnnotatePeaks matches a spectrum's peaks against the theoretical fragments
// of a single peptide. As in search-time matching, each ion takes its
// nearest in-window peak, so one observed peak may annotate several ions.
//
// Processed peaks carry neutral masses, so matching is charge-independent;
// the reported m/z values are singly protonated.
func AnnotatePeaks(pep *core.Peptide, query *spectrum.Processed, tol core.Tolerance) []core.MatchedPeak {
	var out []core.MatchedPeak
	for _, ion := range core.Fragments(pep) {
		pi, ok := spectrum.ClosestPeak(query.Peaks, ion.Monoisotopic, tol)
		if !ok {
			continue
		}
		out = append(out, core.MatchedPeak{
			Mz:           core.NeutralMassToMz(query.Peaks[pi].Mass, 1),
			Intensity:    query.Peaks[pi].Intensity,
			Charge:       1,
			FragmentMz:   ion.Mz(1),
			FragmentKind: ion.Kind,
			FragmentIdx:  ion.Idx,
		})
	}
	return out
}
