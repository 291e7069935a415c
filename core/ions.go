package core

import "iter"

// Ion is a theoretical fragment ion of a peptide. Monoisotopic is the
// neutral fragment mass; Idx is the 1-based ion number counted from the
// series' own terminus (b1..b(n-1), y1..y(n-1)).
type Ion struct {
	Kind         IonKind
	Idx          int
	Monoisotopic float64
}

// Mz returns the ion's m/z at the given charge state.
func (i Ion) Mz(charge int) float64 {
	return NeutralMassToMz(i.Monoisotopic, charge)
}

// IonSeries yields the theoretical fragment ions of one series for a
// peptide, in increasing cleavage position. Masses are monotonic within a
// series: each ion adds one residue to the previous one.
func IonSeries(p *Peptide, kind IonKind) iter.Seq[Ion] {
	return func(yield func(Ion) bool) {
		n := len(p.Sequence)
		if n < 2 {
			return
		}
		switch kind {
		case IonB:
			mass := p.Nterm
			for i := 0; i < n-1; i++ {
				mass += p.residue(i)
				if !yield(Ion{Kind: IonB, Idx: i + 1, Monoisotopic: mass}) {
					return
				}
			}
		case IonY:
			mass := p.Cterm + H2O
			for i := 0; i < n-1; i++ {
				mass += p.residue(n - 1 - i)
				if !yield(Ion{Kind: IonY, Idx: i + 1, Monoisotopic: mass}) {
					return
				}
			}
		}
	}
}

// Fragments collects both ion series of a peptide, b-ions first. The result
// is used as the theoretical spectrum during matching.
func Fragments(p *Peptide) []Ion {
	n := len(p.Sequence)
	if n < 2 {
		return nil
	}
	ions := make([]Ion, 0, 2*(n-1))
	for _, kind := range []IonKind{IonB, IonY} {
		for ion := range IonSeries(p, kind) {
			ions = append(ions, ion)
		}
	}
	return ions
}
