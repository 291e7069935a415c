package core

import "math"

// Monoisotopic masses of the particles and neutral losses involved in
// peptide fragmentation, in unified atomic mass units.
const (
	Proton  = 1.00727646688
	Neutron = 1.00335
	H2O     = 18.010565
	NH3     = 17.026549
)

// monoisotopic holds the residue masses of the twenty proteinogenic amino
// acids, indexed by letter offset from 'A'. Ambiguity codes (B, J, O, U, X, Z)
// are left at zero and treated as unknown.
var monoisotopic = [26]float64{
	'A' - 'A': 71.03711,
	'C' - 'A': 103.00919,
	'D' - 'A': 115.02694,
	'E' - 'A': 129.04259,
	'F' - 'A': 147.06841,
	'G' - 'A': 57.02146,
	'H' - 'A': 137.05891,
	'I' - 'A': 113.08406,
	'K' - 'A': 128.09496,
	'L' - 'A': 113.08406,
	'M' - 'A': 131.04049,
	'N' - 'A': 114.04293,
	'P' - 'A': 97.05276,
	'Q' - 'A': 128.05858,
	'R' - 'A': 156.10111,
	'S' - 'A': 87.03203,
	'T' - 'A': 101.04768,
	'V' - 'A': 99.06841,
	'W' - 'A': 186.07931,
	'Y' - 'A': 163.06333,
}

// ResidueMass returns the monoisotopic mass of a single amino acid residue.
// The second return value is false for characters that are not one of the
// twenty standard residues.
func ResidueMass(r byte) (float64, bool) {
	if r < 'A' || r > 'Z' {
		return 0, false
	}
	m := monoisotopic[r-'A']
	return m, m > 0
}

// ValidResidue reports whether r is one of the twenty standard residues.
func ValidResidue(r byte) bool {
	_, ok := ResidueMass(r)
	return ok
}

// MzToNeutralMass converts an observed precursor m/z and charge state to the
// neutral monoisotopic mass of the ion.
func MzToNeutralMass(mz float64, charge int) float64 {
	return (mz - Proton) * float64(charge)
}

// NeutralMassToMz converts a neutral monoisotopic mass to the m/z it would be
// observed at for the given charge state.
func NeutralMassToMz(mass float64, charge int) float64 {
	return mass/float64(charge) + Proton
}

// PpmDelta returns the signed distance from theoretical to observed in parts
// per million.
func PpmDelta(observed, theoretical float64) float64 {
	if theoretical == 0 {
		return math.Inf(1)
	}
	return (observed - theoretical) / theoretical * 1e6
}
