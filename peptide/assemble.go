package peptide

import (
	"fmt"

	"github.com/proteoform/thyme/core"
)

// Assemble builds a concrete peptide from an explicit sequence and
// modification placements, computing its neutral monoisotopic mass. mods may
// be nil or must be parallel to the sequence. This is the entry point for
// annotating a spectrum against a caller-supplied peptide rather than a
// database entry.
func Assemble(sequence string, nterm, cterm float64, mods []float64) (*core.Peptide, error) {
	if sequence == "" {
		return nil, fmt.Errorf("%w: empty sequence", core.ErrInput)
	}
	if mods != nil && len(mods) != len(sequence) {
		return nil, fmt.Errorf("%w: %d modifications for %d residues",
			core.ErrInput, len(mods), len(sequence))
	}

	mass := core.H2O + nterm + cterm
	for i := 0; i < len(sequence); i++ {
		m, ok := core.ResidueMass(sequence[i])
		if !ok {
			return nil, fmt.Errorf("%w: residue %q", ErrUnknownResidue, sequence[i])
		}
		mass += m
		if mods != nil {
			mass += mods[i]
		}
	}

	return &core.Peptide{
		Sequence:     sequence,
		Nterm:        nterm,
		Cterm:        cterm,
		Mods:         mods,
		Monoisotopic: mass,
	}, nil
}
