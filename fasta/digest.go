package fasta

import (
	"strings"
)

// Enzyme expresses cleavage specificity as residue-pair cut rules: the bond
// after a residue in Cut is cleaved unless the following residue is in
// Restrict.
type Enzyme struct {
	Name     string
	Cut      string
	Restrict string
}

// Trypsin cuts after K or R, except before P.
func Trypsin() Enzyme {
	return Enzyme{Name: "trypsin", Cut: "KR", Restrict: "P"}
}

// Digest is one peptide candidate cut from a protein, before modification
// expansion.
type Digest struct {
	Protein         string
	Sequence        string
	MissedCleavages int
	Decoy           bool
}

// Digestor turns protein sequences into peptide candidates under an enzyme's
// cut rules, a missed-cleavage bound, and length limits. It has no state
// beyond its configuration and never mutates its input.
type Digestor struct {
	Enzyme          Enzyme
	MissedCleavages int
	MinLen          int
	MaxLen          int
	DecoyPrefix     string
}

// cleavageSites returns the boundaries of fully cleaved fragments: index 0,
// every cut position, and len(seq).
func (d *Digestor) cleavageSites(seq string) []int {
	sites := []int{0}
	for i := 0; i < len(seq)-1; i++ {
		if strings.IndexByte(d.Enzyme.Cut, seq[i]) < 0 {
			continue
		}
		if strings.IndexByte(d.Enzyme.Restrict, seq[i+1]) >= 0 {
			continue
		}
		sites = append(sites, i+1)
	}
	sites = append(sites, len(seq))
	return sites
}

// Digest produces every peptide of p within the missed-cleavage and length
// bounds, each immediately followed by its decoy counterpart. The decoy
// reverses the sequence between the first and last residue and carries the
// configured prefix on its protein identifier.
func (d *Digestor) Digest(p *Protein) []Digest {
	sites := d.cleavageSites(p.Sequence)

	var out []Digest
	for i := 0; i < len(sites)-1; i++ {
		for skip := 0; skip <= d.MissedCleavages && i+skip+1 < len(sites); skip++ {
			seq := p.Sequence[sites[i]:sites[i+skip+1]]
			if len(seq) < d.MinLen || len(seq) > d.MaxLen {
				continue
			}
			out = append(out,
				Digest{
					Protein:         p.ID,
					Sequence:        seq,
					MissedCleavages: skip,
				},
				Digest{
					Protein:         d.DecoyPrefix + p.ID,
					Sequence:        reverseInternal(seq),
					MissedCleavages: skip,
					Decoy:           true,
				},
			)
		}
	}
	return out
}

// reverseInternal reverses a sequence between its termini, keeping the first
// and last residue in place. Length and residue composition are preserved,
// so decoys inherit the target's mass.
func reverseInternal(seq string) string {
	if len(seq) < 4 {
		return seq
	}
	b := []byte(seq)
	for i, j := 1, len(b)-2; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
