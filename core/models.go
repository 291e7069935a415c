package core

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for spectra and source files, generated by
// content-based hashing so that identical input always maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// IonKind identifies a backbone fragment ion series.
type IonKind uint8

const (
	// IonB is the N-terminal fragment series.
	IonB IonKind = iota
	// IonY is the C-terminal fragment series.
	IonY
)

func (k IonKind) String() string {
	switch k {
	case IonB:
		return "B"
	case IonY:
		return "Y"
	}
	return fmt.Sprintf("IonKind(%d)", uint8(k))
}

// MarshalJSON renders the kind as the series letter, matching the wire format
// consumed by annotation clients.
func (k IonKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON parses the series letter form.
func (k *IonKind) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"B"`:
		*k = IonB
	case `"Y"`:
		*k = IonY
	default:
		return fmt.Errorf("%w: ion kind %s", ErrInput, data)
	}
	return nil
}

// Peak is a single processed fragment peak. Mass is the inferred neutral
// monoisotopic mass of the fragment, not the raw m/z.
type Peak struct {
	Mass      float64 `json:"mass"`
	Intensity float64 `json:"intensity"`
}

// Peptide is one modified peptide variant: a digested subsequence of a
// protein together with a concrete combination of static and variable
// modification masses. Peptides are immutable once built and owned by the
// fragment index; multiple variants may share the same sequence.
type Peptide struct {
	// Sequence is the residue string, N- to C-terminus.
	Sequence string

	// Proteins lists the identifiers of every protein this peptide was
	// digested from. Decoy entries carry the configured decoy prefix.
	Proteins []string

	// Decoy marks a reversed (non-biological) entry.
	Decoy bool

	// MissedCleavages counts internal cleavage sites left uncut.
	MissedCleavages int

	// Nterm and Cterm are terminus modification masses, zero when absent.
	Nterm float64
	Cterm float64

	// Mods holds a per-residue modification mass, parallel to Sequence.
	// Nil for an unmodified peptide.
	Mods []float64

	// Monoisotopic is the neutral mass of the variant, including water and
	// every modification.
	Monoisotopic float64
}

// Label returns -1 for decoy peptides and 1 for targets.
func (p *Peptide) Label() int {
	if p.Decoy {
		return -1
	}
	return 1
}

// ProteinList joins the protein identifiers into the reporting form.
func (p *Peptide) ProteinList() string {
	return strings.Join(p.Proteins, ";")
}

// residue returns the mass of position i including its modification.
func (p *Peptide) residue(i int) float64 {
	m, _ := ResidueMass(p.Sequence[i])
	if p.Mods != nil {
		m += p.Mods[i]
	}
	return m
}

// MatchedPeak annotates one observed peak explained by a theoretical
// fragment ion of a specific peptide.
type MatchedPeak struct {
	Mz           float64 `json:"mz"`
	Intensity    float64 `json:"intensity"`
	Charge       int     `json:"charge"`
	FragmentMz   float64 `json:"fragment_mz"`
	FragmentKind IonKind `json:"fragment_kind"`
	FragmentIdx  int     `json:"fragment_idx"`
}

// PSM is one scored peptide-spectrum match. A search returns the top-N PSMs
// ranked by descending hyperscore; every field is final at creation and the
// record is never shared across requests.
//
// DiscriminantScore, PosteriorError and QValue are not computed by this
// engine; they are emitted with neutral defaults for downstream statistical
// consumers to populate.
type PSM struct {
	SpecID     ID     `json:"specid"`
	FileID     ID     `json:"file_id"`
	ScanNr     int    `json:"scannr"`
	Peptide    string `json:"peptide"`
	PeptideLen int    `json:"peptide_len"`
	Proteins   string `json:"proteins"`
	// Label is 1 for a target match and -1 for a decoy match.
	Label  int     `json:"label"`
	Charge int     `json:"charge"`
	RT     float64 `json:"rt"`

	// ExpMass is the observed neutral precursor mass, CalcMass the
	// candidate's theoretical neutral mass.
	ExpMass  float64 `json:"expmass"`
	CalcMass float64 `json:"calcmass"`
	// DeltaMass is the precursor error in ppm after isotope correction.
	DeltaMass float64 `json:"delta_mass"`
	// IsotopeError is the number of neutron offsets applied to the observed
	// precursor mass for this match.
	IsotopeError int `json:"isotope_error"`

	Hyperscore float64 `json:"hyperscore"`
	// DeltaNext is the hyperscore gap to the next-ranked PSM, DeltaBest the
	// gap to the top-ranked PSM (zero for rank 1).
	DeltaNext float64 `json:"delta_next"`
	DeltaBest float64 `json:"delta_best"`
	// Rank is 1-based within the spectrum, after sorting by hyperscore.
	Rank int `json:"rank"`

	MatchedPeaks int `json:"matched_peaks"`
	LongestB     int `json:"longest_b"`
	LongestY     int `json:"longest_y"`
	// LongestRunPct is the longer of the two ion runs as a fraction of
	// peptide length.
	LongestRunPct       float64 `json:"longest_run_pct"`
	MatchedIntensityPct float64 `json:"matched_intensity_pct"`
	// ScoredCandidates is the number of candidates scored for this
	// precursor hypothesis.
	ScoredCandidates int     `json:"scored_candidates"`
	Poisson          float64 `json:"poisson"`

	// Hypothesis is 0 for the primary precursor and 1 for the chimeric
	// second precursor.
	Hypothesis int `json:"hypothesis"`

	DiscriminantScore float64 `json:"discriminant_score"`
	PosteriorError    float64 `json:"posterior_error"`
	QValue            float64 `json:"q_value"`
}
