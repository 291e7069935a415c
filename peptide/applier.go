package peptide

import (
	"fmt"
	"math"
	"sort"

	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/fasta"
)

// Terminus symbols accepted in modification maps alongside single-residue
// keys.
const (
	NTermSymbol = "^"
	CTermSymbol = "$"
)

const (
	// DefaultMaxVariableMods bounds how many variable modifications may be
	// placed on one peptide at once.
	DefaultMaxVariableMods = 2

	// DefaultMaxVariants is the safety ceiling on modified variants
	// generated per peptide. Enumeration past it truncates.
	DefaultMaxVariants = 64
)

// modSite is a concrete placement slot for one variable modification:
// a residue position, or one of the termini.
type modSite struct {
	// pos is the residue index, or -1 for the N-terminus and -2 for the
	// C-terminus.
	pos  int
	mass float64
}

// Applier expands peptide candidates into modified mass variants. It is
// immutable after construction and safe for concurrent use.
type Applier struct {
	staticResidue map[byte]float64
	staticNterm   float64
	staticCterm   float64

	// variable maps each sorted symbol to its mass delta; symbols are
	// sorted so enumeration order is deterministic.
	varSymbols []string
	varMasses  map[string]float64

	maxVariableMods int
	maxVariants     int
}

// Option configures an Applier.
type Option func(*Applier) error

// WithMaxVariableMods sets the maximum number of variable-modification
// placements per peptide. Values below zero are clamped to zero.
func WithMaxVariableMods(n int) Option {
	return func(a *Applier) error {
		if n < 0 {
			n = 0
		}
		a.maxVariableMods = n
		return nil
	}
}

// WithMaxVariants sets the ceiling on variants generated per peptide.
// The base (static-only) variant always survives, so the floor is 1.
func WithMaxVariants(n int) Option {
	return func(a *Applier) error {
		if n < 1 {
			n = 1
		}
		a.maxVariants = n
		return nil
	}
}

// NewApplier validates the modification maps and builds an Applier. Keys
// must be a single standard residue letter or a terminus symbol; masses must
// be finite. Violations wrap core.ErrConfig.
func NewApplier(static, variable map[string]float64, opts ...Option) (*Applier, error) {
	a := &Applier{
		staticResidue:   make(map[byte]float64),
		varMasses:       make(map[string]float64),
		maxVariableMods: DefaultMaxVariableMods,
		maxVariants:     DefaultMaxVariants,
	}

	for symbol, mass := range static {
		if err := checkMod(symbol, mass); err != nil {
			return nil, err
		}
		switch symbol {
		case NTermSymbol:
			a.staticNterm = mass
		case CTermSymbol:
			a.staticCterm = mass
		default:
			a.staticResidue[symbol[0]] = mass
		}
	}

	for symbol, mass := range variable {
		if err := checkMod(symbol, mass); err != nil {
			return nil, err
		}
		a.varSymbols = append(a.varSymbols, symbol)
		a.varMasses[symbol] = mass
	}
	sort.Strings(a.varSymbols)

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func checkMod(symbol string, mass float64) error {
	if math.IsNaN(mass) || math.IsInf(mass, 0) {
		return fmt.Errorf("%w: modification %q has non-finite mass", core.ErrConfig, symbol)
	}
	if symbol == NTermSymbol || symbol == CTermSymbol {
		return nil
	}
	if len(symbol) != 1 || !core.ValidResidue(symbol[0]) {
		return fmt.Errorf("%w: modification symbol %q is not a residue or terminus", core.ErrConfig, symbol)
	}
	return nil
}

// Variants expands one digest into its modified peptide variants. The first
// variant carries only static modifications; further variants add variable
// placements in deterministic order (fewer placements first, then by symbol
// and position). The result is truncated at the configured ceiling.
func (a *Applier) Variants(d fasta.Digest) ([]core.Peptide, error) {
	base, err := a.base(d)
	if err != nil {
		return nil, err
	}

	sites := a.sites(d.Sequence)
	variants := []core.Peptide{base}
	if len(sites) == 0 || a.maxVariableMods == 0 {
		return variants, nil
	}

	// Enumerate placement subsets size-ascending so truncation at the
	// ceiling is deterministic: all single placements precede any pair.
	// chosen holds site indexes; each residue position or terminus hosts
	// at most one mod.
	var chosen []int
	for size := 1; size <= a.maxVariableMods && len(variants) < a.maxVariants; size++ {
		chosen = chosen[:0]
		var fixed func(start, need int)
		fixed = func(start, need int) {
			if len(variants) >= a.maxVariants {
				return
			}
			if need == 0 {
				variants = append(variants, a.place(base, sites, chosen))
				return
			}
			for i := start; i < len(sites); i++ {
				if occupied(sites, chosen, sites[i].pos) {
					continue
				}
				chosen = append(chosen, i)
				fixed(i+1, need-1)
				chosen = chosen[:len(chosen)-1]
				if len(variants) >= a.maxVariants {
					return
				}
			}
		}
		fixed(0, size)
	}

	return variants, nil
}

// base builds the static-only variant and computes its neutral mass.
func (a *Applier) base(d fasta.Digest) (core.Peptide, error) {
	var mods []float64
	mass := core.H2O + a.staticNterm + a.staticCterm

	for i := 0; i < len(d.Sequence); i++ {
		r := d.Sequence[i]
		rm, ok := core.ResidueMass(r)
		if !ok {
			return core.Peptide{}, fmt.Errorf("%w: %q at position %d", ErrUnknownResidue, r, i)
		}
		mass += rm
		if sm, ok := a.staticResidue[r]; ok {
			if mods == nil {
				mods = make([]float64, len(d.Sequence))
			}
			mods[i] = sm
			mass += sm
		}
	}

	return core.Peptide{
		Sequence:        d.Sequence,
		Proteins:        []string{d.Protein},
		Decoy:           d.Decoy,
		MissedCleavages: d.MissedCleavages,
		Nterm:           a.staticNterm,
		Cterm:           a.staticCterm,
		Mods:            mods,
		Monoisotopic:    mass,
	}, nil
}

// sites lists every placement slot for the variable modifications, in
// deterministic order: by symbol, then by position.
func (a *Applier) sites(seq string) []modSite {
	var sites []modSite
	for _, symbol := range a.varSymbols {
		mass := a.varMasses[symbol]
		switch symbol {
		case NTermSymbol:
			sites = append(sites, modSite{pos: -1, mass: mass})
		case CTermSymbol:
			sites = append(sites, modSite{pos: -2, mass: mass})
		default:
			for i := 0; i < len(seq); i++ {
				if seq[i] == symbol[0] {
					sites = append(sites, modSite{pos: i, mass: mass})
				}
			}
		}
	}
	return sites
}

func occupied(sites []modSite, chosen []int, pos int) bool {
	for _, c := range chosen {
		if sites[c].pos == pos {
			return true
		}
	}
	return false
}

// place derives a new variant from base with the chosen variable placements
// applied. base is never mutated.
func (a *Applier) place(base core.Peptide, sites []modSite, chosen []int) core.Peptide {
	v := base
	if base.Mods != nil {
		v.Mods = make([]float64, len(base.Mods))
		copy(v.Mods, base.Mods)
	}
	for _, c := range chosen {
		s := sites[c]
		switch s.pos {
		case -1:
			v.Nterm += s.mass
		case -2:
			v.Cterm += s.mass
		default:
			if v.Mods == nil {
				v.Mods = make([]float64, len(v.Sequence))
			}
			v.Mods[s.pos] += s.mass
		}
		v.Monoisotopic += s.mass
	}
	return v
}
