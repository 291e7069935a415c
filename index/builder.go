package index

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/fasta"
	"github.com/proteoform/thyme/peptide"
)

// Builder is the engine's configuration surface, decodable from a JSON
// parameter file. Zero-valued fields take defaults in MakeParameters.
type Builder struct {
	BucketSize            int                `json:"bucket_size"`
	PeptideMinLen         int                `json:"peptide_min_len"`
	PeptideMaxLen         int                `json:"peptide_max_len"`
	PeptideMinMass        float64            `json:"peptide_min_mass"`
	PeptideMaxMass        float64            `json:"peptide_max_mass"`
	FragmentMinMz         float64            `json:"fragment_min_mz"`
	FragmentMaxMz         float64            `json:"fragment_max_mz"`
	MissedCleavages       int                `json:"missed_cleavages"`
	DecoyPrefix           string             `json:"decoy_prefix"`
	StaticMods            map[string]float64 `json:"static_mods"`
	VariableMods          map[string]float64 `json:"variable_mods"`
	MaxVariableMods       int                `json:"max_variable_mods"`
	MaxVariantsPerPeptide int                `json:"max_variants_per_peptide"`
	Fasta                 string             `json:"fasta"`
	BuildWorkers          int                `json:"build_workers"`
}

// FromFile decodes a Builder from a JSON parameter file.
func FromFile(path string) (Builder, error) {
	var b Builder
	data, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("%w: reading parameters %s: %v", core.ErrConfig, path, err)
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return b, fmt.Errorf("%w: parsing parameters %s: %v", core.ErrConfig, path, err)
	}
	return b, nil
}

// Parameters is a validated engine configuration.
type Parameters struct {
	Builder

	applier  *peptide.Applier
	digestor *fasta.Digestor
}

// MakeParameters fills in defaults and validates the configuration. Every
// violation wraps core.ErrConfig; a broken configuration must prevent the
// index from being built at all.
func (b Builder) MakeParameters() (Parameters, error) {
	if b.BucketSize == 0 {
		b.BucketSize = 8192
	}
	if b.PeptideMinLen == 0 {
		b.PeptideMinLen = 5
	}
	if b.PeptideMaxLen == 0 {
		b.PeptideMaxLen = 50
	}
	if b.PeptideMinMass == 0 {
		b.PeptideMinMass = 500
	}
	if b.PeptideMaxMass == 0 {
		b.PeptideMaxMass = 5000
	}
	if b.FragmentMinMz == 0 {
		b.FragmentMinMz = 150
	}
	if b.FragmentMaxMz == 0 {
		b.FragmentMaxMz = 2000
	}
	if b.DecoyPrefix == "" {
		b.DecoyPrefix = "rev_"
	}
	if b.MaxVariableMods == 0 {
		b.MaxVariableMods = peptide.DefaultMaxVariableMods
	}
	if b.MaxVariantsPerPeptide == 0 {
		b.MaxVariantsPerPeptide = peptide.DefaultMaxVariants
	}
	if b.BuildWorkers == 0 {
		b.BuildWorkers = max(1, runtime.NumCPU()/2)
	}

	switch {
	case b.BucketSize < 1:
		return Parameters{}, fmt.Errorf("%w: bucket_size must be positive, got %d", core.ErrConfig, b.BucketSize)
	case b.PeptideMinLen < 1 || b.PeptideMinLen > b.PeptideMaxLen:
		return Parameters{}, fmt.Errorf("%w: peptide length bounds [%d, %d]", core.ErrConfig, b.PeptideMinLen, b.PeptideMaxLen)
	case b.PeptideMinMass <= 0 || b.PeptideMinMass > b.PeptideMaxMass:
		return Parameters{}, fmt.Errorf("%w: peptide mass bounds [%g, %g]", core.ErrConfig, b.PeptideMinMass, b.PeptideMaxMass)
	case b.FragmentMinMz <= 0 || b.FragmentMinMz >= b.FragmentMaxMz:
		return Parameters{}, fmt.Errorf("%w: fragment m/z bounds [%g, %g]", core.ErrConfig, b.FragmentMinMz, b.FragmentMaxMz)
	case b.MissedCleavages < 0:
		return Parameters{}, fmt.Errorf("%w: missed_cleavages must be non-negative, got %d", core.ErrConfig, b.MissedCleavages)
	}

	applier, err := peptide.NewApplier(b.StaticMods, b.VariableMods,
		peptide.WithMaxVariableMods(b.MaxVariableMods),
		peptide.WithMaxVariants(b.MaxVariantsPerPeptide),
	)
	if err != nil {
		return Parameters{}, err
	}

	return Parameters{
		Builder: b,
		applier: applier,
		digestor: &fasta.Digestor{
			Enzyme:          fasta.Trypsin(),
			MissedCleavages: b.MissedCleavages,
			MinLen:          b.PeptideMinLen,
			MaxLen:          b.PeptideMaxLen,
			DecoyPrefix:     b.DecoyPrefix,
		},
	}, nil
}

// Build reads the configured database and constructs the index. Invoked once
// at process startup; any error here aborts startup entirely.
func (p Parameters) Build() (*Index, error) {
	proteins, err := fasta.Open(p.Fasta)
	if err != nil {
		return nil, err
	}
	return p.BuildFromProteins(proteins)
}

// BuildFromProteins constructs the index from already-loaded proteins.
// Digestion fans out across a worker pool; the merge and sort stages are
// sequential, so the result is deterministic regardless of worker count.
func (p Parameters) BuildFromProteins(proteins []fasta.Protein) (*Index, error) {
	digested := make([][]fasta.Digest, len(proteins))

	pool, err := ants.NewPool(p.BuildWorkers)
	if err != nil {
		return nil, fmt.Errorf("%w: creating build pool: %v", core.ErrConfig, err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range proteins {
		wg.Add(1)
		prot := &proteins[i]
		slot := i
		if err := pool.Submit(func() {
			defer wg.Done()
			digested[slot] = p.digestor.Digest(prot)
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("%w: submitting digest task: %v", core.ErrConfig, err)
		}
	}
	wg.Wait()

	// Merge duplicate digests in protein order: targets dedupe against
	// targets and decoys against decoys, accumulating protein identifiers.
	type group struct {
		digest   fasta.Digest
		proteins []string
	}
	var order []string
	groups := make(map[string]*group)
	for _, ds := range digested {
		for _, d := range ds {
			key := d.Sequence
			if d.Decoy {
				key = "-" + key
			}
			g, ok := groups[key]
			if !ok {
				g = &group{digest: d}
				groups[key] = g
				order = append(order, key)
			}
			if g.digest.MissedCleavages > d.MissedCleavages {
				g.digest.MissedCleavages = d.MissedCleavages
			}
			if !contains(g.proteins, d.Protein) {
				g.proteins = append(g.proteins, d.Protein)
			}
		}
	}

	var (
		peptides []core.Peptide
		skipped  int
	)
	for _, key := range order {
		g := groups[key]
		variants, err := p.applier.Variants(g.digest)
		if err != nil {
			// Databases routinely contain ambiguity codes (X, B, Z);
			// those peptides cannot be massed and are skipped.
			skipped++
			continue
		}
		for _, v := range variants {
			if v.Monoisotopic < p.PeptideMinMass || v.Monoisotopic > p.PeptideMaxMass {
				continue
			}
			v.Proteins = append([]string(nil), g.proteins...)
			sort.Strings(v.Proteins)
			peptides = append(peptides, v)
		}
	}
	if skipped > 0 {
		slog.Debug("skipped peptides with non-standard residues", "count", skipped)
	}

	sort.SliceStable(peptides, func(i, j int) bool {
		if peptides[i].Monoisotopic != peptides[j].Monoisotopic {
			return peptides[i].Monoisotopic < peptides[j].Monoisotopic
		}
		return peptides[i].Sequence < peptides[j].Sequence
	})

	ix := &Index{peptides: peptides, params: p}
	for start := 0; start < len(peptides); start += p.BucketSize {
		end := min(start+p.BucketSize, len(peptides))
		ix.buckets = append(ix.buckets, bucket{
			lo:    peptides[start].Monoisotopic,
			hi:    peptides[end-1].Monoisotopic,
			start: start,
			end:   end,
		})
	}

	slog.Info("fragment index built",
		"proteins", len(proteins),
		"peptides", len(peptides),
		"buckets", len(ix.buckets),
		"bucket_size", p.BucketSize)
	return ix, nil
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
