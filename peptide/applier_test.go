package peptide

import (
	"errors"
	"math"
	"testing"

	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/fasta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digest(seq string) fasta.Digest {
	return fasta.Digest{Protein: "prot1", Sequence: seq}
}

func seqMass(seq string) float64 {
	m := core.H2O
	for i := 0; i < len(seq); i++ {
		r, _ := core.ResidueMass(seq[i])
		m += r
	}
	return m
}

func TestNewApplierValidation(t *testing.T) {
	t.Run("valid maps", func(t *testing.T) {
		a, err := NewApplier(
			map[string]float64{"C": 57.0215, "^": 229.1629},
			map[string]float64{"M": 15.9949},
		)
		require.NoError(t, err)
		assert.NotNil(t, a)
	})

	t.Run("non-finite static mass", func(t *testing.T) {
		_, err := NewApplier(map[string]float64{"C": math.NaN()}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrConfig))
	})

	t.Run("non-finite variable mass", func(t *testing.T) {
		_, err := NewApplier(nil, map[string]float64{"M": math.Inf(1)})
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrConfig))
	})

	t.Run("unrecognized residue symbol", func(t *testing.T) {
		for _, symbol := range []string{"X", "c", "CC", "*", ""} {
			_, err := NewApplier(map[string]float64{symbol: 1.0}, nil)
			require.Error(t, err, "symbol %q", symbol)
			assert.True(t, errors.Is(err, core.ErrConfig))
		}
	})
}

func TestVariantsStaticOnly(t *testing.T) {
	a, err := NewApplier(map[string]float64{"C": 57.0215}, nil)
	require.NoError(t, err)

	variants, err := a.Variants(digest("ACCK"))
	require.NoError(t, err)
	require.Len(t, variants, 1)

	v := variants[0]
	assert.InDelta(t, seqMass("ACCK")+2*57.0215, v.Monoisotopic, 1e-6,
		"static mods apply at every occurrence")
	require.NotNil(t, v.Mods)
	assert.InDelta(t, 57.0215, v.Mods[1], 1e-9)
	assert.InDelta(t, 57.0215, v.Mods[2], 1e-9)
	assert.Zero(t, v.Mods[0])
}

func TestVariantsTerminalStatic(t *testing.T) {
	a, err := NewApplier(map[string]float64{"^": 229.1629, "$": 2.0}, nil)
	require.NoError(t, err)

	variants, err := a.Variants(digest("KKKK"))
	require.NoError(t, err)
	require.Len(t, variants, 1)

	// Terminus mods apply once regardless of residue repetition.
	v := variants[0]
	assert.InDelta(t, seqMass("KKKK")+229.1629+2.0, v.Monoisotopic, 1e-6)
	assert.InDelta(t, 229.1629, v.Nterm, 1e-9)
	assert.InDelta(t, 2.0, v.Cterm, 1e-9)
}

func TestVariantsVariable(t *testing.T) {
	a, err := NewApplier(nil, map[string]float64{"M": 15.9949})
	require.NoError(t, err)

	variants, err := a.Variants(digest("MAMK"))
	require.NoError(t, err)

	// Base, M1, M3, M1+M3.
	require.Len(t, variants, 4)
	assert.InDelta(t, seqMass("MAMK"), variants[0].Monoisotopic, 1e-6)
	assert.InDelta(t, seqMass("MAMK")+15.9949, variants[1].Monoisotopic, 1e-6)
	assert.InDelta(t, seqMass("MAMK")+15.9949, variants[2].Monoisotopic, 1e-6)
	assert.InDelta(t, seqMass("MAMK")+2*15.9949, variants[3].Monoisotopic, 1e-6)

	// Placements are distinct positions.
	assert.InDelta(t, 15.9949, variants[1].Mods[0], 1e-9)
	assert.InDelta(t, 15.9949, variants[2].Mods[2], 1e-9)
}

func TestVariantsMaxVariableMods(t *testing.T) {
	a, err := NewApplier(nil, map[string]float64{"S": 79.9663}, WithMaxVariableMods(1))
	require.NoError(t, err)

	variants, err := a.Variants(digest("SSSK"))
	require.NoError(t, err)
	require.Len(t, variants, 4, "base plus one single placement per S")
	for _, v := range variants[1:] {
		assert.InDelta(t, seqMass("SSSK")+79.9663, v.Monoisotopic, 1e-6)
	}
}

func TestVariantsTruncatedAtCeiling(t *testing.T) {
	a, err := NewApplier(nil,
		map[string]float64{"S": 79.9663, "T": 79.9663},
		WithMaxVariableMods(3), WithMaxVariants(5),
	)
	require.NoError(t, err)

	variants, err := a.Variants(digest("STSTSTSTK"))
	require.NoError(t, err)
	assert.Len(t, variants, 5, "enumeration truncates at the ceiling")

	// Truncation is deterministic: identical input yields identical output.
	again, err := a.Variants(digest("STSTSTSTK"))
	require.NoError(t, err)
	assert.Equal(t, variants, again)
}

func TestVariantsBaseNeverMutated(t *testing.T) {
	a, err := NewApplier(map[string]float64{"C": 57.0215}, map[string]float64{"C": 15.0})
	require.NoError(t, err)

	variants, err := a.Variants(digest("ACK"))
	require.NoError(t, err)
	require.Len(t, variants, 2)

	assert.InDelta(t, 57.0215, variants[0].Mods[1], 1e-9, "base keeps static only")
	assert.InDelta(t, 57.0215+15.0, variants[1].Mods[1], 1e-9, "variable stacks on static")
}

func TestVariantsVariableTerminus(t *testing.T) {
	a, err := NewApplier(nil, map[string]float64{"^": 42.0106})
	require.NoError(t, err)

	variants, err := a.Variants(digest("GGGK"))
	require.NoError(t, err)
	require.Len(t, variants, 2, "terminus variable mod places at most once")
	assert.InDelta(t, 42.0106, variants[1].Nterm, 1e-9)
}

func TestVariantsUnknownResidue(t *testing.T) {
	a, err := NewApplier(nil, nil)
	require.NoError(t, err)

	_, err = a.Variants(digest("AXK"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownResidue))
}
