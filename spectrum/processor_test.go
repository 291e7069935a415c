package spectrum

import (
	"errors"
	"testing"

	"github.com/proteoform/thyme/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() *Raw {
	return &Raw{
		ScanID:          30091,
		PrecursorMz:     1051.0995,
		PrecursorCharge: 3,
		RT:              1800.5,
		Mz:              []float64{500.0, 300.0, 700.0, 400.0},
		Intensity:       []float64{10, 20, 30, 40},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Raw)
	}{
		{"mismatched lengths", func(r *Raw) { r.Intensity = r.Intensity[:2] }},
		{"zero charge", func(r *Raw) { r.PrecursorCharge = 0 }},
		{"negative charge", func(r *Raw) { r.PrecursorCharge = -2 }},
		{"zero precursor mz", func(r *Raw) { r.PrecursorMz = 0 }},
		{"negative peak mz", func(r *Raw) { r.Mz[1] = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRaw()
			tt.mutate(r)
			err := r.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInput))
		})
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validRaw().Validate())
	})

	t.Run("empty peak list is valid", func(t *testing.T) {
		r := validRaw()
		r.Mz, r.Intensity = nil, nil
		assert.NoError(t, r.Validate())
	})
}

func TestProcessSortsAndConverts(t *testing.T) {
	proc := NewProcessor(150, 150, 2000, false)
	got, err := proc.Process(validRaw())
	require.NoError(t, err)

	require.Len(t, got.Peaks, 4)
	prev := 0.0
	for _, pk := range got.Peaks {
		assert.Greater(t, pk.Mass, prev, "peaks sorted by mass")
		prev = pk.Mass
	}
	// First peak is 300 m/z at charge 1.
	assert.InDelta(t, 300.0-core.Proton, got.Peaks[0].Mass, 1e-9)
	assert.InDelta(t, 100.0, got.TotalIntensity, 1e-9)
}

func TestProcessDeterministic(t *testing.T) {
	proc := NewProcessor(150, 150, 2000, true)
	a, err := proc.Process(validRaw())
	require.NoError(t, err)
	b, err := proc.Process(validRaw())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProcessWithoutDeisotopePreservesPeakCount(t *testing.T) {
	raw := validRaw()
	proc := NewProcessor(0, 150, 2000, false)
	got, err := proc.Process(raw)
	require.NoError(t, err)
	assert.Len(t, got.Peaks, len(raw.Mz), "deisotope off leaves the peak count unchanged")
}

func TestProcessFragmentWindow(t *testing.T) {
	raw := validRaw()
	raw.Mz = append(raw.Mz, 100.0, 2500.0)
	raw.Intensity = append(raw.Intensity, 5, 5)

	proc := NewProcessor(0, 150, 2000, false)
	got, err := proc.Process(raw)
	require.NoError(t, err)
	assert.Len(t, got.Peaks, 4, "peaks outside the fragment m/z window are dropped")
}

func TestProcessTakeTopN(t *testing.T) {
	proc := NewProcessor(2, 150, 2000, false)
	got, err := proc.Process(validRaw())
	require.NoError(t, err)

	require.Len(t, got.Peaks, 2)
	// The two most intense peaks are 700 (30) and 400 (40).
	assert.InDelta(t, 400.0-core.Proton, got.Peaks[0].Mass, 1e-9)
	assert.InDelta(t, 700.0-core.Proton, got.Peaks[1].Mass, 1e-9)
	assert.InDelta(t, 70.0, got.TotalIntensity, 1e-9)
}

func TestProcessDeisotope(t *testing.T) {
	// A charge-1 envelope at 500: isotopes spaced one neutron apart with
	// decaying intensity, plus an unrelated peak.
	raw := &Raw{
		PrecursorMz:     600.0,
		PrecursorCharge: 2,
		Mz:              []float64{500.0, 500.0 + core.Neutron, 500.0 + 2*core.Neutron, 800.0},
		Intensity:       []float64{100, 60, 20, 50},
	}

	proc := NewProcessor(0, 150, 2000, true)
	got, err := proc.Process(raw)
	require.NoError(t, err)

	require.Len(t, got.Peaks, 2, "envelope collapses to its monoisotopic peak")
	assert.InDelta(t, 500.0-core.Proton, got.Peaks[0].Mass, 1e-6)
	assert.InDelta(t, 180.0, got.Peaks[0].Intensity, 1e-9, "envelope intensity is summed")
	assert.InDelta(t, 800.0-core.Proton, got.Peaks[1].Mass, 1e-6)
}

func TestProcessDeisotopeChargeTwoEnvelope(t *testing.T) {
	// Isotopes of a 2+ fragment are spaced half a neutron apart; the
	// monoisotopic peak converts at its envelope charge.
	raw := &Raw{
		PrecursorMz:     900.0,
		PrecursorCharge: 3,
		Mz:              []float64{700.0, 700.0 + core.Neutron/2, 700.0 + core.Neutron},
		Intensity:       []float64{100, 55, 15},
	}

	proc := NewProcessor(0, 150, 2000, true)
	got, err := proc.Process(raw)
	require.NoError(t, err)

	require.Len(t, got.Peaks, 1)
	assert.InDelta(t, (700.0-core.Proton)*2, got.Peaks[0].Mass, 1e-6)
	assert.InDelta(t, 170.0, got.Peaks[0].Intensity, 1e-9)
}

func TestProcessDeisotopeIncreasingIntensityNotAbsorbed(t *testing.T) {
	raw := &Raw{
		PrecursorMz:     600.0,
		PrecursorCharge: 1,
		Mz:              []float64{500.0, 500.0 + core.Neutron},
		Intensity:       []float64{50, 100},
	}

	proc := NewProcessor(0, 150, 2000, true)
	got, err := proc.Process(raw)
	require.NoError(t, err)
	assert.Len(t, got.Peaks, 2, "rising intensity breaks the envelope")
}

func TestProcessEmptySpectrum(t *testing.T) {
	r := validRaw()
	r.Mz, r.Intensity = nil, nil

	proc := NewProcessor(150, 150, 2000, true)
	got, err := proc.Process(r)
	require.NoError(t, err)
	assert.Empty(t, got.Peaks)
	assert.Zero(t, got.TotalIntensity)
}

func TestClosestPeak(t *testing.T) {
	peaks := []core.Peak{
		{Mass: 100.0, Intensity: 1},
		{Mass: 200.0, Intensity: 1},
		{Mass: 200.001, Intensity: 1},
		{Mass: 300.0, Intensity: 1},
	}

	t.Run("picks nearest in window", func(t *testing.T) {
		i, ok := ClosestPeak(peaks, 200.0008, core.DaTolerance(-0.01, 0.01))
		require.True(t, ok)
		assert.Equal(t, 2, i)
	})

	t.Run("no peak in window", func(t *testing.T) {
		_, ok := ClosestPeak(peaks, 250.0, core.PpmTolerance(-10, 10))
		assert.False(t, ok)
	})

	t.Run("empty peaks", func(t *testing.T) {
		_, ok := ClosestPeak(nil, 100.0, core.DaTolerance(-1, 1))
		assert.False(t, ok)
	})
}
