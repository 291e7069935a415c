package core

import (
	"math"
	"testing"
)

func seqMass(seq string) float64 {
	var m float64
	for i := 0; i < len(seq); i++ {
		r, _ := ResidueMass(seq[i])
		m += r
	}
	return m
}

func TestIonSeriesMonotonic(t *testing.T) {
	p := &Peptide{Sequence: "LGEYGFQNALIVR"}
	for _, kind := range []IonKind{IonB, IonY} {
		prev := 0.0
		count := 0
		for ion := range IonSeries(p, kind) {
			if ion.Monoisotopic <= prev {
				t.Errorf("%s series not monotonic at idx %d: %f <= %f", kind, ion.Idx, ion.Monoisotopic, prev)
			}
			if ion.Idx != count+1 {
				t.Errorf("%s series idx = %d, want %d", kind, ion.Idx, count+1)
			}
			prev = ion.Monoisotopic
			count++
		}
		if count != len(p.Sequence)-1 {
			t.Errorf("%s series yielded %d ions, want %d", kind, count, len(p.Sequence)-1)
		}
	}
}

func TestIonSeriesMasses(t *testing.T) {
	p := &Peptide{Sequence: "PEK"}

	var b []Ion
	for ion := range IonSeries(p, IonB) {
		b = append(b, ion)
	}
	pe := seqMass("PE")
	if math.Abs(b[1].Monoisotopic-pe) > 1e-6 {
		t.Errorf("b2 = %f, want %f", b[1].Monoisotopic, pe)
	}

	var y []Ion
	for ion := range IonSeries(p, IonY) {
		y = append(y, ion)
	}
	ek := seqMass("EK") + H2O
	if math.Abs(y[1].Monoisotopic-ek) > 1e-6 {
		t.Errorf("y2 = %f, want %f", y[1].Monoisotopic, ek)
	}

	// b(n-1) + y1 must reconstruct the full neutral mass.
	full := seqMass("PEK") + H2O
	if math.Abs(b[1].Monoisotopic+y[0].Monoisotopic-full) > 1e-6 {
		t.Errorf("b2 + y1 = %f, want %f", b[1].Monoisotopic+y[0].Monoisotopic, full)
	}
}

func TestIonSeriesTerminalMods(t *testing.T) {
	plain := &Peptide{Sequence: "ACDK"}
	modded := &Peptide{Sequence: "ACDK", Nterm: 229.1629, Cterm: 10.0}

	var b0, b1, y0, y1 []Ion
	for ion := range IonSeries(plain, IonB) {
		b0 = append(b0, ion)
	}
	for ion := range IonSeries(modded, IonB) {
		b1 = append(b1, ion)
	}
	for ion := range IonSeries(plain, IonY) {
		y0 = append(y0, ion)
	}
	for ion := range IonSeries(modded, IonY) {
		y1 = append(y1, ion)
	}

	for i := range b0 {
		if math.Abs(b1[i].Monoisotopic-b0[i].Monoisotopic-229.1629) > 1e-6 {
			t.Errorf("b%d should shift by the N-term mod", i+1)
		}
	}
	for i := range y0 {
		if math.Abs(y1[i].Monoisotopic-y0[i].Monoisotopic-10.0) > 1e-6 {
			t.Errorf("y%d should shift by the C-term mod", i+1)
		}
	}
}

func TestFragments(t *testing.T) {
	p := &Peptide{Sequence: "LGEYGFQNALIVR"}
	ions := Fragments(p)
	want := 2 * (len(p.Sequence) - 1)
	if len(ions) != want {
		t.Fatalf("Fragments() returned %d ions, want %d", len(ions), want)
	}

	short := &Peptide{Sequence: "K"}
	if got := Fragments(short); got != nil {
		t.Errorf("single-residue peptide should produce no fragments, got %d", len(got))
	}
}
