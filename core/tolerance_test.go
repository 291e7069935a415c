package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestToleranceValidate(t *testing.T) {
	tests := []struct {
		name    string
		tol     Tolerance
		wantErr bool
	}{
		{name: "da bounds", tol: DaTolerance(-1000, 1.25), wantErr: false},
		{name: "ppm bounds", tol: PpmTolerance(-10, 10), wantErr: false},
		{name: "zero width", tol: DaTolerance(0, 0), wantErr: false},
		{name: "no unit", tol: Tolerance{}, wantErr: true},
		{name: "both units", tol: Tolerance{Da: &[2]float64{-1, 1}, Ppm: &[2]float64{-10, 10}}, wantErr: true},
		{name: "inverted da", tol: DaTolerance(1.25, -1000), wantErr: true},
		{name: "inverted ppm", tol: PpmTolerance(10, -10), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tol.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInput) {
				t.Errorf("Validate() error %v should wrap ErrInput", err)
			}
		})
	}
}

func TestToleranceBounds(t *testing.T) {
	lo, hi := DaTolerance(-1000, 1.25).Bounds(3150.0)
	if lo != 2150.0 || hi != 3151.25 {
		t.Errorf("da bounds = [%f, %f], want [2150, 3151.25]", lo, hi)
	}

	lo, hi = PpmTolerance(-10, 10).Bounds(1000.0)
	if math.Abs(lo-999.99) > 1e-9 || math.Abs(hi-1000.01) > 1e-9 {
		t.Errorf("ppm bounds = [%f, %f], want [999.99, 1000.01]", lo, hi)
	}
}

func TestToleranceContains(t *testing.T) {
	tol := PpmTolerance(-10, 10)
	if !tol.Contains(1000.0, 1000.009) {
		t.Error("1000.009 should be inside a 10 ppm window around 1000")
	}
	if tol.Contains(1000.0, 1000.011) {
		t.Error("1000.011 should be outside a 10 ppm window around 1000")
	}

	// Asymmetric window admits far more below than above.
	open := DaTolerance(-1000, 1.25)
	if !open.Contains(3000.0, 2100.0) {
		t.Error("2100 should be inside [-1000, 1.25] around 3000")
	}
	if open.Contains(3000.0, 3002.0) {
		t.Error("3002 should be outside [-1000, 1.25] around 3000")
	}
}

func TestToleranceJSON(t *testing.T) {
	var tol Tolerance
	if err := json.Unmarshal([]byte(`{"da": [-3.6, 1.2]}`), &tol); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tol.Da == nil || tol.Da[0] != -3.6 || tol.Da[1] != 1.2 {
		t.Errorf("unmarshal da = %+v", tol)
	}
	if err := tol.Validate(); err != nil {
		t.Errorf("Validate() after unmarshal: %v", err)
	}

	out, err := json.Marshal(PpmTolerance(-10, 10))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"ppm":[-10,10]}` {
		t.Errorf("marshal = %s", out)
	}
}
