package domain

import (
	"math"
	"testing"
)

const tolerance = 1e-9

// makeSingleBinSpectrum creates a spectrum with one non-zero channel.
func makeSingleBinSpectrum(n, bin int, amplitude float64) []float64 {
	row := make([]float64, n)
	row[bin] = amplitude
	return row
}

func buildTestCube(t *testing.T) *Cube {
	t.Helper()

	cube, err := NewCube(2, []int{1, 2, 3}, ChannelRange{0, 8})
	if err != nil {
		t.Fatalf("NewCube failed: %v", err)
	}
	for det := 0; det < 2; det++ {
		for runIdx := 0; runIdx < 3; runIdx++ {
			cube.SetSpectrum(det, runIdx, makeSingleBinSpectrum(8, det+runIdx, float64(10*(runIdx+1))))
		}
	}
	return cube
}

func TestReduceCube_IdentityEqualsCubeSlices(t *testing.T) {
	cube := buildTestCube(t)

	maps := ReduceCube(cube, IdentityRule{})
	if len(maps) != 2 {
		t.Fatalf("got %d maps, want 2", len(maps))
	}

	for det, m := range maps {
		if m.Detector != det {
			t.Errorf("map %d has Detector=%d", det, m.Detector)
		}
		if m.Width != 8 {
			t.Errorf("identity width = %d, want 8", m.Width)
		}
		for runIdx := 0; runIdx < cube.NumRuns(); runIdx++ {
			row := m.Row(runIdx)
			spec := cube.Spectrum(det, runIdx)
			for ch := range spec {
				if row[ch] != spec[ch] {
					t.Errorf("det %d run %d ch %d: map %v, cube %v", det, runIdx, ch, row[ch], spec[ch])
				}
			}
		}
	}
}

func TestReduceCube_Deterministic(t *testing.T) {
	cube := buildTestCube(t)

	a := ReduceCube(cube, CentroidRule{})
	b := ReduceCube(cube, CentroidRule{})
	for det := range a {
		for i := range a[det].Values {
			if a[det].Values[i] != b[det].Values[i] {
				t.Fatalf("det %d value %d differs between identical reductions", det, i)
			}
		}
	}
}

func TestCentroidRule(t *testing.T) {
	tests := []struct {
		name string
		row  []float64
		want float64
	}{
		{
			name: "single bin",
			row:  makeSingleBinSpectrum(16, 5, 42),
			want: 5,
		},
		{
			name: "symmetric pair",
			row:  []float64{0, 1, 0, 1, 0},
			want: 2,
		},
		{
			name: "all zero",
			row:  make([]float64, 8),
			want: 0,
		},
		{
			name: "flat",
			row:  []float64{1, 1, 1, 1, 1},
			want: 2,
		},
	}

	rule := CentroidRule{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make([]float64, 1)
			rule.Apply(tt.row, out)
			if math.Abs(out[0]-tt.want) > tolerance {
				t.Errorf("centroid = %v, want %v", out[0], tt.want)
			}
		})
	}
}

func TestRuleByName(t *testing.T) {
	for _, name := range []string{"identity", "centroid"} {
		rule, err := RuleByName(name)
		if err != nil {
			t.Errorf("RuleByName(%q) failed: %v", name, err)
			continue
		}
		if rule.Name() != name {
			t.Errorf("RuleByName(%q).Name() = %q", name, rule.Name())
		}
	}

	if _, err := RuleByName("fwhm"); err == nil {
		t.Errorf("expected error for unknown rule, got nil")
	}
}

func TestDriftMap_Row(t *testing.T) {
	m := DriftMap{
		Detector: 0,
		Runs:     []int{4, 7},
		Width:    3,
		Values:   []float64{1, 2, 3, 4, 5, 6},
	}
	row := m.Row(1)
	if len(row) != 3 || row[0] != 4 || row[2] != 6 {
		t.Errorf("Row(1) = %v, want [4 5 6]", row)
	}
}
