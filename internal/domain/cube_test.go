package domain

import (
	"testing"
)

func TestNewCube_RejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name      string
		detectors int
		runs      []int
		rng       ChannelRange
	}{
		{
			name:      "zero detectors",
			detectors: 0,
			runs:      []int{1},
			rng:       ChannelRange{0, 8},
		},
		{
			name:      "empty range",
			detectors: 2,
			runs:      []int{1},
			rng:       ChannelRange{8, 8},
		},
		{
			name:      "inverted range",
			detectors: 2,
			runs:      []int{1},
			rng:       ChannelRange{8, 4},
		},
		{
			name:      "duplicate run",
			detectors: 2,
			runs:      []int{1, 2, 2},
			rng:       ChannelRange{0, 8},
		},
		{
			name:      "descending runs",
			detectors: 2,
			runs:      []int{3, 1},
			rng:       ChannelRange{0, 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCube(tt.detectors, tt.runs, tt.rng); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}

func TestCube_SpectrumRoundTrip(t *testing.T) {
	cube, err := NewCube(3, []int{1, 2, 5}, ChannelRange{10, 14})
	if err != nil {
		t.Fatalf("NewCube failed: %v", err)
	}

	want := []float64{1, 2, 3, 4}
	cube.SetSpectrum(1, 2, want)

	got := cube.Spectrum(1, 2)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("channel %d: got %v, want %v", i, got[i], want[i])
		}
	}

	// Neighboring cells stay zero
	for _, v := range cube.Spectrum(1, 1) {
		if v != 0 {
			t.Errorf("neighboring cell modified: %v", v)
		}
	}
	for _, v := range cube.Spectrum(2, 2) {
		if v != 0 {
			t.Errorf("neighboring detector modified: %v", v)
		}
	}
}

func TestCube_DetectorBlockLayout(t *testing.T) {
	cube, err := NewCube(2, []int{1, 2}, ChannelRange{0, 3})
	if err != nil {
		t.Fatalf("NewCube failed: %v", err)
	}
	cube.SetSpectrum(1, 0, []float64{1, 2, 3})
	cube.SetSpectrum(1, 1, []float64{4, 5, 6})

	block := cube.DetectorBlock(1)
	want := []float64{1, 2, 3, 4, 5, 6}
	if len(block) != len(want) {
		t.Fatalf("block length %d, want %d", len(block), len(want))
	}
	for i := range want {
		if block[i] != want[i] {
			t.Errorf("block[%d] = %v, want %v", i, block[i], want[i])
		}
	}
}

func TestNewCubeFromData_ValidatesPayload(t *testing.T) {
	if _, err := NewCubeFromData(2, []int{1}, ChannelRange{0, 4}, make([]float64, 7)); err == nil {
		t.Errorf("expected payload length error, got nil")
	}

	data := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	cube, err := NewCubeFromData(2, []int{1}, ChannelRange{0, 4}, data)
	if err != nil {
		t.Fatalf("NewCubeFromData failed: %v", err)
	}
	got := cube.Spectrum(1, 0)
	for i, want := range []float64{5, 6, 7, 8} {
		if got[i] != want {
			t.Errorf("spectrum[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestChannelRange_Width(t *testing.T) {
	r := ChannelRange{Low: 100, High: 8191}
	if r.Width() != 8091 {
		t.Errorf("width = %d, want 8091", r.Width())
	}
}
