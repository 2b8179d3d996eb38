package domain

import "fmt"

// Cube is the dense [detector, run, channel] spectrum container.
//
// The run axis is strictly ascending by run number; this ordering is an
// invariant of every array derived from the cube. The cube is fully
// initialized by its builder and treated as read-only afterward.
type Cube struct {
	detectors int
	runs      []int
	rng       ChannelRange
	data      []float64 // detector-major, then run, then channel
}

// NewCube allocates a zeroed cube for the given geometry. The run list must
// be strictly ascending with no duplicates.
func NewCube(detectors int, runs []int, rng ChannelRange) (*Cube, error) {
	if detectors <= 0 {
		return nil, fmt.Errorf("detector count must be positive, got %d", detectors)
	}
	if rng.Width() <= 0 {
		return nil, fmt.Errorf("channel range [%d, %d) is empty", rng.Low, rng.High)
	}
	for i := 1; i < len(runs); i++ {
		if runs[i] <= runs[i-1] {
			return nil, fmt.Errorf("run axis must be strictly ascending, got %d after %d", runs[i], runs[i-1])
		}
	}

	c := &Cube{
		detectors: detectors,
		runs:      append([]int(nil), runs...),
		rng:       rng,
		data:      make([]float64, detectors*len(runs)*rng.Width()),
	}
	return c, nil
}

// NewCubeFromData reconstructs a cube from a flat detector-major payload,
// as produced by DetectorBlock. Used when reading persisted artifacts.
func NewCubeFromData(detectors int, runs []int, rng ChannelRange, data []float64) (*Cube, error) {
	c, err := NewCube(detectors, runs, rng)
	if err != nil {
		return nil, err
	}
	if len(data) != len(c.data) {
		return nil, fmt.Errorf("payload has %d values, want %d", len(data), len(c.data))
	}
	copy(c.data, data)
	return c, nil
}

// Detectors returns the length of the detector axis.
func (c *Cube) Detectors() int { return c.detectors }

// Runs returns the run-number axis. Callers must not modify it.
func (c *Cube) Runs() []int { return c.runs }

// NumRuns returns the length of the run axis.
func (c *Cube) NumRuns() int { return len(c.runs) }

// Range returns the channel window the cube was built with.
func (c *Cube) Range() ChannelRange { return c.rng }

// SetSpectrum copies one decoded spectrum into the cube cell owned by
// (detector, run index). The spectrum length must equal the range width.
func (c *Cube) SetSpectrum(det, runIdx int, counts []float64) {
	if len(counts) != c.rng.Width() {
		panic(fmt.Sprintf("spectrum has %d channels, cube expects %d", len(counts), c.rng.Width()))
	}
	copy(c.data[c.offset(det, runIdx):], counts)
}

// Spectrum returns the channel row for (detector, run index) as a view into
// the cube. Callers must not modify it.
func (c *Cube) Spectrum(det, runIdx int) []float64 {
	off := c.offset(det, runIdx)
	return c.data[off : off+c.rng.Width()]
}

// DetectorBlock returns one detector's full [run, channel] slice as a flat
// row-major view. Callers must not modify it.
func (c *Cube) DetectorBlock(det int) []float64 {
	size := len(c.runs) * c.rng.Width()
	return c.data[det*size : (det+1)*size]
}

func (c *Cube) offset(det, runIdx int) int {
	if det < 0 || det >= c.detectors || runIdx < 0 || runIdx >= len(c.runs) {
		panic(fmt.Sprintf("cube index [%d, %d] out of bounds [%d, %d]", det, runIdx, c.detectors, len(c.runs)))
	}
	return (det*len(c.runs) + runIdx) * c.rng.Width()
}
