package domain

import "fmt"

// DriftMap is one detector's reduced [run, width] matrix, the array behind
// the drift visualization. Values is row-major: run index first.
type DriftMap struct {
	Detector int
	Runs     []int
	Width    int
	Values   []float64
}

// Row returns the reduced row for one run index. Callers must not modify it.
func (m *DriftMap) Row(runIdx int) []float64 {
	return m.Values[runIdx*m.Width : (runIdx+1)*m.Width]
}

// Rule reduces one run's spectrum row into one drift-map row.
//
// Apply must be deterministic and must not retain or modify its input; out
// has length Width(len(row)).
type Rule interface {
	Name() string
	Width(channels int) int
	Apply(row, out []float64)
}

// ReduceCube applies a reduction rule to every detector slice of the cube,
// producing one drift map per detector.
func ReduceCube(c *Cube, rule Rule) []DriftMap {
	width := rule.Width(c.Range().Width())
	maps := make([]DriftMap, c.Detectors())

	for det := range maps {
		m := DriftMap{
			Detector: det,
			Runs:     c.Runs(),
			Width:    width,
			Values:   make([]float64, c.NumRuns()*width),
		}
		for i := 0; i < c.NumRuns(); i++ {
			rule.Apply(c.Spectrum(det, i), m.Values[i*width:(i+1)*width])
		}
		maps[det] = m
	}
	return maps
}

// IdentityRule keeps the full channel axis: the drift map for a detector is
// its raw [run, channel] cube slice.
type IdentityRule struct{}

func (IdentityRule) Name() string           { return "identity" }
func (IdentityRule) Width(channels int) int { return channels }

func (IdentityRule) Apply(row, out []float64) {
	copy(out, row)
}

// CentroidRule collapses each run's spectrum to its intensity-weighted mean
// channel:
//
//	centroid = sum(i * v_i) / sum(v_i)
//
// An all-zero spectrum reduces to 0.
type CentroidRule struct{}

func (CentroidRule) Name() string  { return "centroid" }
func (CentroidRule) Width(int) int { return 1 }

func (CentroidRule) Apply(row, out []float64) {
	var sum, weighted float64
	for i, v := range row {
		sum += v
		weighted += float64(i) * v
	}
	if sum == 0 {
		out[0] = 0
		return
	}
	out[0] = weighted / sum
}

// RuleByName resolves a reduction rule from its CLI name.
func RuleByName(name string) (Rule, error) {
	switch name {
	case "identity":
		return IdentityRule{}, nil
	case "centroid":
		return CentroidRule{}, nil
	default:
		return nil, fmt.Errorf("unknown reduction rule: %q (expected identity or centroid)", name)
	}
}
