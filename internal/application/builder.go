package application

import (
	"context"
	"fmt"

	"driftcheck/internal/domain"
	"driftcheck/internal/ports"
)

// FailurePolicy decides what a per-run decode failure does to the build.
type FailurePolicy int

const (
	// PolicySkipRun excludes the failing run from the cube and continues;
	// the run axis shrinks accordingly.
	PolicySkipRun FailurePolicy = iota
	// PolicyAbort fails the whole build on the first run that cannot be
	// decoded.
	PolicyAbort
)

func (p FailurePolicy) String() string {
	switch p {
	case PolicySkipRun:
		return "skip-run"
	case PolicyAbort:
		return "abort"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// RunFailure records one run that could not be decoded.
type RunFailure struct {
	Run domain.RunFile
	Err error
}

// Builder assembles the spectrum cube from located run files.
//
// Runs are decoded strictly sequentially in ascending run-number order (the
// locator's contract); each run's spectra occupy disjoint cube cells. On
// success the cube's run axis equals exactly the set of runs that decoded
// without error.
type Builder struct {
	Locator   ports.RunLocator
	Decoder   ports.SpectrumDecoder
	Detectors int
	Range     domain.ChannelRange
	Policy    FailurePolicy

	// OnStart, if set, fires once after the runs are located, before any
	// decoding.
	OnStart func(total int)
	// OnRunDone, if set, fires after each run is decoded (or fails), with
	// 1-based completion counts. Display concerns live behind it.
	OnRunDone func(done, total int, run domain.RunFile, err error)
}

// Build locates all runs, decodes them, and returns the assembled cube plus
// the runs excluded under PolicySkipRun.
func (b *Builder) Build(ctx context.Context) (*domain.Cube, []RunFailure, error) {
	runs, err := b.Locator.Locate()
	if err != nil {
		return nil, nil, err
	}
	if b.OnStart != nil {
		b.OnStart(len(runs))
	}

	numbers := make([]int, len(runs))
	for i, run := range runs {
		numbers[i] = run.Number
	}
	// Decoded rows land directly in a cube sized for every located run, so
	// peak memory stays at one cube. Kept runs fill the run axis front to
	// back; a shrink only copies the surviving rows.
	cube, err := domain.NewCube(b.Detectors, numbers, b.Range)
	if err != nil {
		return nil, nil, err
	}

	var (
		kept     []int
		failures []RunFailure
	)
	for i, run := range runs {
		if err := ctx.Err(); err != nil {
			return nil, failures, err
		}

		rows, err := b.Decoder.DecodeRun(run)
		if err == nil && len(rows) != b.Detectors {
			err = fmt.Errorf("decoder returned %d spectra, want %d", len(rows), b.Detectors)
		}
		if b.OnRunDone != nil {
			b.OnRunDone(i+1, len(runs), run, err)
		}
		if err != nil {
			failures = append(failures, RunFailure{Run: run, Err: err})
			if b.Policy == PolicyAbort {
				return nil, failures, fmt.Errorf("run %d: %w", run.Number, err)
			}
			continue
		}

		for det, row := range rows {
			cube.SetSpectrum(det, len(kept), row)
		}
		kept = append(kept, run.Number)
	}

	if len(kept) == 0 {
		return nil, failures, fmt.Errorf("no run could be decoded (%d failed)", len(failures))
	}
	if len(kept) == len(runs) {
		return cube, failures, nil
	}

	compact, err := domain.NewCube(b.Detectors, kept, b.Range)
	if err != nil {
		return nil, failures, err
	}
	for det := 0; det < b.Detectors; det++ {
		for runIdx := range kept {
			compact.SetSpectrum(det, runIdx, cube.Spectrum(det, runIdx))
		}
	}
	return compact, failures, nil
}
