package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"driftcheck/internal/application"
	"driftcheck/internal/domain"
)

// TextDecoder reads pre-extracted ascii spectra, one file per
// (run, detector) pair. Files hold whitespace/newline separated integers in
// either one-column (count) or two-column (channel count) layout, and may
// carry either the configured window or the full native spectrum; full
// spectra are windowed on load.
type TextDecoder struct {
	detectors int
	native    int
	rng       domain.ChannelRange
}

// NewTextDecoder creates a decoder for the given geometry.
func NewTextDecoder(detectors, native int, rng domain.ChannelRange) *TextDecoder {
	return &TextDecoder{detectors: detectors, native: native, rng: rng}
}

// DecodeRun parses all detector files for one run. run.Path is the per-run
// filename prefix produced by TextLocator. A missing detector file fails
// the run with a MissingFileError.
func (d *TextDecoder) DecodeRun(run domain.RunFile) ([][]float64, error) {
	rows := make([][]float64, d.detectors)
	for det := range rows {
		path := fmt.Sprintf("%s_det%02d.txt", run.Path, det+1)

		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &application.MissingFileError{Path: path, Run: run.Number, Detector: det}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read spectrum: %w", err)
		}

		row, err := d.parseSpectrum(path, string(data))
		if err != nil {
			return nil, err
		}
		rows[det] = row
	}
	return rows, nil
}

// parseSpectrum extracts the count column and applies the channel window.
func (d *TextDecoder) parseSpectrum(path, text string) ([]float64, error) {
	fields := strings.Fields(text)
	width := d.rng.Width()

	var values []string
	var offset int
	switch {
	case len(fields) == 2*width && 2*width == d.native:
		// At this geometry a two-column window file and a one-column full
		// spectrum have the same field count. Only a two-column file carries
		// the channel index in its first column, starting at the window's
		// low bound.
		if isChannelColumn(fields, d.rng.Low) {
			values, offset = secondColumn(fields), 0
		} else {
			values, offset = fields, d.rng.Low
		}
	case len(fields) == width:
		values, offset = fields, 0
	case len(fields) == 2*width:
		values, offset = secondColumn(fields), 0
	case len(fields) == d.native:
		values, offset = fields, d.rng.Low
	case len(fields) == 2*d.native:
		values, offset = secondColumn(fields), d.rng.Low
	default:
		return nil, &application.FormatError{
			Path: path,
			Reason: fmt.Sprintf("%d values, want %d (window) or %d (full spectrum), single or double column",
				len(fields), width, d.native),
		}
	}

	row := make([]float64, width)
	for i := range row {
		v, err := strconv.ParseFloat(values[offset+i], 64)
		if err != nil {
			return nil, &application.FormatError{
				Path:   path,
				Reason: fmt.Sprintf("value %d: %q is not a number", offset+i, values[offset+i]),
			}
		}
		row[i] = v
	}
	return row, nil
}

// isChannelColumn reports whether the even-indexed fields are the channel
// indices low, low+1, ... as the materializer writes them.
func isChannelColumn(fields []string, low int) bool {
	for i := 0; 2*i < len(fields); i++ {
		v, err := strconv.Atoi(fields[2*i])
		if err != nil || v != low+i {
			return false
		}
	}
	return true
}

func secondColumn(fields []string) []string {
	out := make([]string, len(fields)/2)
	for i := range out {
		out[i] = fields[2*i+1]
	}
	return out
}
