package filesystem

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"driftcheck/internal/application"
	"driftcheck/internal/domain"
	"driftcheck/internal/ports"
)

// elementSize is the byte width of one channel count in a .cmat matrix
// (uint32, little-endian).
const elementSize = 4

// MatrixDecoder reads one run's binary matrix and slices out the configured
// channel window per detector. Matrices are detector-major, channel-minor,
// always NativeChannels wide regardless of the requested window.
type MatrixDecoder struct {
	detectors int
	native    int
	rng       domain.ChannelRange

	// MaterializeDir, when non-empty, enables the side effect of writing
	// each extracted window to a companion ascii file so later invocations
	// can skip the binary decode. Files are recorded in Manifest if set.
	MaterializeDir string
	Manifest       ports.Manifest
}

// NewMatrixDecoder creates a decoder for the given geometry.
func NewMatrixDecoder(detectors, native int, rng domain.ChannelRange) *MatrixDecoder {
	return &MatrixDecoder{detectors: detectors, native: native, rng: rng}
}

// DecodeRun decodes all detector spectra of one run. The file size must
// equal detectors * native * 4 bytes exactly, else the run fails with a
// FormatError. Counts are copied verbatim; no clipping or rescaling.
func (d *MatrixDecoder) DecodeRun(run domain.RunFile) ([][]float64, error) {
	data, err := os.ReadFile(run.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read matrix: %w", err)
	}

	want := d.detectors * d.native * elementSize
	if len(data) != want {
		return nil, &application.FormatError{
			Path: run.Path,
			Reason: fmt.Sprintf("file size %d, want %d (%d detectors x %d channels x %d bytes)",
				len(data), want, d.detectors, d.native, elementSize),
		}
	}

	width := d.rng.Width()
	rows := make([][]float64, d.detectors)
	for det := range rows {
		base := det * d.native * elementSize
		row := make([]float64, width)
		for i := range row {
			off := base + (d.rng.Low+i)*elementSize
			row[i] = float64(binary.LittleEndian.Uint32(data[off : off+elementSize]))
		}
		rows[det] = row
	}

	if d.MaterializeDir != "" {
		if err := d.materialize(run, rows); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

// materialize writes each detector window as a two-column "channel count"
// ascii file next to the plots, named <run token>_det<NN>.txt.
func (d *MatrixDecoder) materialize(run domain.RunFile, rows [][]float64) error {
	prefix := strings.TrimSuffix(filepath.Base(run.Path), filepath.Ext(run.Path))

	for det, row := range rows {
		path := filepath.Join(d.MaterializeDir, fmt.Sprintf("%s_det%02d.txt", prefix, det+1))
		if err := writeSpectrum(path, d.rng.Low, row); err != nil {
			return fmt.Errorf("failed to materialize run %d detector %d: %w", run.Number, det+1, err)
		}
		if d.Manifest != nil {
			if err := d.Manifest.Record(path, run.Number, det); err != nil {
				return fmt.Errorf("failed to record materialized file: %w", err)
			}
		}
	}
	return nil
}

func writeSpectrum(path string, firstChannel int, counts []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for i, v := range counts {
		fmt.Fprintf(w, "%d %d\n", firstChannel+i, int64(v))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
