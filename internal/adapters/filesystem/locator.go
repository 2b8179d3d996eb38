package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"driftcheck/internal/application"
	"driftcheck/internal/domain"
)

// MatrixLocator finds binary matrix files matching <dir>/<tail><run>.cmat
// and orders them by ascending run number.
type MatrixLocator struct {
	dir  string
	tail string
}

// NewMatrixLocator creates a locator over the data directory.
func NewMatrixLocator(dir, tail string) *MatrixLocator {
	return &MatrixLocator{dir: dir, tail: tail}
}

// Locate returns the run files sorted ascending by run number. Zero matches
// is a configuration error; two files resolving to the same run number is an
// ambiguity error.
func (l *MatrixLocator) Locate() ([]domain.RunFile, error) {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(l.tail) + `([0-9]+)\.cmat$`)

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	byNumber := make(map[int]string)
	var runs []domain.RunFile

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := re.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}

		number, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		if prev, ok := byNumber[number]; ok {
			return nil, &application.AmbiguousRunError{Number: number, Paths: []string{prev, path}}
		}
		byNumber[number] = path

		runs = append(runs, domain.RunFile{Number: number, Path: path})
	}

	if len(runs) == 0 {
		return nil, &application.ConfigError{
			Field:   "pattern",
			Message: fmt.Sprintf("no files matching %s*.cmat in %s", l.tail, l.dir),
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Number < runs[j].Number
	})

	return runs, nil
}

// TextLocator finds pre-extracted ascii spectra named
// <dir>/<tail><run>_det<NN>.txt and groups them into runs. The returned
// RunFile paths are per-run prefixes (directory + tail + run token); the
// text decoder appends the per-detector suffix.
type TextLocator struct {
	dir  string
	tail string
}

// NewTextLocator creates a locator over the directory holding materialized
// spectra (normally the destination directory of a prior --full run).
func NewTextLocator(dir, tail string) *TextLocator {
	return &TextLocator{dir: dir, tail: tail}
}

// Locate returns one RunFile per distinct run number, sorted ascending.
// Two differently-spelled run tokens mapping to the same number (for
// example 007 and 7) are an ambiguity error.
func (l *TextLocator) Locate() ([]domain.RunFile, error) {
	re := regexp.MustCompile(`^(` + regexp.QuoteMeta(l.tail) + `[0-9]+)_det[0-9]+\.txt$`)
	tokenRe := regexp.MustCompile(`([0-9]+)$`)

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read spectra directory: %w", err)
	}

	byNumber := make(map[int]string) // run number -> prefix
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := re.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}
		prefix := matches[1]

		number, err := strconv.Atoi(tokenRe.FindString(prefix))
		if err != nil {
			continue
		}
		if prev, ok := byNumber[number]; ok && prev != prefix {
			return nil, &application.AmbiguousRunError{
				Number: number,
				Paths:  []string{filepath.Join(l.dir, prev), filepath.Join(l.dir, prefix)},
			}
		}
		byNumber[number] = prefix
	}

	if len(byNumber) == 0 {
		return nil, &application.ConfigError{
			Field:   "pattern",
			Message: fmt.Sprintf("no ascii spectra matching %s*_det*.txt in %s (run with --full first)", l.tail, l.dir),
		}
	}

	runs := make([]domain.RunFile, 0, len(byNumber))
	for number, prefix := range byNumber {
		runs = append(runs, domain.RunFile{Number: number, Path: filepath.Join(l.dir, prefix)})
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Number < runs[j].Number
	})

	return runs, nil
}
