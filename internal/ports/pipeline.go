package ports

import "driftcheck/internal/domain"

// RunLocator expands the configured file pattern into the ordered run list.
// Implementations return runs sorted ascending by run number with no
// duplicates; ambiguity is an error, never a guess.
type RunLocator interface {
	Locate() ([]domain.RunFile, error)
}

// SpectrumDecoder turns one run file into per-detector spectra, each exactly
// the configured channel window wide. The returned slice has one row per
// detector, in detector order.
type SpectrumDecoder interface {
	DecodeRun(run domain.RunFile) ([][]float64, error)
}

// Renderer is the plotting collaborator: it turns one drift map into an
// image file at the given path.
type Renderer interface {
	Render(m *domain.DriftMap, path string) error
}

// ProgressReporter displays batch-phase progress. The pipeline itself has no
// UI logic; it only fires per-item notifications into this interface.
type ProgressReporter interface {
	Start(label string, total int)
	Advance()
	Done()
}
