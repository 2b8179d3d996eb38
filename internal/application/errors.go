package application

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	ErrNoRunsMatched = errors.New("no runs matched")
	ErrAmbiguousRun  = errors.New("ambiguous run number")
	ErrBadFormat     = errors.New("bad file format")
	ErrMissingFile   = errors.New("missing spectrum file")
)

// ConfigError represents an invalid configuration. It is always fatal and
// reported before any decoding starts.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AmbiguousRunError reports two distinct files resolving to the same run
// number. Fatal: picking one silently would corrupt the run axis.
type AmbiguousRunError struct {
	Number int
	Paths  []string
}

func (e *AmbiguousRunError) Error() string {
	return fmt.Sprintf("run %d matched by multiple files: %s", e.Number, strings.Join(e.Paths, ", "))
}

func (e *AmbiguousRunError) Is(target error) bool {
	return target == ErrAmbiguousRun
}

// FormatError reports a matrix or spectrum file whose size or content is
// inconsistent with the configured geometry. Scoped to one run.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrBadFormat
}

// MissingFileError reports an absent pre-extracted spectrum file for one
// (run, detector) pair. Scoped to one run.
type MissingFileError struct {
	Path     string
	Run      int
	Detector int
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("run %d detector %d: spectrum file %s does not exist", e.Run, e.Detector+1, e.Path)
}

func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile
}
