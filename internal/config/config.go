package config

import (
	"fmt"
	"os"
	"path/filepath"

	"driftcheck/internal/application"
	"driftcheck/internal/domain"
)

// Config carries every setting the pipeline needs, threaded explicitly
// through locator, decoder, and writers instead of read from ambient state.
type Config struct {
	Pattern string // path + filename prefix as given on the command line
	Head    string // absolute directory part of Pattern
	Tail    string // filename-prefix part of Pattern
	Dest    string // absolute output directory

	Detectors      int
	Range          domain.ChannelRange
	NativeChannels int
}

// New validates the raw command-line settings and resolves all paths to
// absolute form. An empty dest defaults to the current working directory.
func New(pattern, dest string, detectors, low, high int) (*Config, error) {
	if pattern == "" {
		return nil, &application.ConfigError{Field: "pattern", Message: "pattern is required"}
	}
	if detectors <= 0 {
		return nil, &application.ConfigError{
			Field:   "dets",
			Message: fmt.Sprintf("detector count must be positive, got %d", detectors),
		}
	}
	if low < 0 {
		return nil, &application.ConfigError{
			Field:   "range",
			Message: fmt.Sprintf("lower channel bound must be non-negative, got %d", low),
		}
	}
	if high <= low {
		return nil, &application.ConfigError{
			Field:   "range",
			Message: fmt.Sprintf("upper channel bound %d must be greater than lower bound %d", high, low),
		}
	}
	if high > domain.NativeChannels {
		return nil, &application.ConfigError{
			Field:   "range",
			Message: fmt.Sprintf("upper channel bound %d exceeds matrix width %d", high, domain.NativeChannels),
		}
	}

	head, tail := filepath.Split(pattern)
	if head == "" {
		head = "."
	}
	absHead, err := filepath.Abs(head)
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}

	if dest == "" {
		dest, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	return &Config{
		Pattern:        pattern,
		Head:           absHead,
		Tail:           tail,
		Dest:           absDest,
		Detectors:      detectors,
		Range:          domain.ChannelRange{Low: low, High: high},
		NativeChannels: domain.NativeChannels,
	}, nil
}
