package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"driftcheck/internal/application"
	"driftcheck/internal/ports"
)

// ClearResult contains the outcome of a cleanup.
type ClearResult struct {
	Removed []string
	Message string
}

// ClearCommand deletes the ascii spectra materialized by earlier --full
// runs. Only files recorded in the manifest are touched; anything else in
// the destination directory is left alone.
type ClearCommand struct {
	Manifest ports.Manifest
}

// Validate checks if the cleanup can run.
func (c *ClearCommand) Validate() error {
	if c.Manifest == nil {
		return &application.ConfigError{Field: "manifest", Message: "manifest is required"}
	}
	return nil
}

// Execute runs the clear command. Files already gone are skipped silently;
// the manifest entry is dropped either way.
func (c *ClearCommand) Execute(ctx context.Context) (*ClearResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	paths, err := c.Manifest.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list materialized files: %w", err)
	}

	var removed []string
	for _, path := range paths {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		if err == nil {
			removed = append(removed, path)
		}
	}

	if err := c.Manifest.Clear(); err != nil {
		return nil, fmt.Errorf("failed to clear manifest: %w", err)
	}

	return &ClearResult{
		Removed: removed,
		Message: fmt.Sprintf("Removed %d materialized spectrum file(s)", len(removed)),
	}, nil
}
