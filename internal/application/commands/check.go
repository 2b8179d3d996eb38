package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"driftcheck/internal/application"
	"driftcheck/internal/domain"
	"driftcheck/internal/ports"
)

// CheckResult contains the outcome of a drift check.
type CheckResult struct {
	Cube     *domain.Cube
	Maps     []domain.DriftMap
	Failures []application.RunFailure
	Plots    []string
	Message  string
}

// CheckCommand runs the full pipeline: build the spectrum cube, reduce it
// to per-detector drift maps, render one plot per detector, and optionally
// persist the arrays to the artifact container.
type CheckCommand struct {
	Builder  *application.Builder
	Rule     domain.Rule
	Renderer ports.Renderer
	Dest     string

	// Artifacts, if set, receives the cube and the reduced maps (--write).
	Artifacts ports.ArtifactStore
	// Progress, if set, is driven across the render phase; the build phase
	// reports through the Builder's own hook.
	Progress ports.ProgressReporter
}

// Validate checks if the pipeline is fully wired.
func (c *CheckCommand) Validate() error {
	if c.Builder == nil {
		return &application.ConfigError{Field: "builder", Message: "cube builder is required"}
	}
	if c.Rule == nil {
		return &application.ConfigError{Field: "rule", Message: "reduction rule is required"}
	}
	if c.Renderer == nil {
		return &application.ConfigError{Field: "renderer", Message: "renderer is required"}
	}
	if c.Dest == "" {
		return &application.ConfigError{Field: "dest", Message: "destination directory is required"}
	}
	return nil
}

// Execute runs the check command.
func (c *CheckCommand) Execute(ctx context.Context) (*CheckResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.Dest, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	cube, failures, err := c.Builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	maps := domain.ReduceCube(cube, c.Rule)

	if c.Progress != nil {
		c.Progress.Start("Preparing plots", len(maps))
	}
	plots := make([]string, 0, len(maps))
	for i := range maps {
		path := filepath.Join(c.Dest, fmt.Sprintf("det%02d.png", maps[i].Detector+1))
		if err := c.Renderer.Render(&maps[i], path); err != nil {
			return nil, fmt.Errorf("failed to render detector %d: %w", maps[i].Detector+1, err)
		}
		plots = append(plots, path)
		if c.Progress != nil {
			c.Progress.Advance()
		}
	}
	if c.Progress != nil {
		c.Progress.Done()
	}

	if c.Artifacts != nil {
		if err := c.Artifacts.WriteCube(cube); err != nil {
			return nil, fmt.Errorf("failed to write cube artifact: %w", err)
		}
		if err := c.Artifacts.WriteMaps(maps, cube.Range()); err != nil {
			return nil, fmt.Errorf("failed to write drift-map artifact: %w", err)
		}
	}

	msg := fmt.Sprintf("Checked %d runs across %d detectors (%s reduction), plots in %s",
		cube.NumRuns(), cube.Detectors(), c.Rule.Name(), c.Dest)
	if len(failures) > 0 {
		msg += fmt.Sprintf("; %d run(s) skipped", len(failures))
	}

	return &CheckResult{
		Cube:     cube,
		Maps:     maps,
		Failures: failures,
		Plots:    plots,
		Message:  msg,
	}, nil
}
