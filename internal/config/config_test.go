package config

import (
	"errors"
	"path/filepath"
	"testing"

	"driftcheck/internal/application"
	"driftcheck/internal/domain"
)

func TestNew_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		detectors int
		low, high int
		field     string
	}{
		{
			name:      "empty pattern",
			pattern:   "",
			detectors: 25,
			low:       0,
			high:      8191,
			field:     "pattern",
		},
		{
			name:      "zero detectors",
			pattern:   "data/run",
			detectors: 0,
			low:       0,
			high:      8191,
			field:     "dets",
		},
		{
			name:      "negative detectors",
			pattern:   "data/run",
			detectors: -3,
			low:       0,
			high:      8191,
			field:     "dets",
		},
		{
			name:      "negative low bound",
			pattern:   "data/run",
			detectors: 25,
			low:       -1,
			high:      100,
			field:     "range",
		},
		{
			name:      "high equals low",
			pattern:   "data/run",
			detectors: 25,
			low:       100,
			high:      100,
			field:     "range",
		},
		{
			name:      "high below low",
			pattern:   "data/run",
			detectors: 25,
			low:       200,
			high:      100,
			field:     "range",
		},
		{
			name:      "high beyond matrix width",
			pattern:   "data/run",
			detectors: 25,
			low:       0,
			high:      domain.NativeChannels + 1,
			field:     "range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.pattern, "", tt.detectors, tt.low, tt.high)
			var cfgErr *application.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("error field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestNew_SplitsPatternAndResolvesPaths(t *testing.T) {
	cfg, err := New("data/exp042_run", "out", 30, 100, 4000)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if cfg.Tail != "exp042_run" {
		t.Errorf("tail = %q, want %q", cfg.Tail, "exp042_run")
	}
	if !filepath.IsAbs(cfg.Head) || filepath.Base(cfg.Head) != "data" {
		t.Errorf("head = %q, want absolute path ending in data", cfg.Head)
	}
	if !filepath.IsAbs(cfg.Dest) || filepath.Base(cfg.Dest) != "out" {
		t.Errorf("dest = %q, want absolute path ending in out", cfg.Dest)
	}
	if cfg.Detectors != 30 {
		t.Errorf("detectors = %d, want 30", cfg.Detectors)
	}
	if cfg.Range != (domain.ChannelRange{Low: 100, High: 4000}) {
		t.Errorf("range = %v, want [100, 4000)", cfg.Range)
	}
	if cfg.NativeChannels != domain.NativeChannels {
		t.Errorf("native channels = %d, want %d", cfg.NativeChannels, domain.NativeChannels)
	}
}

func TestNew_BarePrefixUsesCurrentDirectory(t *testing.T) {
	cfg, err := New("run", "", 25, 0, 8191)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if cfg.Tail != "run" {
		t.Errorf("tail = %q, want %q", cfg.Tail, "run")
	}
	if !filepath.IsAbs(cfg.Head) {
		t.Errorf("head = %q, want absolute", cfg.Head)
	}
	if !filepath.IsAbs(cfg.Dest) {
		t.Errorf("dest = %q, want absolute", cfg.Dest)
	}
}
