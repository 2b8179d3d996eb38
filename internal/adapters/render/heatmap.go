package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"driftcheck/internal/domain"
	"driftcheck/internal/ports"
)

// Heatmap rasterizes a drift map as a PNG: run number on the x axis,
// reduced channel on the y axis (origin at the bottom), intensity
// log-normalized onto a viridis-like ramp. Empty cells stay white so gaps
// in the data are visible.
type Heatmap struct {
	// Scale multiplies both axes; cells become Scale x Scale pixel blocks.
	Scale int
}

// Ensure Heatmap implements ports.Renderer
var _ ports.Renderer = (*Heatmap)(nil)

// NewHeatmap creates a renderer with 1:1 cell-to-pixel mapping.
func NewHeatmap() *Heatmap {
	return &Heatmap{Scale: 1}
}

// Render writes the drift map image to path.
func (h *Heatmap) Render(m *domain.DriftMap, path string) error {
	scale := h.Scale
	if scale < 1 {
		scale = 1
	}

	runs := len(m.Runs)
	if runs == 0 || m.Width == 0 {
		return fmt.Errorf("drift map for detector %d is empty", m.Detector+1)
	}

	max := 0.0
	for _, v := range m.Values {
		if v > max {
			max = v
		}
	}
	logMax := math.Log1p(max)

	img := image.NewRGBA(image.Rect(0, 0, runs*scale, m.Width*scale))
	for runIdx := 0; runIdx < runs; runIdx++ {
		row := m.Row(runIdx)
		for ch, v := range row {
			var c color.RGBA
			if v <= 0 || logMax == 0 {
				c = color.RGBA{255, 255, 255, 255}
			} else {
				c = ramp(math.Log1p(v) / logMax)
			}
			// origin lower: channel 0 at the bottom row of the image
			for dx := 0; dx < scale; dx++ {
				for dy := 0; dy < scale; dy++ {
					img.SetRGBA(runIdx*scale+dx, (m.Width-1-ch)*scale+dy, c)
				}
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode plot: %w", err)
	}
	return f.Close()
}

// rampAnchors approximate the viridis colormap.
var rampAnchors = [][3]uint8{
	{68, 1, 84},
	{59, 82, 139},
	{33, 145, 140},
	{94, 201, 98},
	{253, 231, 37},
}

// ramp maps t in [0, 1] onto the color ramp with linear interpolation
// between anchors.
func ramp(t float64) color.RGBA {
	if t <= 0 {
		a := rampAnchors[0]
		return color.RGBA{a[0], a[1], a[2], 255}
	}
	if t >= 1 {
		a := rampAnchors[len(rampAnchors)-1]
		return color.RGBA{a[0], a[1], a[2], 255}
	}

	pos := t * float64(len(rampAnchors)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := rampAnchors[i], rampAnchors[i+1]

	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + frac*(float64(y)-float64(x))))
	}
	return color.RGBA{lerp(a[0], b[0]), lerp(a[1], b[1]), lerp(a[2], b[2]), 255}
}
