package terrain

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	opensimplex "github.com/ojrac/opensimplex-go"
	"golang.org/x/image/colornames"
)

// SynthConfig holds parameters for layered simplex raster synthesis,
// standing in for the editor's hosted image generator offline.
type SynthConfig struct {
	Width, Height int
	Seed          int64
	SeaLevel      float64 // elevation below this renders as water
	SnowLevel     float64 // elevation above this renders as snow
	Frequency     float64 // base noise frequency per pixel
	Octaves       int
}

// DefaultSynthConfig returns parameters tuned for editor-sized maps.
func DefaultSynthConfig(width, height int, seed int64) SynthConfig {
	return SynthConfig{
		Width:     width,
		Height:    height,
		Seed:      seed,
		SeaLevel:  0.32,
		SnowLevel: 0.85,
		Frequency: 0.004,
		Octaves:   4,
	}
}

// Synthesize renders a terrain raster from elevation and moisture noise.
// Output is deterministic for a given configuration.
func Synthesize(cfg SynthConfig) (image.Image, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Octaves <= 0 {
		cfg.Octaves = 1
	}

	elevNoise := opensimplex.NewNormalized(cfg.Seed)
	moistNoise := opensimplex.NewNormalized(cfg.Seed + 1)

	dc := gg.NewContext(cfg.Width, cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			fx, fy := float64(x), float64(y)
			elev := octaveNoise(elevNoise, fx, fy, cfg.Octaves, cfg.Frequency, 0.5)
			moist := octaveNoise(moistNoise, fx, fy, cfg.Octaves-1, cfg.Frequency*0.75, 0.5)

			dc.SetColor(bandColor(cfg, elev, moist))
			dc.SetPixel(x, y)
		}
	}

	return dc.Image(), nil
}

// SynthesizePNG renders a terrain raster and writes it to a PNG file.
func SynthesizePNG(cfg SynthConfig, path string) (image.Image, error) {
	img, err := Synthesize(cfg)
	if err != nil {
		return nil, err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return nil, fmt.Errorf("save raster: %w", err)
	}
	return img, nil
}

// bandColor maps elevation/moisture to a terrain palette. The water band is
// strongly blue-dominant so the analyzer's channel heuristic classifies it.
func bandColor(cfg SynthConfig, elev, moist float64) color.Color {
	switch {
	case elev < cfg.SeaLevel*0.7:
		return colornames.Navy
	case elev < cfg.SeaLevel:
		return colornames.Royalblue
	case elev < cfg.SeaLevel+0.05:
		return colornames.Khaki // shoreline sand
	case elev > cfg.SnowLevel:
		return colornames.Snow
	case elev > cfg.SnowLevel-0.15:
		return colornames.Dimgray // bare rock
	case moist > 0.55:
		return colornames.Darkolivegreen
	default:
		return colornames.Yellowgreen
	}
}

// octaveNoise layers multiple noise frequencies into fractal detail.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	if octaves < 1 {
		octaves = 1
	}

	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
