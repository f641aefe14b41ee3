package terrain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solenne/mapforge/internal/entropy"
)

func TestSynthesizeDimensions(t *testing.T) {
	cfg := DefaultSynthConfig(320, 240, 9)
	img, err := Synthesize(cfg)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, 320, b.Dx())
	assert.Equal(t, 240, b.Dy())
}

func TestSynthesizeInvalidSize(t *testing.T) {
	_, err := Synthesize(SynthConfig{Width: 0, Height: 100})
	assert.Error(t, err)
}

func TestSynthesizeDeterministic(t *testing.T) {
	cfg := DefaultSynthConfig(160, 120, 1234)

	first, err := Synthesize(cfg)
	require.NoError(t, err)
	second, err := Synthesize(cfg)
	require.NoError(t, err)

	for _, p := range [][2]int{{0, 0}, {80, 60}, {159, 119}, {40, 100}} {
		assert.Equal(t, first.At(p[0], p[1]), second.At(p[0], p[1]),
			"pixel (%d,%d) must match across runs with the same seed", p[0], p[1])
	}
}

func TestSynthesizedRasterIsAnalyzable(t *testing.T) {
	cfg := DefaultSynthConfig(400, 300, 21)
	img, err := Synthesize(cfg)
	require.NoError(t, err)

	a := NewAnalyzer(DefaultConfig(), entropy.NewSource(21))
	analysis := a.Analyze(NewSurface(img), 400, 300)

	// A default-config raster mixes land and water bands; the analyzer
	// should find placeable terrain on it.
	assert.NotEmpty(t, analysis.Suitable)
}

func TestSynthesizePNGRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terrain.png")

	cfg := DefaultSynthConfig(160, 120, 5)
	img, err := SynthesizePNG(cfg, path)
	require.NoError(t, err)
	require.NotNil(t, img)

	surface, err := LoadPNG(path)
	require.NoError(t, err)

	w, h := surface.Size()
	assert.Equal(t, 160, w)
	assert.Equal(t, 120, h)

	r16, g16, b16, _ := img.At(80, 60).RGBA()
	r, g, b := surface.At(80, 60)
	assert.Equal(t, uint8(r16>>8), r)
	assert.Equal(t, uint8(g16>>8), g)
	assert.Equal(t, uint8(b16>>8), b)
}
