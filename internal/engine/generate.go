// Package engine wires the analyzer, selector, and batch source into the
// full map generation pipeline shared by the CLI and the HTTP API.
package engine

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand"

	"github.com/solenne/mapforge/internal/entropy"
	"github.com/solenne/mapforge/internal/export"
	"github.com/solenne/mapforge/internal/locgen"
	"github.com/solenne/mapforge/internal/placement"
	"github.com/solenne/mapforge/internal/terrain"
)

// Params describes one map generation run.
type Params struct {
	Name   string
	Width  int
	Height int
	Seed   int64 // 0 draws a fresh seed
	Theme  string

	// Counts of locations to place per type.
	Counts map[placement.LocationType]int

	// Surface overrides raster synthesis (e.g. a loaded PNG). When nil a
	// raster is synthesized unless NoTerrain is set, in which case the
	// selector runs on pure randomized placement.
	Surface   *terrain.Surface
	NoTerrain bool

	// Preexisting locations the new batch must keep its distance from.
	Existing []placement.PlacedLocation
}

// Generator runs the placement pipeline. The zero value is not usable;
// construct with NewGenerator.
type Generator struct {
	analyzerCfg terrain.Config
	selectorCfg placement.Config
	client      *locgen.Client // nil means offline generation
}

// NewGenerator creates a generator with the editor's default constants.
// client may be nil to generate location batches offline.
func NewGenerator(client *locgen.Client) *Generator {
	return &Generator{
		analyzerCfg: terrain.DefaultConfig(),
		selectorCfg: placement.DefaultConfig(),
		client:      client,
	}
}

// Result carries the generated document plus the intermediate artifacts
// callers may want to inspect or save.
type Result struct {
	Document export.Document
	Raster   image.Image // nil when generation ran without terrain
	Analysis terrain.Analysis
	Seed     int64
}

// Generate runs one full batch: synthesize or borrow a raster, analyze it,
// source the location batch, and place every location in order.
func (g *Generator) Generate(p Params) (Result, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return Result{}, fmt.Errorf("invalid bounds %dx%d", p.Width, p.Height)
	}

	seed := p.Seed
	if seed == 0 {
		seed = entropy.RandomSeed()
	}
	rng := entropy.NewSource(seed)

	var res Result
	res.Seed = seed

	surface := p.Surface
	if surface == nil && !p.NoTerrain {
		img, err := terrain.Synthesize(terrain.DefaultSynthConfig(p.Width, p.Height, seed))
		if err != nil {
			return Result{}, fmt.Errorf("synthesize raster: %w", err)
		}
		res.Raster = img
		surface = terrain.NewSurface(img)
	}

	analyzer := terrain.NewAnalyzer(g.analyzerCfg, rng)
	res.Analysis = analyzer.Analyze(surface, p.Width, p.Height)
	slog.Info("terrain analyzed",
		"suitable", len(res.Analysis.Suitable),
		"avoid", len(res.Analysis.Avoid),
	)

	requests, err := g.sourceBatch(rng, p)
	if err != nil {
		return Result{}, err
	}

	selector := placement.NewSelector(g.selectorCfg, rng)
	bounds := placement.Bounds{Width: float64(p.Width), Height: float64(p.Height)}
	placed, err := selector.PlaceBatch(requests, p.Existing, res.Analysis, bounds)
	if err != nil {
		return Result{}, fmt.Errorf("place batch: %w", err)
	}

	res.Document = export.New(export.Settings{
		Name:   p.Name,
		Width:  bounds.Width,
		Height: bounds.Height,
		Seed:   seed,
		Theme:  p.Theme,
	}, placed)

	return res, nil
}

// sourceBatch obtains location requests from the hosted service when
// configured, falling back to the offline generator.
func (g *Generator) sourceBatch(rng *rand.Rand, p Params) ([]placement.Request, error) {
	total := 0
	for _, n := range p.Counts {
		total += n
	}
	if total == 0 {
		return nil, fmt.Errorf("nothing to place: all counts are zero")
	}

	if g.client.Enabled() {
		batch, err := g.client.GenerateBatch(p.Theme, total)
		if err == nil {
			return batch, nil
		}
		slog.Warn("remote generation failed, using offline batch", "error", err)
	}

	return locgen.GenerateOffline(rng, p.Counts), nil
}
