package terrain

import (
	"math/rand"
	"sort"
)

// SuitabilityPoint is a scored sample in map coordinates. Higher is better.
type SuitabilityPoint struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Score float64 `json:"score"`
}

// AvoidRegion marks a disc that placement must stay out of (water, mostly).
type AvoidRegion struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Radius float64 `json:"radius"`
}

// Analysis is the result of one analyzer pass: candidate points sorted by
// score descending, plus exclusion discs.
type Analysis struct {
	Suitable []SuitabilityPoint
	Avoid    []AvoidRegion
}

// Empty reports whether the analysis carries no terrain information,
// in which case callers fall back to randomized placement.
func (a Analysis) Empty() bool {
	return len(a.Suitable) == 0
}

// Config holds the analyzer's sampling and scoring parameters. The values
// are deliberate tuning constants; they are exposed here so they can be
// adjusted and tested independently.
type Config struct {
	SampleStep int // grid step in map units, also the excluded border width

	WaterBlueDelta float64 // blue must exceed red and green by more than this
	DarkBelow      float64 // brightness below this is "very dark"
	BrightAbove    float64 // brightness above this is "very bright"
	ModerateLow    float64 // lower edge of the favored brightness band
	ModerateHigh   float64 // upper edge of the favored brightness band

	BaseScore     float64
	WaterPenalty  float64
	DarkPenalty   float64
	BrightPenalty float64
	ModerateBonus float64

	ScoreJitter float64 // uniform jitter applied as ±ScoreJitter
	MinScore    float64 // samples must exceed this to be kept
	AvoidRadius float64 // exclusion disc radius emitted for water samples
}

// DefaultConfig returns the scoring constants used by the map editor.
func DefaultConfig() Config {
	return Config{
		SampleStep:     20,
		WaterBlueDelta: 30,
		DarkBelow:      50,
		BrightAbove:    200,
		ModerateLow:    80,
		ModerateHigh:   160,
		BaseScore:      100,
		WaterPenalty:   80,
		DarkPenalty:    60,
		BrightPenalty:  20,
		ModerateBonus:  30,
		ScoreJitter:    10,
		MinScore:       40,
		AvoidRadius:    30,
	}
}

// Analyzer scores a surface on a uniform sampling grid. Randomness (score
// jitter) comes from the injected source, so a fixed seed gives a fully
// deterministic analysis.
type Analyzer struct {
	cfg Config
	rng *rand.Rand
}

// NewAnalyzer creates an analyzer with the given configuration and random
// source. The source must not be shared across goroutines.
func NewAnalyzer(cfg Config, rng *rand.Rand) *Analyzer {
	return &Analyzer{cfg: cfg, rng: rng}
}

// Analyze walks the sampling grid over the map interior and classifies each
// sample by color. A nil surface yields an empty analysis.
func (a *Analyzer) Analyze(s *Surface, mapWidth, mapHeight int) Analysis {
	if s == nil {
		return Analysis{}
	}

	imgW, imgH := s.Size()
	step := a.cfg.SampleStep

	var out Analysis
	for y := step; y <= mapHeight-step; y += step {
		for x := step; x <= mapWidth-step; x += step {
			// Map coordinates scale onto the raster; a surface matching the
			// map bounds samples 1:1.
			px := x * imgW / mapWidth
			py := y * imgH / mapHeight
			r, g, b := s.At(px, py)

			brightness := (float64(r) + float64(g) + float64(b)) / 3
			isWater := float64(b)-float64(r) > a.cfg.WaterBlueDelta &&
				float64(b)-float64(g) > a.cfg.WaterBlueDelta

			score := a.cfg.BaseScore
			switch {
			case isWater:
				score -= a.cfg.WaterPenalty
				out.Avoid = append(out.Avoid, AvoidRegion{X: x, Y: y, Radius: a.cfg.AvoidRadius})
			case brightness < a.cfg.DarkBelow:
				score -= a.cfg.DarkPenalty
			case brightness > a.cfg.BrightAbove:
				score -= a.cfg.BrightPenalty
			case brightness >= a.cfg.ModerateLow && brightness <= a.cfg.ModerateHigh:
				score += a.cfg.ModerateBonus
			}

			// Jitter breaks up perfectly grid-regular ordering.
			score += (a.rng.Float64()*2 - 1) * a.cfg.ScoreJitter

			if score > a.cfg.MinScore {
				out.Suitable = append(out.Suitable, SuitabilityPoint{X: x, Y: y, Score: score})
			}
		}
	}

	sort.Slice(out.Suitable, func(i, j int) bool {
		return out.Suitable[i].Score > out.Suitable[j].Score
	})

	return out
}
