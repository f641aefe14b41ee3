package placement

import (
	"math"
	"math/rand"

	"github.com/solenne/mapforge/internal/terrain"
)

// Config holds the selector's spacing and scoring parameters, exposed so
// they can be tested and adjusted without digging through the algorithm.
type Config struct {
	MinDistance     float64 // minimum spacing to every existing location
	Margin          float64 // placement keeps this far inside the map edge
	MaxAttempts     int     // randomized draws before giving up on spacing
	CandidateJitter float64 // ±offset applied to an accepted candidate
	AcceptScore     float64 // bonus-adjusted score a candidate must exceed
}

// DefaultConfig returns the spacing constants used by the map editor.
func DefaultConfig() Config {
	return Config{
		MinDistance:     80,
		Margin:          50,
		MaxAttempts:     50,
		CandidateJitter: 20,
		AcceptScore:     50,
	}
}

// Selector picks placement coordinates. It is stateless apart from its
// injected random source; give each call chain its own source.
type Selector struct {
	cfg Config
	rng *rand.Rand
}

// NewSelector creates a selector with the given configuration and random
// source.
func NewSelector(cfg Config, rng *rand.Rand) *Selector {
	return &Selector{cfg: cfg, rng: rng}
}

// Select chooses a coordinate for one location of the given type. It never
// fails: when no candidate satisfies both the spacing and avoidance
// constraints it degrades to a random draw inside the margins. Placement
// quality is advisory, not a guarantee the caller can lean on.
func (s *Selector) Select(t LocationType, existing []PlacedLocation, analysis terrain.Analysis, bounds Bounds) Result {
	if analysis.Empty() {
		return s.randomPlacement(existing, bounds)
	}

	for _, cand := range analysis.Suitable {
		adjusted := cand.Score + typeBonus(t, cand.Score)

		x, y := float64(cand.X), float64(cand.Y)
		if s.tooClose(x, y, existing) || inAvoidRegion(x, y, analysis.Avoid) {
			continue
		}
		if adjusted <= s.cfg.AcceptScore {
			continue
		}

		// Nudge off the sampling grid, then clamp back inside the margins.
		x += (s.rng.Float64()*2 - 1) * s.cfg.CandidateJitter
		y += (s.rng.Float64()*2 - 1) * s.cfg.CandidateJitter
		return Result{
			X: clamp(x, s.cfg.Margin, bounds.Width-s.cfg.Margin),
			Y: clamp(y, s.cfg.Margin, bounds.Height-s.cfg.Margin),
		}
	}

	// Every candidate was rejected; exhausted search resolves to randomness.
	return s.randomDraw(bounds)
}

// randomPlacement tries up to MaxAttempts uniform draws that respect the
// spacing constraint, then tolerates a violation rather than failing.
func (s *Selector) randomPlacement(existing []PlacedLocation, bounds Bounds) Result {
	for i := 0; i < s.cfg.MaxAttempts; i++ {
		r := s.randomDraw(bounds)
		if !s.tooClose(r.X, r.Y, existing) {
			return r
		}
	}
	return s.randomDraw(bounds)
}

// randomDraw returns a uniform coordinate inside the margin-inset bounds.
func (s *Selector) randomDraw(bounds Bounds) Result {
	spanW := bounds.Width - 2*s.cfg.Margin
	if spanW < 0 {
		spanW = 0
	}
	spanH := bounds.Height - 2*s.cfg.Margin
	if spanH < 0 {
		spanH = 0
	}
	return Result{
		X: s.cfg.Margin + s.rng.Float64()*spanW,
		Y: s.cfg.Margin + s.rng.Float64()*spanH,
	}
}

func (s *Selector) tooClose(x, y float64, existing []PlacedLocation) bool {
	for _, loc := range existing {
		if math.Hypot(x-loc.X, y-loc.Y) < s.cfg.MinDistance {
			return true
		}
	}
	return false
}

func inAvoidRegion(x, y float64, avoid []terrain.AvoidRegion) bool {
	for _, region := range avoid {
		if math.Hypot(x-float64(region.X), y-float64(region.Y)) < region.Radius {
			return true
		}
	}
	return false
}

// typeBonus rewards terrain quality bands per location type. Landmarks want
// prime spots, resources are happy almost anywhere decent, shops prefer the
// mid-range so they do not crowd out landmarks.
func typeBonus(t LocationType, score float64) float64 {
	switch t {
	case TypeLandmark:
		if score > 80 {
			return 20
		}
	case TypeShop:
		if score > 60 && score < 90 {
			return 15
		}
	case TypeMission:
		if score > 70 {
			return 10
		}
	case TypeResource:
		if score > 50 {
			return 25
		}
	case TypeNPC:
		if score > 60 {
			return 15
		}
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
