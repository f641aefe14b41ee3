package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solenne/mapforge/internal/entropy"
	"github.com/solenne/mapforge/internal/terrain"
)

func TestPlaceBatchAccumulates(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSelector(cfg, entropy.NewSource(12))

	reqs := []Request{
		{Type: TypeMission, Name: "Siege of Greyfen"},
		{Type: TypeLandmark, Name: "Ironspire"},
		{Type: TypeShop, Name: "The Rusty Anvil"},
	}
	placed, err := s.PlaceBatch(reqs, nil, flatAnalysis(130), testBounds())
	require.NoError(t, err)
	require.Len(t, placed, 3)

	// Each location carries its request metadata plus a fresh id.
	ids := make(map[string]bool)
	for i, loc := range placed {
		assert.Equal(t, reqs[i].Type, loc.Type)
		assert.Equal(t, reqs[i].Name, loc.Name)
		assert.NotEmpty(t, loc.ID)
		ids[loc.ID] = true
	}
	assert.Len(t, ids, 3, "ids must be unique")

	// Earlier placements constrain later ones.
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			d := dist(placed[i].X, placed[i].Y, placed[j].X, placed[j].Y)
			assert.GreaterOrEqual(t, d, cfg.MinDistance-2*cfg.CandidateJitter)
		}
	}
}

func TestPlaceBatchRespectsPreexisting(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSelector(cfg, entropy.NewSource(13))

	preexisting := []PlacedLocation{{ID: "keep", X: 600, Y: 400, Type: TypeLandmark}}
	placed, err := s.PlaceBatch(
		[]Request{{Type: TypeNPC, Name: "Old Marta"}},
		preexisting, flatAnalysis(130), testBounds(),
	)
	require.NoError(t, err)
	require.Len(t, placed, 1)

	d := dist(placed[0].X, placed[0].Y, 600, 400)
	assert.GreaterOrEqual(t, d, cfg.MinDistance-2*cfg.CandidateJitter)
}

func TestPlaceBatchRejectsInvalidType(t *testing.T) {
	s := NewSelector(DefaultConfig(), entropy.NewSource(14))

	_, err := s.PlaceBatch(
		[]Request{{Type: LocationType(99), Name: "bogus"}},
		nil, terrain.Analysis{}, testBounds(),
	)
	assert.Error(t, err)
}

func TestPlaceBatchDoesNotMutatePreexisting(t *testing.T) {
	s := NewSelector(DefaultConfig(), entropy.NewSource(15))

	preexisting := []PlacedLocation{{ID: "a", X: 100, Y: 100, Type: TypeShop}}
	original := preexisting[0]

	_, err := s.PlaceBatch(
		[]Request{{Type: TypeShop, Name: "The Gilded Flagon"}, {Type: TypeShop, Name: "The Last Lantern"}},
		preexisting, flatAnalysis(130), testBounds(),
	)
	require.NoError(t, err)

	assert.Equal(t, original, preexisting[0])
	assert.Len(t, preexisting, 1)
}

func TestLocationTypeRoundTrip(t *testing.T) {
	for _, name := range []string{"mission", "landmark", "shop", "npc", "resource"} {
		typ, err := ParseLocationType(name)
		require.NoError(t, err)
		assert.Equal(t, name, typ.String())
		assert.True(t, typ.Valid())
	}

	_, err := ParseLocationType("dungeon")
	assert.Error(t, err)
	assert.False(t, LocationType(200).Valid())
}
