package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solenne/mapforge/internal/placement"
)

func sampleDocument() Document {
	return New(
		Settings{Name: "borderlands", Width: 1200, Height: 800, Seed: 42, Theme: "frontier"},
		[]placement.PlacedLocation{
			{ID: "loc-1", Type: placement.TypeMission, Name: "Siege of Greyfen", X: 320, Y: 140},
			{ID: "loc-2", Type: placement.TypeShop, Name: "The Rusty Anvil", X: 510, Y: 655},
		},
	)
}

func TestNewDocument(t *testing.T) {
	doc := sampleDocument()

	assert.NotEmpty(t, doc.Metadata.MapID)
	assert.False(t, doc.Metadata.GeneratedAt.IsZero())
	assert.Equal(t, EngineVersion, doc.Metadata.Engine)
	assert.Equal(t, 2, doc.Metadata.LocationCount)
}

func TestDocumentSchema(t *testing.T) {
	data, err := sampleDocument().Marshal()
	require.NoError(t, err)

	// The editor consumes exactly {settings, locations, metadata}.
	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	assert.Contains(t, top, "settings")
	assert.Contains(t, top, "locations")
	assert.Contains(t, top, "metadata")
	assert.Len(t, top, 3)

	var locs []map[string]any
	require.NoError(t, json.Unmarshal(top["locations"], &locs))
	require.Len(t, locs, 2)
	assert.Equal(t, "mission", locs[0]["type"], "types serialize as wire names")
}

func TestNewDocumentEmptyLocations(t *testing.T) {
	doc := New(Settings{Name: "blank", Width: 100, Height: 100}, nil)

	data, err := doc.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"locations": []`,
		"empty batches export an empty array, not null")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")

	size, err := sampleDocument().WriteFile(path)
	require.NoError(t, err)
	assert.Greater(t, size, 0)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, size)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "borderlands", doc.Settings.Name)
	assert.Equal(t, placement.TypeShop, doc.Locations[1].Type)
}
