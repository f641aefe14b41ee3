package locgen

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solenne/mapforge/internal/entropy"
	"github.com/solenne/mapforge/internal/placement"
)

func TestGenerateBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Theme string `json:"theme"`
			Count int    `json:"count"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "frontier", req.Theme)
		assert.Equal(t, 2, req.Count)

		json.NewEncoder(w).Encode(map[string]any{
			"locations": []map[string]string{
				{"type": "mission", "name": "Raid on Greyfen", "description": "A border skirmish."},
				{"type": "shop", "name": "The Copper Kettle", "description": "Trail provisions."},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.SetBaseURL(srv.URL)

	batch, err := c.GenerateBatch("frontier", 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, placement.TypeMission, batch[0].Type)
	assert.Equal(t, "Raid on Greyfen", batch[0].Name)
	assert.Equal(t, placement.TypeShop, batch[1].Type)
}

func TestGenerateBatchRejectsUnknownType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"locations": []map[string]string{
				{"type": "volcano", "name": "Mount Doom"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.SetBaseURL(srv.URL)

	_, err := c.GenerateBatch("", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown location type")
}

func TestGenerateBatchServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.SetBaseURL(srv.URL)

	_, err := c.GenerateBatch("", 1)
	assert.Error(t, err)
}

func TestNilClientDisabled(t *testing.T) {
	c := NewClient("")
	assert.Nil(t, c)
	assert.False(t, c.Enabled())

	_, err := c.GenerateBatch("", 3)
	assert.Error(t, err)
}

func TestGenerateOffline(t *testing.T) {
	counts := map[placement.LocationType]int{
		placement.TypeMission:  2,
		placement.TypeLandmark: 1,
		placement.TypeResource: 3,
	}

	batch := GenerateOffline(entropy.NewSource(8), counts)
	require.Len(t, batch, 6)

	perType := make(map[placement.LocationType]int)
	names := make(map[string]bool)
	for _, req := range batch {
		assert.True(t, req.Type.Valid())
		assert.NotEmpty(t, req.Name)
		assert.NotEmpty(t, req.Description)
		perType[req.Type]++
		names[req.Name] = true
	}
	assert.Equal(t, counts, perType)
	assert.Len(t, names, 6, "offline names should not collide on small batches")
}

func TestGenerateOfflineDeterministic(t *testing.T) {
	counts := map[placement.LocationType]int{placement.TypeNPC: 4}

	first := GenerateOffline(entropy.NewSource(77), counts)
	second := GenerateOffline(entropy.NewSource(77), counts)
	assert.Equal(t, first, second)
}
