// Package export writes the flat map document the editor consumes:
// settings, placed locations, and generation metadata.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/solenne/mapforge/internal/placement"
)

// EngineVersion is stamped into exported documents.
const EngineVersion = "mapforge/0.3"

// Settings captures the map parameters the locations were placed against.
type Settings struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Seed   int64   `json:"seed"`
	Theme  string  `json:"theme,omitempty"`
}

// Metadata describes how and when the document was produced.
type Metadata struct {
	MapID         string    `json:"map_id"`
	GeneratedAt   time.Time `json:"generated_at"`
	Engine        string    `json:"engine"`
	LocationCount int       `json:"location_count"`
}

// Document is the complete export schema.
type Document struct {
	Settings  Settings                   `json:"settings"`
	Locations []placement.PlacedLocation `json:"locations"`
	Metadata  Metadata                   `json:"metadata"`
}

// New assembles a document for the given settings and locations, assigning
// a fresh map id and timestamp.
func New(settings Settings, locations []placement.PlacedLocation) Document {
	if locations == nil {
		locations = []placement.PlacedLocation{}
	}
	return Document{
		Settings:  settings,
		Locations: locations,
		Metadata: Metadata{
			MapID:         uuid.NewString(),
			GeneratedAt:   time.Now().UTC(),
			Engine:        EngineVersion,
			LocationCount: len(locations),
		},
	}
}

// Marshal renders the document as indented JSON.
func (d Document) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// WriteFile writes the document to path, returning the byte count written.
func (d Document) WriteFile(path string) (int, error) {
	data, err := d.Marshal()
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("write document: %w", err)
	}
	return len(data), nil
}
