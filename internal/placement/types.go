// Package placement picks coordinates for typed map locations, honoring
// terrain suitability, minimum spacing, and avoidance regions.
package placement

import (
	"encoding/json"
	"fmt"
)

// LocationType is the closed set of location kinds the editor places.
type LocationType uint8

const (
	TypeMission LocationType = iota
	TypeLandmark
	TypeShop
	TypeNPC
	TypeResource
)

var typeNames = [...]string{"mission", "landmark", "shop", "npc", "resource"}

// Valid reports whether t is a member of the closed enumeration.
func (t LocationType) Valid() bool {
	return int(t) < len(typeNames)
}

// String returns the wire name of the type.
func (t LocationType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("LocationType(%d)", uint8(t))
	}
	return typeNames[t]
}

// ParseLocationType resolves a wire name to a LocationType. Unknown names
// are a caller contract violation and are rejected here, at the boundary.
func ParseLocationType(s string) (LocationType, error) {
	for i, name := range typeNames {
		if s == name {
			return LocationType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown location type %q", s)
}

// MarshalJSON encodes the type as its wire name.
func (t LocationType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid location type %d", uint8(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a wire name into the type.
func (t *LocationType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLocationType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Request describes one location to place, as produced by a batch source.
// Only Type drives placement; Name and Description ride along as metadata.
type Request struct {
	Type        LocationType `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
}

// PlacedLocation is a point already committed to the map. Positions are
// read-only to the engine once created.
type PlacedLocation struct {
	ID          string       `json:"id"`
	Type        LocationType `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
}

// Bounds is the map extent locations are placed within.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Result is a chosen coordinate, always inside the bounds minus the margin.
type Result struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
